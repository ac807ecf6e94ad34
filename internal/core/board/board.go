// Package board contains the pure merge logic for forum sub-documents: a
// region of ledger text holding thread tokens, each optionally followed by
// reply and nested-reply tokens. This is part of the Functional Core - no
// I/O, only pure functions.
//
// The sub-document lives in a pinned ledger slot that the external
// generator regenerates wholesale. Merging is therefore asymmetric:
// existing content is authoritative for thread identity and body, and
// incoming content can only add threads and replies, never overwrite.
package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/quill/internal/core/markup"
	"github.com/example/quill/internal/core/tally"
)

// replySigPrefixLen bounds how much of a reply body participates in its
// dedup signature. Regenerations of the same reply differ in trailing
// characters (truncation, added punctuation), so equality on a short
// prefix is the dedup criterion, not full-string equality.
const replySigPrefixLen = 8

// Reply is one reply within a thread. Children holds nested replies in
// attach order; nesting is one level deep, matching the token syntax.
type Reply struct {
	ID        string
	ThreadID  string
	Author    string
	Body      string
	ParentRef string
	Timestamp time.Time
	Children  []*Reply
}

// Thread is one top-level conversation. LatestActivity is a derived field:
// it is recomputed at every merge and never trusted from serialized input,
// because the ledger text is the only durable truth.
type Thread struct {
	ID             string
	Author         string
	Title          string
	Body           string
	LatestActivity time.Time
	Replies        []*Reply

	replySigs map[string]struct{}
}

// Document is the parsed form of one sub-document.
type Document struct {
	// Threads in display order (after a merge: most recent activity
	// first; after a plain parse: source order).
	Threads []*Thread

	byID map[string]*Thread

	// Replies whose thread token was absent from the parsed text, keyed
	// by thread id. Incoming text may legitimately carry only a reply to
	// a thread that exists on the other side of the merge.
	orphanReplies map[string][]*Reply

	orphanNested map[string][]*Reply
}

// Thread returns the thread with the given id, or nil.
func (d *Document) Thread(id string) *Thread {
	return d.byID[id]
}

func replySignature(author, body string) string {
	runes := []rune(body)
	if len(runes) > replySigPrefixLen {
		runes = runes[:replySigPrefixLen]
	}
	return tally.Signature(author, string(runes))
}

func (t *Thread) knownReply(author, body string) bool {
	_, ok := t.replySigs[replySignature(author, body)]
	return ok
}

func (t *Thread) rememberReply(author, body string) {
	if t.replySigs == nil {
		t.replySigs = make(map[string]struct{})
	}
	t.replySigs[replySignature(author, body)] = struct{}{}
}

// findParent returns the reply in t authored by parentRef, or nil.
func (t *Thread) findParent(parentRef string) *Reply {
	if parentRef == "" {
		return nil
	}
	for _, r := range t.Replies {
		if r.Author == parentRef {
			return r
		}
	}
	return nil
}

// Parse extracts a sub-document from ledger text. Thread order follows
// source order; replies attach to their thread by id, nested replies to
// the reply whose author matches their parent reference. Replies without
// a thread token on this side are retained as orphans so a later merge
// can still attach them. Parse never fails on malformed tokens; it only
// fails when the built-in board formats are missing from the registry.
func Parse(text string, reg *markup.Registry) (*Document, error) {
	threadRecs, err := reg.Extract(text, markup.FormatThread)
	if err != nil {
		return nil, fmt.Errorf("failed to extract threads: %w", err)
	}
	replyRecs, err := reg.Extract(text, markup.FormatReply)
	if err != nil {
		return nil, fmt.Errorf("failed to extract replies: %w", err)
	}
	nestedRecs, err := reg.Extract(text, markup.FormatSubReply)
	if err != nil {
		return nil, fmt.Errorf("failed to extract nested replies: %w", err)
	}

	doc := &Document{
		byID:          make(map[string]*Thread),
		orphanReplies: make(map[string][]*Reply),
		orphanNested:  make(map[string][]*Reply),
	}

	for _, rec := range threadRecs {
		id := rec.Field(markup.FieldThreadID)
		if id == "" || doc.byID[id] != nil {
			// No identity, or a duplicate token from a sloppy
			// regeneration: first occurrence wins.
			continue
		}
		t := &Thread{
			ID:     id,
			Author: rec.Field(markup.FieldAuthor),
			Title:  rec.Field(markup.FieldTitle),
			Body:   rec.Field(markup.FieldContent),
		}
		doc.Threads = append(doc.Threads, t)
		doc.byID[id] = t
	}

	for _, rec := range replyRecs {
		r := &Reply{
			ID:       rec.Field(markup.FieldReplyID),
			ThreadID: rec.Field(markup.FieldThreadID),
			Author:   rec.Field(markup.FieldAuthor),
			Body:     rec.Field(markup.FieldContent),
		}
		t := doc.byID[r.ThreadID]
		if t == nil {
			doc.orphanReplies[r.ThreadID] = append(doc.orphanReplies[r.ThreadID], r)
			continue
		}
		if t.knownReply(r.Author, r.Body) {
			continue
		}
		t.Replies = append(t.Replies, r)
		t.rememberReply(r.Author, r.Body)
	}

	for _, rec := range nestedRecs {
		r := &Reply{
			ThreadID:  rec.Field(markup.FieldThreadID),
			ParentRef: rec.Field(markup.FieldParentRef),
			Author:    rec.Field(markup.FieldAuthor),
			Body:      rec.Field(markup.FieldContent),
		}
		t := doc.byID[r.ThreadID]
		if t == nil {
			doc.orphanNested[r.ThreadID] = append(doc.orphanNested[r.ThreadID], r)
			continue
		}
		attachNested(t, r)
	}

	return doc, nil
}

// attachNested places a nested reply under its parent, degrading to a
// top-level reply when the declared parent is not present. Nested tokens
// are never dropped.
func attachNested(t *Thread, r *Reply) {
	if t.knownReply(r.Author, r.Body) {
		return
	}
	if parent := t.findParent(r.ParentRef); parent != nil {
		parent.Children = append(parent.Children, r)
	} else {
		r.ParentRef = ""
		t.Replies = append(t.Replies, r)
	}
	t.rememberReply(r.Author, r.Body)
}

// Merge folds incoming into existing and returns the merged document.
// Existing thread bodies always win over incoming ones with the same id;
// incoming contributions are limited to brand-new threads and unseen
// replies, each stamped with now. LatestActivity is recomputed so that
// serialization orders threads by most recent activity. Merging the same
// incoming document twice is idempotent: the second pass adds nothing.
//
// Merge mutates existing in place and returns it.
func Merge(existing, incoming *Document, now time.Time) *Document {
	for _, in := range incoming.Threads {
		t := existing.byID[in.ID]
		if t == nil {
			t = &Thread{
				ID:             in.ID,
				Author:         in.Author,
				Title:          in.Title,
				Body:           in.Body,
				LatestActivity: now,
			}
			existing.Threads = append(existing.Threads, t)
			existing.byID[in.ID] = t
		}
		// Thread's own fields are settled; only replies merge below.
		mergeReplies(t, in.Replies, now)
	}

	// Incoming replies whose thread token was absent from the incoming
	// text still merge into an existing thread of that id.
	for threadID, orphans := range incoming.orphanReplies {
		if t := existing.byID[threadID]; t != nil {
			mergeReplies(t, orphans, now)
		}
	}
	for threadID, orphans := range incoming.orphanNested {
		if t := existing.byID[threadID]; t != nil {
			for _, r := range orphans {
				if !t.knownReply(r.Author, r.Body) {
					r.Timestamp = now
					attachNested(t, r)
					t.LatestActivity = now
				}
			}
		}
	}

	sortByActivity(existing.Threads)
	return existing
}

func mergeReplies(t *Thread, incoming []*Reply, now time.Time) {
	for _, in := range incoming {
		if t.knownReply(in.Author, in.Body) {
			continue
		}
		in.Timestamp = now
		t.LatestActivity = now
		if in.ParentRef != "" || len(in.Children) > 0 {
			// Came in as a nested subtree; flatten children through
			// the same dedup path.
			children := in.Children
			in.Children = nil
			attachNested(t, in)
			for _, c := range children {
				c.Timestamp = now
				attachNested(t, c)
			}
			continue
		}
		t.Replies = append(t.Replies, in)
		t.rememberReply(in.Author, in.Body)
	}
}

// sortByActivity orders threads most-recently-active first. The sort is
// stable so that threads untouched by a merge keep their relative order.
func sortByActivity(threads []*Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LatestActivity.After(threads[j].LatestActivity)
	})
}

// Serialize renders the document back to ledger syntax: one token per
// line, each thread followed by its replies in append order, nested
// replies inline after their parent.
func Serialize(doc *Document) string {
	var b strings.Builder
	for _, t := range doc.Threads {
		fmt.Fprintf(&b, "[主题|%s|%s|%s|%s]\n", t.ID, t.Author, t.Title, t.Body)
		for _, r := range t.Replies {
			fmt.Fprintf(&b, "[回复|%s|%s|%s|%s]\n", t.ID, r.ID, r.Author, r.Body)
			for _, c := range r.Children {
				fmt.Fprintf(&b, "[楼中楼|%s|%s|%s|%s]\n", t.ID, r.Author, c.Author, c.Body)
			}
		}
	}
	return b.String()
}

// MergeSerialized is the string-level entry point: parse both sides,
// merge, and re-serialize. Existing content wins on conflicts, per Merge.
func MergeSerialized(existingText, incomingText string, reg *markup.Registry, now time.Time) (string, error) {
	existing, err := Parse(existingText, reg)
	if err != nil {
		return "", fmt.Errorf("failed to parse existing sub-document: %w", err)
	}
	incoming, err := Parse(incomingText, reg)
	if err != nil {
		return "", fmt.Errorf("failed to parse incoming sub-document: %w", err)
	}
	return Serialize(Merge(existing, incoming, now)), nil
}
