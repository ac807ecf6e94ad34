// Package markup contains the pure tokenization logic for embedded ledger
// markup. This is part of the Functional Core - no I/O, only pure functions.
//
// A ledger token is a single-line, bracket-delimited record of the form
// [kind|field1|field2|...]. Fields are captured as "anything up to the next
// | or ]"; the format has no escaping for those delimiters, so a field value
// must not contain them. That limitation is inherited from already-produced
// ledger content and must not be changed, since escaping would move record
// boundaries for existing text.
package markup

import (
	"fmt"
	"regexp"
)

// Format describes one registered token schema: a flat regular expression
// whose capture groups map, in order, onto the named fields.
type Format struct {
	Name    string
	Pattern string
	Fields  []string

	compiled *regexp.Regexp
}

// Record is the structured result of extracting one token. Records are
// ephemeral: the ledger is re-parsed in full on every pass, so a Record is
// recomputed each time and identified across passes only by its signature.
type Record struct {
	Kind         string
	FullMatch    string
	SourceOffset int
	Fields       map[string]string
}

// Field returns the named field value, or "" if the field is absent.
// Partially generated tokens routinely miss trailing fields; treating them
// as empty keeps a half-written token from halting a parse pass.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// FormatError reports an invalid format registration.
type FormatError struct {
	Name   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format %q: %s", e.Name, e.Reason)
}

// UnknownFormatError reports extraction against an unregistered format name.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q", e.Name)
}

// Registry holds named formats. Formats are immutable once registered;
// the registry only grows (custom formats are appended at runtime, never
// removed).
type Registry struct {
	formats map[string]*Format
}

// NewRegistry creates a registry pre-loaded with the built-in formats.
func NewRegistry() *Registry {
	r := &Registry{formats: make(map[string]*Format)}
	for _, f := range builtinFormats {
		// Built-in patterns are fixed strings; a registration failure
		// here is a programming error, not a runtime condition.
		if err := r.Register(f.name, f.pattern, f.fields); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a named format. It returns a *FormatError when the pattern
// does not compile or when its capture-group count does not match the field
// list. Re-registering an existing name is rejected: formats are immutable.
func (r *Registry) Register(name, pattern string, fields []string) error {
	if name == "" {
		return &FormatError{Name: name, Reason: "empty format name"}
	}
	if _, exists := r.formats[name]; exists {
		return &FormatError{Name: name, Reason: "already registered"}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return &FormatError{Name: name, Reason: fmt.Sprintf("pattern does not compile: %v", err)}
	}
	if re.NumSubexp() != len(fields) {
		return &FormatError{
			Name:   name,
			Reason: fmt.Sprintf("pattern has %d capture groups but %d fields declared", re.NumSubexp(), len(fields)),
		}
	}

	r.formats[name] = &Format{
		Name:     name,
		Pattern:  pattern,
		Fields:   append([]string(nil), fields...),
		compiled: re,
	}
	return nil
}

// Lookup returns the named format, or a *UnknownFormatError.
func (r *Registry) Lookup(name string) (*Format, error) {
	f, ok := r.formats[name]
	if !ok {
		return nil, &UnknownFormatError{Name: name}
	}
	return f, nil
}

// Names returns all registered format names (unordered).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	return names
}

// Extract tokenizes text against the named format. Matching is global,
// non-overlapping, leftmost-first; returned records are ordered by byte
// offset ascending, which is the ledger's narrative order. Zero matches
// yield an empty slice, not an error. Extraction is pure: identical
// (text, name) inputs always produce identical output.
func (r *Registry) Extract(text, name string) ([]Record, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.extract(text), nil
}

func (f *Format) extract(text string) []Record {
	matches := f.compiled.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Record{}
	}

	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		fields := make(map[string]string, len(f.Fields))
		for i, fieldName := range f.Fields {
			start, end := m[2*(i+1)], m[2*(i+1)+1]
			if start < 0 {
				// Unparticipating group: half-written token. Empty,
				// not an error.
				fields[fieldName] = ""
				continue
			}
			fields[fieldName] = text[start:end]
		}
		records = append(records, Record{
			Kind:         f.Name,
			FullMatch:    text[m[0]:m[1]],
			SourceOffset: m[0],
			Fields:       fields,
		})
	}
	return records
}
