package markup

import (
	"errors"
	"testing"
)

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name       string
		formatName string
		pattern    string
		fields     []string
		wantReason bool
	}{
		{
			name:       "valid format",
			formatName: "custom",
			pattern:    `\[x\|([^|\]]*)\|([^\]]*)\]`,
			fields:     []string{"a", "b"},
			wantReason: false,
		},
		{
			name:       "field count below capture groups",
			formatName: "short",
			pattern:    `\[x\|([^|\]]*)\|([^\]]*)\]`,
			fields:     []string{"a"},
			wantReason: true,
		},
		{
			name:       "field count above capture groups",
			formatName: "long",
			pattern:    `\[x\|([^\]]*)\]`,
			fields:     []string{"a", "b"},
			wantReason: true,
		},
		{
			name:       "pattern does not compile",
			formatName: "broken",
			pattern:    `\[x\|([^\]]*\]`,
			fields:     []string{"a"},
			wantReason: true,
		},
		{
			name:       "empty name",
			formatName: "",
			pattern:    `\[x\|([^\]]*)\]`,
			fields:     []string{"a"},
			wantReason: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.formatName, tt.pattern, tt.fields)

			if !tt.wantReason {
				if err != nil {
					t.Fatalf("Register() error = %v, want nil", err)
				}
				return
			}

			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Register() error = %v, want *FormatError", err)
			}
		})
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("dup", `\[d\|([^\]]*)\]`, []string{"a"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	err := r.Register("dup", `\[d\|([^\]]*)\]`, []string{"a"})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("second Register() error = %v, want *FormatError", err)
	}
}

func TestExtractUnknownFormat(t *testing.T) {
	r := NewRegistry()
	_, err := r.Extract("[评论|bob|42|hi]", "no-such-format")

	var ue *UnknownFormatError
	if !errors.As(err, &ue) {
		t.Fatalf("Extract() error = %v, want *UnknownFormatError", err)
	}
}

func TestExtractSingleComment(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("myComment", `\[评论\|([^|]+)\|([^|]+)\|([^\]]+)\]`, []string{"author", "postId", "body"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	records, err := r.Extract("[评论|bob|42|hi]", "myComment")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(records))
	}

	rec := records[0]
	if got := rec.Field("author"); got != "bob" {
		t.Errorf("author = %q, want %q", got, "bob")
	}
	if got := rec.Field("postId"); got != "42" {
		t.Errorf("postId = %q, want %q", got, "42")
	}
	if got := rec.Field("body"); got != "hi" {
		t.Errorf("body = %q, want %q", got, "hi")
	}
	if rec.SourceOffset != 0 {
		t.Errorf("SourceOffset = %d, want 0", rec.SourceOffset)
	}
}

func TestExtractEmptyText(t *testing.T) {
	r := NewRegistry()
	records, err := r.Extract("", FormatDanmaku)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Extract() returned %d records, want 0", len(records))
	}
}

func TestExtractOrderFollowsSourceOffset(t *testing.T) {
	text := "narration [弹幕|ann|first] more prose [弹幕|bob|second] tail [弹幕|cyn|third]"

	r := NewRegistry()
	records, err := r.Extract(text, FormatDanmaku)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Extract() returned %d records, want 3", len(records))
	}

	wantContent := []string{"first", "second", "third"}
	for i, rec := range records {
		if rec.Field(FieldContent) != wantContent[i] {
			t.Errorf("records[%d].content = %q, want %q", i, rec.Field(FieldContent), wantContent[i])
		}
		if i > 0 && records[i-1].SourceOffset >= rec.SourceOffset {
			t.Errorf("records[%d].SourceOffset = %d not above records[%d].SourceOffset = %d",
				i, rec.SourceOffset, i-1, records[i-1].SourceOffset)
		}
	}
}

func TestExtractInterleavedFormats(t *testing.T) {
	text := "[弹幕|ann|hello][礼物|bob|flower|3][弹幕|cyn|hi]"
	r := NewRegistry()

	danmaku, err := r.Extract(text, FormatDanmaku)
	if err != nil {
		t.Fatalf("Extract(danmaku) error = %v", err)
	}
	if len(danmaku) != 2 {
		t.Fatalf("danmaku records = %d, want 2", len(danmaku))
	}

	gifts, err := r.Extract(text, FormatGift)
	if err != nil {
		t.Fatalf("Extract(gift) error = %v", err)
	}
	if len(gifts) != 1 {
		t.Fatalf("gift records = %d, want 1", len(gifts))
	}
	if gifts[0].Field(FieldCount) != "3" {
		t.Errorf("gift count = %q, want %q", gifts[0].Field(FieldCount), "3")
	}
}

func TestExtractEmptyFieldsStayEmpty(t *testing.T) {
	// A token emitted mid-generation can carry empty fields; they must
	// come through as "" rather than failing the whole pass.
	r := NewRegistry()
	records, err := r.Extract("[评论||chat|]", FormatComment)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Extract() returned %d records, want 1", len(records))
	}
	if got := records[0].Field(FieldAuthor); got != "" {
		t.Errorf("author = %q, want empty", got)
	}
	if got := records[0].Field(FieldContent); got != "" {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestFieldMissingName(t *testing.T) {
	rec := Record{Fields: map[string]string{"author": "ann"}}
	if got := rec.Field("content"); got != "" {
		t.Errorf("Field(missing) = %q, want empty", got)
	}
}

func TestBuiltinFormatsRegistered(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{
		FormatComment, FormatDanmaku, FormatGift, FormatHotSearch,
		FormatViewers, FormatCaption, FormatThread, FormatReply, FormatSubReply,
	} {
		if _, err := r.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) error = %v, want nil", name, err)
		}
	}
}
