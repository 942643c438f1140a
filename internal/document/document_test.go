package document

import (
	"errors"
	"testing"
)

func TestParse_Unreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "not a pdf", data: []byte("hello, this is plain text and not a PDF file")},
		{name: "truncated header", data: []byte("%PDF-1.4\n%")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("policy.pdf", tt.data)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !errors.Is(err, ErrUnreadable) {
				t.Errorf("Parse() error = %v, want ErrUnreadable", err)
			}
			if doc != nil {
				t.Errorf("Parse() doc = %+v, want nil", doc)
			}
		})
	}
}

func TestFromPages(t *testing.T) {
	doc := FromPages("policy.pdf", "first page", "", "third page")

	if len(doc.Pages) != 3 {
		t.Fatalf("FromPages() pages = %d, want 3", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d Number = %d, want %d", i, p.Number, i+1)
		}
	}
	if doc.TextPages() != 2 {
		t.Errorf("TextPages() = %d, want 2", doc.TextPages())
	}
	if doc.Hash == "" {
		t.Error("FromPages() hash should not be empty")
	}
}

func TestFromPages_HashDistinguishesPageBoundaries(t *testing.T) {
	a := FromPages("a.pdf", "ab", "c")
	b := FromPages("b.pdf", "a", "bc")
	if a.Hash == b.Hash {
		t.Error("documents with different page splits should hash differently")
	}

	c := FromPages("c.pdf", "ab", "c")
	if a.Hash != c.Hash {
		t.Error("identical page texts should hash identically regardless of name")
	}
}
