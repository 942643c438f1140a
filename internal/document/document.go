// Package document extracts per-page plain text from PDF files.
package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when the bytes cannot be decoded as a PDF.
var ErrUnreadable = errors.New("document unreadable")

// Page holds the raw extracted text of one PDF page.
type Page struct {
	Number int    // 1-based page number
	Text   string // Extracted text, possibly empty
}

// Document is a decoded PDF reduced to its page texts.
type Document struct {
	Name  string
	Hash  string // SHA256 hex of the source bytes
	Pages []Page
}

// TextPages returns the number of pages that carry any non-whitespace text.
func (d *Document) TextPages() int {
	n := 0
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			n++
		}
	}
	return n
}

// Parse decodes PDF bytes into a Document.
// Pages whose text cannot be extracted are kept with empty text so page numbering stays intact.
func Parse(name string, data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnreadable)
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	hash := sha256.Sum256(data)
	doc = &Document{
		Name: name,
		Hash: hex.EncodeToString(hash[:]),
	}

	numPages := reader.NumPage()
	doc.Pages = make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("failed to extract page text", "document", name, "page", i, "error", err)
			text = ""
		}
		doc.Pages = append(doc.Pages, Page{Number: i, Text: text})
	}

	return doc, nil
}

// FromPages builds a Document from already-extracted page texts, numbered from 1.
// It is used by callers that obtain text without a PDF (tests, plain-text fixtures).
func FromPages(name string, texts ...string) *Document {
	h := sha256.New()
	pages := make([]Page, len(texts))
	for i, text := range texts {
		pages[i] = Page{Number: i + 1, Text: text}
		h.Write([]byte(text))
		h.Write([]byte{0})
	}
	return &Document{
		Name:  name,
		Hash:  hex.EncodeToString(h.Sum(nil)),
		Pages: pages,
	}
}

// PDFParser parses uploads with Parse.
type PDFParser struct{}

// Parse implements the parser interface expected by the service layer.
func (PDFParser) Parse(name string, data []byte) (*Document, error) {
	return Parse(name, data)
}
