package rag

import (
	"sync"
	"time"
)

// DefaultHistoryLimit is how many answers are retained.
const DefaultHistoryLimit = 50

// AnswerRecord is one answered question. Records are never modified after they are appended.
type AnswerRecord struct {
	ID             string `json:"id"`
	DocumentID     string `json:"document_id,omitempty"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	SourceCitation string `json:"source_citation"`
	// Page is the cited page, or 0 when nothing was cited.
	Page       int       `json:"page,omitempty"`
	Confidence float64   `json:"confidence"`
	Reasoning  string    `json:"reasoning"`
	Timestamp  time.Time `json:"timestamp"`
}

// History is a bounded, append-only log of answers. When full, appending evicts the oldest record
// in the same critical section, so readers never observe more than the limit.
type History struct {
	mu      sync.RWMutex
	limit   int
	records []AnswerRecord
}

// NewHistory creates a history holding at most limit records.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, records: make([]AnswerRecord, 0, limit)}
}

// Append adds rec, evicting the oldest record if the history is full.
func (h *History) Append(rec AnswerRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) < h.limit {
		h.records = append(h.records, rec)
		return
	}
	copy(h.records, h.records[1:])
	h.records[len(h.records)-1] = rec
}

// Records returns a copy of the retained records, oldest first.
func (h *History) Records() []AnswerRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]AnswerRecord, len(h.records))
	copy(out, h.records)
	return out
}

// ForDocument returns the retained records for one document session, oldest first.
func (h *History) ForDocument(documentID string) []AnswerRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []AnswerRecord
	for _, rec := range h.records {
		if rec.DocumentID == documentID {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of retained records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
