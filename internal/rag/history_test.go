package rag

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewHistory_DefaultLimit(t *testing.T) {
	for _, limit := range []int{0, -5} {
		if h := NewHistory(limit); h.limit != DefaultHistoryLimit {
			t.Errorf("NewHistory(%d).limit = %d, want %d", limit, h.limit, DefaultHistoryLimit)
		}
	}
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	h := NewHistory(DefaultHistoryLimit)
	for i := 0; i < 60; i++ {
		h.Append(AnswerRecord{ID: fmt.Sprintf("r%d", i)})
		if h.Len() > DefaultHistoryLimit {
			t.Fatalf("Len() = %d after %d appends, want <= %d", h.Len(), i+1, DefaultHistoryLimit)
		}
	}

	records := h.Records()
	if len(records) != DefaultHistoryLimit {
		t.Fatalf("len(Records()) = %d, want %d", len(records), DefaultHistoryLimit)
	}
	for i, rec := range records {
		if want := fmt.Sprintf("r%d", i+10); rec.ID != want {
			t.Errorf("records[%d].ID = %s, want %s", i, rec.ID, want)
		}
	}
}

func TestHistory_RecordsIsACopy(t *testing.T) {
	h := NewHistory(3)
	h.Append(AnswerRecord{ID: "a"})

	records := h.Records()
	records[0].ID = "changed"

	if got := h.Records()[0].ID; got != "a" {
		t.Errorf("history was modified through Records(): got %s", got)
	}
}

func TestHistory_ForDocument(t *testing.T) {
	h := NewHistory(10)
	h.Append(AnswerRecord{ID: "1", DocumentID: "doc-a"})
	h.Append(AnswerRecord{ID: "2", DocumentID: "doc-b"})
	h.Append(AnswerRecord{ID: "3", DocumentID: "doc-a"})

	got := h.ForDocument("doc-a")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("ForDocument(doc-a) = %+v, want records 1 and 3", got)
	}
	if got := h.ForDocument("missing"); len(got) != 0 {
		t.Errorf("ForDocument(missing) = %+v, want none", got)
	}
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := NewHistory(DefaultHistoryLimit)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				h.Append(AnswerRecord{ID: fmt.Sprintf("%d-%d", g, i)})
				if n := len(h.Records()); n > DefaultHistoryLimit {
					t.Errorf("observed %d records", n)
				}
			}
		}(g)
	}
	wg.Wait()

	if h.Len() != DefaultHistoryLimit {
		t.Errorf("Len() = %d, want %d", h.Len(), DefaultHistoryLimit)
	}
}
