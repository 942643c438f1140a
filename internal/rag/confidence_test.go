package rag

import (
	"math"
	"strings"
	"testing"

	"policyqa/internal/indexer"
)

const aesText = "Data is encrypted at rest using AES-256. Backups run nightly."

func TestConfidenceEstimator_ShortCircuits(t *testing.T) {
	chunk := &indexer.Chunk{Text: aesText, Page: 1}

	tests := []struct {
		name      string
		chunk     *indexer.Chunk
		hasChunks bool
		want      string
	}{
		{name: "no chunks", chunk: nil, hasChunks: false, want: "no chunks"},
		{name: "no chunks ignores chunk", chunk: chunk, hasChunks: false, want: "no chunks"},
		{name: "no match", chunk: nil, hasChunks: true, want: "no match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceEstimator{}.Score("Do you encrypt data at rest?", tt.chunk, tt.hasChunks, nil)
			if got.Score != 0 || got.Reasoning != tt.want || got.Factors != nil {
				t.Errorf("Score() = %+v, want (0, %q, nil factors)", got, tt.want)
			}
		})
	}
}

func TestConfidenceEstimator_Score(t *testing.T) {
	chunk := &indexer.Chunk{Text: aesText, Page: 1}
	got := ConfidenceEstimator{}.Score("Do you encrypt data at rest?", chunk, true, nil)

	// 0.25*1 + 0.20*(61/800) + 0.20*(3/5) + 0.20*(61/200) + 0.15*0.5 = 0.52125
	if got.Score != 52.1 {
		t.Errorf("Score = %v, want 52.1", got.Score)
	}
	wantReasoning := "high keyword relevance | low context richness | moderate security relevance | moderate completeness | moderate consistency"
	if got.Reasoning != wantReasoning {
		t.Errorf("Reasoning = %q, want %q", got.Reasoning, wantReasoning)
	}
	if got.Factors == nil || got.Factors.KeywordRelevance != 1 || got.Factors.Consistency != 0.5 {
		t.Errorf("Factors = %+v", got.Factors)
	}

	again := ConfidenceEstimator{}.Score("Do you encrypt data at rest?", chunk, true, nil)
	if again.Score != got.Score || again.Reasoning != got.Reasoning {
		t.Error("Score() is not deterministic")
	}
}

func TestConfidenceEstimator_Bounds(t *testing.T) {
	rich := strings.Repeat("Encryption, access control, audit logging, incident response, backup and disaster recovery. ", 20)

	tests := []struct {
		name     string
		question string
		text     string
	}{
		{name: "rich chunk", question: "How do you handle encryption and access control?", text: rich},
		{name: "one character", question: "Weather?", text: "x"},
		{name: "unrelated", question: "What is the capital of France?", text: "Lunch is served at noon."},
		{name: "stop word question", question: "is it?", text: "It is."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceEstimator{}.Score(tt.question, &indexer.Chunk{Text: tt.text, Page: 1}, true, nil)
			if got.Score <= 0 || got.Score > 100 {
				t.Errorf("Score = %v, want in (0, 100]", got.Score)
			}
			if got.Score != math.Round(got.Score*10)/10 {
				t.Errorf("Score = %v, want one decimal place", got.Score)
			}
			f := got.Factors
			for _, v := range []float64{f.KeywordRelevance, f.ContextRichness, f.SecurityRelevance, f.Completeness, f.Consistency} {
				if v < 0 || v > 1 {
					t.Errorf("factor %v out of [0,1]: %+v", v, f)
				}
			}
		})
	}
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		question string
		length   float64
		want     float64
	}{
		{name: "open question", question: "How are backups tested?", length: 250, want: 0.5},
		{name: "describe", question: "Describe the incident process", length: 1000, want: 1},
		{name: "yes/no question", question: "Do you use MFA?", length: 100, want: 0.5},
		{name: "open wins over yes/no", question: "What do you do?", length: 250, want: 0.5},
		{name: "other", question: "Password rotation period", length: 150, want: 0.5},
		{name: "word match not substring", question: "Isolation of networks", length: 150, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completeness(tt.question, tt.length); got != tt.want {
				t.Errorf("completeness(%q, %v) = %v, want %v", tt.question, tt.length, got, tt.want)
			}
		})
	}
}

func TestConsistency(t *testing.T) {
	keywords := extractKeywords("Do you encrypt data at rest?")

	tests := []struct {
		name    string
		history []AnswerRecord
		page    int
		want    float64
	}{
		{name: "empty history", history: nil, page: 1, want: 0.5},
		{
			name:    "no similar questions",
			history: []AnswerRecord{{Question: "Who is the DPO?", Page: 3}},
			page:    1,
			want:    0.5,
		},
		{
			name:    "similar question cited same page",
			history: []AnswerRecord{{Question: "Is data encrypted at rest?", Page: 1}},
			page:    1,
			want:    1,
		},
		{
			name: "mixed pages",
			history: []AnswerRecord{
				{Question: "Is data encrypted at rest?", Page: 1},
				{Question: "How do you encrypt stored data?", Page: 4},
				{Question: "Where is data at rest?", Page: 0},
				{Question: "Who is the DPO?", Page: 1},
			},
			page: 1,
			want: 1.0 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := consistency(keywords, tt.page, tt.history); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("consistency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{v: 0, want: "low"},
		{v: 0.3, want: "low"},
		{v: 0.31, want: "moderate"},
		{v: 0.7, want: "moderate"},
		{v: 0.71, want: "high"},
		{v: 1, want: "high"},
	}
	for _, tt := range tests {
		if got := level(tt.v); got != tt.want {
			t.Errorf("level(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
