package rag

import (
	"time"

	"policyqa/internal/indexer"
)

// Fixed answers for questions that cannot be matched to a chunk.
const (
	NoMatchAnswer   = "no relevant information found"
	NoMatchCitation = "no source found"
)

// Outcome is the terminal state of one query.
type Outcome string

// Query states. A query moves NoDocument → Chunking → Ranking → Synthesizing → Done,
// or ends in NoMatch when ranking selects nothing.
const (
	OutcomeNoDocument   Outcome = "no_document"
	OutcomeChunking     Outcome = "chunking"
	OutcomeRanking      Outcome = "ranking"
	OutcomeSynthesizing Outcome = "synthesizing"
	OutcomeDone         Outcome = "done"
	OutcomeNoMatch      Outcome = "no_match"
)

// Ranking methods reported in debug output.
const (
	RankingProvider = "provider"
	RankingLexical  = "lexical"
)

// AskRequest represents a question against the loaded document.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// Debug enables debug mode, returning factor and ranking details.
	Debug bool `json:"debug,omitempty"`
}

// AskResponse represents the answer to one question.
type AskResponse struct {
	// Answer is the synthesized answer, the context excerpt, or NoMatchAnswer.
	Answer string `json:"answer"`
	// Source is "Page N" or NoMatchCitation.
	Source string `json:"source"`
	// Page is the cited page, or 0 when nothing was cited.
	Page int `json:"page,omitempty"`
	// Confidence is in [0,100], one decimal place.
	Confidence float64 `json:"confidence"`
	// Reasoning explains the confidence score.
	Reasoning string `json:"reasoning"`
	// RecordID identifies the history record for this answer.
	RecordID string `json:"record_id"`
	// Debug contains ranking and scoring details when debug mode is enabled.
	Debug *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo describes how an answer was produced.
type DebugInfo struct {
	Outcome Outcome `json:"outcome"`
	// RankingMethod is RankingProvider or RankingLexical; empty when ranking did not run.
	RankingMethod string `json:"ranking_method,omitempty"`
	// RankingProvider is the provider that chose the chunk.
	RankingProvider string `json:"ranking_provider,omitempty"`
	// LexicalScore is set when the lexical ranker chose the chunk.
	LexicalScore float64 `json:"lexical_score,omitempty"`
	// SynthesisProvider is the provider that wrote the answer; empty for excerpts.
	SynthesisProvider string `json:"synthesis_provider,omitempty"`
	// ExcerptFallback reports that the answer is raw document text.
	ExcerptFallback bool               `json:"excerpt_fallback"`
	ChunkCount      int                `json:"chunk_count"`
	Chunk           *indexer.Chunk     `json:"chunk,omitempty"`
	Factors         *ConfidenceFactors `json:"factors,omitempty"`
}

// SessionInfo describes the loaded document.
type SessionInfo struct {
	DocumentID string    `json:"document_id"`
	Name       string    `json:"name"`
	Hash       string    `json:"hash"`
	Pages      int       `json:"pages"`
	TextPages  int       `json:"text_pages"`
	LoadedAt   time.Time `json:"loaded_at"`
	// Reused reports that the upload matched the loaded document and the session was kept.
	Reused bool `json:"reused"`
	// Chunked reports whether the document has been chunked yet.
	Chunked bool `json:"chunked"`
	// Stats is set once the document has been chunked.
	Stats *indexer.CoverageStats `json:"stats,omitempty"`
}
