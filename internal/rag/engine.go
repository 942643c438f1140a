package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"policyqa/internal/contextutil"
	"policyqa/internal/document"
	"policyqa/internal/indexer"
	"policyqa/internal/provider"
)

var (
	// ErrNoDocument is returned by operations that need a loaded document.
	ErrNoDocument = errors.New("no document loaded")
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Engine answers questions against a single loaded document.
//
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks policyqa/internal/rag Engine
type Engine interface {
	// LoadDocument replaces the current document. Loading the document already in use keeps its session.
	LoadDocument(ctx context.Context, doc *document.Document) (SessionInfo, error)
	// Reset discards the current document.
	Reset(ctx context.Context)
	// Session describes the current document; ok is false when none is loaded.
	Session() (info SessionInfo, ok bool)
	// Chunks returns the current document's chunks, chunking it first if needed.
	Chunks(ctx context.Context) ([]indexer.Chunk, error)
	// Ask answers a question and appends the answer to the history.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	// History returns the retained answers, oldest first.
	History() []AnswerRecord
	// Providers lists the configured providers in priority order. The first is active.
	Providers() []string
}

// session is one loaded document. Its chunks are computed once, on first use.
type session struct {
	id       string
	doc      *document.Document
	loadedAt time.Time

	once    sync.Once
	chunked atomic.Bool
	chunks  []indexer.Chunk
	stats   indexer.CoverageStats
}

func (s *session) chunkList(c *indexer.Chunker) []indexer.Chunk {
	s.once.Do(func() {
		s.chunks = c.ChunkDocument(s.doc)
		s.stats = c.Stats(s.chunks, s.doc.Hash)
		s.chunked.Store(true)
	})
	return s.chunks
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	chunker   *indexer.Chunker
	adapter   *provider.Adapter
	ranker    LexicalRanker
	estimator ConfidenceEstimator
	history   *History

	mu      sync.RWMutex
	current *session
}

// NewEngine creates an engine. A nil adapter means no provider: ranking is lexical
// and answers are context excerpts.
func NewEngine(chunker *indexer.Chunker, adapter *provider.Adapter, history *History) Engine {
	if chunker == nil {
		chunker = indexer.NewChunker(indexer.DefaultChunkTokens, indexer.DefaultOverlapTokens)
	}
	if adapter == nil {
		adapter = provider.NewAdapter(0)
	}
	if history == nil {
		history = NewHistory(DefaultHistoryLimit)
	}
	return &ragEngine{
		chunker: chunker,
		adapter: adapter,
		history: history,
	}
}

func (e *ragEngine) LoadDocument(ctx context.Context, doc *document.Document) (SessionInfo, error) {
	if doc == nil {
		return SessionInfo{}, fmt.Errorf("failed to load document: %w", ErrNoDocument)
	}
	logger := contextutil.LoggerFromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.current.doc.Hash == doc.Hash {
		logger.InfoContext(ctx, "document unchanged, keeping session", "document_id", e.current.id, "name", doc.Name)
		info := e.current.info()
		info.Reused = true
		return info, nil
	}

	e.current = &session{
		id:       uuid.NewString(),
		doc:      doc,
		loadedAt: time.Now().UTC(),
	}
	logger.InfoContext(ctx, "document loaded",
		"document_id", e.current.id,
		"name", doc.Name,
		"pages", len(doc.Pages),
		"text_pages", doc.TextPages(),
	)
	return e.current.info(), nil
}

func (e *ragEngine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "document session cleared", "document_id", e.current.id)
	}
	e.current = nil
}

func (e *ragEngine) Session() (SessionInfo, bool) {
	s := e.snapshot()
	if s == nil {
		return SessionInfo{}, false
	}
	return s.info(), true
}

func (e *ragEngine) Chunks(ctx context.Context) ([]indexer.Chunk, error) {
	s := e.snapshot()
	if s == nil {
		return nil, ErrNoDocument
	}
	chunks := s.chunkList(e.chunker)
	out := make([]indexer.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

func (e *ragEngine) History() []AnswerRecord {
	return e.history.Records()
}

func (e *ragEngine) Providers() []string {
	return e.adapter.Names()
}

// snapshot returns the session a query should use from start to finish.
func (e *ragEngine) snapshot() *session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

func (s *session) info() SessionInfo {
	info := SessionInfo{
		DocumentID: s.id,
		Name:       s.doc.Name,
		Hash:       s.doc.Hash,
		Pages:      len(s.doc.Pages),
		TextPages:  s.doc.TextPages(),
		LoadedAt:   s.loadedAt,
	}
	if s.chunked.Load() {
		stats := s.stats
		info.Chunked = true
		info.Stats = &stats
	}
	return info
}

// Ask answers req.Question against the session current when the call starts.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, ErrEmptyQuestion
	}

	s := e.snapshot()
	if s != nil {
		ctx = contextutil.WithAttrs(ctx, "document_id", s.id)
	}
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "question received", "question_length", len(question))

	var (
		chunks   []indexer.Chunk
		selected *indexer.Chunk
		debug    = &DebugInfo{Outcome: OutcomeNoDocument}
		docID    string
	)

	if s != nil {
		docID = s.id
		debug.Outcome = OutcomeChunking
		chunks = s.chunkList(e.chunker)
		debug.ChunkCount = len(chunks)
		logger.DebugContext(ctx, "chunks ready", "chunks", len(chunks))

		if len(chunks) > 0 {
			debug.Outcome = OutcomeRanking
			selected = e.rank(ctx, question, chunks, debug)
		}
		if selected == nil {
			debug.Outcome = OutcomeNoMatch
		}
	}

	resp := AskResponse{
		Answer: NoMatchAnswer,
		Source: NoMatchCitation,
	}
	if selected != nil {
		debug.Outcome = OutcomeSynthesizing
		synthesis := e.synthesize(ctx, question, selected.Text)
		debug.SynthesisProvider = synthesis.Provider
		debug.ExcerptFallback = synthesis.Fallback
		debug.Chunk = selected

		resp.Answer = synthesis.Text
		resp.Source = fmt.Sprintf("Page %d", selected.Page)
		resp.Page = selected.Page
		debug.Outcome = OutcomeDone
	}

	confidence := e.estimator.Score(question, selected, len(chunks) > 0, e.history.ForDocument(docID))
	resp.Confidence = confidence.Score
	resp.Reasoning = confidence.Reasoning
	debug.Factors = confidence.Factors

	record := AnswerRecord{
		ID:             uuid.NewString(),
		DocumentID:     docID,
		Question:       question,
		Answer:         resp.Answer,
		SourceCitation: resp.Source,
		Page:           resp.Page,
		Confidence:     resp.Confidence,
		Reasoning:      resp.Reasoning,
		Timestamp:      time.Now().UTC(),
	}
	e.history.Append(record)
	resp.RecordID = record.ID

	if req.Debug {
		resp.Debug = debug
	}

	logger.InfoContext(ctx, "question answered",
		"outcome", debug.Outcome,
		"source", resp.Source,
		"confidence", resp.Confidence,
		"ranking", debug.RankingMethod,
		"excerpt_fallback", debug.ExcerptFallback,
	)
	return resp, nil
}

// rank prefers the provider chain and falls back to the lexical ranker.
// With no provider configured the chain is skipped entirely.
func (e *ragEngine) rank(ctx context.Context, question string, chunks []indexer.Chunk, debug *DebugInfo) *indexer.Chunk {
	logger := contextutil.LoggerFromContext(ctx)

	if e.adapter.Available() {
		idx, name, err := e.adapter.RankChunk(ctx, question, chunks)
		if err == nil {
			debug.RankingMethod = RankingProvider
			debug.RankingProvider = name
			chunk := chunks[idx]
			return &chunk
		}
		logger.WarnContext(ctx, "provider ranking failed, using lexical ranker", "error", err)
	}

	debug.RankingMethod = RankingLexical
	idx, score, ok := e.ranker.Rank(question, chunks)
	if !ok {
		logger.InfoContext(ctx, "no chunk matched question")
		return nil
	}
	debug.LexicalScore = score
	chunk := chunks[idx]
	return &chunk
}

// synthesize never fails: any fault degrades to the context excerpt.
func (e *ragEngine) synthesize(ctx context.Context, question, passage string) (out provider.Synthesis) {
	defer func() {
		if r := recover(); r != nil {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "answer synthesis panicked", "panic", r)
			out = provider.Synthesis{Text: provider.Excerpt(passage), Fallback: true}
		}
	}()
	return e.adapter.Synthesize(ctx, question, passage)
}
