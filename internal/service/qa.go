package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_pdf_parser.go -package=mocks policyqa/internal/service PDFParser
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks -mock_names=QAService=MockQAService policyqa/internal/service QAService

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"policyqa/internal/contextutil"
	"policyqa/internal/document"
	"policyqa/internal/indexer"
	"policyqa/internal/rag"
)

const (
	// MaxQuestionRunes bounds question length.
	MaxQuestionRunes = 2000
	defaultDocName   = "document.pdf"
)

// PDFParser decodes uploaded bytes into page texts.
// This interface is defined from the service layer's perspective (consumer-first).
type PDFParser interface {
	Parse(name string, data []byte) (*document.Document, error)
}

// LoadDocumentRequest carries an uploaded PDF.
type LoadDocumentRequest struct {
	Name string
	Data []byte
}

// Status summarizes what the service can do right now.
type Status struct {
	DocumentLoaded bool     `json:"document_loaded"`
	Providers      []string `json:"providers"`
	ActiveProvider string   `json:"active_provider,omitempty"`
}

// QAService answers questions about the uploaded policy document.
type QAService interface {
	// LoadDocument parses an upload and makes it the current document.
	// An unreadable upload clears the current document and returns ErrDocumentUnreadable.
	LoadDocument(ctx context.Context, req LoadDocumentRequest) (rag.SessionInfo, error)
	// CurrentDocument describes the current document or returns ErrNotFound.
	CurrentDocument(ctx context.Context) (rag.SessionInfo, error)
	// Chunks returns the current document's chunks or ErrNotFound.
	Chunks(ctx context.Context) ([]indexer.Chunk, error)
	// Ask validates and answers a question.
	Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error)
	// History returns the retained answers, oldest first.
	History(ctx context.Context) []rag.AnswerRecord
	// Status reports document and provider availability.
	Status(ctx context.Context) Status
}

// qaService implements QAService.
type qaService struct {
	parser PDFParser
	engine rag.Engine
}

// NewQAService creates a new QAService.
func NewQAService(parser PDFParser, engine rag.Engine) QAService {
	return &qaService{
		parser: parser,
		engine: engine,
	}
}

func (s *qaService) LoadDocument(ctx context.Context, req LoadDocumentRequest) (rag.SessionInfo, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(req.Data) == 0 {
		logger.WarnContext(ctx, "empty upload")
		return rag.SessionInfo{}, &ValidationError{Field: "file", Message: "cannot be empty"}
	}
	name := filepath.Base(strings.TrimSpace(req.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = defaultDocName
	}

	doc, err := s.parser.Parse(name, req.Data)
	if err != nil {
		// A failed upload must not leave the previous document answerable.
		s.engine.Reset(ctx)
		logger.WarnContext(ctx, "unreadable document", "name", name, "size", len(req.Data), "error", err)
		return rag.SessionInfo{}, fmt.Errorf("%w: %w", ErrDocumentUnreadable, err)
	}

	info, err := s.engine.LoadDocument(ctx, doc)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load document", "name", name, "error", err)
		return rag.SessionInfo{}, WrapError(err, "failed to load document")
	}

	logger.InfoContext(ctx, "document ready", "document_id", info.DocumentID, "pages", info.Pages, "reused", info.Reused)
	return info, nil
}

func (s *qaService) CurrentDocument(ctx context.Context) (rag.SessionInfo, error) {
	info, ok := s.engine.Session()
	if !ok {
		return rag.SessionInfo{}, WrapError(ErrNotFound, "no document loaded")
	}
	return info, nil
}

func (s *qaService) Chunks(ctx context.Context) ([]indexer.Chunk, error) {
	chunks, err := s.engine.Chunks(ctx)
	if errors.Is(err, rag.ErrNoDocument) {
		return nil, WrapError(ErrNotFound, "no document loaded")
	}
	if err != nil {
		return nil, WrapError(err, "failed to chunk document")
	}
	return chunks, nil
}

func (s *qaService) Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		logger.WarnContext(ctx, "empty question")
		return rag.AskResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	if utf8.RuneCountInString(req.Question) > MaxQuestionRunes {
		logger.WarnContext(ctx, "question too long", "runes", utf8.RuneCountInString(req.Question))
		return rag.AskResponse{}, &ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("must be at most %d characters", MaxQuestionRunes),
		}
	}

	resp, err := s.engine.Ask(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return rag.AskResponse{}, WrapError(err, "failed to answer question")
	}
	return resp, nil
}

func (s *qaService) History(ctx context.Context) []rag.AnswerRecord {
	return s.engine.History()
}

func (s *qaService) Status(ctx context.Context) Status {
	_, loaded := s.engine.Session()
	status := Status{
		DocumentLoaded: loaded,
		Providers:      s.engine.Providers(),
	}
	if status.Providers == nil {
		status.Providers = []string{}
	}
	if len(status.Providers) > 0 {
		status.ActiveProvider = status.Providers[0]
	}
	return status
}
