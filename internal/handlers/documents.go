package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"policyqa/internal/contextutil"
	"policyqa/internal/indexer"
	"policyqa/internal/service"
)

const uploadField = "file"

var errNoFilePart = errors.New("multipart body has no file field")

// DocumentHandler handles uploads and inspection of the current policy document.
type DocumentHandler struct {
	qaService      service.QAService
	maxUploadBytes int64
}

// NewDocumentHandler creates a new DocumentHandler. maxUploadBytes bounds the request body.
func NewDocumentHandler(qaService service.QAService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		qaService:      qaService,
		maxUploadBytes: maxUploadBytes,
	}
}

// DocumentResponse is returned after an upload.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Pages      int    `json:"pages"`
	TextPages  int    `json:"text_pages"`
	// Reused is true when the upload matched the loaded document and its session was kept
	Reused bool `json:"reused"`
}

// ChunksResponse lists the current document's chunks.
//
// swagger:model ChunksResponse
type ChunksResponse struct {
	Chunks []indexer.Chunk `json:"chunks"`
	Count  int             `json:"count"`
}

// Upload handles PDF uploads.
//
// swagger:route POST /api/v1/documents uploadDocument
//
// # Upload a policy document
//
// Accepts a multipart form with a `file` field, or a raw `application/pdf` body
// (name taken from the `name` query parameter). The upload replaces the current document.
//
// ---
// consumes:
// - multipart/form-data
// - application/pdf
// produces:
// - application/json
// responses:
//
//	'201':
//	  description: Document loaded
//	  schema:
//	    "$ref": "#/definitions/DocumentResponse"
//	'400':
//	  description: Empty or malformed upload
//	'413':
//	  description: Upload too large
//	'415':
//	  description: Unsupported content type
//	'422':
//	  description: The upload is not a readable PDF
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "upload too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		logger.WarnContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	req, status, err := uploadRequest(r, body)
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "content_type", r.Header.Get("Content-Type"), "error", err)
		writeError(w, status, err.Error())
		return
	}

	info, err := h.qaService.LoadDocument(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load document")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, DocumentResponse{
		DocumentID: info.DocumentID,
		Name:       info.Name,
		Pages:      info.Pages,
		TextPages:  info.TextPages,
		Reused:     info.Reused,
	})
}

// uploadRequest extracts the PDF bytes and file name from a buffered request body.
// On failure it returns the status code to report.
func uploadRequest(r *http.Request, body []byte) (service.LoadDocumentRequest, int, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return service.LoadDocumentRequest{}, http.StatusUnsupportedMediaType, fmt.Errorf("invalid content type")
	}

	switch mediaType {
	case "application/pdf", "application/octet-stream":
		return service.LoadDocumentRequest{Name: r.URL.Query().Get("name"), Data: body}, 0, nil
	case "multipart/form-data":
		req, err := readFilePart(body, params["boundary"])
		if err != nil {
			return service.LoadDocumentRequest{}, http.StatusBadRequest, err
		}
		return req, 0, nil
	default:
		return service.LoadDocumentRequest{}, http.StatusUnsupportedMediaType,
			fmt.Errorf("unsupported content type %q", mediaType)
	}
}

func readFilePart(body []byte, boundary string) (service.LoadDocumentRequest, error) {
	if boundary == "" {
		return service.LoadDocumentRequest{}, fmt.Errorf("multipart boundary missing")
	}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return service.LoadDocumentRequest{}, errNoFilePart
		}
		if err != nil {
			return service.LoadDocumentRequest{}, fmt.Errorf("malformed multipart body")
		}
		if part.FormName() != uploadField {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return service.LoadDocumentRequest{}, fmt.Errorf("malformed multipart body")
		}
		return service.LoadDocumentRequest{Name: part.FileName(), Data: data}, nil
	}
}

// Current describes the loaded document.
//
// swagger:route GET /api/v1/documents/current currentDocument
//
// # Describe the current document
//
// Returns page counts and, once the document has been chunked, chunk statistics.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Session information
//	'404':
//	  description: No document loaded
func (h *DocumentHandler) Current(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.qaService.CurrentDocument(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to describe document")
		return
	}
	writeJSON(w, ctx, http.StatusOK, info)
}

// Chunks lists the current document's chunks, chunking it if needed.
//
// swagger:route GET /api/v1/documents/current/chunks documentChunks
//
// # List chunks of the current document
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Chunks in page order
//	  schema:
//	    "$ref": "#/definitions/ChunksResponse"
//	'404':
//	  description: No document loaded
func (h *DocumentHandler) Chunks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chunks, err := h.qaService.Chunks(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to chunk document")
		return
	}
	if chunks == nil {
		chunks = []indexer.Chunk{}
	}
	writeJSON(w, ctx, http.StatusOK, ChunksResponse{Chunks: chunks, Count: len(chunks)})
}
