package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"policyqa/internal/contextutil"
	"policyqa/internal/rag"
	"policyqa/internal/service"
)

// AskHandler handles HTTP requests for questions about the loaded document.
type AskHandler struct {
	qaService service.QAService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(qaService service.QAService) *AskHandler {
	return &AskHandler{
		qaService: qaService,
	}
}

// AskRequest represents the HTTP request payload for a question.
//
// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for a question.
// This mirrors rag.AskResponse but is defined here for HTTP layer separation.
//
// swagger:model AskResponse
type AskResponse struct {
	// The synthesized answer, a document excerpt, or "no relevant information found"
	Answer string `json:"answer"`

	// Citation of the form "Page N", or "no source found"
	Source string `json:"source"`

	// Cited page number; omitted when nothing was cited
	Page int `json:"page,omitempty"`

	// Confidence score between 0 and 100
	Confidence float64 `json:"confidence"`

	// Reasoning lists the confidence factor levels
	Reasoning string `json:"reasoning"`

	// RecordID identifies the history record for this answer
	RecordID string `json:"record_id"`

	// Debug contains ranking and scoring details when debug mode is enabled (via ?debug=true query parameter).
	Debug *rag.DebugInfo `json:"debug,omitempty"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route POST /api/v1/ask askQuestion
//
// # Ask a question about the loaded policy document
//
// Selects the passage that best answers the question, synthesizes an answer,
// and returns it with a page citation and a confidence score.
//
// Use the `debug=true` query parameter to include the ranking method, providers,
// query outcome and confidence factors.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer with citation and confidence
//	  schema:
//	    "$ref": "#/definitions/AskResponse"
//	'400':
//	  description: Bad request (missing or oversized question)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.qaService.Ask(ctx, rag.AskRequest{
		Question: req.Question,
		Debug:    debugRequested(r),
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to answer question")
		return
	}

	writeJSON(w, ctx, http.StatusOK, AskResponse{
		Answer:     resp.Answer,
		Source:     resp.Source,
		Page:       resp.Page,
		Confidence: resp.Confidence,
		Reasoning:  resp.Reasoning,
		RecordID:   resp.RecordID,
		Debug:      resp.Debug,
	})
}

// debugRequested reports whether ?debug=true (or 1) was passed.
func debugRequested(r *http.Request) bool {
	param := r.URL.Query().Get("debug")
	return strings.EqualFold(param, "true") || param == "1"
}
