package handlers

import (
	"net/http"

	"policyqa/internal/rag"
	"policyqa/internal/service"
)

// HistoryHandler serves the retained answer history.
type HistoryHandler struct {
	qaService service.QAService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(qaService service.QAService) *HistoryHandler {
	return &HistoryHandler{qaService: qaService}
}

// HistoryResponse lists answer records, oldest first.
//
// swagger:model HistoryResponse
type HistoryResponse struct {
	Records []rag.AnswerRecord `json:"records"`
}

// ServeHTTP handles history requests.
//
// swagger:route GET /api/v1/history answerHistory
//
// # List recent answers
//
// Returns up to the 50 most recent answers in chronological order.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Answer records
//	  schema:
//	    "$ref": "#/definitions/HistoryResponse"
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records := h.qaService.History(ctx)
	if records == nil {
		records = []rag.AnswerRecord{}
	}
	writeJSON(w, ctx, http.StatusOK, HistoryResponse{Records: records})
}
