package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"policyqa/internal/contextutil"
	"policyqa/internal/frameworks"
)

// FrameworksHandler serves the compliance framework catalogue.
type FrameworksHandler struct{}

// NewFrameworksHandler creates a new FrameworksHandler.
func NewFrameworksHandler() *FrameworksHandler {
	return &FrameworksHandler{}
}

// FrameworksResponse lists all frameworks.
//
// swagger:model FrameworksResponse
type FrameworksResponse struct {
	Frameworks []frameworks.Framework `json:"frameworks"`
}

// List returns every framework.
//
// swagger:route GET /api/v1/frameworks listFrameworks
//
// # List compliance frameworks
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Frameworks with domains and common questions
//	  schema:
//	    "$ref": "#/definitions/FrameworksResponse"
func (h *FrameworksHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, FrameworksResponse{Frameworks: frameworks.All()})
}

// Get returns one framework by ID.
//
// swagger:route GET /api/v1/frameworks/{name} getFramework
//
// # Get a compliance framework
//
// The name is matched without regard to case, spaces or dashes.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Framework
//	'404':
//	  description: Unknown framework
func (h *FrameworksHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	f, ok := frameworks.Get(name)
	if !ok {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "unknown framework", "name", name)
		writeError(w, http.StatusNotFound, "Unknown framework: "+name)
		return
	}
	writeJSON(w, ctx, http.StatusOK, f)
}
