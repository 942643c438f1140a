package handlers

import (
	"net/http"
	"time"

	"policyqa/internal/contextutil"
	"policyqa/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	qaService service.QAService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(qaService service.QAService) *HealthHandler {
	return &HealthHandler{qaService: qaService}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Configured providers in fallback order
	Providers []string `json:"providers"`

	// ActiveProvider is the first provider in the chain
	ActiveProvider string `json:"active_provider,omitempty"`

	// DocumentLoaded reports whether questions can be answered
	DocumentLoaded bool `json:"document_loaded"`

	// List of issues (only present if status is degraded)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// The service always answers, so health is 200 even without providers;
// running without a provider is reported as degraded.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Health status
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	status := h.qaService.Status(ctx)
	checks := map[string]string{
		"providers": "ok",
		"document":  "none",
	}
	var issues []string
	if len(status.Providers) == 0 {
		checks["providers"] = "none"
		issues = append(issues, "no_providers_configured")
	}
	if status.DocumentLoaded {
		checks["document"] = "loaded"
	}

	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Checks:         checks,
		Providers:      status.Providers,
		ActiveProvider: status.ActiveProvider,
		DocumentLoaded: status.DocumentLoaded,
		Issues:         issues,
	}
	if len(issues) > 0 {
		response.Status = "degraded"
	}

	writeJSON(w, ctx, http.StatusOK, response)
}
