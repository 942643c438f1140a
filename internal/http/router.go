package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"policyqa/internal/handlers"
	"policyqa/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService      service.QAService
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.QAService)
	documentHandler := handlers.NewDocumentHandler(deps.QAService, deps.MaxUploadBytes)
	historyHandler := handlers.NewHistoryHandler(deps.QAService)
	frameworksHandler := handlers.NewFrameworksHandler()
	healthHandler := handlers.NewHealthHandler(deps.QAService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Post("/documents", documentHandler.Upload)
			r.Get("/documents/current", documentHandler.Current)
			r.Get("/documents/current/chunks", documentHandler.Chunks)
			r.Method(http.MethodPost, "/ask", askHandler)
			r.Method(http.MethodGet, "/history", historyHandler)
			r.Get("/frameworks", frameworksHandler.List)
			r.Get("/frameworks/{name}", frameworksHandler.Get)
		})
	})

	return r
}
