package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policyqa/internal/config"
	"policyqa/internal/document"
	"policyqa/internal/docwatch"
	"policyqa/internal/http"
	"policyqa/internal/indexer"
	"policyqa/internal/provider"
	"policyqa/internal/rag"
	"policyqa/internal/service"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about an uploaded PDF policy document with page citations and confidence scores.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: PolicyQA API
//   description: |
//     Upload a security or compliance policy PDF, then ask questions about it.
//     Each answer cites the page it came from and carries an explainable confidence score.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the provider chain; an empty chain falls back to lexical ranking and excerpts
	generators := provider.NewGenerators(ctx, cfg.Providers)
	adapter := provider.NewAdapter(cfg.ProviderTimeout, generators...)
	if adapter.Available() {
		slog.Info("Provider chain ready", "providers", adapter.Names(), "active", adapter.Active())
	} else {
		slog.Warn("No providers configured, answers will use lexical ranking and document excerpts")
	}

	chunker := indexer.NewChunker(cfg.ChunkSizeTokens, cfg.ChunkOverlapTokens)
	ragEngine := rag.NewEngine(chunker, adapter, rag.NewHistory(rag.DefaultHistoryLimit))
	qaService := service.NewQAService(document.PDFParser{}, ragEngine)
	slog.Info("QA engine initialized",
		"chunk_tokens", cfg.ChunkSizeTokens,
		"overlap_tokens", cfg.ChunkOverlapTokens,
		"provider_timeout", cfg.ProviderTimeout,
	)

	if cfg.DocumentPath != "" {
		info, err := docwatch.LoadFile(ctx, qaService, cfg.DocumentPath)
		if err != nil {
			slog.Error("Failed to preload document", "path", cfg.DocumentPath, "error", err)
		} else {
			slog.Info("Document preloaded", "document_id", info.DocumentID, "pages", info.Pages)
		}
		if cfg.WatchDocument {
			go func() {
				if err := docwatch.Watch(ctx, qaService, cfg.DocumentPath); err != nil {
					slog.Error("Document watcher stopped", "error", err)
				}
			}()
		}
	}

	router := http.NewRouter(&http.Deps{
		QAService:      qaService,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down API server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr, "max_upload_bytes", cfg.MaxUploadBytes)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
}
