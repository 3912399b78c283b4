// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lllllllleong/pdftextextractor/internal/gcp"
	"github.com/Lllllllleong/pdftextextractor/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultMaxUploadMB = 50

// Processor runs the extraction pipeline for one uploaded document.
type Processor interface {
	Process(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error)
}

// Config holds the HTTP layer settings.
type Config struct {
	MaxUploadBytes int64
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{MaxUploadBytes: defaultMaxUploadMB << 20}
}

// LoadConfig reads MAX_UPLOAD_MB from the environment.
func LoadConfig() (Config, error) {
	mb, err := gcp.GetEnvInt("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load server configuration: %w", err)
	}
	return Config{MaxUploadBytes: int64(mb) << 20}, nil
}

// NewRouter creates the service router with all routes configured.
func NewRouter(processor Processor, cfg Config) http.Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg = DefaultConfig()
	}
	h := &handler{processor: processor, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(recoverJSON)

	r.Get("/", h.home)

	r.Route("/pdf", func(r chi.Router) {
		r.Post("/process", h.processPDF)
		r.Get("/health", h.health)
	})

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", serveDocsUI)
	r.Get("/swagger.json", serveSwaggerSpec)

	return r
}

// logRequests writes one structured log line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("Request handled.",
			"requestId", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

// recoverJSON turns a panic into a 500 ErrorResponse.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("Recovered from panic while handling request",
				"requestId", middleware.GetReqID(r.Context()),
				"panic", rec,
			)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}
