package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/pdftextextractor/internal/gcp"
	"github.com/Lllllllleong/pdftextextractor/internal/server"
	"github.com/Lllllllleong/pdftextextractor/internal/services"
	"github.com/joho/godotenv"
)

// entryPoint is the function name configured in GCP.
const entryPoint = "HandlePDFTextExtractor"

var (
	router  http.Handler
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	functions.HTTP(entryPoint, handlePDFTextExtractor)
}

// initRouter builds the extractor and router exactly once.
func initRouter() (http.Handler, error) {
	once.Do(func() {
		cfg, err := server.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		extractor, err := services.NewExtractor(context.Background())
		if err != nil {
			initErr = err
			return
		}
		router = server.NewRouter(extractor, cfg)
	})
	return router, initErr
}

// handlePDFTextExtractor is the HTTP handler registered with the framework.
func handlePDFTextExtractor(w http.ResponseWriter, r *http.Request) {
	h, err := initRouter()
	if err != nil {
		slog.Error("Critical: PDF extractor initialization failed", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	h.ServeHTTP(w, r)
}

func main() {
	// Fail at startup rather than on the first request when run as a server.
	if _, err := initRouter(); err != nil {
		slog.Error("Critical: PDF extractor initialization failed", "error", err)
		os.Exit(1)
	}

	if os.Getenv("FUNCTION_TARGET") == "" {
		os.Setenv("FUNCTION_TARGET", entryPoint)
	}
	host := gcp.GetEnv("HOST", "0.0.0.0")
	port := gcp.GetEnv("PORT", "5000")

	slog.Info("Starting PDF text extractor.", "host", host, "port", port)
	if err := funcframework.StartHostPort(host, port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
