package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lllllllleong/pdftextextractor/internal/gcp"
	"github.com/Lllllllleong/pdftextextractor/internal/pdf"
)

// Supported model backends.
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// ExtractorConfig holds all configuration for the extraction service.
// It is loaded once at startup and never modified afterwards.
type ExtractorConfig struct {
	ModelBackend   string
	GeminiAPIKey   string
	ModelName      string
	ProjectID      string
	VertexAIRegion string
	RenderDPI      int
}

// LoadExtractorConfig loads and validates all necessary environment variables for this service.
func LoadExtractorConfig() (*ExtractorConfig, error) {
	dpi, err := gcp.GetEnvInt("RENDER_DPI", pdf.DefaultDPI)
	if err != nil {
		return nil, err
	}

	config := &ExtractorConfig{
		ModelBackend:   strings.ToLower(strings.TrimSpace(gcp.GetEnv("MODEL_BACKEND", BackendGemini))),
		GeminiAPIKey:   gcp.GetEnv("GEMINI_API_KEY", ""),
		ModelName:      gcp.GetEnv("GEMINI_MODEL", gcp.DefaultModel),
		ProjectID:      gcp.GetEnv("PROJECT_ID", ""),
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		RenderDPI:      dpi,
	}

	switch config.ModelBackend {
	case BackendGemini:
		if config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable must be set")
		}
	case BackendVertex:
		if config.ProjectID == "" {
			return nil, fmt.Errorf("PROJECT_ID environment variable must be set when MODEL_BACKEND is %q", BackendVertex)
		}
	default:
		return nil, fmt.Errorf("unsupported MODEL_BACKEND %q (want %q or %q)", config.ModelBackend, BackendGemini, BackendVertex)
	}
	return config, nil
}

// newPageModel creates the model client selected by the configuration.
func newPageModel(ctx context.Context, config *ExtractorConfig) (PageModel, error) {
	switch config.ModelBackend {
	case BackendVertex:
		client, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion, config.ModelName)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex client: %w", err)
		}
		return client, nil
	default:
		client, err := gcp.NewGeminiClient(ctx, config.GeminiAPIKey, config.ModelName)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client, nil
	}
}
