package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lllllllleong/pdftextextractor/internal/gcp"
	"github.com/Lllllllleong/pdftextextractor/internal/models"
	"github.com/Lllllllleong/pdftextextractor/internal/pdf"
)

// PageRasterizer turns a whole document into ordered page images.
type PageRasterizer interface {
	Rasterize(ctx context.Context, data []byte) ([]pdf.Page, error)
}

// ExtractorFunction holds the dependencies for the extraction logic.
type ExtractorFunction struct {
	rasterizer PageRasterizer
	reader     *PageReader
	model      PageModel
	config     ExtractorConfig
}

// NewExtractor creates a new ExtractorFunction from the environment.
func NewExtractor(ctx context.Context) (*ExtractorFunction, error) {
	config, err := LoadExtractorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	model, err := newPageModel(ctx, config)
	if err != nil {
		return nil, err
	}

	f := newExtractorFunction(*config, pdf.NewRasterizer(config.RenderDPI), model)
	slog.Info("PDF extractor initialized.", "backend", config.ModelBackend, "model", config.ModelName, "dpi", config.RenderDPI)
	return f, nil
}

func newExtractorFunction(config ExtractorConfig, rasterizer PageRasterizer, model PageModel) *ExtractorFunction {
	return &ExtractorFunction{
		rasterizer: rasterizer,
		reader:     NewPageReader(model, pdf.NewEncoder(), gcp.ExtractionPrompt),
		model:      model,
		config:     config,
	}
}

// Process rasterizes the document and reads every page in order. It returns
// either the complete result or a single error for the whole document.
func (f *ExtractorFunction) Process(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error) {
	logCtx := slog.With("requestId", req.RequestID, "filename", req.Filename)
	logCtx.Info("Starting PDF extraction.", "bytes", len(req.Document))

	pages, err := f.rasterizer.Rasterize(ctx, req.Document)
	if err == nil && len(pages) == 0 {
		err = pdf.ErrNoPages
	}
	if err != nil {
		logCtx.Error("Could not convert PDF to images", "error", err)
		return nil, models.ConversionError(err)
	}
	logCtx.Info("PDF rasterized.", "pageCount", len(pages))

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		texts = append(texts, f.reader.ReadPage(ctx, logCtx, page))
	}

	res := models.NewExtractionResult(texts)
	logCtx.Info("PDF extraction complete.", "totalPages", res.TotalPages)
	return res, nil
}

// Close releases the model client.
func (f *ExtractorFunction) Close() error {
	if c, ok := f.model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
