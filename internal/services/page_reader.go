package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/pdftextextractor/internal/pdf"
	"google.golang.org/api/googleapi"
)

// PageErrorPrefix starts the text recorded for a page the model could not read.
const PageErrorPrefix = "Error processing page: "

// PageModel is a remote multimodal model that reads text from a PNG image.
type PageModel interface {
	GenerateText(ctx context.Context, prompt string, png []byte) (string, error)
}

// PageReader extracts the text of a single page image with a fixed prompt.
type PageReader struct {
	model   PageModel
	encoder *pdf.Encoder
	prompt  string
}

// NewPageReader creates a PageReader.
func NewPageReader(model PageModel, encoder *pdf.Encoder, prompt string) *PageReader {
	return &PageReader{model: model, encoder: encoder, prompt: prompt}
}

// ReadPage returns the model's reply for page. It never fails: encoding and
// model errors are returned as text starting with PageErrorPrefix so that one
// bad page does not abort the document.
func (r *PageReader) ReadPage(ctx context.Context, logCtx *slog.Logger, page pdf.Page) string {
	logCtx = logCtx.With("page", page.Number)

	data, err := r.encoder.EncodePNG(page.Image)
	if err != nil {
		return pageError(logCtx, "Failed to encode page image", err)
	}

	text, err := r.model.GenerateText(ctx, r.prompt, data)
	if err != nil {
		return pageError(logCtx, "Error processing page with Gemini", err)
	}

	if strings.TrimSpace(text) == "" {
		logCtx.Warn("No text extracted from page. Treating as empty page.")
	}
	return text
}

func pageError(logCtx *slog.Logger, msg string, err error) string {
	attrs := []any{"error", err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		attrs = append(attrs, "statusCode", gerr.Code)
	}
	logCtx.Error(msg, attrs...)
	return PageErrorPrefix + err.Error()
}
