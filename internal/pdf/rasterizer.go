// Package pdf turns uploaded PDF documents into page images.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDPI is the density pages are rendered at.
const DefaultDPI = 200

var (
	// ErrEmptyDocument is returned for a zero-length upload.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrNoPages is returned for a well-formed PDF without any page.
	ErrNoPages = errors.New("document has no pages")
)

var disableConfigDir sync.Once

// Page is one rendered page. Number is 1-based.
type Page struct {
	Number int
	Image  image.Image
}

// Rasterizer renders every page of an in-memory PDF at a fixed density.
type Rasterizer struct {
	dpi float64
}

// NewRasterizer creates a Rasterizer. A non-positive dpi selects DefaultDPI.
func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	// pdfcpu would otherwise create its config directory on first use.
	disableConfigDir.Do(api.DisableConfigDir)
	return &Rasterizer{dpi: float64(dpi)}
}

// DPI returns the rendering density.
func (r *Rasterizer) DPI() int {
	return int(r.dpi)
}

// Rasterize renders all pages of data in order. On any failure it returns an
// error and no pages; callers should treat an empty slice the same way.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte) ([]Page, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	// pdfcpu may write to the configuration, so each call gets its own.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to validate PDF: %w", err)
	}
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	// MuPDF is authoritative for what it can actually draw.
	if n := doc.NumPage(); n != pageCount {
		if n == 0 {
			return nil, ErrNoPages
		}
		pageCount = n
	}

	pages := make([]Page, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Number: i + 1, Image: img})
	}
	return pages, nil
}
