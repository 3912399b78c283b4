package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Lllllllleong/pdftextextractor/internal/models"
	"github.com/Lllllllleong/pdftextextractor/internal/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls []*models.ProcessRequest
	fn    func(req *models.ProcessRequest) (*models.ExtractionResult, error)
}

func (p *fakeProcessor) Process(ctx context.Context, req *models.ProcessRequest) (*models.ExtractionResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	if p.fn == nil {
		return models.NewExtractionResult([]string{"uno", "dos"}), nil
	}
	return p.fn(req)
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/pdf/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestProcessPDFSuccess(t *testing.T) {
	proc := &fakeProcessor{}
	h := NewRouter(proc, DefaultConfig())

	rec := serve(h, uploadRequest(t, "file", "Report.PDF", []byte("%PDF-1.4 fake")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res models.ExtractionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.ExtractedText, 2)
	assert.Equal(t, "uno dos", res.FullText)

	require.Len(t, proc.calls, 1)
	assert.Equal(t, "Report.PDF", proc.calls[0].Filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), proc.calls[0].Document)
	assert.NotEmpty(t, proc.calls[0].RequestID)
}

func TestProcessPDFValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		wantMsg string
	}{
		{
			name:    "txt extension",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "notes.txt", []byte("%PDF-1.4")) },
			wantMsg: "File must be a PDF",
		},
		{
			name:    "no extension",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "document", []byte("x")) },
			wantMsg: "File must be a PDF",
		},
		{
			name:    "wrong field name",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "upload", "doc.pdf", []byte("x")) },
			wantMsg: "No file provided",
		},
		{
			name:    "empty filename",
			req:     func(t *testing.T) *http.Request { return uploadRequest(t, "file", "", []byte("x")) },
			wantMsg: "No file selected",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/pdf/process", strings.NewReader(`{"file":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantMsg: "No file provided",
		},
		{
			name: "empty multipart form",
			req: func(t *testing.T) *http.Request {
				var body bytes.Buffer
				mw := multipart.NewWriter(&body)
				require.NoError(t, mw.Close())
				req := httptest.NewRequest(http.MethodPost, "/pdf/process", &body)
				req.Header.Set("Content-Type", mw.FormDataContentType())
				return req
			},
			wantMsg: "No file provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			rec := serve(NewRouter(proc, DefaultConfig()), tt.req(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
			assert.Empty(t, proc.calls)
		})
	}
}

func TestProcessPDFErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "conversion failed",
			err:        models.ConversionError(pdf.ErrEmptyDocument),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Could not convert PDF to images",
		},
		{
			name:       "unexpected failure",
			err:        errors.New("out of memory"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Processing failed: out of memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{fn: func(*models.ProcessRequest) (*models.ExtractionResult, error) {
				return nil, tt.err
			}}
			rec := serve(NewRouter(proc, DefaultConfig()), uploadRequest(t, "file", "bad.pdf", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec))
		})
	}
}

func TestProcessPDFPanicIsReported(t *testing.T) {
	proc := &fakeProcessor{fn: func(*models.ProcessRequest) (*models.ExtractionResult, error) {
		panic("nil page image")
	}}
	rec := serve(NewRouter(proc, DefaultConfig()), uploadRequest(t, "file", "doc.pdf", []byte("x")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Processing failed: nil page image", decodeError(t, rec))
}

func TestProcessPDFUploadLimit(t *testing.T) {
	proc := &fakeProcessor{}
	h := NewRouter(proc, Config{MaxUploadBytes: 1024})

	rec := serve(h, uploadRequest(t, "file", "big.pdf", bytes.Repeat([]byte("a"), 4096)))
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)
	assert.NotEmpty(t, decodeError(t, rec))
	assert.Empty(t, proc.calls)
}

func TestHealthConcurrent(t *testing.T) {
	proc := &fakeProcessor{}
	h := NewRouter(proc, DefaultConfig())

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/pdf/health", nil))
			if rec.Code != http.StatusOK {
				return errors.New("unexpected status " + rec.Result().Status)
			}
			var body models.HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				return err
			}
			if body.Status != "healthy" {
				return errors.New("unexpected health status " + body.Status)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Empty(t, proc.calls)
}

func TestStaticRoutes(t *testing.T) {
	h := NewRouter(&fakeProcessor{}, DefaultConfig())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, homePage, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/docs/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/swagger.json")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/docs/", rec.Header().Get("Location"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/pdf/process")
	assert.Contains(t, doc["paths"], "/pdf/health")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/pdf/process", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	t.Setenv("MAX_UPLOAD_MB", "2")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)

	t.Setenv("MAX_UPLOAD_MB", "lots")
	_, err = LoadConfig()
	assert.Error(t, err)
}
