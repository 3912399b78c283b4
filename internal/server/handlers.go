package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lllllllleong/pdftextextractor/internal/models"
	"github.com/go-chi/chi/v5/middleware"
)

const homePage = `<h1>Herramientas para POC AERATION</h1>`

type handler struct {
	processor Processor
	cfg       Config
}

// processPDF handles POST /pdf/process.
func (h *handler) processPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	logCtx := slog.With("requestId", requestID)

	// Keep the whole upload in memory: parts above maxMemory would be spooled to disk.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logCtx.Warn("Upload rejected: too large", "limitBytes", maxErr.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB upload limit", h.cfg.MaxUploadBytes>>20))
			return
		}
		logCtx.Warn("Could not parse multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		msg := "No file provided"
		// A part named "file" without a filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			msg = "No file selected"
		}
		logCtx.Warn("Upload rejected", "reason", msg, "error", err)
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	defer file.Close()

	if verr := validateFilename(header.Filename); verr != nil {
		logCtx.Warn("Upload rejected", "reason", verr.Message, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logCtx.Error("Failed to read uploaded file", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	// Extraction runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	res, err := h.processor.Process(ctx, &models.ProcessRequest{
		RequestID: requestID,
		Filename:  header.Filename,
		Document:  data,
	})
	if err != nil {
		// The specific error is already logged inside the Process method.
		switch models.KindOf(err) {
		case models.KindConversionFailed:
			writeError(w, http.StatusInternalServerError, "Could not convert PDF to images")
		case models.KindValidation:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// validateFilename requires a non-empty name ending in .pdf, case-insensitively.
func validateFilename(filename string) *models.ExtractionError {
	if filename == "" {
		return models.ValidationError("No file selected")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return models.ValidationError("File must be a PDF")
	}
	return nil
}

// health handles GET /pdf/health.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy"})
}

// home handles GET /.
func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, homePage)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err, "status", status)
	}
}
