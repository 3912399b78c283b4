package models

import "strings"

// ProcessRequest is the input of the extraction pipeline. Document lives only
// for the duration of one request.
type ProcessRequest struct {
	RequestID string
	Filename  string
	Document  []byte
}

// These structs define the JSON bodies returned by the HTTP service.

// PageResult is the text extracted from a single page. Page is 1-based.
type PageResult struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ExtractionResult is the successful response of POST /pdf/process.
type ExtractionResult struct {
	TotalPages    int          `json:"total_pages"`
	ExtractedText []PageResult `json:"extracted_text"`
	FullText      string       `json:"full_text"`
}

// NewExtractionResult numbers texts from 1 in the given order and joins them
// with a single space into FullText.
func NewExtractionResult(texts []string) *ExtractionResult {
	pages := make([]PageResult, len(texts))
	for i, text := range texts {
		pages[i] = PageResult{Page: i + 1, Text: text}
	}
	return &ExtractionResult{
		TotalPages:    len(pages),
		ExtractedText: pages,
		FullText:      strings.Join(texts, " "),
	}
}

// ErrorResponse is returned in place of ExtractionResult on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of the liveness probe.
type HealthResponse struct {
	Status string `json:"status"`
}
