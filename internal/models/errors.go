package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of a processing request.
type ErrorKind string

const (
	// KindValidation is a client error: missing file, empty filename or wrong extension.
	KindValidation ErrorKind = "validation"
	// KindConversionFailed means the document could not be rasterized.
	KindConversionFailed ErrorKind = "conversion_failed"
	// KindExtraction is a per-page model failure. It is only ever embedded in
	// the page text and never returned from a request.
	KindExtraction ErrorKind = "extraction"
	// KindUnexpected covers every other fault during handling.
	KindUnexpected ErrorKind = "unexpected"
)

// ExtractionError is a failure of a whole request with its kind.
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewError creates a new ExtractionError.
func NewError(kind ErrorKind, message string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message, Err: err}
}

// ValidationError reports a bad upload.
func ValidationError(message string) *ExtractionError {
	return NewError(KindValidation, message, nil)
}

// ConversionError reports a document that could not be turned into page images.
func ConversionError(err error) *ExtractionError {
	return NewError(KindConversionFailed, "could not convert PDF to images", err)
}

// KindOf returns the kind of err, or KindUnexpected when err carries none.
func KindOf(err error) ErrorKind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return KindUnexpected
}
