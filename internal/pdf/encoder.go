package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// Encoder serializes page images as PNG.
type Encoder struct {
	png png.Encoder
}

// NewEncoder returns an Encoder using default PNG compression.
func NewEncoder() *Encoder {
	return &Encoder{png: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// EncodePNG returns the lossless PNG bytes of img.
func (e *Encoder) EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("cannot encode nil image")
	}
	var buf bytes.Buffer
	if err := e.png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode returns img as standard base64 of its PNG encoding.
func (e *Encoder) Encode(img image.Image) (string, error) {
	data, err := e.EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
