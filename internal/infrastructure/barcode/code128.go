// Package barcode rasterizes identifiers as Code 128 PNG images.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	boombuler "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"labelkit/internal/domain/render"
)

// Default raster size in pixels. The writer scales it into the label box.
const (
	DefaultWidth  = 600
	DefaultHeight = 160
)

// Code128 renders a caption-less Code 128 symbol.
type Code128 struct {
	Width  int
	Height int
}

var _ render.BarcodeRenderer = (*Code128)(nil)

// NewCode128 returns a renderer with the default raster size.
func NewCode128() *Code128 {
	return &Code128{Width: DefaultWidth, Height: DefaultHeight}
}

// Rasterize encodes identifier and returns PNG bytes.
func (c *Code128) Rasterize(identifier string) ([]byte, error) {
	img, err := c.Image(identifier)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image returns the scaled symbol.
func (c *Code128) Image(identifier string) (boombuler.Barcode, error) {
	code, err := code128.Encode(identifier)
	if err != nil {
		return nil, fmt.Errorf("encode code128 %q: %w", identifier, err)
	}
	scaled, err := boombuler.Scale(code, c.Width, c.Height)
	if err != nil {
		return nil, fmt.Errorf("scale code128: %w", err)
	}
	return scaled, nil
}
