// Package pdf implements the label document writer on go-pdf/fpdf.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"labelkit/internal/core/types"
	"labelkit/internal/domain/layout"
	"labelkit/internal/domain/render"
)

const (
	fontFamily = "Helvetica"
	fontSize   = 10
)

var errFinalized = errors.New("document already finalized")

// Writer places label content on mm-unit pages sized from the sheet geometry.
// The first page exists from construction; Finalize writes the document
// to the destination given to NewWriter.
type Writer struct {
	doc       *fpdf.Fpdf
	dst       io.Writer
	images    int
	finalized bool
}

var _ render.DocumentWriter = (*Writer)(nil)

// Option configures document metadata.
type Option func(*fpdf.Fpdf)

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(doc *fpdf.Fpdf) { doc.SetTitle(title, true) }
}

// NewWriter creates a document for the geometry's page size.
func NewWriter(dst io.Writer, g layout.Geometry, opts ...Option) (*Writer, error) {
	if dst == nil {
		return nil, errors.New("nil destination")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size: fpdf.SizeType{
			Wd: types.Float(g.PageWidth),
			Ht: types.Float(g.PageHeight),
		},
	})
	doc.SetCreator("labelkit", true)
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	for _, opt := range opts {
		opt(doc)
	}
	doc.SetFont(fontFamily, "", fontSize)
	doc.AddPage()

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("init document: %w", err)
	}
	return &Writer{doc: doc, dst: dst}, nil
}

// PlaceText draws text with its baseline at y, anchored at x by align.
func (w *Writer) PlaceText(text string, x, y float64, align render.Align) error {
	if w.finalized {
		return errFinalized
	}

	switch align {
	case render.AlignCenter:
		x -= w.doc.GetStringWidth(text) / 2
	case render.AlignRight:
		x -= w.doc.GetStringWidth(text)
	}
	w.doc.Text(x, y, text)
	return w.doc.Error()
}

// PlaceImage draws PNG bytes into the box at (x, y) with the given size.
func (w *Writer) PlaceImage(img []byte, x, y, width, height float64) error {
	if w.finalized {
		return errFinalized
	}

	w.images++
	name := fmt.Sprintf("img%d", w.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	w.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	if err := w.doc.Error(); err != nil {
		return fmt.Errorf("register image: %w", err)
	}
	w.doc.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	return w.doc.Error()
}

// NewPage starts a new page of the same size.
func (w *Writer) NewPage() error {
	if w.finalized {
		return errFinalized
	}
	w.doc.AddPage()
	w.doc.SetFont(fontFamily, "", fontSize)
	return w.doc.Error()
}

// Pages returns the number of pages so far.
func (w *Writer) Pages() int {
	return w.doc.PageCount()
}

// Finalize writes the document. The writer cannot be used afterwards.
func (w *Writer) Finalize() error {
	if w.finalized {
		return errFinalized
	}
	w.finalized = true

	if err := w.doc.Output(w.dst); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
