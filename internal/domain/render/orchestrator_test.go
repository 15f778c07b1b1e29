package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/pkg/logger"
)

type op struct {
	kind string
	text string
	x, y float64
	w, h float64
}

type recordingWriter struct {
	ops         []op
	finalized   bool
	failOnImage int // 1-based image call that fails; 0 never
	images      int
}

func (w *recordingWriter) PlaceText(text string, x, y float64, align Align) error {
	w.ops = append(w.ops, op{kind: "text:" + align.String(), text: text, x: x, y: y})
	return nil
}

func (w *recordingWriter) PlaceImage(img []byte, x, y, width, height float64) error {
	w.images++
	if w.failOnImage != 0 && w.images == w.failOnImage {
		return errors.New("image rejected")
	}
	w.ops = append(w.ops, op{kind: "image", text: string(img), x: x, y: y, w: width, h: height})
	return nil
}

func (w *recordingWriter) NewPage() error {
	w.ops = append(w.ops, op{kind: "page"})
	return nil
}

func (w *recordingWriter) Finalize() error {
	w.finalized = true
	return nil
}

type stubBarcodes struct {
	fail string
}

func (s stubBarcodes) Rasterize(identifier string) ([]byte, error) {
	if identifier == s.fail {
		return nil, errors.New("unencodable")
	}
	return []byte("png:" + identifier), nil
}

func makeRecords(n int) []labels.Record {
	records := make([]labels.Record, n)
	for i := range records {
		records[i] = labels.Record{
			Identifier: fmt.Sprintf("%015d", i+1),
			PrefixCode: "12",
			Serial:     fmt.Sprintf("1312%03d", i),
		}
	}
	return records
}

func newOrchestrator() *Orchestrator {
	return NewOrchestrator(DefaultCellStyle(), logger.Nop())
}

func TestRender_Empty(t *testing.T) {
	w := &recordingWriter{}
	_, err := newOrchestrator().Render(context.Background(), nil, layout.A4Labels(), w, stubBarcodes{})

	assert.True(t, apperror.Is(err, apperror.CodeEmptyRecordSet))
	assert.Empty(t, w.ops)
	assert.False(t, w.finalized)
}

func TestRender_SingleCell(t *testing.T) {
	w := &recordingWriter{}
	summary, err := newOrchestrator().Render(context.Background(), makeRecords(1), layout.A4Labels(), w, stubBarcodes{})
	require.NoError(t, err)

	assert.Equal(t, Summary{Records: 1, Pages: 1}, summary)
	assert.True(t, w.finalized)
	require.Len(t, w.ops, 2)

	// cell at (12, 6.5): serial centered at x+22.5, baseline y+6
	assert.Equal(t, op{kind: "text:center", text: "1312000", x: 34.5, y: 12.5}, w.ops[0])
	// barcode inset 3 mm, top y+8, 39x10 mm
	assert.Equal(t, op{kind: "image", text: "png:000000000000001", x: 15, y: 14.5, w: 39, h: 10}, w.ops[1])
}

func TestRender_PageBreaks(t *testing.T) {
	w := &recordingWriter{}
	summary, err := newOrchestrator().Render(context.Background(), makeRecords(105), layout.A4Labels(), w, stubBarcodes{})
	require.NoError(t, err)

	assert.Equal(t, Summary{Records: 105, Pages: 3}, summary)

	var pageOps []int
	cells := 0
	for _, o := range w.ops {
		switch o.kind {
		case "page":
			pageOps = append(pageOps, cells)
		case "image":
			cells++
		}
	}
	// page breaks happen before record 52 and record 104
	assert.Equal(t, []int{52, 104}, pageOps)
	assert.Equal(t, 105, cells)
	assert.True(t, w.finalized)
}

func TestRender_OrderFollowsRecords(t *testing.T) {
	w := &recordingWriter{}
	records := makeRecords(6)
	_, err := newOrchestrator().Render(context.Background(), records, layout.A4Labels(), w, stubBarcodes{})
	require.NoError(t, err)

	var serials []string
	for _, o := range w.ops {
		if o.kind == "text:center" {
			serials = append(serials, o.text)
		}
	}
	want := make([]string, len(records))
	for i, r := range records {
		want[i] = r.Serial
	}
	assert.Equal(t, want, serials)
}

func TestRender_AbortsWithoutFinalize(t *testing.T) {
	t.Run("barcode failure", func(t *testing.T) {
		records := makeRecords(3)
		w := &recordingWriter{}
		_, err := newOrchestrator().Render(context.Background(), records, layout.A4Labels(), w, stubBarcodes{fail: records[1].Identifier})
		require.Error(t, err)
		assert.False(t, w.finalized)
	})

	t.Run("writer failure", func(t *testing.T) {
		w := &recordingWriter{failOnImage: 2}
		_, err := newOrchestrator().Render(context.Background(), makeRecords(3), layout.A4Labels(), w, stubBarcodes{})
		assert.ErrorContains(t, err, "image rejected")
		assert.False(t, w.finalized)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := &recordingWriter{}
		_, err := newOrchestrator().Render(ctx, makeRecords(3), layout.A4Labels(), w, stubBarcodes{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, w.finalized)
	})

	t.Run("geometry too small", func(t *testing.T) {
		g := layout.A4Labels()
		g.CellWidth = layout.A4Labels().PageWidth.Add(layout.A4Labels().PageWidth)
		w := &recordingWriter{}
		_, err := newOrchestrator().Render(context.Background(), makeRecords(1), g, w, stubBarcodes{})
		assert.True(t, apperror.Is(err, apperror.CodeGeometryTooSmall))
		assert.Empty(t, w.ops)
	})
}

func TestRender_RejectsCellSmallerThanStyle(t *testing.T) {
	tests := []struct {
		name          string
		width, height int64
		field         string
	}{
		{"narrower than both insets", 5, 10, "cell_width"},
		{"exactly both insets", 6, 20, "cell_width"},
		{"barcode below the cell", 45, 17, "cell_height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := layout.A4Labels()
			g.CellWidth = types.LengthFromInt(tt.width)
			g.CellHeight = types.LengthFromInt(tt.height)

			w := &recordingWriter{}
			_, err := newOrchestrator().Render(context.Background(), makeRecords(2), g, w, stubBarcodes{})
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidGeometry), "got %v", err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Details["field"])
			assert.Empty(t, w.ops)
			assert.False(t, w.finalized)
		})
	}
}

func TestCellStyle_FitsSmallestCell(t *testing.T) {
	g := layout.A4Labels()
	g.CellWidth = types.LengthFromInt(7)
	g.CellHeight = types.LengthFromInt(18)
	require.NoError(t, DefaultCellStyle().Fits(g))

	placements, err := layout.Layout(1, g)
	require.NoError(t, err)
	cell := placements[0]

	w := &recordingWriter{}
	_, err = newOrchestrator().Render(context.Background(), makeRecords(1), g, w, stubBarcodes{})
	require.NoError(t, err)
	require.Len(t, w.ops, 2)
	img := w.ops[1]
	assert.Equal(t, "image", img.kind)
	assert.Greater(t, img.w, 0.0)
	assert.GreaterOrEqual(t, img.x, types.Float(cell.X))
	assert.LessOrEqual(t, img.x+img.w, types.Float(cell.X.Add(g.CellWidth)))
	assert.LessOrEqual(t, img.y+img.h, types.Float(cell.Y.Add(g.CellHeight)))
}
