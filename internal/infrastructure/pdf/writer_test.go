package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/domain/render"
	"labelkit/internal/infrastructure/barcode"
	"labelkit/pkg/logger"
)

func TestWriter_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, layout.A4Labels())
	require.NoError(t, err)
	assert.Equal(t, 1, w.Pages())

	require.NoError(t, w.Finalize())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWriter_NothingWrittenBeforeFinalize(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, layout.A4Labels())
	require.NoError(t, err)

	require.NoError(t, w.PlaceText("1312345", 34.5, 12.5, render.AlignCenter))
	require.NoError(t, w.NewPage())
	assert.Zero(t, buf.Len())
	assert.Equal(t, 2, w.Pages())
}

func TestWriter_FinalizeOnce(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, layout.A4Labels(), WithTitle("Labels"))
	require.NoError(t, err)

	require.NoError(t, w.Finalize())
	assert.Error(t, w.Finalize())
	assert.Error(t, w.PlaceText("x", 0, 0, render.AlignLeft))
	assert.Error(t, w.NewPage())
}

func TestWriter_RejectsBadImage(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, layout.A4Labels())
	require.NoError(t, err)

	assert.Error(t, w.PlaceImage([]byte("not a png"), 10, 10, 39, 10))
}

func TestNewWriter_InvalidGeometry(t *testing.T) {
	g := layout.A4Labels()
	g.PageWidth = g.PageWidth.Neg()

	_, err := NewWriter(&bytes.Buffer{}, g)
	assert.Error(t, err)

	_, err = NewWriter(nil, layout.A4Labels())
	assert.Error(t, err)
}

func TestWriter_RendersLabelSheet(t *testing.T) {
	records := make([]labels.Record, 60)
	for i := range records {
		records[i] = labels.Record{Identifier: "356938035643809", PrefixCode: "12", Serial: "1312345"}
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, layout.A4Labels())
	require.NoError(t, err)

	summary, err := render.NewOrchestrator(render.DefaultCellStyle(), logger.Nop()).
		Render(context.Background(), records, layout.A4Labels(), w, barcode.NewCode128())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 2, w.Pages())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
