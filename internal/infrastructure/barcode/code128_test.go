package barcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode128_Rasterize(t *testing.T) {
	data, err := NewCode128().Rasterize("356938035643809")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestCode128_Image(t *testing.T) {
	code, err := NewCode128().Image("356938035643809")
	require.NoError(t, err)
	assert.Equal(t, "356938035643809", code.Content())
}

func TestCode128_TooNarrow(t *testing.T) {
	c := &Code128{Width: 10, Height: 10}
	_, err := c.Rasterize("356938035643809")
	assert.Error(t, err)
}
