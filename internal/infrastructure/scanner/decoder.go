package scanner

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoBarcode is returned when no supported symbol is found in an image.
var ErrNoBarcode = errors.New("no barcode found")

// Decoder finds Code 128, Code 39, EAN-13, ITF and QR symbols in images.
type Decoder struct {
	// QuietZone is the white border in pixels added around the frame
	// before decoding. Tight crops otherwise fail the 1D readers.
	QuietZone int
}

// NewDecoder returns a decoder with a 20px quiet zone.
func NewDecoder() *Decoder {
	return &Decoder{QuietZone: 20}
}

func newReaders() []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		oned.NewEAN13Reader(),
		oned.NewITFReader(),
		qrcode.NewQRCodeReader(),
	}
}

// DecodeImage returns the text of the first symbol any reader finds.
func (d *Decoder) DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(d.pad(img))
	if err != nil {
		return "", fmt.Errorf("binarize: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	for _, r := range newReaders() {
		res, err := r.Decode(bmp, hints)
		if err == nil {
			return res.GetText(), nil
		}
	}
	return "", ErrNoBarcode
}

// DecodeFile decodes a PNG or JPEG file.
func (d *Decoder) DecodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", path, err)
	}
	return d.DecodeImage(img)
}

func (d *Decoder) pad(img image.Image) image.Image {
	if d.QuietZone <= 0 {
		return img
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx()+2*d.QuietZone, b.Dy()+2*d.QuietZone))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(d.QuietZone, d.QuietZone, d.QuietZone+b.Dx(), d.QuietZone+b.Dy()), img, b.Min, draw.Src)
	return out
}
