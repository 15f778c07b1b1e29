// Package render turns laid-out records into drawing instructions for a
// document writer.
package render

// Align is the horizontal anchor of placed text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// DocumentWriter assembles a paginated document. A new writer starts on its
// first page. Nothing it produces is durable until Finalize succeeds.
type DocumentWriter interface {
	PlaceText(text string, x, y float64, align Align) error
	PlaceImage(img []byte, x, y, width, height float64) error
	NewPage() error
	Finalize() error
}

// BarcodeRenderer rasterizes an identifier as a linear barcode without a
// human-readable caption. The result is PNG-encoded.
type BarcodeRenderer interface {
	Rasterize(identifier string) ([]byte, error)
}
