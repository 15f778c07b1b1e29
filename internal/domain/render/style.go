package render

import (
	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
	"labelkit/internal/domain/layout"
)

// CellStyle positions the serial and the barcode inside a label cell,
// relative to the cell's top-left corner.
type CellStyle struct {
	// TextBaseline is the serial's baseline below the cell top.
	TextBaseline types.Length
	// ImageTop is the barcode's top edge below the cell top.
	ImageTop types.Length
	// ImageInset is the horizontal inset on both sides of the barcode.
	ImageInset types.Length
	// ImageHeight is the barcode's printed height.
	ImageHeight types.Length
}

// DefaultCellStyle fits a 45x20 mm label: serial baseline at 6, barcode
// 8..18 with 3 mm side insets.
func DefaultCellStyle() CellStyle {
	return CellStyle{
		TextBaseline: types.LengthFromInt(6),
		ImageTop:     types.LengthFromInt(8),
		ImageInset:   types.LengthFromInt(3),
		ImageHeight:  types.LengthFromInt(10),
	}
}

// Fits reports whether the style's text and barcode stay inside one cell of
// g. The barcode needs a positive width between the insets and must end at
// or above the cell's bottom edge.
func (s CellStyle) Fits(g layout.Geometry) error {
	if g.CellWidth.LessThanOrEqual(s.ImageInset.Mul(types.LengthFromInt(2))) {
		return apperror.NewInvalidGeometry("cell_width", g.CellWidth.String()).
			WithDetail("minimum_exclusive", s.ImageInset.Mul(types.LengthFromInt(2)).String())
	}
	bottom := s.ImageTop.Add(s.ImageHeight)
	if s.TextBaseline.GreaterThan(bottom) {
		bottom = s.TextBaseline
	}
	if g.CellHeight.LessThan(bottom) {
		return apperror.NewInvalidGeometry("cell_height", g.CellHeight.String()).
			WithDetail("minimum", bottom.String())
	}
	return nil
}
