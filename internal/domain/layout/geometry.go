// Package layout maps an ordered record list onto label cells across pages.
package layout

import (
	"github.com/shopspring/decimal"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
)

// Geometry describes a label sheet. All values share one linear unit.
type Geometry struct {
	PageWidth  types.Length
	PageHeight types.Length
	CellWidth  types.Length
	CellHeight types.Length
	GapX       types.Length
	GapY       types.Length
}

// A4Labels is the stock sheet: A4 portrait with 45x20 mm labels and 2 mm gaps.
func A4Labels() Geometry {
	return Geometry{
		PageWidth:  types.LengthFromInt(210),
		PageHeight: types.LengthFromInt(297),
		CellWidth:  types.LengthFromInt(45),
		CellHeight: types.LengthFromInt(20),
		GapX:       types.LengthFromInt(2),
		GapY:       types.LengthFromInt(2),
	}
}

// Validate checks that sizes are positive and gaps are not negative.
func (g Geometry) Validate() error {
	positive := []struct {
		name  string
		value types.Length
	}{
		{"page_width", g.PageWidth},
		{"page_height", g.PageHeight},
		{"cell_width", g.CellWidth},
		{"cell_height", g.CellHeight},
	}
	for _, f := range positive {
		if !f.value.IsPositive() {
			return apperror.NewInvalidGeometry(f.name, f.value.String())
		}
	}
	if g.GapX.IsNegative() {
		return apperror.NewInvalidGeometry("gap_x", g.GapX.String())
	}
	if g.GapY.IsNegative() {
		return apperror.NewInvalidGeometry("gap_y", g.GapY.String())
	}
	return nil
}

// Grid is the cell arrangement a geometry yields on one page.
type Grid struct {
	Columns int
	Rows    int

	// MarginX and MarginY center the grid on the page.
	MarginX types.Length
	MarginY types.Length
}

// CellsPerPage returns Columns * Rows.
func (gr Grid) CellsPerPage() int {
	return gr.Columns * gr.Rows
}

// Grid computes how many cells fit and the centering margins.
// GEOMETRY_TOO_SMALL is returned when not even one cell fits.
func (g Geometry) Grid() (Grid, error) {
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}

	columns := fit(g.PageWidth, g.CellWidth, g.GapX)
	rows := fit(g.PageHeight, g.CellHeight, g.GapY)
	if columns < 1 || rows < 1 {
		return Grid{}, apperror.NewGeometryTooSmall(columns, rows)
	}

	return Grid{
		Columns: int(columns),
		Rows:    int(rows),
		MarginX: margin(g.PageWidth, g.CellWidth, g.GapX, columns),
		MarginY: margin(g.PageHeight, g.CellHeight, g.GapY, rows),
	}, nil
}

// fit returns floor((page + gap) / (cell + gap)).
func fit(page, cell, gap types.Length) int64 {
	q, _ := page.Add(gap).QuoRem(cell.Add(gap), 0)
	return q.IntPart()
}

// margin returns (page - (n*cell + (n-1)*gap)) / 2.
func margin(page, cell, gap types.Length, n int64) types.Length {
	count := decimal.NewFromInt(n)
	used := cell.Mul(count).Add(gap.Mul(count.Sub(decimal.NewFromInt(1))))
	return page.Sub(used).Div(decimal.NewFromInt(2))
}
