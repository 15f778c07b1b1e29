package layout

import (
	"github.com/shopspring/decimal"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
)

// MaxPreviewPages bounds how many pages a requested preview may span.
const MaxPreviewPages = 100

// Placement is where one record lands.
type Placement struct {
	// Index is the record's position in the input order.
	Index     int
	PageIndex int
	Row       int
	Col       int

	// X and Y are the cell's top-left corner from the page's top-left.
	X types.Length
	Y types.Length

	// NewPage is set on the first cell of every page after the first.
	NewPage bool
}

// Layout places count records in input order, filling each page row by row.
// It is a pure function of its arguments.
func Layout(count int, g Geometry) ([]Placement, error) {
	if count < 0 {
		return nil, apperror.NewValidation("record count must not be negative").WithDetail("count", count)
	}
	grid, err := g.Grid()
	if err != nil {
		return nil, err
	}

	strideX := g.CellWidth.Add(g.GapX)
	strideY := g.CellHeight.Add(g.GapY)
	perPage := grid.CellsPerPage()

	placements := make([]Placement, count)
	for i := range placements {
		pos := i % perPage
		row := pos / grid.Columns
		col := pos % grid.Columns

		placements[i] = Placement{
			Index:     i,
			PageIndex: i / perPage,
			Row:       row,
			Col:       col,
			X:         grid.MarginX.Add(strideX.Mul(decimal.NewFromInt(int64(col)))),
			Y:         grid.MarginY.Add(strideY.Mul(decimal.NewFromInt(int64(row)))),
			NewPage:   pos == 0 && i != 0,
		}
	}
	return placements, nil
}

// Pages returns how many pages count records occupy.
func Pages(count int, g Geometry) (int, error) {
	if count < 0 {
		return 0, apperror.NewValidation("record count must not be negative").WithDetail("count", count)
	}
	grid, err := g.Grid()
	if err != nil {
		return 0, err
	}
	return pagesFor(count, grid.CellsPerPage()), nil
}

// ValidatePreviewCount rejects a requested label count that is negative or
// would span more than MaxPreviewPages pages of g.
func ValidatePreviewCount(count int, g Geometry) error {
	if count < 0 {
		return apperror.NewValidation("record count must not be negative").WithDetail("count", count)
	}
	grid, err := g.Grid()
	if err != nil {
		return err
	}
	limit := grid.CellsPerPage() * MaxPreviewPages
	if count > limit {
		return apperror.NewValidation("record count exceeds the preview limit").
			WithDetail("count", count).
			WithDetail("max", limit).
			WithDetail("max_pages", MaxPreviewPages)
	}
	return nil
}

func pagesFor(count, perPage int) int {
	pages := count / perPage
	if count%perPage != 0 {
		pages++
	}
	return pages
}
