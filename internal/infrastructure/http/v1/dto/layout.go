package dto

import (
	"github.com/shopspring/decimal"

	"labelkit/internal/domain/layout"
)

// GeometryRequest overrides parts of the configured sheet geometry.
// Omitted fields keep their configured value.
type GeometryRequest struct {
	PageWidth  *decimal.Decimal `json:"pageWidth"`
	PageHeight *decimal.Decimal `json:"pageHeight"`
	CellWidth  *decimal.Decimal `json:"cellWidth"`
	CellHeight *decimal.Decimal `json:"cellHeight"`
	GapX       *decimal.Decimal `json:"gapX"`
	GapY       *decimal.Decimal `json:"gapY"`
}

// ApplyTo returns base with the requested overrides.
func (r *GeometryRequest) ApplyTo(base layout.Geometry) layout.Geometry {
	if r == nil {
		return base
	}
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.PageWidth, r.PageWidth)
	set(&base.PageHeight, r.PageHeight)
	set(&base.CellWidth, r.CellWidth)
	set(&base.CellHeight, r.CellHeight)
	set(&base.GapX, r.GapX)
	set(&base.GapY, r.GapY)
	return base
}

// ExportRequest is the request body for rendering a label document.
type ExportRequest struct {
	// Filter is a CEL expression over identifier, prefix, serial, index, created_at.
	Filter   string           `json:"filter"`
	Geometry *GeometryRequest `json:"geometry"`
}

// GeometryResponse echoes the geometry in use.
type GeometryResponse struct {
	PageWidth  decimal.Decimal `json:"pageWidth"`
	PageHeight decimal.Decimal `json:"pageHeight"`
	CellWidth  decimal.Decimal `json:"cellWidth"`
	CellHeight decimal.Decimal `json:"cellHeight"`
	GapX       decimal.Decimal `json:"gapX"`
	GapY       decimal.Decimal `json:"gapY"`
}

// GridResponse describes the per-page cell grid.
type GridResponse struct {
	Columns      int             `json:"columns"`
	Rows         int             `json:"rows"`
	CellsPerPage int             `json:"cellsPerPage"`
	MarginX      decimal.Decimal `json:"marginX"`
	MarginY      decimal.Decimal `json:"marginY"`
}

// PlacementResponse is one cell position. Index, PageIndex, Row and Col
// are zero-based.
type PlacementResponse struct {
	Index     int             `json:"index"`
	PageIndex int             `json:"pageIndex"`
	Row       int             `json:"row"`
	Col       int             `json:"col"`
	X         decimal.Decimal `json:"x"`
	Y         decimal.Decimal `json:"y"`
	NewPage   bool            `json:"newPage"`
}

// LayoutResponse previews where count labels would be printed.
type LayoutResponse struct {
	Count      int                 `json:"count"`
	Pages      int                 `json:"pages"`
	Geometry   GeometryResponse    `json:"geometry"`
	Grid       GridResponse        `json:"grid"`
	Placements []PlacementResponse `json:"placements"`
}

// NewLayoutResponse builds a preview from the engine's output.
func NewLayoutResponse(g layout.Geometry, grid layout.Grid, placements []layout.Placement, pages int) LayoutResponse {
	out := LayoutResponse{
		Count: len(placements),
		Pages: pages,
		Geometry: GeometryResponse{
			PageWidth:  g.PageWidth,
			PageHeight: g.PageHeight,
			CellWidth:  g.CellWidth,
			CellHeight: g.CellHeight,
			GapX:       g.GapX,
			GapY:       g.GapY,
		},
		Grid: GridResponse{
			Columns:      grid.Columns,
			Rows:         grid.Rows,
			CellsPerPage: grid.CellsPerPage(),
			MarginX:      grid.MarginX,
			MarginY:      grid.MarginY,
		},
		Placements: make([]PlacementResponse, len(placements)),
	}
	for i, p := range placements {
		out.Placements[i] = PlacementResponse{
			Index:     p.Index,
			PageIndex: p.PageIndex,
			Row:       p.Row,
			Col:       p.Col,
			X:         p.X,
			Y:         p.Y,
			NewPage:   p.NewPage,
		}
	}
	return out
}
