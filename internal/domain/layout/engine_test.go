package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
)

func mm(s string) types.Length { return types.MustLength(s) }

func TestGrid_A4(t *testing.T) {
	grid, err := A4Labels().Grid()
	require.NoError(t, err)

	assert.Equal(t, 4, grid.Columns)
	assert.Equal(t, 13, grid.Rows)
	assert.Equal(t, 52, grid.CellsPerPage())
	assert.True(t, grid.MarginX.Equal(mm("12")), "marginX = %s", grid.MarginX)
	assert.True(t, grid.MarginY.Equal(mm("6.5")), "marginY = %s", grid.MarginY)
}

func TestGrid_FitsWithinPage(t *testing.T) {
	geometries := []Geometry{
		A4Labels(),
		{PageWidth: mm("100"), PageHeight: mm("50"), CellWidth: mm("33.3"), CellHeight: mm("10"), GapX: mm("0.1"), GapY: mm("0")},
		{PageWidth: mm("45"), PageHeight: mm("20"), CellWidth: mm("45"), CellHeight: mm("20"), GapX: mm("2"), GapY: mm("2")},
		{PageWidth: mm("215.9"), PageHeight: mm("279.4"), CellWidth: mm("66.7"), CellHeight: mm("25.4"), GapX: mm("3.1"), GapY: mm("0")},
	}

	for _, g := range geometries {
		grid, err := g.Grid()
		require.NoError(t, err)
		require.GreaterOrEqual(t, grid.Columns, 1)
		require.GreaterOrEqual(t, grid.Rows, 1)

		cols := types.LengthFromInt(int64(grid.Columns))
		rows := types.LengthFromInt(int64(grid.Rows))
		usedW := g.CellWidth.Mul(cols).Add(g.GapX.Mul(cols.Sub(types.LengthFromInt(1))))
		usedH := g.CellHeight.Mul(rows).Add(g.GapY.Mul(rows.Sub(types.LengthFromInt(1))))

		assert.True(t, usedW.LessThanOrEqual(g.PageWidth))
		assert.True(t, usedH.LessThanOrEqual(g.PageHeight))
		// centered: left margin + used + right margin == page
		assert.True(t, grid.MarginX.Mul(types.LengthFromInt(2)).Add(usedW).Equal(g.PageWidth))
		assert.True(t, grid.MarginY.Mul(types.LengthFromInt(2)).Add(usedH).Equal(g.PageHeight))
		assert.False(t, grid.MarginX.IsNegative())
		assert.False(t, grid.MarginY.IsNegative())
	}
}

func TestGrid_TooSmall(t *testing.T) {
	g := A4Labels()
	g.CellWidth = mm("211")

	_, err := g.Grid()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeGeometryTooSmall, appErr.Code)
	assert.Equal(t, int64(0), appErr.Details["columns"])

	g = A4Labels()
	g.CellHeight = mm("300")
	_, err = Layout(3, g)
	assert.True(t, apperror.Is(err, apperror.CodeGeometryTooSmall))
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"zero page width", func(g *Geometry) { g.PageWidth = mm("0") }},
		{"negative page height", func(g *Geometry) { g.PageHeight = mm("-1") }},
		{"zero cell width", func(g *Geometry) { g.CellWidth = mm("0") }},
		{"zero cell height", func(g *Geometry) { g.CellHeight = mm("0") }},
		{"negative gap x", func(g *Geometry) { g.GapX = mm("-0.5") }},
		{"negative gap y", func(g *Geometry) { g.GapY = mm("-2") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := A4Labels()
			tt.mutate(&g)
			assert.True(t, apperror.Is(g.Validate(), apperror.CodeInvalidGeometry))
		})
	}

	assert.NoError(t, A4Labels().Validate())
}

func TestLayout_FirstRecord(t *testing.T) {
	placements, err := Layout(1, A4Labels())
	require.NoError(t, err)
	require.Len(t, placements, 1)

	p := placements[0]
	assert.Equal(t, 0, p.PageIndex)
	assert.Equal(t, 0, p.Row)
	assert.Equal(t, 0, p.Col)
	assert.False(t, p.NewPage)
	assert.True(t, p.X.Equal(mm("12")))
	assert.True(t, p.Y.Equal(mm("6.5")))
}

func TestLayout_Positions(t *testing.T) {
	placements, err := Layout(60, A4Labels())
	require.NoError(t, err)

	// index 5: row 1, col 1
	p := placements[5]
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, 1, p.Col)
	assert.True(t, p.X.Equal(mm("59")), "x = %s", p.X)   // 12 + 47
	assert.True(t, p.Y.Equal(mm("28.5")), "y = %s", p.Y) // 6.5 + 22

	// last cell of the first page
	p = placements[51]
	assert.Equal(t, 0, p.PageIndex)
	assert.Equal(t, 12, p.Row)
	assert.Equal(t, 3, p.Col)
	assert.True(t, p.X.Equal(mm("153")))
	assert.True(t, p.Y.Equal(mm("270.5")))

	// first cell of the second page
	p = placements[52]
	assert.Equal(t, 1, p.PageIndex)
	assert.Equal(t, 0, p.Row)
	assert.Equal(t, 0, p.Col)
	assert.True(t, p.NewPage)
	assert.True(t, p.X.Equal(placements[0].X))
	assert.True(t, p.Y.Equal(placements[0].Y))
}

func TestLayout_NewPageSignal(t *testing.T) {
	placements, err := Layout(200, A4Labels())
	require.NoError(t, err)

	for i, p := range placements {
		assert.Equal(t, i, p.Index)
		want := i != 0 && i%52 == 0
		assert.Equal(t, want, p.NewPage, "index %d", i)
	}
}

func TestLayout_Coverage(t *testing.T) {
	g := A4Labels()
	for _, n := range []int{1, 51, 52, 53, 104, 105, 500} {
		placements, err := Layout(n, g)
		require.NoError(t, err)
		require.Len(t, placements, n)

		perPage := map[int]int{}
		for _, p := range placements {
			perPage[p.PageIndex]++
		}

		wantPages := (n + 51) / 52
		assert.Len(t, perPage, wantPages, "n=%d", n)
		for page := 0; page < wantPages-1; page++ {
			assert.Equal(t, 52, perPage[page], "n=%d page=%d", n, page)
		}
		assert.LessOrEqual(t, perPage[wantPages-1], 52)

		pages, err := Pages(n, g)
		require.NoError(t, err)
		assert.Equal(t, wantPages, pages)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	g := Geometry{
		PageWidth: mm("100.5"), PageHeight: mm("80.25"),
		CellWidth: mm("30.1"), CellHeight: mm("12.7"),
		GapX: mm("1.05"), GapY: mm("0.3"),
	}
	a, err := Layout(37, g)
	require.NoError(t, err)
	b, err := Layout(37, g)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].PageIndex, b[i].PageIndex)
		assert.Equal(t, a[i].Row, b[i].Row)
		assert.Equal(t, a[i].Col, b[i].Col)
		assert.True(t, a[i].X.Equal(b[i].X))
		assert.True(t, a[i].Y.Equal(b[i].Y))
		assert.Equal(t, a[i].NewPage, b[i].NewPage)
	}
}

func TestLayout_EmptyAndNegative(t *testing.T) {
	placements, err := Layout(0, A4Labels())
	require.NoError(t, err)
	assert.Empty(t, placements)

	_, err = Layout(-1, A4Labels())
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	pages, err := Pages(0, A4Labels())
	require.NoError(t, err)
	assert.Zero(t, pages)
}

func TestValidatePreviewCount(t *testing.T) {
	g := A4Labels()
	limit := 52 * MaxPreviewPages

	require.NoError(t, ValidatePreviewCount(0, g))
	require.NoError(t, ValidatePreviewCount(limit, g))

	for _, count := range []int{-1, limit + 1, 2_000_000, 1 << 62} {
		err := ValidatePreviewCount(count, g)
		assert.True(t, apperror.Is(err, apperror.CodeValidation), "count %d: %v", count, err)
	}

	bad := g
	bad.CellWidth = mm("400")
	assert.True(t, apperror.Is(ValidatePreviewCount(1, bad), apperror.CodeGeometryTooSmall))
}

func TestPages_LargeCountDoesNotOverflow(t *testing.T) {
	pages, err := Pages(1<<62, A4Labels())
	require.NoError(t, err)
	assert.Positive(t, pages)

	pages, err = Pages(53, A4Labels())
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}

func TestLayout_SingleCellPage(t *testing.T) {
	g := Geometry{
		PageWidth: mm("45"), PageHeight: mm("20"),
		CellWidth: mm("45"), CellHeight: mm("20"),
		GapX: mm("2"), GapY: mm("2"),
	}
	placements, err := Layout(3, g)
	require.NoError(t, err)
	for i, p := range placements {
		assert.Equal(t, i, p.PageIndex)
		assert.True(t, p.X.IsZero())
		assert.True(t, p.Y.IsZero())
		assert.Equal(t, i > 0, p.NewPage)
	}
}
