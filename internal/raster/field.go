// Package raster reads and samples gridded elevation fields. The on-disk
// format is the ESRI ASCII grid (.asc); in memory a Field is a row-major
// float64 grid with an affine cell-to-coordinate mapping and a reference
// frame tag.
package raster

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// Field is a 2D grid of scalar samples. Row 0 is the northernmost row, as in
// the ASC file layout. Read-only after construction.
type Field struct {
	cols, rows int
	xll, yll   float64 // coordinate of the grid's lower-left corner
	cell       float64 // cell size in frame units
	noData     float64
	hasNoData  bool
	data       []float64 // row-major, rows*cols values
	frame      domain.ReferenceFrame
}

// NewField constructs a Field from raw grid data. The data slice is row-major
// with rows*cols values, northernmost row first.
func NewField(cols, rows int, xll, yll, cell float64, data []float64, f domain.ReferenceFrame) *Field {
	return &Field{
		cols:  cols,
		rows:  rows,
		xll:   xll,
		yll:   yll,
		cell:  cell,
		data:  data,
		frame: f,
	}
}

// SetNoData marks a sentinel value in the grid as "no data". Cells holding it
// sample as invalid.
func (f *Field) SetNoData(v float64) {
	f.noData = v
	f.hasNoData = true
}

// Frame returns the reference frame the grid coordinates are expressed in.
func (f *Field) Frame() domain.ReferenceFrame { return f.frame }

// CellSize returns the grid resolution in frame units.
func (f *Field) CellSize() float64 { return f.cell }

// Size returns the grid dimensions as (cols, rows).
func (f *Field) Size() (int, int) { return f.cols, f.rows }

// Bound returns the outer extent covered by the grid.
func (f *Field) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{f.xll, f.yll},
		Max: orb.Point{f.xll + float64(f.cols)*f.cell, f.yll + float64(f.rows)*f.cell},
	}
}

// at returns the cell value at (col, row) with row 0 at the top.
func (f *Field) at(col, row int) float64 {
	return f.data[row*f.cols+col]
}

func (f *Field) isNoData(v float64) bool {
	return f.hasNoData && v == f.noData
}

// Sample bilinearly interpolates the field at p, which must be expressed in
// the field's own frame. Points outside the covered extent, and points whose
// interpolation neighborhood touches a no-data cell, yield an invalid
// Elevation rather than a numeric guess.
func (f *Field) Sample(p orb.Point) domain.Elevation {
	b := f.Bound()
	if p[0] < b.Min[0] || p[0] > b.Max[0] || p[1] < b.Min[1] || p[1] > b.Max[1] {
		return domain.Elevation{}
	}

	// Fractional cell-center coordinates: (0,0) is the center of the
	// top-left cell.
	fc := (p[0]-f.xll)/f.cell - 0.5
	fr := (b.Max[1]-p[1])/f.cell - 0.5

	c0 := int(math.Floor(fc))
	r0 := int(math.Floor(fr))
	tx := fc - float64(c0)
	ty := fr - float64(r0)

	c1 := c0 + 1
	r1 := r0 + 1

	// Clamp to the grid so points in the outer half-cell margin still sample.
	c0 = clamp(c0, f.cols)
	c1 = clamp(c1, f.cols)
	r0 = clamp(r0, f.rows)
	r1 = clamp(r1, f.rows)

	v00 := f.at(c0, r0)
	v10 := f.at(c1, r0)
	v01 := f.at(c0, r1)
	v11 := f.at(c1, r1)
	if f.isNoData(v00) || f.isNoData(v10) || f.isNoData(v01) || f.isNoData(v11) {
		return domain.Elevation{}
	}

	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return domain.Elevation{Meters: top*(1-ty) + bottom*ty, Valid: true}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
