package raster

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/frame"
)

// warpNoData marks unsampled cells in a warped grid.
const warpNoData = -9999

// Warp resamples the field into another frame at the given cell size. Each
// target cell center is inverse-transformed into the source frame and
// bilinearly sampled there; cells that land outside the source extent become
// no-data. Warping to the field's own frame returns an equivalent grid.
func Warp(src *Field, to domain.ReferenceFrame, cell float64, rp *frame.Reprojector) (*Field, error) {
	if to.EPSG == src.frame.EPSG {
		return src, nil
	}

	fwd, err := rp.Transformer(src.frame, to)
	if err != nil {
		return nil, err
	}
	inv, err := rp.Transformer(to, src.frame)
	if err != nil {
		return nil, err
	}

	bound, err := warpedBound(src.Bound(), fwd, src.frame, to)
	if err != nil {
		return nil, err
	}

	cols := int(math.Ceil((bound.Max[0] - bound.Min[0]) / cell))
	rows := int(math.Ceil((bound.Max[1] - bound.Min[1]) / cell))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	data := make([]float64, cols*rows)
	top := bound.Min[1] + float64(rows)*cell
	for row := 0; row < rows; row++ {
		y := top - (float64(row)+0.5)*cell
		for col := 0; col < cols; col++ {
			x := bound.Min[0] + (float64(col)+0.5)*cell

			sx, sy, err := inv(x, y)
			if err != nil {
				// Some cells of the target envelope have no image in the
				// source frame; they are no-data, not a failed warp.
				data[row*cols+col] = warpNoData
				continue
			}
			sample := src.Sample(orb.Point{sx, sy})
			if !sample.Valid {
				data[row*cols+col] = warpNoData
				continue
			}
			data[row*cols+col] = sample.Meters
		}
	}

	out := NewField(cols, rows, bound.Min[0], bound.Min[1], cell, data, to)
	out.SetNoData(warpNoData)
	return out, nil
}

// warpedBound transforms a sampling of the source extent's boundary into the
// target frame and returns its envelope. Corners alone are not enough:
// projected edges curve, so edge midpoints are included.
func warpedBound(b orb.Bound, fwd func(x, y float64) (float64, float64, error), from, to domain.ReferenceFrame) (orb.Bound, error) {
	midX := (b.Min[0] + b.Max[0]) / 2
	midY := (b.Min[1] + b.Max[1]) / 2
	probes := [][2]float64{
		{b.Min[0], b.Min[1]}, {b.Max[0], b.Min[1]},
		{b.Min[0], b.Max[1]}, {b.Max[0], b.Max[1]},
		{midX, b.Min[1]}, {midX, b.Max[1]},
		{b.Min[0], midY}, {b.Max[0], midY},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range probes {
		x, y, err := fwd(p[0], p[1])
		if err != nil {
			return orb.Bound{}, &domain.UnsupportedFrameError{From: from, To: to, Err: err}
		}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}, nil
}
