package raytrace

import (
	"fmt"
	"math"

	"github.com/banshee-data/occupancy/internal/gridmap"
)

// clip intersects the segment's parameter range [0,1] with the grid box and
// returns the parameter at which the segment is first inside the grid. dir
// receives end-start. A zero direction component divides to ±Inf (or NaN
// exactly on a face), which the comparisons treat as "no constraint on this
// axis".
func clip(start, end []float64, geo *geometry, dir *[gridmap.MaxDims]float64) (float64, bool) {
	tEnter, tExit := 0.0, math.Inf(1)
	for i := 0; i < geo.dims; i++ {
		dir[i] = end[i] - start[i]
		t0 := -start[i] / dir[i]
		t1 := (float64(geo.shape[i])*geo.size[i] - start[i]) / dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
	}
	if tEnter >= 1 || tExit < tEnter {
		return 0, false
	}
	return tEnter, true
}

// Intersects reports whether TraceRay(start, end, g) would touch any cell,
// including a segment that starts on the grid's upper face and leaves.
// It panics on a dimensionality mismatch, like TraceRay.
func Intersects(start, end []float64, g *gridmap.GridMap) bool {
	geo := geometryOf(g)
	if len(start) != geo.dims || len(end) != geo.dims {
		panic(fmt.Sprintf("raytrace: segment has %d/%d coordinates, grid has %d axes", len(start), len(end), geo.dims))
	}
	var dir [gridmap.MaxDims]float64
	_, ok := clip(start, end, &geo, &dir)
	return ok
}

// CellOf returns the index of the cell containing point and whether that
// cell is inside the grid. Points exactly on a cell's lower face belong to
// that cell, so a point on the grid's upper face is outside. TraceRay clamps
// a start on that face into the last cell instead, so CellOf does not predict
// where a zero-length segment there records its hit.
func CellOf(point []float64, g *gridmap.GridMap) ([]int, bool) {
	index := make([]int, g.Dims())
	if len(point) != len(index) {
		return nil, false
	}
	inside := true
	for i, p := range point {
		f := math.Floor(p / g.CellSizeAt(i))
		if !(f >= 0 && f < float64(g.ShapeAt(i))) {
			inside = false
			index[i] = -1
			continue
		}
		index[i] = int(f)
	}
	return index, inside
}
