// Package raytracetest provides brute-force reference tracers and random
// scenario generators for checking internal/raytrace.
//
// Nothing outside _test.go files should import this package.
package raytracetest

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/occupancy/internal/gridmap"
)

// SampleTrace records start→end into g by stepping along the segment in
// parameter increments of min(cellSize)/|end-start|/stepsPerCell and
// counting every distinct cell the sample points fall in. The cell holding
// end, if inside the grid, is then converted from a miss to a hit.
//
// Cells the segment clips for less than one step can be skipped, so this is
// only exact for segments that stay clear of cell corners.
func SampleTrace(start, end []float64, g *gridmap.GridMap, stepsPerCell float64) {
	n := g.Dims()
	shape, size := g.Shape(), g.CellSize()

	v := make([]float64, n)
	floats.SubTo(v, end, start)
	length := floats.Norm(v, 2)
	if length == 0 {
		if idx, ok := cellAt(start, shape, size); ok {
			*g.HitAt(idx)++
		}
		return
	}
	dt := floats.Min(size) / length / stepsPerCell

	p := make([]float64, n)
	var last []int
	for t := 0.0; t < 1.0; t += dt {
		floats.AddScaledTo(p, start, t, v)
		idx, ok := cellAt(p, shape, size)
		if !ok || slices.Equal(idx, last) {
			continue
		}
		*g.MissAt(idx)++
		last = idx
	}

	if idx, ok := cellAt(end, shape, size); ok {
		*g.MissAt(idx)--
		*g.HitAt(idx)++
	}
}

// ExactTrace records start→end into g by enumerating every grid plane the
// segment crosses on every axis, sorting the crossing parameters, and
// classifying each interval between consecutive crossings by its midpoint.
// Crossings that coincide exactly are merged, so a segment through a cell
// corner does not visit the neighbouring cells.
//
// start must not lie exactly on a grid plane; use SampleTrace or a fixed
// expectation for those cases.
func ExactTrace(start, end []float64, g *gridmap.GridMap) {
	n := g.Dims()
	shape, size := g.Shape(), g.CellSize()

	v := make([]float64, n)
	floats.SubTo(v, end, start)

	ts := []float64{0}
	for i := 0; i < n; i++ {
		if v[i] == 0 {
			continue
		}
		for k := 0; k <= shape[i]; k++ {
			t := (float64(k)*size[i] - start[i]) / v[i]
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	ts = append(ts, 1)
	slices.Sort(ts)
	ts = slices.Compact(ts)

	p := make([]float64, n)
	var visited [][]int
	entered := false
	reachedEnd := false
	for j := 0; j+1 < len(ts); j++ {
		mid := ts[j] + (ts[j+1]-ts[j])/2
		floats.AddScaledTo(p, start, mid, v)
		idx, ok := cellAt(p, shape, size)
		if !ok {
			if entered {
				break
			}
			continue
		}
		entered = true
		visited = append(visited, idx)
		reachedEnd = j+2 == len(ts)
	}

	for _, idx := range visited {
		*g.MissAt(idx)++
	}
	if len(visited) > 0 && reachedEnd {
		last := visited[len(visited)-1]
		*g.MissAt(last)--
		*g.HitAt(last)++
	}
}

// Cells returns the indices of every cell with a non-zero hit or miss
// counter, in row-major order.
func Cells(g *gridmap.GridMap) [][]int {
	var out [][]int
	hits, misses := g.Hits(), g.Misses()
	for i := range hits {
		if hits[i] != 0 || misses[i] != 0 {
			out = append(out, g.Unravel(i))
		}
	}
	return out
}

func cellAt(p []float64, shape []int, size []float64) ([]int, bool) {
	idx := make([]int, len(p))
	for i := range p {
		f := math.Floor(p[i] / size[i])
		if f < 0 || f >= float64(shape[i]) {
			return nil, false
		}
		idx[i] = int(f)
	}
	return idx, true
}
