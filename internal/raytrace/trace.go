package raytrace

import (
	"fmt"
	"math"

	"github.com/banshee-data/occupancy/internal/gridmap"
)

// ErrInvalidArgument is gridmap.ErrInvalidArgument, re-exported so callers
// of this package can match errors without importing gridmap.
var ErrInvalidArgument = gridmap.ErrInvalidArgument

// Segment is a line segment in grid coordinates (same units as the grid's
// cell size). Start and End must have one entry per grid axis.
type Segment struct {
	Start []float64
	End   []float64
}

// geometry is the grid's shape, cell size and strides unpacked into fixed
// arrays for the traversal loop.
type geometry struct {
	dims   int
	shape  [gridmap.MaxDims]int
	size   [gridmap.MaxDims]float64
	stride [gridmap.MaxDims]int
}

func geometryOf(g *gridmap.GridMap) geometry {
	geo := geometry{dims: g.Dims()}
	for i := 0; i < geo.dims; i++ {
		geo.shape[i] = g.ShapeAt(i)
		geo.size[i] = g.CellSizeAt(i)
		geo.stride[i] = g.StrideAt(i)
	}
	return geo
}

// TraceRay walks the segment start→end through g and updates its counters:
// every cell the segment passes through gets one miss, except the cell
// containing end, which gets one hit instead. A segment that leaves the grid
// before reaching end records misses only; a segment that never touches the
// grid records nothing.
//
// The walk is the incremental voxel traversal of Amanatides and Woo, so its
// cost is proportional to the number of cells visited. When the segment
// crosses several cell boundaries at the same parameter (a corner), all of
// those axes advance together and the diagonal cell is counted once.
//
// TraceRay panics if start or end does not have g.Dims() coordinates.
// It is not safe to trace into the same map from several goroutines; use
// TraceRays for that.
func TraceRay(start, end []float64, g *gridmap.GridMap) {
	traceRay(start, end, g, geometryOf(g))
}

func traceRay(start, end []float64, g *gridmap.GridMap, geo geometry) {
	n := geo.dims
	if len(start) != n || len(end) != n {
		panic(fmt.Sprintf("raytrace: segment has %d/%d coordinates, grid has %d axes", len(start), len(end), n))
	}

	var (
		dir   [gridmap.MaxDims]float64
		index [gridmap.MaxDims]int
		step  [gridmap.MaxDims]int
		tMax  [gridmap.MaxDims]float64
	)

	tEnter, ok := clip(start, end, &geo, &dir)
	if !ok {
		return
	}

	offset := 0
	for i := 0; i < n; i++ {
		cell := int(math.Floor((start[i] + tEnter*dir[i]) / geo.size[i]))
		index[i] = min(max(cell, 0), geo.shape[i]-1)
		offset += index[i] * geo.stride[i]

		step[i] = 1
		if dir[i] < 0 {
			step[i] = -1
		}
		tMax[i] = crossing(index[i], step[i], geo.size[i], start[i], dir[i])
	}
	g.AddMiss(offset, 1)

	for {
		tMin := math.Inf(1)
		for i := 0; i < n; i++ {
			if tMax[i] < tMin {
				tMin = tMax[i]
			}
		}
		if !(tMin < 1) {
			break
		}

		for i := 0; i < n; i++ {
			if tMax[i] != tMin {
				continue
			}
			index[i] += step[i]
			if index[i] < 0 || index[i] >= geo.shape[i] {
				return
			}
			offset += step[i] * geo.stride[i]
			tMax[i] = crossing(index[i], step[i], geo.size[i], start[i], dir[i])
		}
		g.AddMiss(offset, 1)
	}

	// end lies in the last visited cell.
	g.AddMiss(offset, -1)
	g.AddHit(offset, 1)
}

// crossing is the segment parameter at which the walk leaves cell index
// along one axis when moving in direction step.
func crossing(index, step int, size, start, dir float64) float64 {
	next := index
	if step > 0 {
		next++
	}
	return (float64(next)*size - start) / dir
}

// TraceSegments traces every segment into g on the calling goroutine.
func TraceSegments(segments []Segment, g *gridmap.GridMap) {
	geo := geometryOf(g)
	for _, s := range segments {
		traceRay(s.Start, s.End, g, geo)
	}
}

// Segments pairs starts[i] with ends[i]. It fails with ErrInvalidArgument if
// the lists differ in length.
func Segments(starts, ends [][]float64) ([]Segment, error) {
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%w: \"starts\" and \"ends\" must be of equal length, got %d and %d",
			ErrInvalidArgument, len(starts), len(ends))
	}
	out := make([]Segment, len(starts))
	for i := range starts {
		out[i] = Segment{Start: starts[i], End: ends[i]}
	}
	return out, nil
}
