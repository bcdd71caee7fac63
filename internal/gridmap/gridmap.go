package gridmap

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
)

// MaxDims is the largest dimensionality a GridMap supports. Tracing keeps
// its per-axis state in fixed [MaxDims] arrays so the hot loop stays on the
// stack.
const MaxDims = 8

// ErrInvalidArgument is returned (wrapped) for every rejected argument:
// bad geometry, mismatched counter lengths, or merging maps of different
// geometry.
var ErrInvalidArgument = errors.New("invalid argument")

// GridMap is a dense N-dimensional histogram of hit and miss counts over
// axis-aligned cells. The grid origin is at 0 on every axis and cell
// (i0, ..., iN-1) covers [ik*CellSize[k], (ik+1)*CellSize[k]) on axis k.
//
// Per-cell access is not synchronised. mu only serialises MergeInPlace so
// that many workers can fold private maps into one shared map.
type GridMap struct {
	shape    []int
	cellSize []float64
	stride   []int
	elements int

	hits   []int // len = elements, row-major
	misses []int // len = elements, row-major

	mu sync.Mutex
}

// New creates a zeroed GridMap. It fails with ErrInvalidArgument when the
// dimensionality is zero or above MaxDims, when shape and cellSize differ in
// length, when any shape entry is < 1 or any cell size is not > 0, or when
// the total cell count overflows int.
func New(shape []int, cellSize []float64) (*GridMap, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: dimensionality of space must be positive", ErrInvalidArgument)
	}
	if len(shape) > MaxDims {
		return nil, fmt.Errorf("%w: dimensionality %d exceeds maximum %d", ErrInvalidArgument, len(shape), MaxDims)
	}
	if len(shape) != len(cellSize) {
		return nil, fmt.Errorf("%w: \"shape\" has %d axes but \"cellSize\" has %d", ErrInvalidArgument, len(shape), len(cellSize))
	}
	for i := range shape {
		if shape[i] < 1 {
			return nil, fmt.Errorf("%w: \"shape\" must be positive, got %d on axis %d", ErrInvalidArgument, shape[i], i)
		}
		// !(x > 0) also rejects NaN.
		if !(cellSize[i] > 0) || math.IsInf(cellSize[i], 0) {
			return nil, fmt.Errorf("%w: \"cellSize\" must be positive and finite, got %g on axis %d", ErrInvalidArgument, cellSize[i], i)
		}
	}

	g := &GridMap{
		shape:    slices.Clone(shape),
		cellSize: slices.Clone(cellSize),
		stride:   make([]int, len(shape)),
	}
	g.elements = 1
	for i := len(shape) - 1; i >= 0; i-- {
		if g.elements > math.MaxInt/shape[i] {
			return nil, fmt.Errorf("%w: \"shape\" %v has more cells than an int can count", ErrInvalidArgument, shape)
		}
		g.stride[i] = g.elements
		g.elements *= shape[i]
	}
	g.hits = make([]int, g.elements)
	g.misses = make([]int, g.elements)
	return g, nil
}

// LinearIndex maps a cell coordinate to its row-major offset in Hits and
// Misses. The index is only bounds-checked in gridmapdebug builds.
func (g *GridMap) LinearIndex(index []int) int {
	if boundsChecks {
		g.checkBounds(index)
	}
	offset := 0
	for i, s := range g.stride {
		offset += index[i] * s
	}
	return offset
}

// HitAt returns a pointer to the hit counter of the given cell.
func (g *GridMap) HitAt(index []int) *int { return &g.hits[g.LinearIndex(index)] }

// MissAt returns a pointer to the miss counter of the given cell.
func (g *GridMap) MissAt(index []int) *int { return &g.misses[g.LinearIndex(index)] }

// AddMiss adds delta to the miss counter at a precomputed linear offset.
func (g *GridMap) AddMiss(offset, delta int) { g.misses[offset] += delta }

// AddHit adds delta to the hit counter at a precomputed linear offset.
func (g *GridMap) AddHit(offset, delta int) { g.hits[offset] += delta }

// Hits returns the flat row-major hit counters. The slice is the map's own
// storage.
func (g *GridMap) Hits() []int { return g.hits }

// Misses returns the flat row-major miss counters. The slice is the map's
// own storage.
func (g *GridMap) Misses() []int { return g.misses }

// Shape returns a copy of the per-axis cell counts.
func (g *GridMap) Shape() []int { return slices.Clone(g.shape) }

// CellSize returns a copy of the per-axis cell extents.
func (g *GridMap) CellSize() []float64 { return slices.Clone(g.cellSize) }

// Stride returns a copy of the per-axis row-major strides.
func (g *GridMap) Stride() []int { return slices.Clone(g.stride) }

// Dims is the dimensionality of the grid.
func (g *GridMap) Dims() int { return len(g.shape) }

// Elements is the total number of cells.
func (g *GridMap) Elements() int { return g.elements }

// ShapeAt returns the cell count on one axis without copying.
func (g *GridMap) ShapeAt(axis int) int { return g.shape[axis] }

// CellSizeAt returns the cell extent on one axis without copying.
func (g *GridMap) CellSizeAt(axis int) float64 { return g.cellSize[axis] }

// StrideAt returns the row-major stride of one axis without copying.
func (g *GridMap) StrideAt(axis int) int { return g.stride[axis] }

// ReplaceHits overwrites every hit counter with a copy of values.
func (g *GridMap) ReplaceHits(values []int) error {
	if len(values) != g.elements {
		return fmt.Errorf("%w: \"hits\" must have %d elements, got %d", ErrInvalidArgument, g.elements, len(values))
	}
	copy(g.hits, values)
	return nil
}

// ReplaceMisses overwrites every miss counter with a copy of values.
func (g *GridMap) ReplaceMisses(values []int) error {
	if len(values) != g.elements {
		return fmt.Errorf("%w: \"misses\" must have %d elements, got %d", ErrInvalidArgument, g.elements, len(values))
	}
	copy(g.misses, values)
	return nil
}

// SameGeometry reports whether both maps have identical shape and cell size.
func (g *GridMap) SameGeometry(other *GridMap) bool {
	return slices.Equal(g.shape, other.shape) && slices.Equal(g.cellSize, other.cellSize)
}

// Equal reports whether both maps have identical geometry and counters.
func (g *GridMap) Equal(other *GridMap) bool {
	if g == other {
		return true
	}
	if other == nil || !g.SameGeometry(other) {
		return false
	}
	return slices.Equal(g.hits, other.hits) && slices.Equal(g.misses, other.misses)
}

// MergeInPlace adds other's counters into g element-wise. Only g's merge
// lock is held, so concurrent merges into g are safe as long as nothing
// else is writing to g at the same time. Merging is commutative and
// associative.
func (g *GridMap) MergeInPlace(other *GridMap) error {
	if other == nil {
		return fmt.Errorf("%w: cannot merge a nil map", ErrInvalidArgument)
	}
	if !g.SameGeometry(other) {
		return fmt.Errorf("%w: both maps must have the same shapes and sizes (shape %v/%v, cellSize %v/%v)",
			ErrInvalidArgument, g.shape, other.shape, g.cellSize, other.cellSize)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.hits {
		g.hits[i] += other.hits[i]
		g.misses[i] += other.misses[i]
	}
	return nil
}

// Clone returns a deep copy of g with its own counters and lock.
func (g *GridMap) Clone() *GridMap {
	return &GridMap{
		shape:    slices.Clone(g.shape),
		cellSize: slices.Clone(g.cellSize),
		stride:   slices.Clone(g.stride),
		elements: g.elements,
		hits:     slices.Clone(g.hits),
		misses:   slices.Clone(g.misses),
	}
}

// Reset zeroes both counter arrays.
func (g *GridMap) Reset() {
	clear(g.hits)
	clear(g.misses)
}

// Unravel converts a linear offset back into a cell coordinate.
func (g *GridMap) Unravel(offset int) []int {
	index := make([]int, len(g.shape))
	for i, s := range g.stride {
		index[i] = offset / s
		offset %= s
	}
	return index
}

func (g *GridMap) checkBounds(index []int) {
	if len(index) != len(g.shape) {
		panic(fmt.Sprintf("gridmap: index has %d axes, grid has %d", len(index), len(g.shape)))
	}
	for i, v := range index {
		if v < 0 || v >= g.shape[i] {
			panic(fmt.Sprintf("gridmap: index %v out of range for shape %v", index, g.shape))
		}
	}
}
