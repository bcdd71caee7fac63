package raytracetest

import (
	"math/rand/v2"

	"github.com/banshee-data/occupancy/internal/gridmap"
)

// Scenario is a random grid geometry with a set of segments.
type Scenario struct {
	Shape    []int
	CellSize []float64
	Starts   [][]float64
	Ends     [][]float64
}

// NewMap returns a zeroed map with the scenario's geometry.
func (s Scenario) NewMap() *gridmap.GridMap {
	g, err := gridmap.New(s.Shape, s.CellSize)
	if err != nil {
		panic(err)
	}
	return g
}

// RandomScenario draws a grid with cell sizes in [1,10) and extents in
// [1,100) per axis, and rays with endpoints in [-10,110) per axis, so that
// segments start and end both inside and outside the grid.
func RandomScenario(rng *rand.Rand, dims, rays int) Scenario {
	s := Scenario{
		Shape:    make([]int, dims),
		CellSize: make([]float64, dims),
		Starts:   make([][]float64, rays),
		Ends:     make([][]float64, rays),
	}
	for d := 0; d < dims; d++ {
		s.CellSize[d] = uniform(rng, 1, 10)
		s.Shape[d] = max(1, int(uniform(rng, 1, 100)/s.CellSize[d]))
	}
	for i := 0; i < rays; i++ {
		s.Starts[i] = RandomPoint(rng, dims)
		s.Ends[i] = RandomPoint(rng, dims)
	}
	return s
}

// RandomPoint draws a point with every coordinate in [-10,110).
func RandomPoint(rng *rand.Rand, dims int) []float64 {
	p := make([]float64, dims)
	for d := range p {
		p[d] = uniform(rng, -10, 110)
	}
	return p
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
