package gridmap

import "math"

// Reflectance returns, per cell, the fraction of traced segments that
// terminated in the cell: hits / (hits + misses). Cells that no segment
// touched are NaN, so callers can tell "never observed" from "always free".
func (g *GridMap) Reflectance() []float64 {
	out := make([]float64, g.elements)
	for i := range out {
		total := g.hits[i] + g.misses[i]
		if total == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(g.hits[i]) / float64(total)
	}
	return out
}

// Observed counts the cells with at least one hit or miss.
func (g *GridMap) Observed() int {
	n := 0
	for i := range g.hits {
		if g.hits[i] != 0 || g.misses[i] != 0 {
			n++
		}
	}
	return n
}
