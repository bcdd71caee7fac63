// Package gridmap owns the dense N-dimensional hit/miss accumulator that
// ray tracing writes into.
//
// Responsibilities: grid geometry (shape, cell size, row-major strides),
// per-cell counter access, bulk counter replacement, and merging maps of
// identical geometry.
// Key types: GridMap.
//
// Dependency rule: gridmap depends on nothing else in this module.
// Tracing lives in internal/raytrace.
package gridmap
