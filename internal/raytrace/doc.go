// Package raytrace walks line segments through a gridmap.GridMap and
// accumulates hit/miss statistics, one segment at a time or in parallel
// batches.
//
// Responsibilities: incremental voxel traversal (TraceRay), fork-join batch
// tracing with per-worker partial maps (TraceRays, TraceRaysContext),
// segment/grid intersection and point lookup helpers.
// Key types: Segment, BatchConfig, BatchStats.
//
// Dependency rule: raytrace may depend on gridmap, config and timeutil, never on
// raytracetest. The brute-force reference tracers in raytracetest exist only
// to check this package in tests.
package raytrace
