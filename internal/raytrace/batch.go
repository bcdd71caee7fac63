package raytrace

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/occupancy/internal/config"
	"github.com/banshee-data/occupancy/internal/gridmap"
	"github.com/banshee-data/occupancy/internal/timeutil"
)

// BatchConfig tunes a single TraceRaysContext call. The zero value uses
// GOMAXPROCS workers and records metrics.
type BatchConfig struct {
	// Workers caps the number of tracing goroutines. 0 means
	// runtime.GOMAXPROCS(0). The effective count never exceeds the number
	// of segments.
	Workers int
	// DisableMetrics skips the Prometheus updates for this call.
	DisableMetrics bool
	// Clock times the call for BatchStats.Elapsed. nil means the wall clock.
	Clock timeutil.Clock
}

func (c BatchConfig) clock() timeutil.Clock {
	if c.Clock == nil {
		return timeutil.RealClock{}
	}
	return c.Clock
}

// BatchConfigFromTracing builds a BatchConfig from loaded configuration.
func BatchConfigFromTracing(cfg *config.TracingConfig) BatchConfig {
	if cfg == nil {
		return BatchConfig{}
	}
	return BatchConfig{
		Workers:        cfg.GetWorkers(),
		DisableMetrics: !cfg.GetMetricsEnabled(),
	}
}

// BatchStats describes a finished (or cancelled) batch call.
type BatchStats struct {
	BatchID  string // correlates the batch's log lines
	Segments int
	Workers  int
	Merged   int // workers whose partial map reached the output map
	Elapsed  time.Duration
}

// TraceRays traces starts[i]→ends[i] for every i into g using a fork-join
// pool of workers. It returns ErrInvalidArgument, without touching g, if the
// lists differ in length or any vector's length differs from g.Dims().
//
// The result is identical to calling TraceRay for every segment in order.
func TraceRays(starts, ends [][]float64, g *gridmap.GridMap) error {
	_, err := TraceRaysContext(context.Background(), starts, ends, g, BatchConfig{})
	return err
}

// TraceRaysContext is TraceRays with cancellation and per-call tuning.
//
// Segment i is traced by worker i mod W into the worker's own zeroed map.
// Each worker merges its map into g when it finishes, holding only g's merge
// lock, so batches against different maps never wait on each other.
//
// ctx is checked between segments. A worker that sees cancellation stops and
// discards its partial map; workers that had already merged stay merged, and
// BatchStats.Merged reports how many did. The call then returns ctx's error.
// Callers that need all-or-nothing should trace into a scratch map from
// g.Clone() plus Reset, and MergeInPlace it into g only on success.
func TraceRaysContext(ctx context.Context, starts, ends [][]float64, g *gridmap.GridMap, cfg BatchConfig) (BatchStats, error) {
	clock := cfg.clock()
	started := clock.Now()
	stats := BatchStats{BatchID: uuid.NewString(), Segments: len(starts)}

	if err := validateBatch(starts, ends, g); err != nil {
		recordBatch(cfg, resultInvalid, stats)
		return stats, err
	}
	if len(starts) == 0 {
		recordBatch(cfg, resultOK, stats)
		return stats, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(starts))
	stats.Workers = workers

	geo := geometryOf(g)
	shape, cellSize := g.Shape(), g.CellSize()
	var merged atomic.Int64

	grp, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		grp.Go(func() error {
			local, err := gridmap.New(shape, cellSize)
			if err != nil {
				return err
			}

			done := gctx.Done()
			traced := 0
			for i := w; i < len(starts); i += workers {
				select {
				case <-done:
					Tracef("batch %s worker %d stopped after %d segments: %v", stats.BatchID, w, traced, gctx.Err())
					return gctx.Err()
				default:
				}
				traceRay(starts[i], ends[i], local, geo)
				traced++
			}

			if err := g.MergeInPlace(local); err != nil {
				Opsf("batch %s worker %d merge failed: %v", stats.BatchID, w, err)
				return err
			}
			merged.Add(1)
			Tracef("batch %s worker %d merged %d segments", stats.BatchID, w, traced)
			return nil
		})
	}

	err := grp.Wait()
	stats.Merged = int(merged.Load())
	stats.Elapsed = clock.Since(started)

	if err != nil {
		result := resultInvalid
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result = resultCancelled
		}
		Opsf("batch %s aborted: %d/%d workers merged: %v", stats.BatchID, stats.Merged, workers, err)
		recordBatch(cfg, result, stats)
		return stats, err
	}

	Diagf("batch %s traced %d segments with %d workers in %v", stats.BatchID, stats.Segments, workers, stats.Elapsed)
	recordBatch(cfg, resultOK, stats)
	return stats, nil
}

// TraceSegmentsContext is TraceRaysContext over paired segments.
func TraceSegmentsContext(ctx context.Context, segments []Segment, g *gridmap.GridMap, cfg BatchConfig) (BatchStats, error) {
	starts := make([][]float64, len(segments))
	ends := make([][]float64, len(segments))
	for i, s := range segments {
		starts[i], ends[i] = s.Start, s.End
	}
	return TraceRaysContext(ctx, starts, ends, g, cfg)
}

// validateBatch rejects the call before any worker starts.
func validateBatch(starts, ends [][]float64, g *gridmap.GridMap) error {
	if g == nil {
		return fmt.Errorf("%w: output map is nil", ErrInvalidArgument)
	}
	if len(starts) != len(ends) {
		return fmt.Errorf("%w: \"starts\" and \"ends\" must be of equal length, got %d and %d",
			ErrInvalidArgument, len(starts), len(ends))
	}
	dims := g.Dims()
	for i := range starts {
		if len(starts[i]) != dims || len(ends[i]) != dims {
			return fmt.Errorf("%w: segment %d has %d/%d coordinates, grid has %d axes",
				ErrInvalidArgument, i, len(starts[i]), len(ends[i]), dims)
		}
	}
	return nil
}

func recordBatch(cfg BatchConfig, result string, stats BatchStats) {
	if cfg.DisableMetrics {
		return
	}
	batchesTotal.WithLabelValues(result).Inc()
	if result != resultOK || stats.Workers == 0 {
		return
	}
	segmentsTraced.Add(float64(stats.Segments))
	batchWorkers.Observe(float64(stats.Workers))
	batchDuration.Observe(stats.Elapsed.Seconds())
}
