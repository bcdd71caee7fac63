package raytrace

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: the collectors are package-level and other tests record
// into them.
func TestBatchMetrics(t *testing.T) {
	segments := testutil.ToFloat64(segmentsTraced)
	ok := testutil.ToFloat64(batchesTotal.WithLabelValues(resultOK))
	invalid := testutil.ToFloat64(batchesTotal.WithLabelValues(resultInvalid))
	cancelled := testutil.ToFloat64(batchesTotal.WithLabelValues(resultCancelled))

	g := newMap(t, []int{6, 3}, []float64{1, 1})
	starts := [][]float64{{-1.5, 1.5}, {3.5, -1.0}, {7.5, 1.0}}
	ends := [][]float64{{2.5, 1.5}, {3.5, 1.5}, {4.5, 0.5}}

	require.NoError(t, TraceRays(starts, ends, g))
	assert.Equal(t, segments+3, testutil.ToFloat64(segmentsTraced))
	assert.Equal(t, ok+1, testutil.ToFloat64(batchesTotal.WithLabelValues(resultOK)))

	require.Error(t, TraceRays(starts, ends[:1], g))
	assert.Equal(t, invalid+1, testutil.ToFloat64(batchesTotal.WithLabelValues(resultInvalid)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TraceRaysContext(ctx, starts, ends, g, BatchConfig{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, cancelled+1, testutil.ToFloat64(batchesTotal.WithLabelValues(resultCancelled)))
	assert.Equal(t, segments+3, testutil.ToFloat64(segmentsTraced), "only successful batches count segments")

	_, err = TraceRaysContext(context.Background(), starts, ends, g, BatchConfig{DisableMetrics: true})
	require.NoError(t, err)
	assert.Equal(t, ok+1, testutil.ToFloat64(batchesTotal.WithLabelValues(resultOK)))
}
