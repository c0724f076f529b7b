package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quotaErr struct{}

func (quotaErr) Error() string   { return "QuotaExceeded" }
func (quotaErr) Throttled() bool { return true }

func TestRecordEmitted(t *testing.T) {
	RecordEmitted("orders", "US")
	RecordEmitted("orders", "US")
	RecordEmitted("orders", "GB")

	assert.Equal(t, float64(2), testutil.ToFloat64(recordsEmitted.WithLabelValues("orders", "US")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recordsEmitted.WithLabelValues("orders", "GB")))
}

func TestObserveRequestCountsThrottles(t *testing.T) {
	ObserveRequest("getOrderItems", 429, 10*time.Millisecond, quotaErr{})
	ObserveRequest("getOrderItems", 200, 10*time.Millisecond, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(throttledRequests.WithLabelValues("getOrderItems")))
}

func TestFlush(t *testing.T) {
	TrackSyncResult("01TEST", nil)
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, Flush(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tap_amazon_sp_sync_results_total{result="success"} 1`)

	assert.NoError(t, Flush(""))
}
