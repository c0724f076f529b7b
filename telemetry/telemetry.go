package telemetry

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/singer-io/tap-amazon-sp/pkg/retry"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

const namespace = "tap_amazon_sp"

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	recordsEmitted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_emitted_total",
		Help:      "Records written per stream and marketplace",
	}, []string{"stream", "marketplace"})

	requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of remote calls",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"operation", "status"})

	throttledRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttled_requests_total",
		Help:      "Remote calls rejected for quota",
	}, []string{"operation"})

	syncResults = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_results_total",
		Help:      "Finished sync passes by outcome",
	}, []string{"result"})

	streamDuration = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_sync_duration_seconds",
		Help:      "Duration of the last pass of each stream",
	}, []string{"stream"})
)

// ObserveRequest records the latency of one remote call; status 0 means no response
func ObserveRequest(operation string, status int, duration time.Duration, err error) {
	requestDuration.WithLabelValues(operation, strconv.Itoa(status)).Observe(duration.Seconds())
	if retry.IsThrottled(err) {
		throttledRequests.WithLabelValues(operation).Inc()
	}
}

func RecordEmitted(stream, marketplace string) {
	recordsEmitted.WithLabelValues(stream, marketplace).Inc()
}

func ObserveStream(stream string, duration time.Duration) {
	streamDuration.WithLabelValues(stream).Set(duration.Seconds())
}

// TrackSyncResult counts the outcome of a pass
func TrackSyncResult(syncID string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	syncResults.WithLabelValues(result).Inc()
	logger.Debugf("sync[%s] finished with %s", syncID, result)
}

// Flush dumps every metric in the text exposition format; an empty path is a no-op
func Flush(path string) error {
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %s", path, err)
	}

	logger.Infof("metrics written to %s", path)
	return nil
}
