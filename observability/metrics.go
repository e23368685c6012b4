package observability

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionsTotal counts snapshot collections by strategy and outcome
	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conflictdiff_collections_total",
			Help: "Total number of snapshot collections by strategy and status",
		},
		[]string{"strategy", "status"}, // status: success, failure
	)

	// ConflictsCollectedTotal counts artifacts reported with a conflict
	ConflictsCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conflictdiff_conflicts_collected_total",
			Help: "Total number of conflicting artifacts collected by strategy",
		},
		[]string{"strategy"},
	)

	// TreeLinesScannedTotal counts dependency:tree lines fed to the text collector
	TreeLinesScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conflictdiff_tree_lines_scanned_total",
			Help: "Total number of dependency tree lines scanned",
		},
	)

	// CompareResultsTotal counts compared artifacts by category
	CompareResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conflictdiff_compare_results_total",
			Help: "Total number of compared artifacts by category",
		},
		[]string{"category"}, // resolved, new, changed
	)

	// CollectDuration tracks snapshot collection duration in seconds
	CollectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conflictdiff_collect_duration_seconds",
			Help:    "Snapshot collection duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		},
		[]string{"strategy"},
	)
)

// WriteMetricsFile writes the default registry to path in the Prometheus
// text exposition format, for node_exporter's textfile collector.
func WriteMetricsFile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}
	return counterValue(metric)
}

// GetHistogramCount returns the number of observations recorded by a
// histogram with the given labels.
func GetHistogramCount(histogram *prometheus.HistogramVec, labels ...string) (uint64, error) {
	observer, err := histogram.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}
	metric, ok := observer.(prometheus.Metric)
	if !ok {
		return 0, fmt.Errorf("histogram observer does not expose a metric")
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}
	return pb.GetHistogram().GetSampleCount(), nil
}

func counterValue(metric prometheus.Metric) (float64, error) {
	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
