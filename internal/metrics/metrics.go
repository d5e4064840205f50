// Package metrics exposes Prometheus counters for scan activity.
// Registration is lazy and optional; recording is a no-op until
// InitMetrics has been called.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal          prometheus.Counter
	filesScannedTotal   prometheus.Counter
	filesSkippedTotal   *prometheus.CounterVec
	keysDiscoveredTotal *prometheus.CounterVec

	metricsOnce       sync.Once
	metricsRegistered bool
)

// ScanMetrics provides methods to record scan metrics.
type ScanMetrics struct{}

// NewScanMetrics creates a new ScanMetrics instance.
func NewScanMetrics() *ScanMetrics {
	return &ScanMetrics{}
}

// InitMetrics initializes all Prometheus metrics.
// This should be called once at startup if metrics are enabled.
func InitMetrics() {
	metricsOnce.Do(func() {
		scansTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aicred_scans_total",
				Help: "Total number of scans performed",
			},
		)

		filesScannedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aicred_files_scanned_total",
				Help: "Total number of candidate files read",
			},
		)

		filesSkippedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aicred_files_skipped_total",
				Help: "Total number of candidate files skipped",
			},
			[]string{"reason"},
		)

		keysDiscoveredTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aicred_keys_discovered_total",
				Help: "Total number of credentials discovered",
			},
			[]string{"provider"},
		)

		metricsRegistered = true
	})
}

// RecordScan records one scan invocation.
func (m *ScanMetrics) RecordScan() {
	if !metricsRegistered || scansTotal == nil {
		return
	}
	scansTotal.Inc()
}

// RecordFileScanned records one candidate file read.
func (m *ScanMetrics) RecordFileScanned() {
	if !metricsRegistered || filesScannedTotal == nil {
		return
	}
	filesScannedTotal.Inc()
}

// RecordFileSkipped records one skipped candidate file.
func (m *ScanMetrics) RecordFileSkipped(reason string) {
	if !metricsRegistered || filesSkippedTotal == nil {
		return
	}
	filesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordKeyDiscovered records one discovered credential.
func (m *ScanMetrics) RecordKeyDiscovered(provider string) {
	if !metricsRegistered || keysDiscoveredTotal == nil {
		return
	}
	keysDiscoveredTotal.WithLabelValues(provider).Inc()
}

// IsMetricsRegistered returns whether metrics have been initialized.
func IsMetricsRegistered() bool {
	return metricsRegistered
}
