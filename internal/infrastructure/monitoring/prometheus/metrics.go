package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/hbond-engine/internal/domain/hbond"
	"github.com/turtacn/hbond-engine/internal/domain/structure"
)

// Structure outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DetectionDurationBuckets cover a single dinucleotide up to a ribosome.
var DetectionDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 60}

// DetectionMetrics are the detection engine's metrics.  It also implements
// hbond.Recorder so an Aggregator can report into it directly.
type DetectionMetrics struct {
	DetectionDuration  HistogramVec
	PairsChecked       CounterVec
	BondsDetected      CounterVec
	FilterRemoved      CounterVec
	StructuresAnalyzed CounterVec
	CacheLookups       CounterVec
	BatchJobs          CounterVec

	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

// NewDetectionMetrics registers every detection metric on c.
func NewDetectionMetrics(c MetricsCollector) *DetectionMetrics {
	return &DetectionMetrics{
		DetectionDuration: c.RegisterHistogram("hbond_detection_duration_seconds",
			"Wall time of one structure analysis.", DetectionDurationBuckets, "preset"),
		PairsChecked: c.RegisterCounter("hbond_residue_pairs_checked_total",
			"Residue pairs passed to the per-pair detector."),
		BondsDetected: c.RegisterCounter("hbond_bonds_detected_total",
			"Hydrogen bonds reported, by classification.", "classification"),
		FilterRemoved: c.RegisterCounter("hbond_filter_removed_total",
			"Bonds dropped by a global occupancy filter.", "filter"),
		StructuresAnalyzed: c.RegisterCounter("hbond_structures_analyzed_total",
			"Structures analysed, by outcome.", "status"),
		CacheLookups: c.RegisterCounter("hbond_cache_lookups_total",
			"Result cache lookups, by outcome.", "result"),
		BatchJobs: c.RegisterCounter("hbond_batch_jobs_total",
			"Batch jobs finished, by outcome.", "status"),
		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"HTTP requests served.", "method", "route", "code"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency.", nil, "method", "route"),
	}
}

// RecordHBonds implements hbond.Recorder.
func (m *DetectionMetrics) RecordHBonds(_ *structure.Structure, res *hbond.StructureHBondResult) {
	m.PairsChecked.WithLabelValues().Add(float64(res.PairsChecked))
	m.RecordBonds(res)
}

// RecordBonds counts the bonds of res by classification.
func (m *DetectionMetrics) RecordBonds(res *hbond.StructureHBondResult) {
	for class, n := range res.CountByClassification() {
		m.BondsDetected.WithLabelValues(class.String()).Add(float64(n))
	}
}

// ObserveDetection records one finished analysis.
func (m *DetectionMetrics) ObserveDetection(preset string, d time.Duration, err error) {
	m.DetectionDuration.WithLabelValues(preset).Observe(d.Seconds())
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.StructuresAnalyzed.WithLabelValues(status).Inc()
}

// RecordFilterRemoved counts bonds removed by a global filter.
func (m *DetectionMetrics) RecordFilterRemoved(filter string, n int) {
	if n > 0 {
		m.FilterRemoved.WithLabelValues(filter).Add(float64(n))
	}
}

// RecordCacheLookup counts one result cache lookup.
func (m *DetectionMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordBatchJob counts one finished batch job.
func (m *DetectionMetrics) RecordBatchJob(status string) {
	m.BatchJobs.WithLabelValues(status).Inc()
}

// RecordHTTPRequest counts one served request.
func (m *DetectionMetrics) RecordHTTPRequest(method, route string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

//Personal.AI order the ending
