package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scanpos/pkg/enums"
)

// ScanMetrics records the frame pipeline and its outcomes.
type ScanMetrics struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	decodeErrors  prometheus.Counter
	detections    *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	billTotal     prometheus.Gauge
}

// NewScanMetrics registers the scan metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	frames := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_frames_total",
		Help: "Frames pulled from the capture source.",
	})
	frameDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scan_frame_duration_seconds",
		Help:    "Time to decode and reconcile one frame.",
		Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5},
	})
	decodeErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_decode_errors_total",
		Help: "Frames skipped because the decoder failed.",
	})
	detections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_detections_total",
		Help: "Decoded symbols by kind.",
	}, []string{"kind"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_outcomes_total",
		Help: "Scan and user action outcomes.",
	}, []string{"kind", "status", "reason"})
	billTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bill_total",
		Help: "Current bill total after discount.",
	})
	reg.MustRegister(frames, frameDuration, decodeErrors, detections, outcomes, billTotal)
	return &ScanMetrics{
		frames:        frames,
		frameDuration: frameDuration,
		decodeErrors:  decodeErrors,
		detections:    detections,
		outcomes:      outcomes,
		billTotal:     billTotal,
	}
}

// ObserveFrame counts one processed frame and its duration.
func (m *ScanMetrics) ObserveFrame(duration time.Duration) {
	if m == nil || m.frames == nil {
		return
	}
	m.frames.Inc()
	m.frameDuration.Observe(duration.Seconds())
}

// IncDecodeError counts a frame the decoder could not process.
func (m *ScanMetrics) IncDecodeError() {
	if m == nil || m.decodeErrors == nil {
		return
	}
	m.decodeErrors.Inc()
}

// IncDetection counts one decoded symbol.
func (m *ScanMetrics) IncDetection(kind string) {
	if m == nil || m.detections == nil {
		return
	}
	m.detections.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncOutcome counts one scan or action outcome. Values outside the known
// enums are recorded as "unknown" so label cardinality stays bounded.
func (m *ScanMetrics) IncOutcome(kind string, status enums.ScanOutcome, reason enums.IgnoreReason) {
	if m == nil || m.outcomes == nil {
		return
	}
	statusLabel := "unknown"
	if status.IsValid() {
		statusLabel = status.String()
	}
	reasonLabel := "unknown"
	switch {
	case reason == enums.IgnoreReasonNone:
		reasonLabel = "none"
	case reason.IsValid():
		reasonLabel = reason.String()
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), statusLabel, reasonLabel).Inc()
}

// SetBillTotal publishes the current display total.
func (m *ScanMetrics) SetBillTotal(total decimal.Decimal) {
	if m == nil || m.billTotal == nil {
		return
	}
	m.billTotal.Set(total.InexactFloat64())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
