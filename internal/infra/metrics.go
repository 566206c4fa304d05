package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ordersSubmitted  atomic.Uint64
	reportsConfirmed atomic.Uint64
	cancelsSent      atomic.Uint64
	retirementPasses atomic.Uint64
	unknownFrames    atomic.Uint64

	// Retirement latency tracking
	retireLatencySumNs atomic.Int64

	// Gauges
	outstanding atomic.Int64
}

// NewMetrics creates an empty metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordOrderSubmitted records one NEW_ORDER sent to the gateway.
func (m *Metrics) RecordOrderSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordReportConfirmed records one "Inserted" execution report.
func (m *Metrics) RecordReportConfirmed() {
	m.reportsConfirmed.Add(1)
}

// RecordCancelSent records one CANCEL frame.
func (m *Metrics) RecordCancelSent() {
	m.cancelsSent.Add(1)
}

// RecordRetirementPass records a completed retirement pass and its duration.
func (m *Metrics) RecordRetirementPass(d time.Duration) {
	m.retirementPasses.Add(1)
	m.retireLatencySumNs.Add(d.Nanoseconds())
}

// RecordUnknownFrame records a frame of unrecognized type.
func (m *Metrics) RecordUnknownFrame() {
	m.unknownFrames.Add(1)
}

// SetOutstanding sets the current outstanding-order gauge.
func (m *Metrics) SetOutstanding(n int64) {
	m.outstanding.Store(n)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	OrdersSubmitted  uint64  `json:"orders_submitted"`
	ReportsConfirmed uint64  `json:"reports_confirmed"`
	CancelsSent      uint64  `json:"cancels_sent"`
	RetirementPasses uint64  `json:"retirement_passes"`
	UnknownFrames    uint64  `json:"unknown_frames"`
	Outstanding      int64   `json:"outstanding"`
	AvgRetirementMs  float64 `json:"avg_retirement_ms"`
}

// Snapshot returns the current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		OrdersSubmitted:  m.ordersSubmitted.Load(),
		ReportsConfirmed: m.reportsConfirmed.Load(),
		CancelsSent:      m.cancelsSent.Load(),
		RetirementPasses: m.retirementPasses.Load(),
		UnknownFrames:    m.unknownFrames.Load(),
		Outstanding:      m.outstanding.Load(),
	}
	if passes := s.RetirementPasses; passes > 0 {
		s.AvgRetirementMs = float64(m.retireLatencySumNs.Load()) / float64(passes) / 1e6
	}
	return s
}
