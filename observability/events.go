package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type eventMetrics struct {
	deposits   *prometheus.CounterVec
	withdrawal *prometheus.CounterVec
	refunds    *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking structured exchange events:
// ledger deposits/withdrawals and receiver-callback refunds.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "events",
				Name:      "deposits_total",
				Help:      "Count of ledger deposits segmented by token id.",
			}, []string{"token_id"}),
			withdrawal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "events",
				Name:      "withdrawals_total",
				Help:      "Count of ledger withdrawals segmented by token id.",
			}, []string{"token_id"}),
			refunds: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "events",
				Name:      "refunds_total",
				Help:      "Count of receiver-callback refunds segmented by reason.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(eventRegistry.deposits, eventRegistry.withdrawal, eventRegistry.refunds)
	})
	return eventRegistry
}

// RecordDeposit increments the deposit counter for the supplied token id.
func (m *eventMetrics) RecordDeposit(tokenID string) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(normalizeTokenID(tokenID)).Inc()
}

// RecordWithdrawal increments the withdrawal counter for the supplied token id.
func (m *eventMetrics) RecordWithdrawal(tokenID string) {
	if m == nil {
		return
	}
	m.withdrawal.WithLabelValues(normalizeTokenID(tokenID)).Inc()
}

// RecordRefund increments the refund counter for the supplied reason, used
// whenever the receiver callback hands the input amount back to the sender
// (paused exchange, failed deposit, bad message, failed direct swap) and
// when a failed outbound transfer is compensated with a ledger credit.
func (m *eventMetrics) RecordRefund(reason string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(strings.ToLower(reason))
	if normalized == "" {
		normalized = "unknown"
	}
	m.refunds.WithLabelValues(normalized).Inc()
}

func normalizeTokenID(tokenID string) string {
	normalized := strings.TrimSpace(tokenID)
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
