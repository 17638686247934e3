package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type exchangeMetrics struct {
	swaps          *prometheus.CounterVec
	liquidityOps   *prometheus.CounterVec
	adminFees      *prometheus.CounterVec
	operationTime  *prometheus.HistogramVec
	virtualPrice   *prometheus.GaugeVec
	pausedPools    prometheus.Gauge
}

var (
	exchangeMetricsOnce sync.Once
	exchangeRegistry    *exchangeMetrics
)

// ExchangeMetrics returns the lazily-initialised metrics registry tracking
// pool activity: swaps, liquidity operations, admin fee accrual, operation
// latency, and per-pool virtual price.
func ExchangeMetrics() *exchangeMetrics {
	exchangeMetricsOnce.Do(func() {
		exchangeRegistry = &exchangeMetrics{
			swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "swaps_total",
				Help:      "Count of swaps segmented by pool and outcome.",
			}, []string{"pool_id", "outcome"}),
			liquidityOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "liquidity_ops_total",
				Help:      "Count of add/remove liquidity operations segmented by pool, kind, and outcome.",
			}, []string{"pool_id", "kind", "outcome"}),
			adminFees: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "admin_fees_collected_total",
				Help:      "Cumulative admin fee collected per pool and token index, in raw token units.",
			}, []string{"pool_id", "token_index"}),
			operationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for exchange operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			virtualPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "virtual_price",
				Help:      "Most recently observed virtual price for a pool, in common-precision units.",
			}, []string{"pool_id"}),
			pausedPools: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "snails",
				Subsystem: "exchange",
				Name:      "paused",
				Help:      "1 if the exchange is currently paused, 0 otherwise.",
			}),
		}
		prometheus.MustRegister(
			exchangeRegistry.swaps,
			exchangeRegistry.liquidityOps,
			exchangeRegistry.adminFees,
			exchangeRegistry.operationTime,
			exchangeRegistry.virtualPrice,
			exchangeRegistry.pausedPools,
		)
	})
	return exchangeRegistry
}

// RecordSwap increments the swap counter for poolID, labelled by outcome
// ("success" or "error").
func (m *exchangeMetrics) RecordSwap(poolID string, err error) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(poolID, outcomeLabel(err)).Inc()
}

// RecordLiquidityOp increments the liquidity-operation counter for poolID
// and kind ("add", "remove", "remove_one", "remove_imbalance").
func (m *exchangeMetrics) RecordLiquidityOp(poolID, kind string, err error) {
	if m == nil {
		return
	}
	m.liquidityOps.WithLabelValues(poolID, kind, outcomeLabel(err)).Inc()
}

// RecordAdminFee adds amount (as a float64 approximation of the raw token
// units) to the cumulative admin fee counter for poolID and tokenIndex.
func (m *exchangeMetrics) RecordAdminFee(poolID, tokenIndex string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.adminFees.WithLabelValues(poolID, tokenIndex).Add(amount)
}

// ObserveOperation records the wall-clock duration of a named exchange
// operation.
func (m *exchangeMetrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationTime.WithLabelValues(operation).Observe(d.Seconds())
}

// SetVirtualPrice records the most recently observed virtual price for
// poolID.
func (m *exchangeMetrics) SetVirtualPrice(poolID string, price float64) {
	if m == nil {
		return
	}
	m.virtualPrice.WithLabelValues(poolID).Set(price)
}

// SetPaused records whether the exchange is currently paused.
func (m *exchangeMetrics) SetPaused(paused bool) {
	if m == nil {
		return
	}
	if paused {
		m.pausedPools.Set(1)
		return
	}
	m.pausedPools.Set(0)
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
