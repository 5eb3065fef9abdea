// Package metrics exposes Prometheus instruments for cart synchronisation,
// ordering and payments. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cartsync"

type Metrics struct {
	SyncResults   *prometheus.CounterVec
	OutboxDepth   prometheus.Gauge
	OrdersCreated prometheus.Counter
	OrderFailures *prometheus.CounterVec
	Payments      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		SyncResults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_results_total",
			Help:      "Cart operations by operation and sync status",
		}, []string{"op", "status"}),
		OutboxDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_depth",
			Help:      "Remote cart writes waiting to be applied",
		}),
		OrdersCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders written to the remote store",
		}),
		OrderFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_failures_total",
			Help:      "Order creation failures by reason",
		}, []string{"reason"}),
		Payments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment attempts by method and outcome",
		}, []string{"method", "outcome"}),
	}
}

func (m *Metrics) Sync(op string, status domain.SyncStatus) {
	if m == nil {
		return
	}
	m.SyncResults.WithLabelValues(op, status.String()).Inc()
}

func (m *Metrics) OutboxAdd(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.OutboxDepth.Add(float64(delta))
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) OrderFailed(reason string) {
	if m == nil {
		return
	}
	m.OrderFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) Payment(method string, success bool) {
	if m == nil {
		return
	}
	outcome := "declined"
	if success {
		outcome = "approved"
	}
	m.Payments.WithLabelValues(method, outcome).Inc()
}
