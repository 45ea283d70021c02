package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the dashboard
type Metrics struct {
	FetchTotal       *prometheus.CounterVec
	FetchErrors      *prometheus.CounterVec
	DedupedFetches   *prometheus.CounterVec
	RequestDecisions *prometheus.CounterVec
	CriticalStock    prometheus.Gauge
}

// New creates and registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_view_fetch_total",
			Help: "Dashboard view fetches issued against the store",
		}, []string{"view"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_view_fetch_errors_total",
			Help: "Dashboard view fetches that failed",
		}, []string{"view"}),
		DedupedFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_view_fetch_deduped_total",
			Help: "Fetches served by an identical in-flight fetch",
		}, []string{"view"}),
		RequestDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_bank_request_decisions_total",
			Help: "Blood request status changes by resulting status",
		}, []string{"status"}),
		CriticalStock: factory.NewGauge(prometheus.GaugeOpts{
			Name: "blood_bank_inventory_critical_items",
			Help: "Inventory rows currently in critical status",
		}),
	}
}

// ObserveFetch records one fetch for view and whether it failed
func (m *Metrics) ObserveFetch(view string, err error) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(view).Inc()
	if err != nil {
		m.FetchErrors.WithLabelValues(view).Inc()
	}
}

// ObserveDedup records a fetch that joined an in-flight call
func (m *Metrics) ObserveDedup(view string) {
	if m == nil {
		return
	}
	m.DedupedFetches.WithLabelValues(view).Inc()
}

func (m *Metrics) ObserveDecision(status string) {
	if m == nil {
		return
	}
	m.RequestDecisions.WithLabelValues(status).Inc()
}

func (m *Metrics) SetCriticalStock(n int) {
	if m == nil {
		return
	}
	m.CriticalStock.Set(float64(n))
}
