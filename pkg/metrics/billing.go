package metrics

import "github.com/prometheus/client_golang/prometheus"

// BillingMetrics exposes gauges and counters for the billing ledger.
type BillingMetrics struct {
	invoicesGenerated *prometheus.CounterVec
	housesLate        prometheus.Gauge
	openCents         prometheus.Gauge
}

// NewBillingMetrics registers the billing metrics on the provided registerer.
func NewBillingMetrics(reg prometheus.Registerer) *BillingMetrics {
	if reg == nil {
		return &BillingMetrics{}
	}
	invoicesGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_invoices_generated_total",
		Help: "Invoices created by scheduled generation runs.",
	}, []string{"period"})
	housesLate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "billing_houses_late",
		Help: "Houses with at least one open invoice from a past period.",
	})
	openCents := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "billing_open_cents",
		Help: "Open invoice amount for the current period, in cents.",
	})
	reg.MustRegister(invoicesGenerated, housesLate, openCents)
	return &BillingMetrics{
		invoicesGenerated: invoicesGenerated,
		housesLate:        housesLate,
		openCents:         openCents,
	}
}

// AddInvoicesGenerated records invoices created for the labeled period.
func (b *BillingMetrics) AddInvoicesGenerated(period string, count int) {
	if b == nil || b.invoicesGenerated == nil || count <= 0 {
		return
	}
	b.invoicesGenerated.WithLabelValues(period).Add(float64(count))
}

// SetHousesLate records the current late-house count.
func (b *BillingMetrics) SetHousesLate(count int64) {
	if b == nil || b.housesLate == nil {
		return
	}
	b.housesLate.Set(float64(count))
}

// SetOpenCents records the current period's open amount.
func (b *BillingMetrics) SetOpenCents(cents int64) {
	if b == nil || b.openCents == nil {
		return
	}
	b.openCents.Set(float64(cents))
}
