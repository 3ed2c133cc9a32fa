package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for ingestion runs.
type Metrics struct {
	// Records produced by any normalizer, pre-filter
	RecordsExtracted prometheus.Counter

	// Records accepted by the store, post-filter
	RecordsPersisted prometheus.Counter

	// Unit failures by stage ("read", "extract", "persist")
	UnitFailures *prometheus.CounterVec
}

// NewMetrics registers ingestion metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_records_extracted_total",
			Help: "Total voter records produced by extraction, before the validity filter",
		}),
		RecordsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voterroll_records_persisted_total",
			Help: "Total voter records pushed to the store, after the validity filter",
		}),
		UnitFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voterroll_unit_failures_total",
			Help: "Total failed ingestion units by stage",
		}, []string{"stage"}),
	}
}

// AddExtracted records pre-filter output.
func (m *Metrics) AddExtracted(n int) {
	if m != nil {
		m.RecordsExtracted.Add(float64(n))
	}
}

// AddPersisted records accepted store pushes.
func (m *Metrics) AddPersisted(n int) {
	if m != nil {
		m.RecordsPersisted.Add(float64(n))
	}
}

// IncrementFailure records one failed unit.
func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.UnitFailures.WithLabelValues(stage).Inc()
	}
}
