/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes recorded by Metrics
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CostReport is the aggregate cost of one completed operation.
type CostReport struct {
	// Operation is "query", "upsert", "multi-upsert" or "delete".
	Operation string
	// Documents counts the documents read or written.
	Documents int
	// TotalCharge sums the request charges reported by the store.
	TotalCharge float64
}

// Average returns the mean request charge per document, zero when no documents were involved.
func (r CostReport) Average() float64 {
	if r.Documents == 0 {
		return 0
	}
	return r.TotalCharge / float64(r.Documents)
}

func (r *CostReport) add(documents int, charge float64) {
	r.Documents += documents
	r.TotalCharge += charge
}

// Metrics exposes operation counters to prometheus. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	charge     *prometheus.CounterVec
	documents  *prometheus.CounterVec
}

// NewMetrics creates the docstore counters and registers them with reg.
// Counters already registered by an earlier client are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docstore",
			Name:      "operations_total",
			Help:      "Completed document store operations by outcome.",
		}, []string{"operation", "outcome"}),
		charge: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docstore",
			Name:      "request_charge_total",
			Help:      "Request charge reported by the store.",
		}, []string{"operation"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docstore",
			Name:      "documents_total",
			Help:      "Documents read or written.",
		}, []string{"operation"}),
	}

	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.charge, err = register(reg, m.charge); err != nil {
		return nil, err
	}
	if m.documents, err = register(reg, m.documents); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) observe(report CostReport, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(report.Operation, outcome).Inc()
	m.charge.WithLabelValues(report.Operation).Add(report.TotalCharge)
	m.documents.WithLabelValues(report.Operation).Add(float64(report.Documents))
}
