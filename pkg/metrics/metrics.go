// Package metrics exposes the prometheus counters the backend maintains.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusTransitions counts project status transitions by source, target
	// and outcome (ok, invalid, conflict).
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_status_transitions_total",
		Help: "Project status transition attempts.",
	}, []string{"from", "to", "result"})

	// AuthzDenials counts requests rejected by the visibility policy.
	AuthzDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_authz_denials_total",
		Help: "Requests denied by the visibility policy.",
	}, []string{"resource"})

	// TemplateApplications counts template applications by template type.
	TemplateApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_template_applications_total",
		Help: "Templates applied to projects.",
	}, []string{"type"})

	// OrphanDocuments reports the orphaned sub-documents found by the last
	// audit sweep, by table.
	OrphanDocuments = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "projecthub_orphan_documents",
		Help: "Sub-documents whose parent project no longer exists.",
	}, []string{"table"})
)
