// Package metrics defines and registers the custom Prometheus metrics of the
// storefront. It is the single source of truth for metric names, labels and
// help strings. HTTP request metrics come from echoprometheus; this package
// only covers the security core and the audit pipeline.
//
// Metrics register with the default Prometheus registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── CSRF metrics ──────────────────────────────────────────────────────────────

// CSRFTokensIssuedTotal counts anti-forgery tokens handed out.
var CSRFTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_tokens_issued_total",
		Help:      "Total number of CSRF tokens issued.",
	},
)

// CSRFValidationsTotal counts token validations.
// Label:
//   - result: "accepted", "rejected" (unknown, foreign or reused token),
//     "missing" (empty token or session) or "error" (store failure)
var CSRFValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_validations_total",
		Help:      "Total number of CSRF token validations, by result.",
	},
	[]string{"result"},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts session gate outcomes.
// Label:
//   - outcome: "public", "unauthenticated", "role_denied" or "allowed"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of requests classified by the session gate, by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts security events by what happened to them.
// Labels:
//   - kind: the security event kind (e.g. "role_denied")
//   - result: "stored", "failed" or "dropped" (worker queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of security audit events, by kind and result.",
	},
	[]string{"kind", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
