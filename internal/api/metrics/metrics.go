// Package metrics defines and registers all custom Prometheus metrics for
// the deal pipeline API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pipeline"

// ── Audit event metrics ───────────────────────────────────────────────────────

// AuditEventsPublishedTotal counts audit delivery attempts that completed.
// Labels:
//   - event_type: the deal event type (e.g. "STAGE_UPDATED")
//   - result: "success" or "failure"
var AuditEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_published_total",
		Help:      "Total number of audit event delivery attempts, by outcome.",
	},
	[]string{"event_type", "result"},
)

// AuditEventsDroppedTotal counts events dropped because the publisher
// queue was full at handoff time.
var AuditEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped before delivery.",
	},
	[]string{"event_type"},
)

// AuditQueueDepth tracks the number of events waiting in each publisher
// worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each publisher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditPublishDuration measures a single bus send from dequeue to
// acknowledgment or failure.
var AuditPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_publish_duration_seconds",
		Help:      "Duration of a single audit event send to the bus.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event_type"},
)

// ── Deal metrics ──────────────────────────────────────────────────────────────

// DealsCreatedTotal counts newly created deals by deal type.
var DealsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deals_created_total",
		Help:      "Total number of deals created, by deal type.",
	},
	[]string{"deal_type"},
)

// StageTransitionsTotal counts stage updates by target stage.
var StageTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_transitions_total",
		Help:      "Total number of deal stage transitions, by target stage.",
	},
	[]string{"stage"},
)
