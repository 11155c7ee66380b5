// Package metrics defines the custom Prometheus metrics of the caseforum HTTP
// edge. Metrics are registered with the default registry on package load and
// exported by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "caseforum"

// ── View metrics ──────────────────────────────────────────────────────────────

// ViewsBuiltTotal counts page builds.
// Labels:
//   - route: router name (e.g. "all", "case", "not_found")
//   - result: "ok" or "failure"
var ViewsBuiltTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_built_total",
		Help:      "Total number of pages built, by route and result.",
	},
	[]string{"route", "result"},
)

// ViewBuildDuration measures how long fetching and building a page takes.
var ViewBuildDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_build_duration_seconds",
		Help:      "Duration of page builds including store reads.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ── Action metrics ────────────────────────────────────────────────────────────

// ActionsTotal counts dispatched actions.
// Labels:
//   - type: action type (e.g. "add_comment")
//   - result: "ok", or the error class ("unauthenticated", "forbidden",
//     "missing", "invalid", "provider", "internal")
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of dispatched actions, by type and result.",
	},
	[]string{"type", "result"},
)

// CasesCreatedTotal counts newly submitted cases.
// Label:
//   - stage: "pretender", "during" or "post"
var CasesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cases_created_total",
		Help:      "Total number of cases created, by stage.",
	},
	[]string{"stage"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
