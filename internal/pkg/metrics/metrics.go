// Package metrics defines and registers all custom Prometheus metrics for
// the time-tracking service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timetrack"

// ---------------------------------------------------------------------------
// Sync metrics
// ---------------------------------------------------------------------------

// SyncRunsTotal counts completed sync runs.
// Label:
//   - outcome: "ok" or "upstream_failed" (every attempted scope failed and
//     nothing was processed)
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of identity sync runs, by outcome.",
	},
	[]string{"outcome"},
)

// SyncUsersProcessedTotal counts roster records fed through reconciliation.
// Label:
//   - scope: "location" or "agency"
var SyncUsersProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_users_processed_total",
		Help:      "Total number of roster records processed, by credential scope.",
	},
	[]string{"scope"},
)

// RosterFetchFailuresTotal counts scope passes skipped because both API
// shapes failed.
// Label:
//   - scope: "location" or "agency"
var RosterFetchFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_fetch_failures_total",
		Help:      "Total number of roster fetches that failed on both API shapes.",
	},
	[]string{"scope"},
)

// ---------------------------------------------------------------------------
// Session metrics
// ---------------------------------------------------------------------------

// SessionsOpenedTotal counts successful check-ins.
var SessionsOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_opened_total",
		Help:      "Total number of work sessions opened by check-in.",
	},
)

// SessionsClosedTotal counts closed sessions.
// Label:
//   - mode: "checkout" (explicit) or "auto" (day-boundary auto-close)
var SessionsClosedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_closed_total",
		Help:      "Total number of work sessions closed, by close mode.",
	},
	[]string{"mode"},
)
