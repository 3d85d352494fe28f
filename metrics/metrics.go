// Package metrics provides Prometheus observability metrics for report runs.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// TeamLeadersReported tracks the number of team-leader rows in the last report.
var TeamLeadersReported = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "report",
	Name:      "team_leaders",
	Help:      "Number of team leaders in the last generated report",
})

// AgentsReported tracks the number of agent rows in the last report.
var AgentsReported = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "report",
	Name:      "agents",
	Help:      "Number of roster agents in the last generated report",
})

// TargetStatus tracks how many rows achieved the AHT target, by view and status.
var TargetStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "report",
	Name:      "target_status",
	Help:      "Rows per target status in the last report, by view (team_leader, agent)",
}, []string{"view", "status"})

// UnmatchedRecords tracks interactions without a roster match.
// High values usually mean an outdated HC file.
var UnmatchedRecords = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "joiner",
	Name:      "unmatched_records",
	Help:      "Interaction records in the last run with no roster entry",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ParserErrorsTotal tracks fatal input errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total input errors by error type",
}, []string{"error_type"})

// ParserRowsTotal tracks data rows read, by input kind.
var ParserRowsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "rows_total",
	Help:      "Total data rows read by input kind (interactions, roster)",
}, []string{"input"})

// ParserDurationSeconds tracks time to read and normalize one input file.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to read and normalize an input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
})

// CoercionWarningsTotal tracks numeric cells replaced with zero, by column.
var CoercionWarningsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "joiner",
	Name:      "coercion_warnings_total",
	Help:      "Numeric cells that failed coercion and were replaced with 0",
}, []string{"column"})

// RosterDuplicatesTotal tracks roster rows collapsed by last-write-wins.
var RosterDuplicatesTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "joiner",
	Name:      "roster_duplicates_total",
	Help:      "Roster rows that repeated an agent identifier",
})

// AggregatorDurationSeconds tracks time to compute summaries.
var AggregatorDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "aggregator",
	Name:      "duration_seconds",
	Help:      "Time taken to compute team-leader and agent summaries",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetReportGauges resets all per-run gauges before a new report run.
// Call this at the start of pipeline.Run.
func ResetReportGauges() {
	TeamLeadersReported.Set(0)
	AgentsReported.Set(0)
	UnmatchedRecords.Set(0)
	TargetStatus.Reset()
}
