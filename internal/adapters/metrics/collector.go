// Package metrics instruments the planning engine with Prometheus
// collectors using a global-registry-with-nil-safe-recorder pattern:
// metrics collection is entirely optional and a disabled or absent
// registry never affects a solve's outcome.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/breadworks/swpe/internal/domain/planning"
)

const (
	namespace = "swpe"
	subsystem = "solver"
)

var (
	// Registry is the global Prometheus registry for engine metrics.
	// Left nil (the zero value) metrics collection is simply skipped.
	Registry *prometheus.Registry

	globalCollector *SolverMetricsCollector
)

// SolverMetricsCollector records solve invocations: duration, reported
// objective, and termination outcome.
type SolverMetricsCollector struct {
	solveDuration   *prometheus.HistogramVec
	solveObjective  *prometheus.GaugeVec
	solvesTotal     *prometheus.CounterVec
}

// NewSolverMetricsCollector builds a collector; call Register to wire
// it into Registry.
func NewSolverMetricsCollector() *SolverMetricsCollector {
	return &SolverMetricsCollector{
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Wall-clock duration of MIP solve invocations",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"solver", "termination"},
		),
		solveObjective: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_objective_value",
				Help:      "Objective value of the most recent solve, by solver",
			},
			[]string{"solver"},
		),
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total solve invocations by solver and termination status",
			},
			[]string{"solver", "termination"},
		),
	}
}

// Register registers every collector with Registry. A no-op if Registry
// is nil.
func (c *SolverMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, m := range []prometheus.Collector{c.solveDuration, c.solveObjective, c.solvesTotal} {
		if err := Registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *SolverMetricsCollector) record(solverName string, wallClock time.Duration, termination planning.TerminationStatus, objective float64, hasObjective bool) {
	status := string(termination)
	if status == "" {
		status = "error"
	}
	c.solveDuration.WithLabelValues(solverName, status).Observe(wallClock.Seconds())
	c.solvesTotal.WithLabelValues(solverName, status).Inc()
	if hasObjective {
		c.solveObjective.WithLabelValues(solverName).Set(objective)
	}
}

// InitRegistry creates the global registry; call once at process
// startup when metrics are desired.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// SetGlobalCollector installs the collector ObserveSolve reports
// through.
func SetGlobalCollector(c *SolverMetricsCollector) {
	globalCollector = c
}

// ObserveSolve records one solve invocation. Safe to call whether or
// not metrics are enabled (globalCollector nil-checked) and whether or
// not the solve succeeded (err non-nil still records an "error"
// termination bucket, with no objective value).
func ObserveSolve(solverName string, wallClock time.Duration, termination planning.TerminationStatus, err error) {
	if globalCollector == nil {
		return
	}
	if err != nil {
		globalCollector.record(solverName, wallClock, "", 0, false)
		return
	}
	globalCollector.record(solverName, wallClock, termination, 0, false)
}

// ObserveObjective records the final objective value for a completed
// solve, once the solution extractor has confirmed it (kept separate
// from ObserveSolve since the objective is not known until extraction
// succeeds).
func ObserveObjective(solverName string, objective float64) {
	if globalCollector == nil {
		return
	}
	globalCollector.solveObjective.WithLabelValues(solverName).Set(objective)
}
