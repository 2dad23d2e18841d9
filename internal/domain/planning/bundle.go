package planning

import "time"

// FeatureFlags toggles optional engine behaviors.
type FeatureFlags struct {
	PalletTracking       bool
	AllowShortages       bool
	UseWarmstart         bool
	RelaxMixIntegrality  bool // not read by the formulator: mix_count is always integer; see DESIGN.md
}

// RunOptions configures one Solve call: the solver to use, its time
// budget and gap, and feature flags.
type RunOptions struct {
	SolverName        string
	TimeLimitSeconds  float64
	MIPGap            float64
	Flags             FeatureFlags
	DumpLPPath        string // empty = no LP dump (optional debug artifact)
	DumpSolutionJSON  string // empty = no JSON dump
}

// Bundle is the single, validated, immutable planning input. It is
// constructed only by Validate; every exported field is safe to read
// concurrently from multiple goroutines because nothing in the engine
// ever mutates a Bundle after construction.
type Bundle struct {
	Nodes            map[string]Node
	Routes           []Route
	Products         map[string]Product
	TruckSchedules   []TruckSchedule
	LaborCalendar    LaborCalendar
	Costs            CostStructure
	Forecast         []DemandEntry
	InitialInventory []InitialInventoryRow

	SnapshotDate   time.Time
	PlanningStart  time.Time
	PlanningEnd    time.Time

	Horizon Horizon
}

// RoutesFrom returns every route departing origin, in input order.
func (b *Bundle) RoutesFrom(origin string) []Route {
	var out []Route
	for _, r := range b.Routes {
		if r.Origin == origin {
			out = append(out, r)
		}
	}
	return out
}

// RoutesTo returns every route arriving at destination, in input order.
func (b *Bundle) RoutesTo(destination string) []Route {
	var out []Route
	for _, r := range b.Routes {
		if r.Destination == destination {
			out = append(out, r)
		}
	}
	return out
}

// TrucksFrom returns every truck schedule departing origin.
func (b *Bundle) TrucksFrom(origin string) []TruckSchedule {
	var out []TruckSchedule
	for _, t := range b.TruckSchedules {
		if t.Origin == origin {
			out = append(out, t)
		}
	}
	return out
}
