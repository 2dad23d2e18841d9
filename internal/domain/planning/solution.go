package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModelType discriminates the solution record's origin.
const ModelType = "sliding_window_planning_engine_v1"

// ProductionEntry is one day's production of one SKU at one node.
type ProductionEntry struct {
	Node     string
	Product  string
	Date     time.Time
	Quantity float64
	MixCount int
}

// LaborDayUsage is labor hours used/paid at one node on one day, split
// into regular and overtime cost.
type LaborDayUsage struct {
	Node         string
	Date         time.Time
	HoursUsed    float64
	HoursPaid    float64
	RegularCost  float64
	OvertimeCost float64
}

// Shipment is a dispatched quantity on a route, assigned to a truck
// where the route was served by a scheduled truck.
type Shipment struct {
	Origin        string
	Destination   string
	Product       string
	DepartureDate time.Time
	DeliveryDate  time.Time
	Mode          TransportMode
	State         MaterialState
	Quantity      float64
	TruckID       string
}

// InventoryEntry is end-of-day inventory at one (node, product, state,
// date).
type InventoryEntry struct {
	Node        string
	Product     string
	State       MaterialState
	Date        time.Time
	Quantity    float64
	PalletCount int
}

// FreezeThawEntry is a freeze or thaw flow at one node on one day.
type FreezeThawEntry struct {
	Node     string
	Product  string
	Date     time.Time
	Quantity float64
}

// DemandConsumption is demand satisfied at one (breadroom, product,
// date), split by source state; Total sums the two sources.
type DemandConsumption struct {
	Breadroom           string
	Product             string
	Date                time.Time
	FromAmbient         float64
	FromThawed          float64
}

func (d DemandConsumption) Total() float64 { return d.FromAmbient + d.FromThawed }

// Shortage is unmet demand at one (breadroom, product, date).
type Shortage struct {
	Breadroom string
	Product   string
	Date      time.Time
	Quantity  float64
}

// DisposalEntry is mass removed at one (node, product, state, date)
// rather than carried forward or consumed.
type DisposalEntry struct {
	Node     string
	Product  string
	State    MaterialState
	Date     time.Time
	Quantity float64
}

// CostBreakdown is the objective decomposed into its named terms; the
// components must sum to Total within tolerance.
type CostBreakdown struct {
	Labor        float64
	Transport    float64
	Holding      float64
	PalletEntry  float64
	Shortage     float64
	Changeover   float64
	Waste        float64
	Disposal     float64
	Total        float64
}

// Sum returns the sum of every named component (excluding Total).
func (c CostBreakdown) Sum() float64 {
	return c.Labor + c.Transport + c.Holding + c.PalletEntry +
		c.Shortage + c.Changeover + c.Waste + c.Disposal
}

// RoundedTotal returns Total rounded to whole cents via decimal
// arithmetic, so an audit record never carries binary float noise
// (e.g. 104.99999999999999) in a persisted currency amount.
func (c CostBreakdown) RoundedTotal() float64 {
	total, _ := decimal.NewFromFloat(c.Total).Round(2).Float64()
	return total
}

// TerminationStatus is the solver's reported outcome for the solve that
// produced this Solution.
type TerminationStatus string

const (
	TerminationOptimal             TerminationStatus = "OPTIMAL"
	TerminationFeasible            TerminationStatus = "FEASIBLE"
	TerminationMaxTimeLimit        TerminationStatus = "MAX_TIME_LIMIT"
	TerminationIntermediateNonInt  TerminationStatus = "INTERMEDIATE_NON_INTEGER"
)

// Solution is the validated, typed output of one Solve call. It is
// assembled by the solution extractor, enriched with FEFO batch detail
// by the FEFO allocator, and must pass every post-solve check before
// being returned to the caller.
type Solution struct {
	ModelType string

	Production       []ProductionEntry
	LaborByDate      []LaborDayUsage
	Shipments        []Shipment
	Inventory        []InventoryEntry
	FreezeFlows      []FreezeThawEntry
	ThawFlows        []FreezeThawEntry
	DemandConsumed   []DemandConsumption
	Shortages        []Shortage
	Disposals        []DisposalEntry
	Costs            CostBreakdown

	Termination      TerminationStatus
	ObjectiveValue   float64
	SolveWallClock   time.Duration

	// FEFO detail, optional: nil when FEFO allocation was skipped.
	Batches             []Batch
	ShipmentAllocations []ShipmentAllocation
}

// BatchID uniquely identifies one traceable production or initial-
// inventory batch across its lifetime (production -> freeze/thaw ->
// shipment -> consumption/disposal).
type BatchID string

// Batch is one FEFO-tracked unit of traceable mass.
type Batch struct {
	ID               BatchID
	Node             string
	Product          string
	State            MaterialState
	ProductionDate   time.Time
	StateEntryDate   time.Time
	Quantity         float64
	FromInitialStock bool
}

// AgeInState returns asOf - StateEntryDate in days.
func (b Batch) AgeInState(asOf time.Time) int {
	return int(asOf.Sub(b.StateEntryDate).Hours() / 24)
}

// TotalAge returns asOf - ProductionDate in days.
func (b Batch) TotalAge(asOf time.Time) int {
	return int(asOf.Sub(b.ProductionDate).Hours() / 24)
}

// ShipmentAllocation records which batches (and how much of each)
// satisfied one shipment, preserving per-batch traceability through
// transport.
type ShipmentAllocation struct {
	Origin        string
	Destination   string
	Product       string
	DepartureDate time.Time
	DeliveryDate  time.Time
	FromBatchID   BatchID
	Quantity      float64
	ArrivalBatchID BatchID
}
