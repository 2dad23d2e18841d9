// Package ingress implements the planning-data validator: it turns a
// caller-supplied, not-yet-trusted Input into an immutable
// planning.Bundle, or a typed error. Ingestion from spreadsheet/CSV
// files is an external collaborator's job; this package only validates
// the already-parsed domain objects.
package ingress

import "time"

// Input is the raw, caller-assembled planning request. Struct tags
// drive go-playground/validator structural checks (non-empty ids,
// non-negative quantities, closed enums); Validate additionally performs
// the semantic checks validator tags cannot express (graph reachability,
// alias resolution, cross-field date ordering).
type Input struct {
	Nodes            []NodeInput            `validate:"required,min=1,dive"`
	Routes           []RouteInput           `validate:"dive"`
	Products         []ProductInput         `validate:"required,min=1,dive"`
	TruckSchedules   []TruckScheduleInput   `validate:"dive"`
	LaborCalendar    []LaborDayInput        `validate:"dive"`
	Forecast         []DemandInput          `validate:"dive"`
	InitialInventory []InventoryInput       `validate:"dive"`
	CostStructure    CostInput              `validate:"required"`

	// ProductAliases maps a raw/external product identifier to the
	// canonical SKU id it refers to. Entries whose key equals a
	// canonical Products[].ID are permitted (identity alias) and simply
	// pass through.
	ProductAliases map[string]string

	SnapshotDate  time.Time `validate:"required"`
	PlanningStart time.Time `validate:"required"`
	PlanningEnd   time.Time `validate:"required"`

	SolverName       string  `validate:"required"`
	TimeLimitSeconds float64 `validate:"gt=0"`
	MIPGap           float64 `validate:"gte=0"`
}

type NodeInput struct {
	ID                  string `validate:"required"`
	Role                string `validate:"required,oneof=MANUFACTURING HUB FROZEN_BUFFER BREADROOM"`
	Produces             bool
	StoresAmbient        bool
	StoresFrozen         bool
	StoresThawed         bool
	CanThaw              bool
	CanFreeze            bool
	HasDemand            bool
	AmbientPalletCap     int
	FrozenPalletCap      int
	ThawedPalletCap      int
}

type RouteInput struct {
	Origin      string  `validate:"required"`
	Destination string  `validate:"required"`
	Mode        string  `validate:"required,oneof=AMBIENT FROZEN"`
	TransitDays int     `validate:"gte=0"`
	CostPerUnit float64 `validate:"gte=0"`
}

type ProductInput struct {
	ID                   string  `validate:"required"`
	ShelfLifeAmbientDays int     `validate:"gte=0"`
	ShelfLifeFrozenDays  int     `validate:"gte=0"`
	ShelfLifeThawedDays  int     `validate:"gte=0"`
	UnitsPerMix          int     `validate:"gte=0"`
	UnitsPerPallet       int     `validate:"gte=0"`
	UnitsPerLaborHour    float64 `validate:"gte=0"`
}

type TruckScheduleInput struct {
	ID                   string   `validate:"required"`
	Origin               string   `validate:"required"`
	AllowedDestinations  []string `validate:"required,min=1"`
	AllowedWeekdays      []int    `validate:"required,min=1,dive,gte=0,lte=6"`
	PalletCapacity       int      `validate:"gte=0"`
	LoadingCostPerPallet float64  `validate:"gte=0"`
}

type LaborDayInput struct {
	Date         time.Time `validate:"required"`
	IsFixedDay   bool
	FixedHours   float64 `validate:"gte=0"`
	RegularRate  float64 `validate:"gte=0"`
	OvertimeRate float64 `validate:"gte=0"`
}

type DemandInput struct {
	Breadroom string    `validate:"required"`
	Product   string    `validate:"required"`
	Date      time.Time `validate:"required"`
	Quantity  float64   `validate:"gt=0"`
}

type InventoryInput struct {
	Node     string  `validate:"required"`
	Product  string  `validate:"required"`
	State    string  `validate:"required,oneof=AMBIENT FROZEN THAWED"`
	Quantity float64 `validate:"gte=0"`
}

type CostInput struct {
	ProductionUnitCost         float64 `validate:"gte=0"`
	LaborRegularRate           float64 `validate:"gte=0"`
	LaborOvertimeRate          float64 `validate:"gte=0"`
	HoldingCostAmbientPerDay   float64 `validate:"gte=0"`
	HoldingCostFrozenPerDay    float64 `validate:"gte=0"`
	HoldingCostThawedPerDay    float64 `validate:"gte=0"`
	PalletEntryCost            float64 `validate:"gte=0"`
	ShortagePenaltyPerUnit     float64 `validate:"gte=0"`
	WasteMultiplier            float64 `validate:"gte=0"`
	DisposalUnitCost           float64 `validate:"gte=0"`
	ChangeoverFixedCost        float64 `validate:"gte=0"`
	ProductIndicatorTieBreaker float64 `validate:"gte=0"`
}
