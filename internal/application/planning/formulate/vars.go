package formulate

import "github.com/breadworks/swpe/internal/domain/planning"

// prodKey identifies a (node, product, date) decision: production,
// mix_count, product_produced, product_start, freeze, thaw.
type prodKey struct {
	Node    string
	Product string
	T       int
}

// invKey identifies a (node, product, state, date) decision: inventory,
// pallet_count, pallet_entry, disposal.
type invKey struct {
	Node    string
	Product string
	State   planning.MaterialState
	T       int
}

// nodeDateKey identifies a (node, date) decision: any_production,
// labor_hours_used/paid/regular/overtime.
type nodeDateKey struct {
	Node string
	T    int
}

// transitKey identifies an in_transit decision.
type transitKey struct {
	Origin      string
	Destination string
	Product     string
	Mode        planning.TransportMode
	TDep        int
}

// truckKey identifies a truck_pallet_load decision. Destination is part
// of the key because one truck schedule can serve several
// AllowedDestinations, each loaded and capacity-bound independently.
type truckKey struct {
	Truck       string
	Destination string
	Product     string
	TDep        int
}

// demandKey identifies a (breadroom, product, date) decision:
// demand_consumed_from_{ambient,thawed}, shortage.
type demandKey struct {
	Breadroom string
	Product   string
	T         int
}

// Variables indexes every declared variable by the tuple it represents,
// so the solution extractor can look up solved values without
// re-deriving the sparse index sets itself.
type Variables struct {
	Production      map[prodKey]int
	MixCount        map[prodKey]int
	ProductProduced map[prodKey]int
	ProductStart    map[prodKey]int
	Freeze          map[prodKey]int
	Thaw            map[prodKey]int

	AnyProduction  map[nodeDateKey]int
	LaborUsed      map[nodeDateKey]int
	LaborPaid      map[nodeDateKey]int
	LaborRegular   map[nodeDateKey]int
	LaborOvertime  map[nodeDateKey]int

	Inventory   map[invKey]int
	PalletCount map[invKey]int
	PalletEntry map[invKey]int
	Disposal    map[invKey]int

	InTransit map[transitKey]int
	TruckLoad map[truckKey]int

	DemandFromAmbient map[demandKey]int
	DemandFromThawed  map[demandKey]int
	Shortage          map[demandKey]int
}

// The accessor methods below let the extractor look up a variable's
// solved column id by the tuple it represents, without reaching into
// this package's unexported key types directly.

func (v *Variables) ProductionID(node, product string, t int) (int, bool) {
	id, ok := v.Production[prodKey{Node: node, Product: product, T: t}]
	return id, ok
}

func (v *Variables) MixCountID(node, product string, t int) (int, bool) {
	id, ok := v.MixCount[prodKey{Node: node, Product: product, T: t}]
	return id, ok
}

func (v *Variables) FreezeID(node, product string, t int) (int, bool) {
	id, ok := v.Freeze[prodKey{Node: node, Product: product, T: t}]
	return id, ok
}

func (v *Variables) ThawID(node, product string, t int) (int, bool) {
	id, ok := v.Thaw[prodKey{Node: node, Product: product, T: t}]
	return id, ok
}

func (v *Variables) ProductStartID(node, product string, t int) (int, bool) {
	id, ok := v.ProductStart[prodKey{Node: node, Product: product, T: t}]
	return id, ok
}

func (v *Variables) LaborUsedID(node string, t int) (int, bool) {
	id, ok := v.LaborUsed[nodeDateKey{Node: node, T: t}]
	return id, ok
}

func (v *Variables) LaborPaidID(node string, t int) (int, bool) {
	id, ok := v.LaborPaid[nodeDateKey{Node: node, T: t}]
	return id, ok
}

func (v *Variables) LaborRegularID(node string, t int) (int, bool) {
	id, ok := v.LaborRegular[nodeDateKey{Node: node, T: t}]
	return id, ok
}

func (v *Variables) LaborOvertimeID(node string, t int) (int, bool) {
	id, ok := v.LaborOvertime[nodeDateKey{Node: node, T: t}]
	return id, ok
}

func (v *Variables) InventoryID(node, product string, state planning.MaterialState, t int) (int, bool) {
	id, ok := v.Inventory[invKey{Node: node, Product: product, State: state, T: t}]
	return id, ok
}

func (v *Variables) PalletCountID(node, product string, state planning.MaterialState, t int) (int, bool) {
	id, ok := v.PalletCount[invKey{Node: node, Product: product, State: state, T: t}]
	return id, ok
}

func (v *Variables) PalletEntryID(node, product string, state planning.MaterialState, t int) (int, bool) {
	id, ok := v.PalletEntry[invKey{Node: node, Product: product, State: state, T: t}]
	return id, ok
}

func (v *Variables) DisposalID(node, product string, state planning.MaterialState, t int) (int, bool) {
	id, ok := v.Disposal[invKey{Node: node, Product: product, State: state, T: t}]
	return id, ok
}

func (v *Variables) InTransitID(origin, destination, product string, mode planning.TransportMode, tDep int) (int, bool) {
	id, ok := v.InTransit[transitKey{Origin: origin, Destination: destination, Product: product, Mode: mode, TDep: tDep}]
	return id, ok
}

func (v *Variables) TruckLoadID(truck, destination, product string, tDep int) (int, bool) {
	id, ok := v.TruckLoad[truckKey{Truck: truck, Destination: destination, Product: product, TDep: tDep}]
	return id, ok
}

func (v *Variables) DemandFromAmbientID(breadroom, product string, t int) (int, bool) {
	id, ok := v.DemandFromAmbient[demandKey{Breadroom: breadroom, Product: product, T: t}]
	return id, ok
}

func (v *Variables) DemandFromThawedID(breadroom, product string, t int) (int, bool) {
	id, ok := v.DemandFromThawed[demandKey{Breadroom: breadroom, Product: product, T: t}]
	return id, ok
}

func (v *Variables) ShortageID(breadroom, product string, t int) (int, bool) {
	id, ok := v.Shortage[demandKey{Breadroom: breadroom, Product: product, T: t}]
	return id, ok
}

func newVariables() *Variables {
	return &Variables{
		Production:        make(map[prodKey]int),
		MixCount:           make(map[prodKey]int),
		ProductProduced:    make(map[prodKey]int),
		ProductStart:       make(map[prodKey]int),
		Freeze:             make(map[prodKey]int),
		Thaw:               make(map[prodKey]int),
		AnyProduction:      make(map[nodeDateKey]int),
		LaborUsed:          make(map[nodeDateKey]int),
		LaborPaid:          make(map[nodeDateKey]int),
		LaborRegular:       make(map[nodeDateKey]int),
		LaborOvertime:      make(map[nodeDateKey]int),
		Inventory:          make(map[invKey]int),
		PalletCount:        make(map[invKey]int),
		PalletEntry:        make(map[invKey]int),
		Disposal:           make(map[invKey]int),
		InTransit:          make(map[transitKey]int),
		TruckLoad:          make(map[truckKey]int),
		DemandFromAmbient:  make(map[demandKey]int),
		DemandFromThawed:   make(map[demandKey]int),
		Shortage:           make(map[demandKey]int),
	}
}
