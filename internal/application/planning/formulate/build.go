package formulate

import (
	"fmt"

	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/domain/planning"
)

// productionBigM bounds production[n,p,t] when forcing product_produced
// up: production <= M * product_produced. The bundle carries no
// explicit per-product capacity, so a single generous constant is
// used; it only needs to exceed any realizable single-day production
// quantity, never to be tight.
const productionBigM = 1_000_000.0

// anyProductionEpsilon is ε in the reverse aggregate linkage
// Σ_p production[n,p,t] >= ε * any_production[n,t], chosen far below
// the smallest realistic production quantity (a single mix) so it never
// binds a genuine production day.
const anyProductionEpsilon = 1e-3

// Build declares every decision variable and constraint over the index
// sets idx, and assembles the objective, returning an engine-internal
// Model plus the Variables lookup the solution extractor needs to read
// solved values back out.
func Build(bundle *planning.Bundle, idx *index.Set, opts planning.RunOptions) (*Model, *Variables, error) {
	m := NewModel()
	v := newVariables()

	declareProductionFamily(bundle, idx, m, v)
	declareAnyProduction(idx, m, v)
	declareInventoryFamily(bundle, idx, m, v, opts)
	declareTransit(idx, m, v)
	declareTruckLoad(idx, m, v)
	declareDemand(idx, m, v, opts)
	declareLabor(bundle, idx, m, v)

	arrivals, departures := transitLookups(idx, v)

	addMixLinkConstraints(bundle, idx, m, v)
	addProductIndicatorConstraints(bundle, idx, m, v)
	addProductStartConstraints(idx, m, v)
	if err := addStateBalanceConstraints(bundle, idx, m, v, arrivals, departures); err != nil {
		return nil, nil, err
	}
	addDemandBalanceConstraints(idx, m, v, opts)
	addConsumptionBoundConstraints(bundle, idx, m, v, arrivals, departures)
	if err := addShelfLifeConstraints(bundle, idx, m, v, arrivals, departures); err != nil {
		return nil, nil, err
	}
	if opts.Flags.PalletTracking {
		addPalletConstraints(bundle, idx, m, v)
	}
	addTruckCapacityConstraints(bundle, idx, m, v)
	addTruckLoadLinkConstraints(bundle, idx, m, v)
	addLaborConstraints(bundle, idx, m, v)

	addObjective(bundle, idx, m, v, opts)

	return m, v, nil
}

func varName(kind string, parts ...any) string {
	s := kind
	for _, p := range parts {
		s += fmt.Sprintf("|%v", p)
	}
	return s
}

func declareProductionFamily(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		v.Production[key] = m.AddVar(varName("production", slot.Node, slot.Product, slot.DateIdx), Continuous, 0, 0)
		v.MixCount[key] = m.AddVar(varName("mix_count", slot.Node, slot.Product, slot.DateIdx), Integer, 0, 0)
		v.ProductProduced[key] = m.AddVar(varName("product_produced", slot.Node, slot.Product, slot.DateIdx), Binary, 0, 1)
		v.ProductStart[key] = m.AddVar(varName("product_start", slot.Node, slot.Product, slot.DateIdx), Binary, 0, 1)
	}
	for _, slot := range idx.Freeze {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		v.Freeze[key] = m.AddVar(varName("freeze", slot.Node, slot.Product, slot.DateIdx), Continuous, 0, 0)
	}
	for _, slot := range idx.Thaw {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		v.Thaw[key] = m.AddVar(varName("thaw", slot.Node, slot.Product, slot.DateIdx), Continuous, 0, 0)
	}
}

func declareAnyProduction(idx *index.Set, m *Model, v *Variables) {
	seen := make(map[nodeDateKey]bool)
	for _, slot := range idx.Production {
		key := nodeDateKey{Node: slot.Node, T: slot.DateIdx}
		if seen[key] {
			continue
		}
		seen[key] = true
		v.AnyProduction[key] = m.AddVar(varName("any_production", slot.Node, slot.DateIdx), Binary, 0, 1)
	}
}

func declareInventoryFamily(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	for _, slot := range idx.Inventory {
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		v.Inventory[key] = m.AddVar(varName("inventory", slot.Node, slot.Product, slot.State, slot.DateIdx), Continuous, 0, 0)
		if opts.Flags.PalletTracking {
			v.PalletCount[key] = m.AddVar(varName("pallet_count", slot.Node, slot.Product, slot.State, slot.DateIdx), Integer, 0, 0)
			v.PalletEntry[key] = m.AddVar(varName("pallet_entry", slot.Node, slot.Product, slot.State, slot.DateIdx), Continuous, 0, 0)
		}
	}
	for _, slot := range idx.Disposal {
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		v.Disposal[key] = m.AddVar(varName("disposal", slot.Node, slot.Product, slot.State, slot.DateIdx), Continuous, 0, 0)
	}
}

func declareTransit(idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Transit {
		key := transitKey{Origin: slot.Origin, Destination: slot.Destination, Product: slot.Product, Mode: slot.Mode, TDep: slot.DepartDateIdx}
		v.InTransit[key] = m.AddVar(
			varName("in_transit", slot.Origin, slot.Destination, slot.Product, slot.Mode, slot.DepartDateIdx),
			Continuous, 0, 0,
		)
	}
}

func declareTruckLoad(idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Truck {
		key := truckKey{Truck: slot.TruckID, Destination: slot.Destination, Product: slot.Product, TDep: slot.DepartDateIdx}
		v.TruckLoad[key] = m.AddVar(varName("truck_pallet_load", slot.TruckID, slot.Destination, slot.Product, slot.DepartDateIdx), Integer, 0, 0)
	}
}

func declareDemand(idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	for _, slot := range idx.Demand {
		key := demandKey{Breadroom: slot.Breadroom, Product: slot.Product, T: slot.DateIdx}
		v.DemandFromAmbient[key] = m.AddVar(varName("demand_consumed_from_ambient", slot.Breadroom, slot.Product, slot.DateIdx), Continuous, 0, 0)
		v.DemandFromThawed[key] = m.AddVar(varName("demand_consumed_from_thawed", slot.Breadroom, slot.Product, slot.DateIdx), Continuous, 0, 0)
		if opts.Flags.AllowShortages {
			v.Shortage[key] = m.AddVar(varName("shortage", slot.Breadroom, slot.Product, slot.DateIdx), Continuous, 0, 0)
		}
	}
}

func declareLabor(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	H := bundle.Horizon.Len()
	for _, nodeID := range idx.NodeIDs {
		if !bundle.Nodes[nodeID].Capabilities.Has(planning.CapProduces) {
			continue
		}
		for t := 0; t < H; t++ {
			key := nodeDateKey{Node: nodeID, T: t}
			v.LaborUsed[key] = m.AddVar(varName("labor_hours_used", nodeID, t), Continuous, 0, 0)
			v.LaborPaid[key] = m.AddVar(varName("labor_hours_paid", nodeID, t), Continuous, 0, 0)
			v.LaborRegular[key] = m.AddVar(varName("labor_hours_regular", nodeID, t), Continuous, 0, 0)
			v.LaborOvertime[key] = m.AddVar(varName("labor_hours_overtime", nodeID, t), Continuous, 0, 0)
		}
	}
}

// arrivalKey/departureKey reuse invKey's shape (node, product, state,
// date) to index which in_transit variables flow into or out of a given
// state slot, so the state-balance, consumption-bound, and shelf-life
// constraints can share one lookup instead of re-scanning idx.Transit.
func transitLookups(idx *index.Set, v *Variables) (arrivals, departures map[invKey][]int) {
	arrivals = make(map[invKey][]int)
	departures = make(map[invKey][]int)
	for _, slot := range idx.Transit {
		key := transitKey{Origin: slot.Origin, Destination: slot.Destination, Product: slot.Product, Mode: slot.Mode, TDep: slot.DepartDateIdx}
		varID := v.InTransit[key]

		arriveKey := invKey{Node: slot.Destination, Product: slot.Product, State: slot.ArrivalState, T: slot.ArriveDateIdx()}
		arrivals[arriveKey] = append(arrivals[arriveKey], varID)

		departKey := invKey{Node: slot.Origin, Product: slot.Product, State: departureState(slot.Mode), T: slot.DepartDateIdx}
		departures[departKey] = append(departures[departKey], varID)
	}
	return arrivals, departures
}

func departureState(mode planning.TransportMode) planning.MaterialState {
	if mode == planning.ModeFrozen {
		return planning.StateFrozen
	}
	return planning.StateAmbient
}
