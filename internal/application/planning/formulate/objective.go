package formulate

import (
	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/domain/planning"
)

// addObjective assembles every term of the minimization objective.
// Production cost is deliberately never added: it is an uncontrollable
// pass-through on this horizon.
func addObjective(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	addLaborCostTerms(bundle, idx, m, v)
	addTransportCostTerms(bundle, idx, m, v)
	addHoldingCostTerms(bundle, idx, m, v, opts)
	if opts.Flags.PalletTracking {
		addPalletEntryCostTerms(bundle, idx, m, v)
	}
	if opts.Flags.AllowShortages {
		addShortageCostTerms(bundle, idx, m, v)
	}
	addChangeoverCostTerms(bundle, idx, m, v)
	addTieBreakerTerms(bundle, idx, m, v)
	addWasteCostTerms(bundle, idx, m, v, opts)
	addDisposalCostTerms(bundle, idx, m, v)
	addTruckLoadCostTerms(bundle, idx, m, v)
}

func addLaborCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	H := bundle.Horizon.Len()
	for _, nodeID := range idx.NodeIDs {
		if !bundle.Nodes[nodeID].Capabilities.Has(planning.CapProduces) {
			continue
		}
		for t := 0; t < H; t++ {
			key := nodeDateKey{Node: nodeID, T: t}
			regularRate := bundle.Costs.LaborRegularRate
			overtimeRate := bundle.Costs.LaborOvertimeRate
			if day, ok := bundle.LaborCalendar.Day(bundle.Horizon.At(t)); ok {
				if day.RegularRate > 0 {
					regularRate = day.RegularRate
				}
				if day.OvertimeRate > 0 {
					overtimeRate = day.OvertimeRate
				}
			}
			m.AddObjTerm(v.LaborRegular[key], regularRate)
			m.AddObjTerm(v.LaborOvertime[key], overtimeRate)
		}
	}
}

func addTransportCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Transit {
		key := transitKey{Origin: slot.Origin, Destination: slot.Destination, Product: slot.Product, Mode: slot.Mode, TDep: slot.DepartDateIdx}
		routeKey := planning.RouteKey{Origin: slot.Origin, Destination: slot.Destination, Mode: slot.Mode}
		m.AddObjTerm(v.InTransit[key], bundle.Costs.TransportCostPerUnit[routeKey])
	}
}

func addHoldingCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	for _, slot := range idx.Inventory {
		cost := bundle.Costs.HoldingCostPerPalletDay[slot.State]
		if cost == 0 {
			continue
		}
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		if opts.Flags.PalletTracking {
			m.AddObjTerm(v.PalletCount[key], cost)
		} else {
			// Without pallet tracking there is no integer pallet count to
			// price holding_cost(s) * pallet_count against; falling back
			// to a per-unit approximation on raw inventory keeps holding
			// cost (and its implicit staleness pressure) present rather
			// than silently zero when the feature flag is off.
			m.AddObjTerm(v.Inventory[key], cost)
		}
	}
}

func addPalletEntryCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	if bundle.Costs.PalletEntryCost == 0 {
		return
	}
	for _, slot := range idx.Inventory {
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		m.AddObjTerm(v.PalletEntry[key], bundle.Costs.PalletEntryCost)
	}
}

func addShortageCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Demand {
		key := demandKey{Breadroom: slot.Breadroom, Product: slot.Product, T: slot.DateIdx}
		m.AddObjTerm(v.Shortage[key], bundle.Costs.ShortagePenaltyPerUnit)
	}
}

func addChangeoverCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	if bundle.Costs.ChangeoverFixedCost == 0 {
		return
	}
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		m.AddObjTerm(v.ProductStart[key], bundle.Costs.ChangeoverFixedCost)
	}
}

func addTieBreakerTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	delta := bundle.Costs.TieBreaker()
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		m.AddObjTerm(v.ProductProduced[key], delta)
	}
}

// addWasteCostTerms penalizes end-of-horizon pallets (or raw inventory,
// mirroring the holding-cost fallback) still on hand at t_{H-1}.
func addWasteCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	if bundle.Costs.WasteMultiplier == 0 {
		return
	}
	lastT := bundle.Horizon.Len() - 1
	for _, slot := range idx.Inventory {
		if slot.DateIdx != lastT {
			continue
		}
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		if opts.Flags.PalletTracking {
			m.AddObjTerm(v.PalletCount[key], bundle.Costs.WasteMultiplier)
		} else {
			m.AddObjTerm(v.Inventory[key], bundle.Costs.WasteMultiplier)
		}
	}
}

func addDisposalCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	if bundle.Costs.DisposalUnitCost == 0 {
		return
	}
	for _, slot := range idx.Disposal {
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		m.AddObjTerm(v.Disposal[key], bundle.Costs.DisposalUnitCost)
	}
}

// addTruckLoadCostTerms prices each truck's per-pallet loading cost
// against its truck_pallet_load, so a route served by several candidate
// trucks isn't indifferent between them once their LoadingCostPerPallet
// rates diverge.
func addTruckLoadCostTerms(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	rateByTruck := make(map[string]float64, len(bundle.TruckSchedules))
	for _, truck := range bundle.TruckSchedules {
		rateByTruck[truck.ID] = truck.LoadingCostPerPallet
	}
	for _, slot := range idx.Truck {
		rate := rateByTruck[slot.TruckID]
		if rate == 0 {
			continue
		}
		key := truckKey{Truck: slot.TruckID, Destination: slot.Destination, Product: slot.Product, TDep: slot.DepartDateIdx}
		m.AddObjTerm(v.TruckLoad[key], rate)
	}
}
