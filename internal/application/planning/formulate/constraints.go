package formulate

import (
	"fmt"

	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/domain/planning"
)

type snapshotKey struct {
	Node    string
	Product string
	State   planning.MaterialState
}

func initialInventoryLookup(bundle *planning.Bundle) map[snapshotKey]float64 {
	out := make(map[snapshotKey]float64, len(bundle.InitialInventory))
	for _, row := range bundle.InitialInventory {
		out[snapshotKey{Node: row.Node, Product: row.Product, State: row.State}] += row.Quantity
	}
	return out
}

// addMixLinkConstraints: production = units_per_mix * mix_count.
func addMixLinkConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		product := bundle.Products[slot.Product]
		m.AddConstraint(
			varName("mix_link", slot.Node, slot.Product, slot.DateIdx),
			map[int]float64{
				v.Production[key]: 1,
				v.MixCount[key]:   -float64(product.UnitsPerMix),
			},
			Equal, 0,
		)
	}
}

// addProductIndicatorConstraints wires the bidirectional product
// indicator linkage: the forward bound
// (production ≤ M·product_produced) and reverse aggregate bound
// (Σ production ≥ ε·any_production), plus the upward link
// product_produced ≤ any_production that closes the loop so any_production
// is forced to 1 whenever some SKU actually runs — without it, the
// labor minimum-paid-hours floor (which keys off any_production) could
// be dodged even on a day with real production.
func addProductIndicatorConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		anyKey := nodeDateKey{Node: slot.Node, T: slot.DateIdx}

		m.AddConstraint(
			varName("product_indicator_forward", slot.Node, slot.Product, slot.DateIdx),
			map[int]float64{v.Production[key]: 1, v.ProductProduced[key]: -productionBigM},
			LessEqual, 0,
		)
		m.AddConstraint(
			varName("product_indicator_upward", slot.Node, slot.Product, slot.DateIdx),
			map[int]float64{v.ProductProduced[key]: 1, v.AnyProduction[anyKey]: -1},
			LessEqual, 0,
		)
	}

	seen := make(map[nodeDateKey]bool)
	for _, slot := range idx.Production {
		anyKey := nodeDateKey{Node: slot.Node, T: slot.DateIdx}
		if seen[anyKey] {
			continue
		}
		seen[anyKey] = true

		coeffs := map[int]float64{v.AnyProduction[anyKey]: -anyProductionEpsilon}
		for _, p := range idx.ProductIDs {
			if pk, ok := v.Production[(prodKey{Node: slot.Node, Product: p, T: slot.DateIdx})]; ok {
				coeffs[pk] = 1
			}
		}
		m.AddConstraint(varName("any_production_reverse", slot.Node, slot.DateIdx), coeffs, GreaterEqual, 0)
	}
}

// addProductStartConstraints: product_start[t] >= product_produced[t] -
// product_produced[t-1], with product_produced[t-1] treated as 0 before
// the horizon (a run beginning on t_0 is always a "start").
func addProductStartConstraints(idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Production {
		key := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}
		coeffs := map[int]float64{
			v.ProductStart[key]:    1,
			v.ProductProduced[key]: -1,
		}
		if slot.DateIdx > 0 {
			prevKey := prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx - 1}
			if prevID, ok := v.ProductProduced[prevKey]; ok {
				coeffs[prevID] += 1
			}
		}
		m.AddConstraint(varName("product_start", slot.Node, slot.Product, slot.DateIdx), coeffs, GreaterEqual, 0)
	}
}

// addStateBalanceConstraints builds one equation per (n,p,s,t):
// inv[t] = inv[t-1] + inflows - outflows, with the t_0 predecessor term
// folded into the RHS as the snapshot quantity.
func addStateBalanceConstraints(
	bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables,
	arrivals, departures map[invKey][]int,
) error {
	initInv := initialInventoryLookup(bundle)

	for _, slot := range idx.Inventory {
		node := bundle.Nodes[slot.Node]
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		coeffs := map[int]float64{v.Inventory[key]: 1}
		rhs := 0.0

		if slot.DateIdx == 0 {
			rhs += initInv[snapshotKey{Node: slot.Node, Product: slot.Product, State: slot.State}]
		} else {
			prevKey := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx - 1}
			prevID, ok := v.Inventory[prevKey]
			if !ok {
				return &planning.ErrModelBuild{Reason: fmt.Sprintf(
					"missing predecessor inventory variable for %s/%s/%s at t=%d", slot.Node, slot.Product, slot.State, slot.DateIdx-1)}
			}
			coeffs[prevID] -= 1
		}

		if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapProduces) {
			if pid, ok := v.Production[prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[pid] -= 1
			}
		}
		if slot.State == planning.StateThawed {
			if tid, ok := v.Thaw[prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[tid] -= 1
			}
		}
		if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapCanFreeze) {
			if fid, ok := v.Freeze[prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[fid] += 1
			}
		}
		if slot.State == planning.StateFrozen && node.Capabilities.Has(planning.CapCanThaw) {
			if tid, ok := v.Thaw[prodKey{Node: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[tid] += 1
			}
		}
		if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapHasDemand) {
			if did, ok := v.DemandFromAmbient[demandKey{Breadroom: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[did] += 1
			}
		}
		if slot.State == planning.StateThawed && node.Capabilities.Has(planning.CapHasDemand) {
			if did, ok := v.DemandFromThawed[demandKey{Breadroom: slot.Node, Product: slot.Product, T: slot.DateIdx}]; ok {
				coeffs[did] += 1
			}
		}
		if disp, ok := v.Disposal[key]; ok {
			coeffs[disp] += 1
		}
		for _, arriveID := range arrivals[key] {
			coeffs[arriveID] -= 1
		}
		for _, departID := range departures[key] {
			coeffs[departID] += 1
		}

		m.AddConstraint(varName("state_balance", slot.Node, slot.Product, slot.State, slot.DateIdx), coeffs, Equal, rhs)
	}
	return nil
}

// addDemandBalanceConstraints: demand_consumed_from_ambient +
// demand_consumed_from_thawed [+ shortage] = demand.
func addDemandBalanceConstraints(idx *index.Set, m *Model, v *Variables, opts planning.RunOptions) {
	for _, slot := range idx.Demand {
		key := demandKey{Breadroom: slot.Breadroom, Product: slot.Product, T: slot.DateIdx}
		coeffs := map[int]float64{
			v.DemandFromAmbient[key]: 1,
			v.DemandFromThawed[key]:  1,
		}
		if opts.Flags.AllowShortages {
			coeffs[v.Shortage[key]] = 1
		}
		m.AddConstraint(varName("demand_balance", slot.Breadroom, slot.Product, slot.DateIdx), coeffs, Equal, slot.Quantity)
	}
}

// addConsumptionBoundConstraints is the anti-phantom-supply bound:
// consumption from each source state is bounded by prior inventory plus
// same-day inflows to that state, never by the same-day inventory
// variable itself (which would create a circular fixpoint).
func addConsumptionBoundConstraints(
	bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables,
	arrivals, departures map[invKey][]int,
) {
	initInv := initialInventoryLookup(bundle)

	for _, slot := range idx.Demand {
		t := slot.DateIdx
		demKey := demandKey{Breadroom: slot.Breadroom, Product: slot.Product, T: t}

		for _, state := range []planning.MaterialState{planning.StateAmbient, planning.StateThawed} {
			consumedID, ok := map[planning.MaterialState]int{
				planning.StateAmbient: v.DemandFromAmbient[demKey],
				planning.StateThawed:  v.DemandFromThawed[demKey],
			}[state]
			if !ok {
				continue
			}

			invK := invKey{Node: slot.Breadroom, Product: slot.Product, State: state, T: t}
			coeffs := map[int]float64{consumedID: 1}
			rhs := 0.0

			if t == 0 {
				rhs += initInv[snapshotKey{Node: slot.Breadroom, Product: slot.Product, State: state}]
			} else if prevID, ok := v.Inventory[invKey{Node: slot.Breadroom, Product: slot.Product, State: state, T: t - 1}]; ok {
				coeffs[prevID] -= 1
			}
			for _, arriveID := range arrivals[invK] {
				coeffs[arriveID] -= 1
			}
			for _, departID := range departures[invK] {
				coeffs[departID] += 1
			}
			if state == planning.StateAmbient {
				if fid, ok := v.Freeze[prodKey{Node: slot.Breadroom, Product: slot.Product, T: t}]; ok {
					coeffs[fid] += 1
				}
			}
			if state == planning.StateThawed {
				if tid, ok := v.Thaw[prodKey{Node: slot.Breadroom, Product: slot.Product, T: t}]; ok {
					coeffs[tid] -= 1
				}
			}

			m.AddConstraint(varName("consumption_bound", slot.Breadroom, slot.Product, state, t), coeffs, LessEqual, rhs)
		}
	}
}

// addShelfLifeConstraints enforces the sliding-window rule O(t) ≤ Q(t)
// per (n,p,s,t): cumulative outflows of state s over the trailing
// window of length L_s may never exceed cumulative inflows over the
// same window, plus the snapshot quantity when the window covers t_0.
func addShelfLifeConstraints(
	bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables,
	arrivals, departures map[invKey][]int,
) error {
	initInv := initialInventoryLookup(bundle)

	for _, slot := range idx.Inventory {
		node := bundle.Nodes[slot.Node]
		product, ok := bundle.Products[slot.Product]
		if !ok {
			return &planning.ErrModelBuild{Reason: fmt.Sprintf("unknown product %q in shelf-life constraint", slot.Product)}
		}
		ls := product.ShelfLifeDays(slot.State)
		if ls <= 0 {
			continue
		}
		t := slot.DateIdx
		windowStart := t - ls + 1
		if windowStart < 0 {
			windowStart = 0
		}

		coeffs := make(map[int]float64)
		rhs := 0.0
		if t-ls+1 <= 0 {
			rhs += initInv[snapshotKey{Node: slot.Node, Product: slot.Product, State: slot.State}]
		}

		for tau := windowStart; tau <= t; tau++ {
			invK := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: tau}

			// Outflows (O side): shipments out, conversions out, demand
			// consumption, disposal.
			for _, departID := range departures[invK] {
				coeffs[departID] += 1
			}
			if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapCanFreeze) {
				if fid, ok := v.Freeze[prodKey{Node: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[fid] += 1
				}
			}
			if slot.State == planning.StateFrozen && node.Capabilities.Has(planning.CapCanThaw) {
				if tid, ok := v.Thaw[prodKey{Node: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[tid] += 1
				}
			}
			if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapHasDemand) {
				if did, ok := v.DemandFromAmbient[demandKey{Breadroom: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[did] += 1
				}
			}
			if slot.State == planning.StateThawed && node.Capabilities.Has(planning.CapHasDemand) {
				if did, ok := v.DemandFromThawed[demandKey{Breadroom: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[did] += 1
				}
			}
			if disp, ok := v.Disposal[invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: tau}]; ok {
				coeffs[disp] += 1
			}

			// Inflows (Q side, subtracted since O - Q <= 0).
			for _, arriveID := range arrivals[invK] {
				coeffs[arriveID] -= 1
			}
			if slot.State == planning.StateAmbient && node.Capabilities.Has(planning.CapProduces) {
				if pid, ok := v.Production[prodKey{Node: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[pid] -= 1
				}
			}
			if slot.State == planning.StateFrozen && node.Capabilities.Has(planning.CapCanFreeze) {
				if fid, ok := v.Freeze[prodKey{Node: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[fid] -= 1
				}
			}
			if slot.State == planning.StateThawed && node.Capabilities.Has(planning.CapCanThaw) {
				if tid, ok := v.Thaw[prodKey{Node: slot.Node, Product: slot.Product, T: tau}]; ok {
					coeffs[tid] -= 1
				}
			}
		}

		m.AddConstraint(varName("shelf_life_window", slot.Node, slot.Product, slot.State, t), coeffs, LessEqual, rhs)
	}
	return nil
}

// addPalletConstraints: units_per_pallet*pallet_count >= inventory
// (units_per_pallet defaults to 320), and pallet_entry
// charged on a strict increase over the previous day's pallet count.
func addPalletConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Inventory {
		key := invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx}
		product := bundle.Products[slot.Product]
		unitsPerPallet := float64(product.UnitsPerPallet)
		if unitsPerPallet <= 0 {
			unitsPerPallet = planning.DefaultUnitsPerPallet
		}

		m.AddConstraint(
			varName("pallet_ceiling", slot.Node, slot.Product, slot.State, slot.DateIdx),
			map[int]float64{v.PalletCount[key]: unitsPerPallet, v.Inventory[key]: -1},
			GreaterEqual, 0,
		)

		coeffs := map[int]float64{v.PalletEntry[key]: 1, v.PalletCount[key]: -1}
		if slot.DateIdx > 0 {
			if prevID, ok := v.PalletCount[invKey{Node: slot.Node, Product: slot.Product, State: slot.State, T: slot.DateIdx - 1}]; ok {
				coeffs[prevID] += 1
			}
		}
		m.AddConstraint(varName("pallet_entry", slot.Node, slot.Product, slot.State, slot.DateIdx), coeffs, GreaterEqual, 0)
	}
}

// addTruckCapacityConstraints: per scheduled departure, total pallets
// loaded across every destination and product the truck could serve
// that day may not exceed the truck's capacity.
func addTruckCapacityConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	capByTruck := make(map[string]int, len(bundle.TruckSchedules))
	for _, truck := range bundle.TruckSchedules {
		capByTruck[truck.ID] = truck.Capacity()
	}

	type depKey struct {
		Truck string
		TDep  int
	}
	coeffsByDep := make(map[depKey]map[int]float64)
	var order []depKey
	for _, slot := range idx.Truck {
		dk := depKey{slot.TruckID, slot.DepartDateIdx}
		coeffs, ok := coeffsByDep[dk]
		if !ok {
			coeffs = make(map[int]float64)
			coeffsByDep[dk] = coeffs
			order = append(order, dk)
		}
		vid := v.TruckLoad[truckKey{Truck: slot.TruckID, Destination: slot.Destination, Product: slot.Product, TDep: slot.DepartDateIdx}]
		coeffs[vid] = 1
	}

	for _, dk := range order {
		m.AddConstraint(
			varName("truck_capacity", dk.Truck, dk.TDep),
			coeffsByDep[dk], LessEqual, float64(capByTruck[dk.Truck]),
		)
	}
}

// addTruckLoadLinkConstraints ties truck_pallet_load to the shipment it
// is supposed to represent: for every route/product/departure, the
// pallets loaded across all trucks scheduled to serve that lane that
// day must cover the units actually shipped. Without this, in_transit
// is free to carry flow with no corresponding truck_pallet_load, and
// the truck_pallet_load capacity constraint binds nothing real.
func addTruckLoadLinkConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	for _, slot := range idx.Transit {
		transitID, ok := v.InTransit[transitKey{
			Origin: slot.Origin, Destination: slot.Destination, Product: slot.Product,
			Mode: slot.Mode, TDep: slot.DepartDateIdx,
		}]
		if !ok {
			continue
		}

		product := bundle.Products[slot.Product]
		unitsPerPallet := float64(product.UnitsPerPallet)
		if unitsPerPallet <= 0 {
			unitsPerPallet = planning.DefaultUnitsPerPallet
		}

		weekday := bundle.Horizon.At(slot.DepartDateIdx).Weekday()
		trucks := index.TrucksServing(bundle.TruckSchedules, slot.Origin, slot.Destination, weekday)

		coeffs := map[int]float64{transitID: -1}
		for _, truck := range trucks {
			if vid, ok := v.TruckLoad[truckKey{
				Truck: truck.ID, Destination: slot.Destination, Product: slot.Product, TDep: slot.DepartDateIdx,
			}]; ok {
				coeffs[vid] += unitsPerPallet
			}
		}

		m.AddConstraint(
			varName("truck_load_link", slot.Origin, slot.Destination, slot.Product, slot.Mode, slot.DepartDateIdx),
			coeffs, GreaterEqual, 0,
		)
	}
}

// addLaborConstraints wires labor_hours_used's definition, the daily
// hour ceiling, the paid-no-less-than-used rule, and the non-fixed-day
// minimum-paid-hours floor.
func addLaborConstraints(bundle *planning.Bundle, idx *index.Set, m *Model, v *Variables) {
	H := bundle.Horizon.Len()
	for _, nodeID := range idx.NodeIDs {
		if !bundle.Nodes[nodeID].Capabilities.Has(planning.CapProduces) {
			continue
		}
		for t := 0; t < H; t++ {
			key := nodeDateKey{Node: nodeID, T: t}
			day, hasDay := bundle.LaborCalendar.Day(bundle.Horizon.At(t))

			used := map[int]float64{v.LaborUsed[key]: 1}
			for _, p := range idx.ProductIDs {
				product := bundle.Products[p]
				rate := product.UnitsPerLaborHour
				if rate <= 0 {
					rate = planning.DefaultUnitsPerLaborHour
				}
				if pid, ok := v.Production[prodKey{Node: nodeID, Product: p, T: t}]; ok {
					used[pid] -= 1.0 / rate
				}
				if sid, ok := v.ProductStart[prodKey{Node: nodeID, Product: p, T: t}]; ok {
					used[sid] -= planning.ChangeoverOverheadHours
				}
			}
			used[v.AnyProduction[key]] -= planning.StartupOverheadHours
			m.AddConstraint(varName("labor_used_def", nodeID, t), used, Equal, 0)

			maxHours := planning.MaxLaborHoursPerDay
			if hasDay {
				maxHours = day.MaxHours()
			}
			m.AddConstraint(varName("labor_ceiling", nodeID, t),
				map[int]float64{v.LaborUsed[key]: 1}, LessEqual, maxHours)

			m.AddConstraint(varName("labor_paid_split", nodeID, t),
				map[int]float64{v.LaborPaid[key]: 1, v.LaborRegular[key]: -1, v.LaborOvertime[key]: -1}, Equal, 0)

			m.AddConstraint(varName("labor_paid_ge_used", nodeID, t),
				map[int]float64{v.LaborPaid[key]: 1, v.LaborUsed[key]: -1}, GreaterEqual, 0)

			regularCap := maxHours
			if hasDay && day.IsFixedDay && day.FixedHours > 0 {
				regularCap = day.FixedHours
			}
			m.AddConstraint(varName("labor_regular_cap", nodeID, t),
				map[int]float64{v.LaborRegular[key]: 1}, LessEqual, regularCap)

			if !hasDay || !day.IsFixedDay {
				m.AddConstraint(varName("labor_minimum_paid", nodeID, t),
					map[int]float64{v.LaborPaid[key]: 1, v.AnyProduction[key]: -planning.MinimumPaidHoursIfNonFixed},
					GreaterEqual, 0,
				)
			}
		}
	}
}
