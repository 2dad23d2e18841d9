// Package extract implements the solution extractor: it converts the
// raw solve.Result (variable values keyed by column id) back into a
// typed planning.Solution record, using the formulate.Variables
// accessor methods so nothing here re-derives the sparse index sets or
// reaches into formulate's unexported key types.
package extract

import (
	"math"

	"github.com/breadworks/swpe/internal/application/planning/formulate"
	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/application/planning/solve"
	"github.com/breadworks/swpe/internal/domain/planning"
)

// quantityEpsilon is the threshold below which a solved shipment or flow
// quantity is treated as numerically zero and dropped.
const quantityEpsilon = 1e-6

// at reads r's value for a variable id only if the accessor reports the
// variable exists; a tuple the index builder or formulator never
// declared (an infeasible combination) simply contributes 0, never a
// lookup error.
func at(r *solve.Result, id int, ok bool) float64 {
	if !ok {
		return 0
	}
	return r.ValueOf(id)
}

// Extract builds a *planning.Solution from a solved model.
func Extract(bundle *planning.Bundle, idx *index.Set, v *formulate.Variables, result *solve.Result, opts planning.RunOptions) *planning.Solution {
	sol := &planning.Solution{
		ModelType:      planning.ModelType,
		Termination:    result.Termination,
		ObjectiveValue: result.ObjectiveValue,
		SolveWallClock: result.WallClock,
	}

	sol.Production = extractProduction(idx, v, result)
	sol.LaborByDate = extractLabor(bundle, idx, v, result)
	sol.Shipments = extractShipments(bundle, idx, v, result)
	sol.Inventory = extractInventory(idx, v, result, opts)
	sol.FreezeFlows, sol.ThawFlows = extractFreezeThaw(idx, v, result)
	sol.DemandConsumed = extractDemandConsumed(idx, v, result)
	sol.Shortages = extractShortages(idx, v, result)
	sol.Disposals = extractDisposals(idx, v, result)
	sol.Costs = extractCosts(bundle, idx, v, result, opts)

	return sol
}

func extractProduction(idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.ProductionEntry {
	var out []planning.ProductionEntry
	for _, slot := range idx.Production {
		prodID, ok := v.ProductionID(slot.Node, slot.Product, slot.DateIdx)
		qty := at(r, prodID, ok)
		if qty <= quantityEpsilon {
			continue
		}
		mixID, mixOk := v.MixCountID(slot.Node, slot.Product, slot.DateIdx)
		out = append(out, planning.ProductionEntry{
			Node:     slot.Node,
			Product:  slot.Product,
			Date:     idx.DateAt(slot.DateIdx),
			Quantity: qty,
			MixCount: int(math.Round(at(r, mixID, mixOk))),
		})
	}
	return out
}

// laborRatesAt resolves the regular/overtime pay rate effective for a
// node's production day, preferring the per-day LaborCalendar entry over
// bundle.Costs' flat default, mirroring formulate's addLaborCostTerms.
func laborRatesAt(bundle *planning.Bundle, t int) (float64, float64) {
	regular := bundle.Costs.LaborRegularRate
	overtime := bundle.Costs.LaborOvertimeRate
	if day, ok := bundle.LaborCalendar.Day(bundle.Horizon.At(t)); ok {
		if day.RegularRate > 0 {
			regular = day.RegularRate
		}
		if day.OvertimeRate > 0 {
			overtime = day.OvertimeRate
		}
	}
	return regular, overtime
}

func extractLabor(bundle *planning.Bundle, idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.LaborDayUsage {
	var out []planning.LaborDayUsage
	H := bundle.Horizon.Len()
	for _, nodeID := range idx.NodeIDs {
		if !bundle.Nodes[nodeID].Capabilities.Has(planning.CapProduces) {
			continue
		}
		for t := 0; t < H; t++ {
			usedID, usedOk := v.LaborUsedID(nodeID, t)
			paidID, paidOk := v.LaborPaidID(nodeID, t)
			used := at(r, usedID, usedOk)
			paid := at(r, paidID, paidOk)
			if used <= quantityEpsilon && paid <= quantityEpsilon {
				continue
			}
			regID, regOk := v.LaborRegularID(nodeID, t)
			otID, otOk := v.LaborOvertimeID(nodeID, t)
			regularRate, overtimeRate := laborRatesAt(bundle, t)
			out = append(out, planning.LaborDayUsage{
				Node:         nodeID,
				Date:         idx.DateAt(t),
				HoursUsed:    used,
				HoursPaid:    paid,
				RegularCost:  at(r, regID, regOk) * regularRate,
				OvertimeCost: at(r, otID, otOk) * overtimeRate,
			})
		}
	}
	return out
}

// extractShipments walks every transit slot with a nonzero in_transit
// value and derives the serving truck, if any, by matching a truck
// schedule whose origin/destination coverage fits and whose
// truck_pallet_load value for this (destination, product, departure
// date) is positive. When several trucks from the same origin serve the
// same destination on the same day, the first one (in
// bundle.TruckSchedules order) with a positive load is chosen.
func extractShipments(bundle *planning.Bundle, idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.Shipment {
	var out []planning.Shipment
	for _, slot := range idx.Transit {
		id, ok := v.InTransitID(slot.Origin, slot.Destination, slot.Product, slot.Mode, slot.DepartDateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		out = append(out, planning.Shipment{
			Origin:        slot.Origin,
			Destination:   slot.Destination,
			Product:       slot.Product,
			DepartureDate: idx.DateAt(slot.DepartDateIdx),
			DeliveryDate:  idx.DateAt(slot.ArriveDateIdx()),
			Mode:          slot.Mode,
			State:         slot.ArrivalState,
			Quantity:      qty,
			TruckID:       assignTruck(bundle, v, r, slot),
		})
	}
	return out
}

func assignTruck(bundle *planning.Bundle, v *formulate.Variables, r *solve.Result, slot index.TransitSlot) string {
	for _, truck := range bundle.TruckSchedules {
		if truck.Origin != slot.Origin || !truck.Serves(slot.Destination) {
			continue
		}
		id, ok := v.TruckLoadID(truck.ID, slot.Destination, slot.Product, slot.DepartDateIdx)
		if at(r, id, ok) > quantityEpsilon {
			return truck.ID
		}
	}
	return ""
}

func extractInventory(idx *index.Set, v *formulate.Variables, r *solve.Result, opts planning.RunOptions) []planning.InventoryEntry {
	var out []planning.InventoryEntry
	for _, slot := range idx.Inventory {
		id, ok := v.InventoryID(slot.Node, slot.Product, slot.State, slot.DateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		pallets := 0
		if opts.Flags.PalletTracking {
			pid, pok := v.PalletCountID(slot.Node, slot.Product, slot.State, slot.DateIdx)
			pallets = int(math.Round(at(r, pid, pok)))
		}
		out = append(out, planning.InventoryEntry{
			Node:        slot.Node,
			Product:     slot.Product,
			State:       slot.State,
			Date:        idx.DateAt(slot.DateIdx),
			Quantity:    qty,
			PalletCount: pallets,
		})
	}
	return out
}

func extractFreezeThaw(idx *index.Set, v *formulate.Variables, r *solve.Result) ([]planning.FreezeThawEntry, []planning.FreezeThawEntry) {
	var freeze, thaw []planning.FreezeThawEntry
	for _, slot := range idx.Freeze {
		id, ok := v.FreezeID(slot.Node, slot.Product, slot.DateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		freeze = append(freeze, planning.FreezeThawEntry{Node: slot.Node, Product: slot.Product, Date: idx.DateAt(slot.DateIdx), Quantity: qty})
	}
	for _, slot := range idx.Thaw {
		id, ok := v.ThawID(slot.Node, slot.Product, slot.DateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		thaw = append(thaw, planning.FreezeThawEntry{Node: slot.Node, Product: slot.Product, Date: idx.DateAt(slot.DateIdx), Quantity: qty})
	}
	return freeze, thaw
}

func extractDemandConsumed(idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.DemandConsumption {
	var out []planning.DemandConsumption
	for _, slot := range idx.Demand {
		aID, aOk := v.DemandFromAmbientID(slot.Breadroom, slot.Product, slot.DateIdx)
		tID, tOk := v.DemandFromThawedID(slot.Breadroom, slot.Product, slot.DateIdx)
		ambient := at(r, aID, aOk)
		thawed := at(r, tID, tOk)
		if ambient <= quantityEpsilon && thawed <= quantityEpsilon {
			continue
		}
		out = append(out, planning.DemandConsumption{
			Breadroom:   slot.Breadroom,
			Product:     slot.Product,
			Date:        idx.DateAt(slot.DateIdx),
			FromAmbient: ambient,
			FromThawed:  thawed,
		})
	}
	return out
}

func extractShortages(idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.Shortage {
	var out []planning.Shortage
	for _, slot := range idx.Demand {
		id, ok := v.ShortageID(slot.Breadroom, slot.Product, slot.DateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		out = append(out, planning.Shortage{
			Breadroom: slot.Breadroom,
			Product:   slot.Product,
			Date:      idx.DateAt(slot.DateIdx),
			Quantity:  qty,
		})
	}
	return out
}

func extractDisposals(idx *index.Set, v *formulate.Variables, r *solve.Result) []planning.DisposalEntry {
	var out []planning.DisposalEntry
	for _, slot := range idx.Disposal {
		id, ok := v.DisposalID(slot.Node, slot.Product, slot.State, slot.DateIdx)
		qty := at(r, id, ok)
		if qty <= quantityEpsilon {
			continue
		}
		out = append(out, planning.DisposalEntry{
			Node:     slot.Node,
			Product:  slot.Product,
			State:    slot.State,
			Date:     idx.DateAt(slot.DateIdx),
			Quantity: qty,
		})
	}
	return out
}

// extractCosts re-prices every solved decision against bundle.Costs,
// mirroring formulate's objective term construction so the breakdown
// sums to the reported total within tolerance. Truck loading cost is
// folded into Transport; the tiny δ tie-breaker term is not itemised.
// Total is taken
// from the solver's own objective value rather than re-summed, so the
// downstream reconciliation check is meaningful.
func extractCosts(bundle *planning.Bundle, idx *index.Set, v *formulate.Variables, r *solve.Result, opts planning.RunOptions) planning.CostBreakdown {
	c := planning.CostBreakdown{}

	for _, e := range extractLabor(bundle, idx, v, r) {
		c.Labor += e.RegularCost + e.OvertimeCost
	}

	for _, slot := range idx.Transit {
		id, ok := v.InTransitID(slot.Origin, slot.Destination, slot.Product, slot.Mode, slot.DepartDateIdx)
		qty := at(r, id, ok)
		routeKey := planning.RouteKey{Origin: slot.Origin, Destination: slot.Destination, Mode: slot.Mode}
		c.Transport += qty * bundle.Costs.TransportCostPerUnit[routeKey]
	}

	loadRate := make(map[string]float64, len(bundle.TruckSchedules))
	for _, truck := range bundle.TruckSchedules {
		loadRate[truck.ID] = truck.LoadingCostPerPallet
	}
	for _, slot := range idx.Truck {
		if rate := loadRate[slot.TruckID]; rate != 0 {
			id, ok := v.TruckLoadID(slot.TruckID, slot.Destination, slot.Product, slot.DepartDateIdx)
			c.Transport += at(r, id, ok) * rate
		}
	}

	for _, slot := range idx.Inventory {
		cost := bundle.Costs.HoldingCostPerPalletDay[slot.State]
		if cost != 0 {
			if opts.Flags.PalletTracking {
				pid, pok := v.PalletCountID(slot.Node, slot.Product, slot.State, slot.DateIdx)
				c.Holding += at(r, pid, pok) * cost
			} else {
				iid, iok := v.InventoryID(slot.Node, slot.Product, slot.State, slot.DateIdx)
				c.Holding += at(r, iid, iok) * cost
			}
		}
		if opts.Flags.PalletTracking && bundle.Costs.PalletEntryCost != 0 {
			eid, eok := v.PalletEntryID(slot.Node, slot.Product, slot.State, slot.DateIdx)
			c.PalletEntry += at(r, eid, eok) * bundle.Costs.PalletEntryCost
		}
	}

	if opts.Flags.AllowShortages {
		for _, slot := range idx.Demand {
			id, ok := v.ShortageID(slot.Breadroom, slot.Product, slot.DateIdx)
			c.Shortage += at(r, id, ok) * bundle.Costs.ShortagePenaltyPerUnit
		}
	}

	if bundle.Costs.ChangeoverFixedCost != 0 {
		for _, slot := range idx.Production {
			id, ok := v.ProductStartID(slot.Node, slot.Product, slot.DateIdx)
			c.Changeover += at(r, id, ok) * bundle.Costs.ChangeoverFixedCost
		}
	}

	if bundle.Costs.WasteMultiplier != 0 {
		lastT := bundle.Horizon.Len() - 1
		for _, slot := range idx.Inventory {
			if slot.DateIdx != lastT {
				continue
			}
			if opts.Flags.PalletTracking {
				pid, pok := v.PalletCountID(slot.Node, slot.Product, slot.State, slot.DateIdx)
				c.Waste += at(r, pid, pok) * bundle.Costs.WasteMultiplier
			} else {
				iid, iok := v.InventoryID(slot.Node, slot.Product, slot.State, slot.DateIdx)
				c.Waste += at(r, iid, iok) * bundle.Costs.WasteMultiplier
			}
		}
	}

	if bundle.Costs.DisposalUnitCost != 0 {
		for _, slot := range idx.Disposal {
			id, ok := v.DisposalID(slot.Node, slot.Product, slot.State, slot.DateIdx)
			c.Disposal += at(r, id, ok) * bundle.Costs.DisposalUnitCost
		}
	}

	c.Total = r.ObjectiveValue
	return c
}
