// Package index implements the index builder: it enumerates every
// sparse index set the formulator ranges over, so that no decision
// variable or constraint is ever declared for a combination that cannot
// occur (an infeasible node/product/state pairing, a post-horizon
// shipment departure, a truck running on a day it is not scheduled).
// Building these sets once, up front, keeps formulation a straightforward
// enumeration over slices rather than a tangle of ad hoc feasibility
// checks scattered through model construction.
package index

import (
	"sort"
	"time"

	"github.com/breadworks/swpe/internal/domain/planning"
)

// NodeProductDateState is one (node, product, state, date) tuple for
// which inventory can exist: the node supports state s.
type NodeProductDateState struct {
	Node    string
	Product string
	State   planning.MaterialState
	DateIdx int
}

// ProductionSlot is one (node, product, date) tuple at a node that
// produces.
type ProductionSlot struct {
	Node    string
	Product string
	DateIdx int
}

// TransitSlot is one (origin, destination, product, mode, departure
// date) tuple for which an in_transit variable is created. Only created
// when delivery falls within the horizon; this is the mechanism that
// prevents post-horizon "phantom" shipments.
type TransitSlot struct {
	Origin        string
	Destination   string
	Product       string
	Mode          planning.TransportMode
	ArrivalState  planning.MaterialState
	DepartDateIdx int
	TransitDays   int
}

func (t TransitSlot) ArriveDateIdx() int { return t.DepartDateIdx + t.TransitDays }

// TruckSlot is one (truck, destination, product, departure date) tuple
// on a weekday the truck actually runs to that destination. Destination
// is part of the key (not just the truck) because a single truck
// schedule can name several AllowedDestinations, and the pallet load it
// carries to each is tracked and capacity-bounded separately.
type TruckSlot struct {
	TruckID       string
	Origin        string
	Destination   string
	Product       string
	DepartDateIdx int
}

// TrucksServing returns every schedule in schedules that originates at
// origin, is allowed to deliver to destination, and runs on weekday.
// Both the transit-slot gate and the truck-load linkage constraint use
// this so a shipment can never exist, nor be capacity-bound, against a
// truck that isn't actually scheduled to make that run.
func TrucksServing(schedules []planning.TruckSchedule, origin, destination string, weekday time.Weekday) []planning.TruckSchedule {
	var out []planning.TruckSchedule
	for _, truck := range schedules {
		if truck.Origin == origin && truck.Serves(destination) && truck.RunsOn(weekday) {
			out = append(out, truck)
		}
	}
	return out
}

// FreezeThawSlot is one (node, product, date) tuple at a node capable of
// the named conversion.
type FreezeThawSlot struct {
	Node    string
	Product string
	DateIdx int
}

// DemandSlot is one (breadroom, product, date) tuple with strictly
// positive forecast demand.
type DemandSlot struct {
	Breadroom string
	Product   string
	DateIdx   int
	Quantity  float64
}

// DisposalSlot is one (node, product, state, date) tuple where disposal
// is economically meaningful: the node supports the state. Gating
// disposal more narrowly (only once mass could plausibly be at or past
// its shelf life) is an optimization opportunity, not a correctness
// requirement — the objective's disposal_cost term already drives an
// unneeded disposal variable to zero, so this index is conservative by
// design (see DESIGN.md for the tradeoff).
type DisposalSlot struct {
	Node    string
	Product string
	State   planning.MaterialState
	DateIdx int
}

// Set is every sparse index collection the formulator ranges over,
// built once per solve from a validated Bundle.
type Set struct {
	Horizon planning.Horizon

	NodeIDs    []string
	ProductIDs []string

	Inventory  []NodeProductDateState
	Production []ProductionSlot
	Transit    []TransitSlot
	Truck      []TruckSlot
	Freeze     []FreezeThawSlot
	Thaw       []FreezeThawSlot
	Demand     []DemandSlot
	Disposal   []DisposalSlot

	// RoutesByOrigin indexes Bundle.Routes for O(1) lookup during
	// in_transit enumeration and, later, state-balance assembly.
	RoutesByOrigin map[string][]planning.Route
}

// Build enumerates every index set over bundle, in deterministic order
// (sorted node/product/date iteration), so that two builds over
// identical inputs produce identical slices.
func Build(bundle *planning.Bundle) (*Set, error) {
	s := &Set{
		Horizon:        bundle.Horizon,
		RoutesByOrigin: make(map[string][]planning.Route),
	}

	s.NodeIDs = sortedKeys(bundle.Nodes)
	s.ProductIDs = sortedProductKeys(bundle.Products)

	for _, r := range bundle.Routes {
		s.RoutesByOrigin[r.Origin] = append(s.RoutesByOrigin[r.Origin], r)
	}

	H := bundle.Horizon.Len()

	for _, nodeID := range s.NodeIDs {
		node := bundle.Nodes[nodeID]
		for _, productID := range s.ProductIDs {
			for t := 0; t < H; t++ {
				for _, state := range planning.AllStates {
					if node.Capabilities.StoresState(state) {
						s.Inventory = append(s.Inventory, NodeProductDateState{
							Node: nodeID, Product: productID, State: state, DateIdx: t,
						})
						s.Disposal = append(s.Disposal, DisposalSlot{
							Node: nodeID, Product: productID, State: state, DateIdx: t,
						})
					}
				}
				if node.Capabilities.Has(planning.CapProduces) {
					s.Production = append(s.Production, ProductionSlot{
						Node: nodeID, Product: productID, DateIdx: t,
					})
				}
				if node.Capabilities.Has(planning.CapCanFreeze) {
					s.Freeze = append(s.Freeze, FreezeThawSlot{Node: nodeID, Product: productID, DateIdx: t})
				}
				if node.Capabilities.Has(planning.CapCanThaw) {
					s.Thaw = append(s.Thaw, FreezeThawSlot{Node: nodeID, Product: productID, DateIdx: t})
				}
			}
		}
	}

	for _, r := range bundle.Routes {
		dest, ok := bundle.Nodes[r.Destination]
		if !ok {
			continue
		}
		arrivalState, ok := r.ArrivalState(dest)
		if !ok {
			continue
		}
		for _, productID := range s.ProductIDs {
			for tDep := 0; tDep < H; tDep++ {
				if tDep+r.TransitDays > H-1 {
					// Delivery would land after the last horizon day;
					// never create this variable.
					continue
				}
				weekday := bundle.Horizon.At(tDep).Weekday()
				if len(TrucksServing(bundle.TruckSchedules, r.Origin, r.Destination, weekday)) == 0 {
					// No scheduled truck runs this lane on this weekday;
					// a shipment cannot depart here at all.
					continue
				}
				s.Transit = append(s.Transit, TransitSlot{
					Origin:        r.Origin,
					Destination:   r.Destination,
					Product:       productID,
					Mode:          r.Mode,
					ArrivalState:  arrivalState,
					DepartDateIdx: tDep,
					TransitDays:   r.TransitDays,
				})
			}
		}
	}

	for _, truck := range bundle.TruckSchedules {
		for _, destination := range truck.AllowedDestinations {
			for _, productID := range s.ProductIDs {
				for tDep := 0; tDep < H; tDep++ {
					day := bundle.Horizon.At(tDep)
					if !truck.RunsOn(day.Weekday()) {
						continue
					}
					s.Truck = append(s.Truck, TruckSlot{
						TruckID: truck.ID, Origin: truck.Origin, Destination: destination,
						Product: productID, DepartDateIdx: tDep,
					})
				}
			}
		}
	}

	for _, d := range bundle.Forecast {
		if d.Quantity <= 0 {
			continue
		}
		idx, ok := bundle.Horizon.IndexOf(d.Date)
		if !ok {
			return nil, &planning.ErrIndexBuild{
				Reason: "forecast entry date falls outside the planning horizon",
			}
		}
		s.Demand = append(s.Demand, DemandSlot{
			Breadroom: d.Breadroom, Product: d.Product, DateIdx: idx, Quantity: d.Quantity,
		})
	}

	return s, nil
}

// DateAt is a convenience passthrough so callers needn't keep the
// Bundle around alongside the Set.
func (s *Set) DateAt(idx int) time.Time { return s.Horizon.At(idx) }

func sortedKeys(m map[string]planning.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedProductKeys(m map[string]planning.Product) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
