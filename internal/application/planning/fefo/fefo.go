// Package fefo implements the FEFO batch allocator: a deterministic
// post-processing replay of a solved, extracted Solution that recovers
// per-batch traceability the sliding-window formulation does not track
// directly. First-expired-first-out is provably age-optimal for
// minimizing sum-of-ages at destination under the fixed aggregate flows
// already produced, so no further optimization runs here — only
// deterministic replay.
package fefo

import (
	"time"

	"github.com/breadworks/swpe/internal/domain/planning"
)

// Allocate replays sol's aggregate flows day by day against bundle's
// initial inventory, producing per-batch Batches and
// ShipmentAllocations records, and returns *planning.ErrFEFOParity the
// first time a (node, product, state, date)'s batch sum diverges from
// the reported aggregate inventory beyond tolerance. sol is returned
// with Batches/ShipmentAllocations populated; sol itself is not
// otherwise modified.
func Allocate(bundle *planning.Bundle, sol *planning.Solution) (*planning.Solution, error) {
	r := newReplay(bundle, sol)
	return r.run()
}

type replay struct {
	bundle *planning.Bundle
	sol    *planning.Solution
	ledger *ledger

	productionByDate map[int][]planning.ProductionEntry
	freezeByDate     map[int][]planning.FreezeThawEntry
	thawByDate       map[int][]planning.FreezeThawEntry
	shipmentsByDate  map[int][]planning.Shipment
	demandByDate     map[int][]planning.DemandConsumption
	disposalByDate   map[int][]planning.DisposalEntry
	inventoryLookup  map[inventoryKey]float64

	pendingArrivals map[int][]*planning.Batch

	batches     []planning.Batch
	allocations []planning.ShipmentAllocation
}

type inventoryKey struct {
	Node    string
	Product string
	State   planning.MaterialState
	DateIdx int
}

func newReplay(bundle *planning.Bundle, sol *planning.Solution) *replay {
	r := &replay{
		bundle:           bundle,
		sol:              sol,
		ledger:           newLedger(),
		productionByDate: make(map[int][]planning.ProductionEntry),
		freezeByDate:     make(map[int][]planning.FreezeThawEntry),
		thawByDate:       make(map[int][]planning.FreezeThawEntry),
		shipmentsByDate:  make(map[int][]planning.Shipment),
		demandByDate:     make(map[int][]planning.DemandConsumption),
		disposalByDate:   make(map[int][]planning.DisposalEntry),
		inventoryLookup:  make(map[inventoryKey]float64),
		pendingArrivals:  make(map[int][]*planning.Batch),
	}

	for _, p := range sol.Production {
		t, ok := bundle.Horizon.IndexOf(p.Date)
		if !ok {
			continue
		}
		r.productionByDate[t] = append(r.productionByDate[t], p)
	}
	for _, f := range sol.FreezeFlows {
		t, ok := bundle.Horizon.IndexOf(f.Date)
		if !ok {
			continue
		}
		r.freezeByDate[t] = append(r.freezeByDate[t], f)
	}
	for _, th := range sol.ThawFlows {
		t, ok := bundle.Horizon.IndexOf(th.Date)
		if !ok {
			continue
		}
		r.thawByDate[t] = append(r.thawByDate[t], th)
	}
	for _, s := range sol.Shipments {
		t, ok := bundle.Horizon.IndexOf(s.DepartureDate)
		if !ok {
			continue
		}
		r.shipmentsByDate[t] = append(r.shipmentsByDate[t], s)
	}
	for _, d := range sol.DemandConsumed {
		t, ok := bundle.Horizon.IndexOf(d.Date)
		if !ok {
			continue
		}
		r.demandByDate[t] = append(r.demandByDate[t], d)
	}
	for _, d := range sol.Disposals {
		t, ok := bundle.Horizon.IndexOf(d.Date)
		if !ok {
			continue
		}
		r.disposalByDate[t] = append(r.disposalByDate[t], d)
	}
	for _, inv := range sol.Inventory {
		t, ok := bundle.Horizon.IndexOf(inv.Date)
		if !ok {
			continue
		}
		r.inventoryLookup[inventoryKey{Node: inv.Node, Product: inv.Product, State: inv.State, DateIdx: t}] = inv.Quantity
	}

	return r
}

func (r *replay) run() (*planning.Solution, error) {
	r.seedInitialInventory()

	H := r.bundle.Horizon.Len()
	for t := 0; t < H; t++ {
		r.applyArrivals(t)   // step a: production + in-transit arrivals
		r.applyFreezes(t)    // step b
		r.applyThaws(t)      // step c
		r.applyShipments(t)  // step d
		r.applyDemand(t)     // step e
		r.applyDisposals(t)  // step f

		if err := r.checkParity(t); err != nil {
			return nil, err
		}
	}

	r.sol.Batches = r.batches
	r.sol.ShipmentAllocations = r.allocations
	return r.sol, nil
}

// seedInitialInventory emits one batch per starting inventory row: a
// synthesized production date at the shelf-life midpoint, and a state
// entry date pinned to the snapshot date.
func (r *replay) seedInitialInventory() {
	for _, row := range r.bundle.InitialInventory {
		if row.Quantity <= quantityEpsilon {
			continue
		}
		product := r.bundle.Products[row.Product]
		b := &planning.Batch{
			ID:               newBatchID(),
			Node:             row.Node,
			Product:          row.Product,
			State:            row.State,
			ProductionDate:   row.EstimatedProductionDate(r.bundle.SnapshotDate, product),
			StateEntryDate:   r.bundle.SnapshotDate,
			Quantity:         row.Quantity,
			FromInitialStock: true,
		}
		r.ledger.add(b)
		r.batches = append(r.batches, *b)
	}
}

func (r *replay) applyArrivals(t int) {
	date := r.bundle.Horizon.At(t)
	for _, p := range r.productionByDate[t] {
		if p.Quantity <= quantityEpsilon {
			continue
		}
		b := &planning.Batch{
			ID:             newBatchID(),
			Node:           p.Node,
			Product:        p.Product,
			State:          planning.StateAmbient,
			ProductionDate: date,
			StateEntryDate: date,
			Quantity:       p.Quantity,
		}
		r.ledger.add(b)
		r.batches = append(r.batches, *b)
	}
	for _, b := range r.pendingArrivals[t] {
		r.ledger.add(b)
		r.batches = append(r.batches, *b)
	}
	delete(r.pendingArrivals, t)
}

func (r *replay) applyFreezes(t int) {
	date := r.bundle.Horizon.At(t)
	for _, f := range r.freezeByDate[t] {
		if f.Quantity <= quantityEpsilon {
			continue
		}
		draws, _ := r.ledger.removeFEFO(f.Node, f.Product, planning.StateAmbient, f.Quantity)
		b := &planning.Batch{
			ID:             newBatchID(),
			Node:           f.Node,
			Product:        f.Product,
			State:          planning.StateFrozen,
			ProductionDate: oldestProductionDate(draws, date),
			StateEntryDate: date,
			Quantity:       f.Quantity,
		}
		r.ledger.add(b)
		r.batches = append(r.batches, *b)
	}
}

func (r *replay) applyThaws(t int) {
	date := r.bundle.Horizon.At(t)
	for _, th := range r.thawByDate[t] {
		if th.Quantity <= quantityEpsilon {
			continue
		}
		draws, _ := r.ledger.removeFEFO(th.Node, th.Product, planning.StateFrozen, th.Quantity)
		b := &planning.Batch{
			ID:             newBatchID(),
			Node:           th.Node,
			Product:        th.Product,
			State:          planning.StateThawed,
			ProductionDate: oldestProductionDate(draws, date),
			StateEntryDate: date, // shelf life restarts on thaw
			Quantity:       th.Quantity,
		}
		r.ledger.add(b)
		r.batches = append(r.batches, *b)
	}
}

// oldestProductionDate returns the earliest ProductionDate among draws
// (FEFO guarantees draws[0] is oldest), falling back to fallback when a
// freeze/thaw event drew nothing (a defensive case the solver's own
// balance constraints should make unreachable).
func oldestProductionDate(draws []allocation, fallback time.Time) time.Time {
	if len(draws) == 0 {
		return fallback
	}
	return draws[0].Origin.ProductionDate
}

// applyShipments draws outbound batches from the origin's departure
// state via FEFO and schedules the resulting in-transit batch for
// arrival on the shipment's delivery date.
func (r *replay) applyShipments(t int) {
	for _, s := range r.shipmentsByDate[t] {
		if s.Quantity <= quantityEpsilon {
			continue
		}
		departState := planning.DepartureState(s.Mode)
		draws, _ := r.ledger.removeFEFO(s.Origin, s.Product, departState, s.Quantity)

		arriveT, ok := r.bundle.Horizon.IndexOf(s.DeliveryDate)
		converted := s.State != departState

		for _, d := range draws {
			arrival := &planning.Batch{
				ID:               newBatchID(),
				Node:             s.Destination,
				Product:          s.Product,
				State:            s.State,
				ProductionDate:   d.Origin.ProductionDate,
				StateEntryDate:   d.Origin.StateEntryDate,
				Quantity:         d.Quantity,
				FromInitialStock: d.Origin.FromInitialStock,
			}
			if converted {
				// Route mode changed state on arrival (e.g. frozen→thawed
				// at a node that cannot store frozen): shelf life restarts
				// as of the delivery date.
				arrival.StateEntryDate = s.DeliveryDate
			}
			r.allocations = append(r.allocations, planning.ShipmentAllocation{
				Origin:         s.Origin,
				Destination:    s.Destination,
				Product:        s.Product,
				DepartureDate:  s.DepartureDate,
				DeliveryDate:   s.DeliveryDate,
				FromBatchID:    d.BatchID,
				Quantity:       d.Quantity,
				ArrivalBatchID: arrival.ID,
			})
			if ok {
				r.pendingArrivals[arriveT] = append(r.pendingArrivals[arriveT], arrival)
			}
		}
	}
}

func (r *replay) applyDemand(t int) {
	for _, d := range r.demandByDate[t] {
		if d.FromAmbient > quantityEpsilon {
			_, _ = r.ledger.removeFEFO(d.Breadroom, d.Product, planning.StateAmbient, d.FromAmbient)
		}
		if d.FromThawed > quantityEpsilon {
			_, _ = r.ledger.removeFEFO(d.Breadroom, d.Product, planning.StateThawed, d.FromThawed)
		}
	}
}

func (r *replay) applyDisposals(t int) {
	for _, d := range r.disposalByDate[t] {
		if d.Quantity <= quantityEpsilon {
			continue
		}
		_, _ = r.ledger.removeFEFO(d.Node, d.Product, d.State, d.Quantity)
	}
}

// checkParity enforces that, at every date, the batch-ledger sum per
// (node, product, state) equals the reported aggregate inventory
// within tolerance.
func (r *replay) checkParity(t int) error {
	const tolerance = 1e-3

	seen := make(map[ledgerKey]bool)
	for key := range r.ledger.batches {
		seen[key] = true
	}
	for key, qty := range r.inventoryLookup {
		if key.DateIdx != t {
			continue
		}
		if qty > quantityEpsilon {
			seen[ledgerKey{Node: key.Node, Product: key.Product, State: key.State}] = true
		}
	}

	for key := range seen {
		aggregate := r.inventoryLookup[inventoryKey{Node: key.Node, Product: key.Product, State: key.State, DateIdx: t}]
		batchSum := r.ledger.quantityAt(key.Node, key.Product, key.State)
		if diff := aggregate - batchSum; diff > tolerance || diff < -tolerance {
			return &planning.ErrFEFOParity{
				Node:     key.Node,
				Product:  key.Product,
				State:    key.State,
				Expected: aggregate,
				Actual:   batchSum,
			}
		}
	}
	return nil
}

