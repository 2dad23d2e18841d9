package fefo

import (
	"sort"

	"github.com/google/uuid"

	"github.com/breadworks/swpe/internal/domain/planning"
)

// quantityEpsilon mirrors extract's epsilon: a batch whose quantity
// drops to (or starts at) this threshold or below is dropped from the
// ledger rather than carried forward as a zero-mass entry.
const quantityEpsilon = 1e-6

type ledgerKey struct {
	Node    string
	Product string
	State   planning.MaterialState
}

// ledger tracks every live batch, grouped by (node, product, state), in
// FEFO order (oldest state_entry_date first).
type ledger struct {
	batches map[ledgerKey][]*planning.Batch
}

func newLedger() *ledger {
	return &ledger{batches: make(map[ledgerKey][]*planning.Batch)}
}

func (l *ledger) add(b *planning.Batch) {
	if b.Quantity <= quantityEpsilon {
		return
	}
	key := ledgerKey{Node: b.Node, Product: b.Product, State: b.State}
	l.batches[key] = append(l.batches[key], b)
}

// quantityAt sums every live batch at key, for the post-solve/FEFO
// parity check.
func (l *ledger) quantityAt(node, product string, state planning.MaterialState) float64 {
	total := 0.0
	for _, b := range l.batches[ledgerKey{Node: node, Product: product, State: state}] {
		total += b.Quantity
	}
	return total
}

// allocation records how much of one batch was drawn by a FEFO removal.
type allocation struct {
	BatchID  planning.BatchID
	Origin   *planning.Batch
	Quantity float64
}

// removeFEFO draws qty units from (node, product, state), oldest
// state_entry_date first, mutating matched batches' remaining quantity
// in place and dropping any batch drained to zero. It returns the
// per-batch draws in oldest-first order. If the ledger holds less than
// qty (a phantom-supply bug the solver's own constraints should have
// prevented), it draws everything available and returns a shortfall —
// callers surface that through the post-solve conservation check rather
// than panicking here.
func (l *ledger) removeFEFO(node, product string, state planning.MaterialState, qty float64) ([]allocation, float64) {
	key := ledgerKey{Node: node, Product: product, State: state}
	batches := l.batches[key]

	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].StateEntryDate.Before(batches[j].StateEntryDate)
	})

	var allocations []allocation
	remaining := qty
	kept := batches[:0]
	for _, b := range batches {
		if remaining <= quantityEpsilon {
			kept = append(kept, b)
			continue
		}
		draw := b.Quantity
		if draw > remaining {
			draw = remaining
		}
		allocations = append(allocations, allocation{BatchID: b.ID, Origin: b, Quantity: draw})
		b.Quantity -= draw
		remaining -= draw
		if b.Quantity > quantityEpsilon {
			kept = append(kept, b)
		}
	}
	l.batches[key] = kept

	shortfall := 0.0
	if remaining > quantityEpsilon {
		shortfall = remaining
	}
	return allocations, shortfall
}

func newBatchID() planning.BatchID {
	return planning.BatchID(uuid.New().String())
}
