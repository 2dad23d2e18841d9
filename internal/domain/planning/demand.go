package planning

import "time"

// DemandEntry is one (breadroom, product, date) requirement.
type DemandEntry struct {
	Breadroom string
	Product   string
	Date      time.Time
	Quantity  float64
}

// InitialInventoryRow is one (node, product, state) snapshot quantity as
// of SnapshotDate, supplied alongside the bundle.
type InitialInventoryRow struct {
	Node     string
	Product  string
	State    MaterialState
	Quantity float64
}

// EstimatedProductionDate synthesizes a display-only production date for
// an initial-inventory row: snapshotDate minus half the shelf life for
// its state. This value is never read by formulation or solving; the
// FEFO allocator labels the synthesized INIT batch with it, and
// post-solve validation checks that it falls before PlanningStart.
func (r InitialInventoryRow) EstimatedProductionDate(snapshotDate time.Time, product Product) time.Time {
	halfLifeDays := product.ShelfLifeDays(r.State) / 2
	return snapshotDate.AddDate(0, 0, -halfLifeDays)
}
