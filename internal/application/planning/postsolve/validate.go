// Package postsolve implements the post-solve validator: the
// authoritative final gate before a Solution reaches the caller. A solve
// the solver itself reports as optimal is still rejected here if any
// invariant fails — the caller only ever sees a validated solution or a
// typed error, never silently-wrong data.
//
// FEFO/aggregate parity is enforced earlier, by the FEFO batch allocator
// itself during replay (github.com/breadworks/swpe/internal/
// application/planning/fefo), which raises the distinct
// *planning.ErrFEFOParity before control ever reaches this package; it
// is not re-checked here.
package postsolve

import (
	"math"
	"strconv"
	"time"

	"github.com/breadworks/swpe/internal/domain/planning"
)

// toleranceBase is the absolute slack allowed in mass-conservation
// checks; it scales with horizon length and a unit-count margin so
// larger problems don't trip on ordinary floating-point accumulation.
const toleranceBase = 1e-2

// epsilon is the slack for equality-style checks not tied to
// accumulation (demand service, weekend minimum).
const epsilon = 1e-3

// Validate runs every post-solve check against sol in sequence,
// returning the first violation found as a
// *planning.ErrSolutionInvariantViolation.
func Validate(bundle *planning.Bundle, sol *planning.Solution) error {
	checks := []func(*planning.Bundle, *planning.Solution) error{
		checkConservation,
		checkNoPhantomSupply,
		checkLaborWithoutProduction,
		checkWeekendMinimum,
		checkDemandService,
		checkInitialInventoryDates,
		checkPostHorizonShipments,
	}
	for _, check := range checks {
		if err := check(bundle, sol); err != nil {
			return err
		}
	}
	return nil
}

// productTotals accumulates the aggregate flows conservation needs, per
// product, network-wide.
type productTotals struct {
	initialInventory float64
	production       float64
	demandConsumed   float64
	finalInventory   float64
	disposal         float64
}

func conservationTotals(bundle *planning.Bundle, sol *planning.Solution) map[string]*productTotals {
	totals := make(map[string]*productTotals)
	get := func(product string) *productTotals {
		t, ok := totals[product]
		if !ok {
			t = &productTotals{}
			totals[product] = t
		}
		return t
	}

	for _, row := range bundle.InitialInventory {
		get(row.Product).initialInventory += row.Quantity
	}
	for _, p := range sol.Production {
		get(p.Product).production += p.Quantity
	}
	for _, d := range sol.DemandConsumed {
		get(d.Product).demandConsumed += d.Total()
	}
	for _, dis := range sol.Disposals {
		get(dis.Product).disposal += dis.Quantity
	}
	lastT := bundle.Horizon.End()
	for _, inv := range sol.Inventory {
		if !sameDay(inv.Date, lastT) {
			continue
		}
		get(inv.Product).finalInventory += inv.Quantity
	}
	return totals
}

func conservationTolerance(bundle *planning.Bundle, totals *productTotals) float64 {
	scale := totals.initialInventory + totals.production + 1
	return toleranceBase * float64(bundle.Horizon.Len()) * scale / 100.0
}

// checkConservation enforces that, per product, initial_inventory +
// Σ production = Σ demand_consumed + final_inventory + Σ disposal,
// within a tolerance that scales with horizon and volume.
func checkConservation(bundle *planning.Bundle, sol *planning.Solution) error {
	for product, t := range conservationTotals(bundle, sol) {
		lhs := t.initialInventory + t.production
		rhs := t.demandConsumed + t.finalInventory + t.disposal
		tol := conservationTolerance(bundle, t)
		if diff := lhs - rhs; math.Abs(diff) > tol {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "conservation_of_mass",
				Expected: formatFloat(rhs),
				Actual:   formatFloat(lhs),
				Details:  "product=" + product,
			}
		}
	}
	return nil
}

// checkNoPhantomSupply enforces that Σ demand_consumed ≤
// initial_inventory + Σ production, per product, network-wide.
func checkNoPhantomSupply(bundle *planning.Bundle, sol *planning.Solution) error {
	for product, t := range conservationTotals(bundle, sol) {
		supply := t.initialInventory + t.production
		if t.demandConsumed > supply+epsilon {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "no_phantom_supply",
				Expected: "demand_consumed <= " + formatFloat(supply),
				Actual:   formatFloat(t.demandConsumed),
				Details:  "product=" + product,
			}
		}
	}
	return nil
}

// checkLaborWithoutProduction enforces that no (node, date) may have
// labor_hours_paid > 0 while total production there that day is 0.
func checkLaborWithoutProduction(bundle *planning.Bundle, sol *planning.Solution) error {
	producedAt := make(map[string]bool)
	for _, p := range sol.Production {
		if p.Quantity > epsilon {
			producedAt[dayKey(p.Node, p.Date)] = true
		}
	}
	for _, l := range sol.LaborByDate {
		if l.HoursPaid > epsilon && !producedAt[dayKey(l.Node, l.Date)] {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "labor_without_production",
				Expected: "0",
				Actual:   formatFloat(l.HoursPaid),
				Details:  "node=" + l.Node + " date=" + l.Date.Format("2006-01-02"),
			}
		}
	}
	return nil
}

// checkWeekendMinimum enforces that, on a non-fixed day with any
// production, labor_hours_paid must be at least the minimum paid hours.
func checkWeekendMinimum(bundle *planning.Bundle, sol *planning.Solution) error {
	producedAt := make(map[string]bool)
	for _, p := range sol.Production {
		if p.Quantity > epsilon {
			producedAt[dayKey(p.Node, p.Date)] = true
		}
	}
	for _, l := range sol.LaborByDate {
		if !producedAt[dayKey(l.Node, l.Date)] {
			continue
		}
		day, ok := bundle.LaborCalendar.Day(l.Date)
		if ok && day.IsFixedDay {
			continue
		}
		if l.HoursPaid < planning.MinimumPaidHoursIfNonFixed-epsilon {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "weekend_minimum_payment",
				Expected: formatFloat(planning.MinimumPaidHoursIfNonFixed),
				Actual:   formatFloat(l.HoursPaid),
				Details:  "node=" + l.Node + " date=" + l.Date.Format("2006-01-02"),
			}
		}
	}
	return nil
}

// checkDemandService enforces that every forecast entry has
// consumed + shortage within ε of demand.
func checkDemandService(bundle *planning.Bundle, sol *planning.Solution) error {
	consumed := make(map[string]float64)
	for _, d := range sol.DemandConsumed {
		consumed[demandDayKey(d.Breadroom, d.Product, d.Date)] += d.Total()
	}
	shortage := make(map[string]float64)
	for _, s := range sol.Shortages {
		shortage[demandDayKey(s.Breadroom, s.Product, s.Date)] += s.Quantity
	}

	for _, d := range bundle.Forecast {
		if d.Quantity <= 0 {
			continue
		}
		key := demandDayKey(d.Breadroom, d.Product, d.Date)
		served := consumed[key] + shortage[key]
		if served < d.Quantity-epsilon || served > d.Quantity+epsilon {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "demand_node_service",
				Expected: formatFloat(d.Quantity),
				Actual:   formatFloat(served),
				Details:  "breadroom=" + d.Breadroom + " product=" + d.Product + " date=" + d.Date.Format("2006-01-02"),
			}
		}
	}
	return nil
}

// checkInitialInventoryDates enforces that every synthesized initial-
// stock batch's production_date falls strictly before planning_start.
func checkInitialInventoryDates(bundle *planning.Bundle, sol *planning.Solution) error {
	for _, b := range sol.Batches {
		if !b.FromInitialStock {
			continue
		}
		if !b.ProductionDate.Before(bundle.PlanningStart) {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "initial_inventory_dates",
				Expected: "production_date < " + bundle.PlanningStart.Format("2006-01-02"),
				Actual:   b.ProductionDate.Format("2006-01-02"),
				Details:  "batch=" + string(b.ID) + " node=" + b.Node + " product=" + b.Product,
			}
		}
	}
	return nil
}

// checkPostHorizonShipments enforces that no shipment may deliver after
// the last horizon day.
func checkPostHorizonShipments(bundle *planning.Bundle, sol *planning.Solution) error {
	end := bundle.Horizon.End()
	for _, s := range sol.Shipments {
		if s.DeliveryDate.After(end) {
			return &planning.ErrSolutionInvariantViolation{
				Check:    "post_horizon_shipments",
				Expected: "delivery_date <= " + end.Format("2006-01-02"),
				Actual:   s.DeliveryDate.Format("2006-01-02"),
				Details:  "origin=" + s.Origin + " destination=" + s.Destination + " product=" + s.Product,
			}
		}
	}
	return nil
}

func dayKey(node string, date time.Time) string {
	return node + "|" + date.Format("2006-01-02")
}

func demandDayKey(breadroom, product string, date time.Time) string {
	return breadroom + "|" + product + "|" + date.Format("2006-01-02")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
