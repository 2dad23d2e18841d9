package postsolve_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/postsolve"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func baseBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	return &planning.Bundle{
		Horizon: planning.NewHorizon(start, end),
		LaborCalendar: planning.LaborCalendar{},
		InitialInventory: []planning.InitialInventoryRow{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Quantity: 50},
		},
		Forecast: []planning.DemandEntry{
			{Breadroom: "BAKERY", Product: "LOAF", Date: start, Quantity: 80},
		},
	}
}

func TestValidate_AcceptsConsistentSolution(t *testing.T) {
	bundle := baseBundle()
	sol := &planning.Solution{
		Production: []planning.ProductionEntry{
			{Node: "BAKERY", Product: "LOAF", Date: bundle.Horizon.Start(), Quantity: 40},
		},
		LaborByDate: []planning.LaborDayUsage{
			{Node: "BAKERY", Date: bundle.Horizon.Start(), HoursPaid: 4},
		},
		DemandConsumed: []planning.DemandConsumption{
			{Breadroom: "BAKERY", Product: "LOAF", Date: bundle.Horizon.Start(), FromAmbient: 80},
		},
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: bundle.Horizon.End(), Quantity: 10},
		},
	}

	err := postsolve.Validate(bundle, sol)
	require.NoError(t, err)
}

func TestValidate_RejectsConservationViolation(t *testing.T) {
	bundle := baseBundle()
	sol := &planning.Solution{
		Production: []planning.ProductionEntry{
			{Node: "BAKERY", Product: "LOAF", Date: bundle.Horizon.Start(), Quantity: 40},
		},
		LaborByDate: []planning.LaborDayUsage{
			{Node: "BAKERY", Date: bundle.Horizon.Start(), HoursPaid: 4},
		},
		DemandConsumed: []planning.DemandConsumption{
			{Breadroom: "BAKERY", Product: "LOAF", Date: bundle.Horizon.Start(), FromAmbient: 80},
		},
		// Final inventory invented out of nowhere: 50 + 40 != 80 + 100
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: bundle.Horizon.End(), Quantity: 100},
		},
	}

	err := postsolve.Validate(bundle, sol)
	require.Error(t, err)
	var violation *planning.ErrSolutionInvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "conservation_of_mass", violation.Check)
}

func TestValidate_RejectsPhantomSupply(t *testing.T) {
	bundle := baseBundle()
	sol := &planning.Solution{
		// demand_consumed (60) exceeds initial_inventory+production (50);
		// final inventory is forced negative so the broader-tolerance
		// conservation check alone wouldn't catch this — the tighter
		// phantom-supply check must.
		DemandConsumed: []planning.DemandConsumption{
			{Breadroom: "BAKERY", Product: "LOAF", Date: bundle.Horizon.Start(), FromAmbient: 60},
		},
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: bundle.Horizon.End(), Quantity: -10},
		},
	}

	err := postsolve.Validate(bundle, sol)
	require.Error(t, err)
	var violation *planning.ErrSolutionInvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "no_phantom_supply", violation.Check)
}

func TestValidate_RejectsLaborWithoutProduction(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	bundle := &planning.Bundle{
		Horizon:       planning.NewHorizon(start, end),
		LaborCalendar: planning.LaborCalendar{},
	}
	sol := &planning.Solution{
		LaborByDate: []planning.LaborDayUsage{
			{Node: "BAKERY", Date: bundle.Horizon.Start(), HoursPaid: 4},
		},
	}

	err := postsolve.Validate(bundle, sol)
	require.Error(t, err)
	var violation *planning.ErrSolutionInvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "labor_without_production", violation.Check)
}

func TestValidate_RejectsPostHorizonShipment(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	bundle := &planning.Bundle{
		Horizon:       planning.NewHorizon(start, end),
		LaborCalendar: planning.LaborCalendar{},
	}
	afterHorizon := bundle.Horizon.End().AddDate(0, 0, 1)
	sol := &planning.Solution{
		Shipments: []planning.Shipment{
			{Origin: "BAKERY", Destination: "HUB", Product: "LOAF", DeliveryDate: afterHorizon},
		},
	}

	err := postsolve.Validate(bundle, sol)
	require.Error(t, err)
	var violation *planning.ErrSolutionInvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "post_horizon_shipments", violation.Check)
}
