package formulate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/formulate"
	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func threeDaySingleNodeBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	cal := planning.LaborCalendar{}
	for i := 0; i < 3; i++ {
		cal.Set(start.AddDate(0, 0, i), planning.LaborDay{
			IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30,
		})
	}
	return &planning.Bundle{
		Horizon: planning.NewHorizon(start, end),
		Nodes: map[string]planning.Node{
			"BAKERY": {
				ID:           "BAKERY",
				Role:         planning.RoleManufacturing,
				Capabilities: planning.CapProduces | planning.CapStoresAmbient | planning.CapHasDemand,
			},
		},
		Products: map[string]planning.Product{
			"LOAF": {ID: "LOAF", ShelfLifeAmbientDays: 17, UnitsPerMix: 100, UnitsPerLaborHour: 100},
		},
		Forecast: []planning.DemandEntry{
			{Breadroom: "BAKERY", Product: "LOAF", Date: start, Quantity: 50},
		},
		LaborCalendar: cal,
		Costs: planning.CostStructure{
			LaborRegularRate:  20,
			LaborOvertimeRate: 30,
		},
		PlanningStart: start,
		PlanningEnd:   end,
		SnapshotDate:  start,
	}
}

func TestBuild_DeclaresExpectedVariableFamilies(t *testing.T) {
	bundle := threeDaySingleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)

	model, vars, err := formulate.Build(bundle, idx, planning.RunOptions{Flags: planning.FeatureFlags{AllowShortages: true}})
	require.NoError(t, err)

	assert.Greater(t, model.NumVars(), 0)

	_, ok := vars.ProductionID("BAKERY", "LOAF", 0)
	assert.True(t, ok, "expected a production variable for day 0")

	_, ok = vars.InventoryID("BAKERY", "LOAF", planning.StateAmbient, 0)
	assert.True(t, ok, "expected an ambient inventory variable for day 0")

	_, ok = vars.DemandFromAmbientID("BAKERY", "LOAF", 0)
	assert.True(t, ok, "expected a demand_consumed_from_ambient variable on the demand day")

	_, ok = vars.ShortageID("BAKERY", "LOAF", 0)
	assert.True(t, ok, "shortage variable should exist when AllowShortages is set")

	_, ok = vars.LaborUsedID("BAKERY", 0)
	assert.True(t, ok, "expected a labor_hours_used variable at a producing node")
}

func TestBuild_OmitsShortageVariablesWhenFlagDisabled(t *testing.T) {
	bundle := threeDaySingleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)

	_, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	_, ok := vars.ShortageID("BAKERY", "LOAF", 0)
	assert.False(t, ok)
}

func TestBuild_OmitsPalletVariablesWhenTrackingDisabled(t *testing.T) {
	bundle := threeDaySingleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)

	_, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	_, ok := vars.PalletCountID("BAKERY", "LOAF", planning.StateAmbient, 0)
	assert.False(t, ok)
}

func twoNodeTruckRoutedBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	end := start.AddDate(0, 0, 2)
	return &planning.Bundle{
		Horizon: planning.NewHorizon(start, end),
		Nodes: map[string]planning.Node{
			"BAKERY": {
				ID:           "BAKERY",
				Role:         planning.RoleManufacturing,
				Capabilities: planning.CapProduces | planning.CapStoresAmbient,
			},
			"BREADROOM": {
				ID:           "BREADROOM",
				Role:         planning.RoleBreadroom,
				Capabilities: planning.CapStoresAmbient | planning.CapHasDemand,
			},
		},
		Products: map[string]planning.Product{
			"LOAF": {ID: "LOAF", UnitsPerMix: 100, UnitsPerLaborHour: 100, UnitsPerPallet: 10},
		},
		Routes: []planning.Route{
			{Origin: "BAKERY", Destination: "BREADROOM", Mode: planning.ModeAmbient, TransitDays: 1},
		},
		TruckSchedules: []planning.TruckSchedule{
			{
				ID:                  "TRUCK1",
				Origin:              "BAKERY",
				AllowedDestinations: []string{"BREADROOM"},
				AllowedWeekdays:     []time.Weekday{time.Monday},
				PalletCapacity:      4,
			},
		},
		Forecast: []planning.DemandEntry{
			{Breadroom: "BREADROOM", Product: "LOAF", Date: start.AddDate(0, 0, 1), Quantity: 20},
		},
		PlanningStart: start,
		PlanningEnd:   end,
		SnapshotDate:  start,
	}
}

func constraintNamed(t *testing.T, model *formulate.Model, prefix string) formulate.Constraint {
	t.Helper()
	for _, c := range model.Constraints {
		if strings.HasPrefix(c.Name, prefix) {
			return c
		}
	}
	t.Fatalf("no constraint found with prefix %q", prefix)
	return formulate.Constraint{}
}

func TestBuild_TruckLoadLinkBindsInTransitToTruckPalletLoad(t *testing.T) {
	bundle := twoNodeTruckRoutedBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)

	model, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	transitID, ok := vars.InTransitID("BAKERY", "BREADROOM", "LOAF", planning.ModeAmbient, 0)
	require.True(t, ok, "expected an in_transit variable for the Monday departure")
	truckLoadID, ok := vars.TruckLoadID("TRUCK1", "BREADROOM", "LOAF", 0)
	require.True(t, ok, "expected a truck_pallet_load variable for TRUCK1's Monday run")

	link := constraintNamed(t, model, "truck_load_link")
	assert.Equal(t, formulate.GreaterEqual, link.Sense)
	assert.Equal(t, -1.0, link.Coeffs[transitID], "in_transit must appear with a negative coefficient")
	assert.Equal(t, 10.0, link.Coeffs[truckLoadID], "truck_pallet_load must be scaled by units_per_pallet")

	cap := constraintNamed(t, model, "truck_capacity")
	assert.Equal(t, formulate.LessEqual, cap.Sense)
	assert.Equal(t, 4.0, cap.RHS)
	assert.Equal(t, 1.0, cap.Coeffs[truckLoadID])
}

func TestBuild_IsDeterministicAcrossRuns(t *testing.T) {
	bundle := threeDaySingleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)

	first, _, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)
	second, _, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.NumVars(), second.NumVars())
	assert.Equal(t, len(first.Constraints), len(second.Constraints))

	if diff := cmp.Diff(first.Objective, second.Objective); diff != "" {
		t.Errorf("objective coefficients differ across identical builds (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Vars, second.Vars); diff != "" {
		t.Errorf("declared variables differ across identical builds (-first +second):\n%s", diff)
	}
}
