package index_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func twoDayBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
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
			"LOAF": {ID: "LOAF"},
		},
		Forecast: []planning.DemandEntry{
			{Breadroom: "BAKERY", Product: "LOAF", Date: start, Quantity: 10},
		},
	}
}

func TestBuild_EnumeratesExpectedSlots(t *testing.T) {
	bundle := twoDayBundle()

	set, err := index.Build(bundle)
	require.NoError(t, err)

	assert.Equal(t, []string{"BAKERY"}, set.NodeIDs)
	assert.Equal(t, []string{"LOAF"}, set.ProductIDs)
	assert.Len(t, set.Production, 2) // one per planning day
	assert.Len(t, set.Inventory, 2)  // ambient-only state per day
	assert.Len(t, set.Demand, 1)
}

func TestBuild_RejectsDemandOutsideHorizon(t *testing.T) {
	bundle := twoDayBundle()
	bundle.Forecast = append(bundle.Forecast, planning.DemandEntry{
		Breadroom: "BAKERY",
		Product:   "LOAF",
		Date:      bundle.Horizon.End().AddDate(0, 0, 5),
		Quantity:  5,
	})

	_, err := index.Build(bundle)
	require.Error(t, err)
	var buildErr *planning.ErrIndexBuild
	require.ErrorAs(t, err, &buildErr)
}

func twoNodeRouteBundle() *planning.Bundle {
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
			"LOAF": {ID: "LOAF"},
		},
		Routes: []planning.Route{
			{Origin: "BAKERY", Destination: "BREADROOM", Mode: planning.ModeAmbient, TransitDays: 1},
		},
	}
}

func TestBuild_OmitsTransitSlotWithNoServingTruck(t *testing.T) {
	bundle := twoNodeRouteBundle()

	set, err := index.Build(bundle)
	require.NoError(t, err)

	assert.Empty(t, set.Transit, "a route with no scheduled truck must never get an in_transit variable")
	assert.Empty(t, set.Truck)
}

func TestBuild_GatesTransitAndTruckSlotsOnSchedule(t *testing.T) {
	bundle := twoNodeRouteBundle()
	bundle.TruckSchedules = []planning.TruckSchedule{
		{
			ID:                  "TRUCK1",
			Origin:              "BAKERY",
			AllowedDestinations: []string{"BREADROOM"},
			AllowedWeekdays:     []time.Weekday{time.Monday},
		},
	}

	set, err := index.Build(bundle)
	require.NoError(t, err)

	require.Len(t, set.Transit, 1, "Monday departure is covered by TRUCK1's schedule")
	assert.Equal(t, "BAKERY", set.Transit[0].Origin)
	assert.Equal(t, "BREADROOM", set.Transit[0].Destination)
	assert.Equal(t, 0, set.Transit[0].DepartDateIdx)

	require.Len(t, set.Truck, 1)
	assert.Equal(t, index.TruckSlot{
		TruckID: "TRUCK1", Origin: "BAKERY", Destination: "BREADROOM", Product: "LOAF", DepartDateIdx: 0,
	}, set.Truck[0])
}

func TestTrucksServing_FiltersByOriginDestinationAndWeekday(t *testing.T) {
	schedules := []planning.TruckSchedule{
		{ID: "A", Origin: "BAKERY", AllowedDestinations: []string{"BREADROOM"}, AllowedWeekdays: []time.Weekday{time.Monday}},
		{ID: "B", Origin: "BAKERY", AllowedDestinations: []string{"WAREHOUSE"}, AllowedWeekdays: []time.Weekday{time.Monday}},
		{ID: "C", Origin: "BAKERY", AllowedDestinations: []string{"BREADROOM"}, AllowedWeekdays: []time.Weekday{time.Tuesday}},
	}

	serving := index.TrucksServing(schedules, "BAKERY", "BREADROOM", time.Monday)

	require.Len(t, serving, 1)
	assert.Equal(t, "A", serving[0].ID)
}

func TestBuild_IsDeterministicAcrossRuns(t *testing.T) {
	bundle := twoDayBundle()

	first, err := index.Build(bundle)
	require.NoError(t, err)
	second, err := index.Build(bundle)
	require.NoError(t, err)

	assert.Equal(t, first.Production, second.Production)
	assert.Equal(t, first.Inventory, second.Inventory)
}
