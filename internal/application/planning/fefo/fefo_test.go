package fefo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/fefo"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func twoDayBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return &planning.Bundle{
		Horizon:       planning.NewHorizon(start, end),
		SnapshotDate:  start,
		Products: map[string]planning.Product{
			"LOAF": {ID: "LOAF", ShelfLifeAmbientDays: 17},
		},
	}
}

func TestAllocate_ProducesBatchesAndConsumesFEFO(t *testing.T) {
	bundle := twoDayBundle()
	day0 := bundle.Horizon.At(0)
	day1 := bundle.Horizon.At(1)

	sol := &planning.Solution{
		Production: []planning.ProductionEntry{
			{Node: "BAKERY", Product: "LOAF", Date: day0, Quantity: 100},
		},
		DemandConsumed: []planning.DemandConsumption{
			{Breadroom: "BAKERY", Product: "LOAF", Date: day0, FromAmbient: 40},
		},
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: day0, Quantity: 60},
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: day1, Quantity: 60},
		},
	}

	out, err := fefo.Allocate(bundle, sol)
	require.NoError(t, err)
	require.Len(t, out.Batches, 1)
	assert.Equal(t, 100.0, out.Batches[0].Quantity)
	assert.True(t, out.Batches[0].ProductionDate.Equal(day0))
}

func TestAllocate_RejectsAggregateParityMismatch(t *testing.T) {
	bundle := twoDayBundle()
	day0 := bundle.Horizon.At(0)

	sol := &planning.Solution{
		Production: []planning.ProductionEntry{
			{Node: "BAKERY", Product: "LOAF", Date: day0, Quantity: 100},
		},
		// The solution claims only 10 units on hand when the ledger actually holds 100.
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: day0, Quantity: 10},
		},
	}

	_, err := fefo.Allocate(bundle, sol)
	require.Error(t, err)
	var parityErr *planning.ErrFEFOParity
	require.ErrorAs(t, err, &parityErr)
	assert.Equal(t, "BAKERY", parityErr.Node)
}

func TestAllocate_SeedsInitialInventoryAsBatch(t *testing.T) {
	bundle := twoDayBundle()
	bundle.PlanningStart = bundle.Horizon.Start()
	bundle.InitialInventory = []planning.InitialInventoryRow{
		{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Quantity: 30},
	}
	day0 := bundle.Horizon.At(0)
	day1 := bundle.Horizon.At(1)

	sol := &planning.Solution{
		Inventory: []planning.InventoryEntry{
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: day0, Quantity: 30},
			{Node: "BAKERY", Product: "LOAF", State: planning.StateAmbient, Date: day1, Quantity: 30},
		},
	}

	out, err := fefo.Allocate(bundle, sol)
	require.NoError(t, err)
	require.Len(t, out.Batches, 1)
	assert.True(t, out.Batches[0].FromInitialStock)
	assert.True(t, out.Batches[0].ProductionDate.Before(bundle.PlanningStart))
}
