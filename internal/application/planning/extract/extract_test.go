package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/extract"
	"github.com/breadworks/swpe/internal/application/planning/formulate"
	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/application/planning/solve"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func singleNodeBundle() *planning.Bundle {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	cal := planning.LaborCalendar{}
	cal.Set(start, planning.LaborDay{IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30})
	cal.Set(end, planning.LaborDay{IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30})
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

func TestExtract_ReadsProductionAndDemandFromSolvedResult(t *testing.T) {
	bundle := singleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)
	model, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	values := make([]float64, model.NumVars())

	prodID, ok := vars.ProductionID("BAKERY", "LOAF", 0)
	require.True(t, ok)
	values[prodID] = 50

	mixID, ok := vars.MixCountID("BAKERY", "LOAF", 0)
	require.True(t, ok)
	values[mixID] = 1

	demandID, ok := vars.DemandFromAmbientID("BAKERY", "LOAF", 0)
	require.True(t, ok)
	values[demandID] = 50

	laborUsedID, ok := vars.LaborUsedID("BAKERY", 0)
	require.True(t, ok)
	values[laborUsedID] = 2

	laborPaidID, ok := vars.LaborPaidID("BAKERY", 0)
	require.True(t, ok)
	values[laborPaidID] = 4

	result := &solve.Result{
		Values:         values,
		ObjectiveValue: 123.45,
		Termination:    planning.TerminationOptimal,
	}

	sol := extract.Extract(bundle, idx, vars, result, planning.RunOptions{})

	require.Len(t, sol.Production, 1)
	assert.Equal(t, "BAKERY", sol.Production[0].Node)
	assert.Equal(t, 50.0, sol.Production[0].Quantity)
	assert.Equal(t, 1, sol.Production[0].MixCount)

	require.Len(t, sol.DemandConsumed, 1)
	assert.Equal(t, 50.0, sol.DemandConsumed[0].FromAmbient)

	require.Len(t, sol.LaborByDate, 1)
	assert.Equal(t, 4.0, sol.LaborByDate[0].HoursPaid)

	assert.Equal(t, 123.45, sol.Costs.Total)
	assert.Equal(t, planning.TerminationOptimal, sol.Termination)
}

func TestExtract_DropsQuantitiesBelowEpsilon(t *testing.T) {
	bundle := singleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)
	model, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	values := make([]float64, model.NumVars())
	prodID, ok := vars.ProductionID("BAKERY", "LOAF", 0)
	require.True(t, ok)
	values[prodID] = 1e-9

	result := &solve.Result{Values: values, Termination: planning.TerminationOptimal}
	sol := extract.Extract(bundle, idx, vars, result, planning.RunOptions{})

	assert.Empty(t, sol.Production)
}

func TestExtract_ShortageOmittedWhenFlagDisabled(t *testing.T) {
	bundle := singleNodeBundle()
	idx, err := index.Build(bundle)
	require.NoError(t, err)
	_, vars, err := formulate.Build(bundle, idx, planning.RunOptions{})
	require.NoError(t, err)

	result := &solve.Result{Values: []float64{}, Termination: planning.TerminationOptimal}
	sol := extract.Extract(bundle, idx, vars, result, planning.RunOptions{})

	assert.Empty(t, sol.Shortages)
}
