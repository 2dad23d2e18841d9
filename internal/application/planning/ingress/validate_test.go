package ingress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/ingress"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func validInput() ingress.Input {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	return ingress.Input{
		Nodes: []ingress.NodeInput{{
			ID: "BAKERY", Role: "MANUFACTURING",
			Produces: true, StoresAmbient: true, HasDemand: true,
		}},
		Products: []ingress.ProductInput{{
			ID: "LOAF", ShelfLifeAmbientDays: 17, UnitsPerMix: 100, UnitsPerPallet: 320,
		}},
		Forecast: []ingress.DemandInput{{
			Breadroom: "BAKERY", Product: "LOAF", Date: start, Quantity: 10,
		}},
		CostStructure: ingress.CostInput{},
		SnapshotDate:  start,
		PlanningStart: start,
		PlanningEnd:   end,
		SolverName:    "lp_solve",
		TimeLimitSeconds: 10,
	}
}

func TestValidate_AcceptsWellFormedInput(t *testing.T) {
	bundle, err := ingress.Validate(validInput())
	require.NoError(t, err)
	assert.Len(t, bundle.Nodes, 1)
	assert.Len(t, bundle.Products, 1)
	assert.Len(t, bundle.Forecast, 1)
}

func TestValidate_RejectsMissingRequiredFields(t *testing.T) {
	in := validInput()
	in.Nodes = nil

	_, err := ingress.Validate(in)
	require.Error(t, err)
	var invalidErr *planning.ErrInvalidInput
	require.ErrorAs(t, err, &invalidErr)
}

func TestValidate_RejectsSnapshotAfterPlanningStart(t *testing.T) {
	in := validInput()
	in.SnapshotDate = in.PlanningStart.AddDate(0, 0, 1)

	_, err := ingress.Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot_date")
}

func TestValidate_RejectsUnresolvedProductAlias(t *testing.T) {
	in := validInput()
	in.Forecast[0].Product = "UNKNOWN_SKU"

	_, err := ingress.Validate(in)
	require.Error(t, err)
	var aliasErr *planning.ErrAliasUnresolved
	require.ErrorAs(t, err, &aliasErr)
	assert.Equal(t, "UNKNOWN_SKU", aliasErr.RawID)
}

func TestValidate_ResolvesProductAlias(t *testing.T) {
	in := validInput()
	in.Forecast[0].Product = "LOAF-ALIAS"
	in.ProductAliases = map[string]string{"LOAF-ALIAS": "LOAF"}

	bundle, err := ingress.Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "LOAF", bundle.Forecast[0].Product)
}

func TestValidate_RejectsCanThawWithoutFrozenStorage(t *testing.T) {
	in := validInput()
	in.Nodes[0].CanThaw = true // node doesn't store frozen

	_, err := ingress.Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can_thaw but does not store frozen")
}

func TestValidate_RejectsDemandAtNodeWithoutHasDemand(t *testing.T) {
	in := validInput()
	in.Nodes[0].HasDemand = false

	_, err := ingress.Validate(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not have_demand")
}
