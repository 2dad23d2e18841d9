package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/application/planning/ingress"
	"github.com/breadworks/swpe/internal/application/planning/service"
	"github.com/breadworks/swpe/internal/domain/planning"
	"github.com/breadworks/swpe/internal/infrastructure/config"
)

// singleNodeInput builds the smallest valid planning instance: one node
// that both produces and serves demand, one product, a three-day
// horizon with fixed labor on the first two days.
func singleNodeInput(t *testing.T) ingress.Input {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday
	end := start.AddDate(0, 0, 2)

	return ingress.Input{
		Nodes: []ingress.NodeInput{{
			ID:               "BAKERY",
			Role:             "MANUFACTURING",
			Produces:         true,
			StoresAmbient:    true,
			HasDemand:        true,
			AmbientPalletCap: 100,
		}},
		Products: []ingress.ProductInput{{
			ID:                   "WHITE_LOAF",
			ShelfLifeAmbientDays: 17,
			UnitsPerMix:          100,
			UnitsPerPallet:       320,
			UnitsPerLaborHour:    50,
		}},
		LaborCalendar: []ingress.LaborDayInput{
			{Date: start, IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30},
			{Date: start.AddDate(0, 0, 1), IsFixedDay: true, FixedHours: 8, RegularRate: 20, OvertimeRate: 30},
		},
		Forecast: []ingress.DemandInput{{
			Breadroom: "BAKERY",
			Product:   "WHITE_LOAF",
			Date:      start,
			Quantity:  100,
		}},
		CostStructure: ingress.CostInput{
			LaborRegularRate:         20,
			LaborOvertimeRate:        30,
			HoldingCostAmbientPerDay: 1,
			ShortagePenaltyPerUnit:   1000,
			ProductIndicatorTieBreaker: 0.01,
		},
		SnapshotDate:     start,
		PlanningStart:    start,
		PlanningEnd:      end,
		SolverName:       "lp_solve",
		TimeLimitSeconds: 10,
		MIPGap:           0.01,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Admission.MaxConcurrentSolves = 2
	cfg.Admission.RequestsPerSecond = 100
	cfg.Admission.Burst = 2
	return cfg
}

func TestService_Solve_SingleNodeSatisfiesDemand(t *testing.T) {
	svc := service.New(testConfig(), nil)

	sol, err := svc.Solve(context.Background(), singleNodeInput(t), planning.RunOptions{})
	require.NoError(t, err)
	require.NotNil(t, sol)

	var produced float64
	for _, p := range sol.Production {
		produced += p.Quantity
	}
	assert.GreaterOrEqual(t, produced, 100.0)
}

func TestService_Handle_RejectsWrongRequestType(t *testing.T) {
	svc := service.New(testConfig(), nil)

	_, err := svc.Handle(context.Background(), struct{}{})
	assert.Error(t, err)
}

func TestService_Solve_RespectsCancelledContext(t *testing.T) {
	svc := service.New(testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Solve(ctx, singleNodeInput(t), planning.RunOptions{})
	assert.Error(t, err)
}
