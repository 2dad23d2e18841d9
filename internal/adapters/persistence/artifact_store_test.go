package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/adapters/persistence"
	"github.com/breadworks/swpe/internal/application/planning/ingress"
	"github.com/breadworks/swpe/internal/domain/planning"
)

func TestGormArtifactStore_RecordSolve_PersistsRow(t *testing.T) {
	store, err := persistence.NewGormArtifactStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := persistence.SolveRecord{
		StartedAt:      time.Now(),
		InputsDigest:   "abc123",
		SolverName:     "lp_solve",
		ObjectiveValue: 42.5,
		Termination:    string(planning.TerminationOptimal),
		Succeeded:      true,
	}

	store.RecordSolve(context.Background(), rec)
	// RecordSolve logs failures rather than returning them, so this test
	// only exercises the happy path for a panic-free round trip.
}

func TestNewSolveRecord_SucceedsWithObjective(t *testing.T) {
	in := ingress.Input{SolverName: "lp_solve"}
	opts := planning.RunOptions{SolverName: "lp_solve", TimeLimitSeconds: 30}
	sol := &planning.Solution{
		Costs:       planning.CostBreakdown{Total: 99.0},
		Termination: planning.TerminationOptimal,
	}

	rec := persistence.NewSolveRecord(in, opts, sol, nil)
	assert.True(t, rec.Succeeded)
	assert.Equal(t, 99.0, rec.ObjectiveValue)
	assert.Equal(t, "OPTIMAL", rec.Termination)
	assert.NotEmpty(t, rec.InputsDigest)
}

func TestNewSolveRecord_RecordsFailure(t *testing.T) {
	in := ingress.Input{SolverName: "lp_solve"}
	opts := planning.RunOptions{SolverName: "lp_solve"}

	rec := persistence.NewSolveRecord(in, opts, nil, &planning.ErrInfeasible{Diagnostics: "no feasible solution"})
	assert.False(t, rec.Succeeded)
	assert.Contains(t, rec.ErrorMessage, "infeasible")
}
