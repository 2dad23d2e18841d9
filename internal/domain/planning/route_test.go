package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/domain/planning"
)

func TestRoute_ArrivalStateFrozenThawsWhenNoFrozenStorage(t *testing.T) {
	r := planning.Route{Mode: planning.ModeFrozen}
	dest := planning.Node{Capabilities: planning.CapStoresAmbient}

	state, ok := r.ArrivalState(dest)
	require.True(t, ok)
	assert.Equal(t, planning.StateThawed, state)
}

func TestRoute_ArrivalStateFrozenStaysFrozenWhenDestStoresFrozen(t *testing.T) {
	r := planning.Route{Mode: planning.ModeFrozen}
	dest := planning.Node{Capabilities: planning.CapStoresFrozen}

	state, ok := r.ArrivalState(dest)
	require.True(t, ok)
	assert.Equal(t, planning.StateFrozen, state)
}

func TestRoute_ArrivalStateInfeasibleWithNoCompatibleStorage(t *testing.T) {
	r := planning.Route{Mode: planning.ModeAmbient}
	dest := planning.Node{Capabilities: planning.CapStoresFrozen}

	_, ok := r.ArrivalState(dest)
	assert.False(t, ok)
}

func TestRoute_FeasibleAtRequiresOriginHoldsDepartureState(t *testing.T) {
	r := planning.Route{Mode: planning.ModeAmbient}
	origin := planning.Node{Capabilities: planning.CapStoresFrozen}
	dest := planning.Node{Capabilities: planning.CapStoresAmbient}

	assert.False(t, r.FeasibleAt(origin, dest))

	origin.Capabilities = planning.CapStoresAmbient
	assert.True(t, r.FeasibleAt(origin, dest))
}

func TestDepartureState(t *testing.T) {
	assert.Equal(t, planning.StateFrozen, planning.DepartureState(planning.ModeFrozen))
	assert.Equal(t, planning.StateAmbient, planning.DepartureState(planning.ModeAmbient))
}
