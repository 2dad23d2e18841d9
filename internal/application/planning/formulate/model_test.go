package formulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_AddVarAssignsSequentialIDs(t *testing.T) {
	m := NewModel()

	a := m.AddVar("a", Continuous, 0, 100)
	b := m.AddVar("b", Integer, 0, 10)

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, m.NumVars())
}

func TestModel_AddVarPanicsOnDuplicateName(t *testing.T) {
	m := NewModel()
	m.AddVar("dup", Continuous, 0, 0)

	assert.Panics(t, func() {
		m.AddVar("dup", Continuous, 0, 0)
	})
}

func TestModel_AddObjTermAccumulatesAndSkipsZero(t *testing.T) {
	m := NewModel()
	id := m.AddVar("x", Continuous, 0, 0)

	m.AddObjTerm(id, 2.5)
	m.AddObjTerm(id, 1.5)
	m.AddObjTerm(id, 0)

	assert.Equal(t, 4.0, m.Objective[id])
}

func TestModel_AddConstraintAppendsRow(t *testing.T) {
	m := NewModel()
	id := m.AddVar("x", Continuous, 0, 0)

	m.AddConstraint("cap", map[int]float64{id: 1}, LessEqual, 10)

	if assert.Len(t, m.Constraints, 1) {
		assert.Equal(t, "cap", m.Constraints[0].Name)
		assert.Equal(t, LessEqual, m.Constraints[0].Sense)
		assert.Equal(t, 10.0, m.Constraints[0].RHS)
	}
}
