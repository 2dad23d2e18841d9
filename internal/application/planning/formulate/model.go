// Package formulate implements the MIP formulator: it declares decision
// variables, constraints, and the objective over the index sets the
// index package produces, into an engine-internal sparse Model. Model
// is solver-agnostic — it knows nothing of the lp_solve bindings the
// solve package drives it through, so swapping the solver backend never
// touches this package.
package formulate

import "github.com/breadworks/swpe/internal/domain/planning"

// VarKind is a decision variable's domain.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

// Var is one declared decision variable.
type Var struct {
	ID    int
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64 // 0 means "no explicit upper bound" unless Kind == Binary
}

// Sense is a constraint's comparison operator.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

// Constraint is one sparse linear row.
type Constraint struct {
	Name   string
	Coeffs map[int]float64
	Sense  Sense
	RHS    float64
}

// Model is a sparse mixed-integer program: variables, rows, and an
// objective, built up incrementally by the formulator and consumed
// as-is by the solver driver.
type Model struct {
	Vars        []Var
	Constraints []Constraint
	Objective   map[int]float64

	nameToID map[string]int
}

// NewModel returns an empty model ready for variable declaration.
func NewModel() *Model {
	return &Model{
		Objective: make(map[int]float64),
		nameToID:  make(map[string]int),
	}
}

// AddVar declares a new variable and returns its id. Panics on a
// duplicate name: that indicates a formulator bug (an index set
// enumerated the same tuple twice), not a data problem, so it is not
// surfaced as a typed error.
func (m *Model) AddVar(name string, kind VarKind, lower, upper float64) int {
	if _, exists := m.nameToID[name]; exists {
		panic("formulate: duplicate variable name " + name)
	}
	id := len(m.Vars)
	m.Vars = append(m.Vars, Var{ID: id, Name: name, Kind: kind, Lower: lower, Upper: upper})
	m.nameToID[name] = id
	return id
}

// AddConstraint appends a sparse row. coeffs is retained by reference;
// callers must not mutate it afterward.
func (m *Model) AddConstraint(name string, coeffs map[int]float64, sense Sense, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Coeffs: coeffs, Sense: sense, RHS: rhs})
}

// AddObjTerm accumulates coeff into varID's objective coefficient
// (terms for the same variable from different cost components add).
func (m *Model) AddObjTerm(varID int, coeff float64) {
	if coeff == 0 {
		return
	}
	m.Objective[varID] += coeff
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.Vars) }

// errModelBuild is a tiny local constructor that wraps reason in a
// *planning.ErrModelBuild; kept here since model.go is the natural home
// for model-construction failure plumbing.
func errModelBuild(reason string) error {
	return &planning.ErrModelBuild{Reason: reason}
}
