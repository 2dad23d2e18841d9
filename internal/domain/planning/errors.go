package planning

import "fmt"

// ErrInvalidInput indicates the planning bundle failed structural or
// semantic validation before any index/model construction began.
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid planning input: %s", e.Reason)
}

// ErrAliasUnresolved indicates a product id referenced by demand,
// inventory, or a BOM-adjacent table could not be resolved to a
// canonical SKU id.
type ErrAliasUnresolved struct {
	RawID string
}

func (e *ErrAliasUnresolved) Error() string {
	return fmt.Sprintf("product alias unresolved: %q", e.RawID)
}

// ErrIndexBuild indicates the index builder could not enumerate a
// required index set, e.g. because a forecast entry falls outside the
// planning horizon.
type ErrIndexBuild struct {
	Reason string
}

func (e *ErrIndexBuild) Error() string {
	return fmt.Sprintf("index build failed: %s", e.Reason)
}

// ErrModelBuild indicates the formulator could not declare a variable
// or constraint, e.g. because a constraint references a variable that
// was never declared.
type ErrModelBuild struct {
	Reason string
}

func (e *ErrModelBuild) Error() string {
	return fmt.Sprintf("model build failed: %s", e.Reason)
}

// ErrSolver indicates the underlying MIP solver itself failed to run
// (distinct from returning an infeasible or non-optimal result).
type ErrSolver struct {
	Reason string
}

func (e *ErrSolver) Error() string {
	return fmt.Sprintf("solver error: %s", e.Reason)
}

// ErrInfeasible indicates the solver proved no feasible solution exists.
type ErrInfeasible struct {
	Diagnostics string
}

func (e *ErrInfeasible) Error() string {
	return fmt.Sprintf("infeasible: %s", e.Diagnostics)
}

// ErrNoIncumbent indicates the solver's time limit elapsed before it
// found any feasible incumbent solution. Unlike the other error kinds,
// this one is user-visible as-is: the caller should retry with a longer
// time limit or a relaxed instance.
type ErrNoIncumbent struct {
	TimeLimitSeconds float64
}

func (e *ErrNoIncumbent) Error() string {
	return fmt.Sprintf("no incumbent found within %.0fs time limit", e.TimeLimitSeconds)
}

// ErrSolutionInvariantViolation indicates post-solve validation rejected
// an otherwise solver-optimal solution because an invariant failed.
// This is developer-visible: it carries the checked identity plus
// expected and actual values so the violation is debuggable without
// re-running the solve.
type ErrSolutionInvariantViolation struct {
	Check    string
	Expected string
	Actual   string
	Details  string
}

func (e *ErrSolutionInvariantViolation) Error() string {
	return fmt.Sprintf("solution invariant violated [%s]: expected %s, got %s (%s)",
		e.Check, e.Expected, e.Actual, e.Details)
}

// ErrFEFOParity indicates the FEFO batch replay produced batch
// quantities that do not sum to the aggregate solver inventory for some
// (node, product, state, date).
type ErrFEFOParity struct {
	Node, Product string
	State         MaterialState
	Expected      float64
	Actual        float64
}

func (e *ErrFEFOParity) Error() string {
	return fmt.Sprintf("FEFO parity violated at node=%s product=%s state=%s: aggregate=%.4f batch_sum=%.4f",
		e.Node, e.Product, e.State, e.Expected, e.Actual)
}
