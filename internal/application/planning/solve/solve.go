// Package solve implements the solver driver: it is the sole place in
// the engine that imports the third-party MIP solver
// (github.com/draffensperger/golp, lp_solve bindings), so swapping
// solver backends later touches exactly one package. It translates a
// solver-agnostic formulate.Model into the solver's dense column/row
// representation, invokes it with the caller's solve settings, and
// reads results back with stale-safe extraction.
package solve

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/draffensperger/golp"

	"github.com/breadworks/swpe/internal/adapters/metrics"
	"github.com/breadworks/swpe/internal/application/planning/formulate"
	"github.com/breadworks/swpe/internal/application/planning/observability"
	"github.com/breadworks/swpe/internal/domain/planning"
)

// Result is the raw solver outcome: variable values indexed by
// formulate.Model variable id, the objective value, the termination
// status, and wall-clock solve duration.
type Result struct {
	Values         []float64
	ObjectiveValue float64
	Termination    planning.TerminationStatus
	WallClock      time.Duration
}

// ValueOf performs a stale-safe read: an unset or out-of-range variable
// id contributes 0, never panics or errors.
func (r *Result) ValueOf(varID int) float64 {
	if varID < 0 || varID >= len(r.Values) {
		return 0
	}
	return r.Values[varID]
}

// Solve runs the MIP described by model through lp_solve with the
// settings applySolverSettings configures and opts' time/gap limits.
// Every error path returns a nil *Result; an infeasible or no-incumbent
// outcome is reported through the typed planning errors.
func Solve(model *formulate.Model, opts planning.RunOptions) (*Result, error) {
	lp := golp.NewLP(0, model.NumVars())
	defer lp.Delete()

	configureColumns(lp, model)
	if err := addRows(lp, model); err != nil {
		return nil, err
	}
	setObjective(lp, model)

	lp.SetMinimize()
	applySolverSettings(lp, opts)

	if opts.DumpLPPath != "" {
		dumpLPFile(opts.DumpLPPath, model)
	}

	start := time.Now()
	status := lp.Solve()
	wallClock := time.Since(start)

	termination, err := interpretStatus(status, opts)
	metrics.ObserveSolve(opts.SolverName, wallClock, termination, err)
	if err != nil {
		return nil, err
	}

	values := make([]float64, model.NumVars())
	solverValues := lp.Variables()
	for i := range values {
		if i < len(solverValues) {
			values[i] = solverValues[i]
		}
	}

	objective := lp.Objective()
	if objective == 0 {
		objective = recomputeObjective(model, values)
	}

	result := &Result{
		Values:         values,
		ObjectiveValue: objective,
		Termination:    termination,
		WallClock:      wallClock,
	}

	if opts.DumpSolutionJSON != "" {
		dumpSolutionFile(opts.DumpSolutionJSON, model, result)
	}

	return result, nil
}

// dumpLPFile writes model to path in standard LP format, as a debug
// artifact. Disk I/O for debug artifacts is owned here, by the driver,
// never by the caller. A write failure only logs — it never turns a
// solve that otherwise succeeded into an error.
func dumpLPFile(path string, model *formulate.Model) {
	var b strings.Builder

	b.WriteString("/* SWPE model dump */\n")
	b.WriteString("min: ")
	writeLinearTerms(&b, model, model.Objective)
	b.WriteString(";\n\n")

	for _, c := range model.Constraints {
		b.WriteString(c.Name)
		b.WriteString(": ")
		writeLinearTerms(&b, model, c.Coeffs)
		b.WriteString(lpSenseToken(c.Sense))
		fmt.Fprintf(&b, " %g;\n", c.RHS)
	}
	b.WriteString("\n")

	var ints, bins []string
	for _, v := range model.Vars {
		if v.Lower != 0 || v.Upper != 0 {
			fmt.Fprintf(&b, "%s >= %g;\n", v.Name, v.Lower)
			if v.Upper != 0 {
				fmt.Fprintf(&b, "%s <= %g;\n", v.Name, v.Upper)
			}
		}
		switch v.Kind {
		case formulate.Integer:
			ints = append(ints, v.Name)
		case formulate.Binary:
			bins = append(bins, v.Name)
		}
	}
	if len(ints) > 0 {
		fmt.Fprintf(&b, "\nint %s;\n", strings.Join(ints, ","))
	}
	if len(bins) > 0 {
		fmt.Fprintf(&b, "\nbin %s;\n", strings.Join(bins, ","))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		observability.Log().Printf("swpe: failed to write LP dump to %s: %v", path, err)
	}
}

func writeLinearTerms(b *strings.Builder, model *formulate.Model, coeffs map[int]float64) {
	first := true
	for varID, coeff := range coeffs {
		if coeff == 0 {
			continue
		}
		if !first {
			if coeff >= 0 {
				b.WriteString(" + ")
			} else {
				b.WriteString(" - ")
			}
		} else if coeff < 0 {
			b.WriteString("-")
		}
		first = false
		fmt.Fprintf(b, "%g %s", abs(coeff), model.Vars[varID].Name)
	}
	if first {
		b.WriteString("0")
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func lpSenseToken(s formulate.Sense) string {
	switch s {
	case formulate.LessEqual:
		return " <="
	case formulate.GreaterEqual:
		return " >="
	default:
		return " ="
	}
}

// solutionDump is the JSON-serializable shape of a solve result, used
// for the optional on-disk solution dump.
type solutionDump struct {
	ObjectiveValue float64                  `json:"objective_value"`
	Termination    planning.TerminationStatus `json:"termination"`
	WallClockMS    int64                    `json:"wall_clock_ms"`
	Values         map[string]float64       `json:"values"`
}

func dumpSolutionFile(path string, model *formulate.Model, result *Result) {
	values := make(map[string]float64, len(model.Vars))
	for _, v := range model.Vars {
		val := result.ValueOf(v.ID)
		if val != 0 {
			values[v.Name] = val
		}
	}
	dump := solutionDump{
		ObjectiveValue: result.ObjectiveValue,
		Termination:    result.Termination,
		WallClockMS:    result.WallClock.Milliseconds(),
		Values:         values,
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		observability.Log().Printf("swpe: failed to marshal solution dump: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		observability.Log().Printf("swpe: failed to write solution dump to %s: %v", path, err)
	}
}

func configureColumns(lp *golp.LP, model *formulate.Model) {
	for _, v := range model.Vars {
		col := v.ID + 1 // golp columns are 1-indexed
		switch v.Kind {
		case formulate.Integer:
			lp.SetInt(col, true)
		case formulate.Binary:
			lp.SetInt(col, true)
			lp.SetBounds(col, 0, 1)
		}
		if v.Kind != formulate.Binary {
			upper := v.Upper
			if upper == 0 {
				upper = golp.Infinity
			}
			lp.SetBounds(col, v.Lower, upper)
		}
	}
}

func addRows(lp *golp.LP, model *formulate.Model) error {
	for _, c := range model.Constraints {
		row := make([]float64, model.NumVars()+1)
		for varID, coeff := range c.Coeffs {
			if varID < 0 || varID >= model.NumVars() {
				return &planning.ErrModelBuild{Reason: "constraint references unknown variable id"}
			}
			row[varID+1] = coeff
		}
		lp.AddConstraint(row, solverSense(c.Sense), c.RHS)
	}
	return nil
}

func solverSense(s formulate.Sense) golp.ConstraintOperator {
	switch s {
	case formulate.LessEqual:
		return golp.LE
	case formulate.GreaterEqual:
		return golp.GE
	default:
		return golp.EQ
	}
}

func setObjective(lp *golp.LP, model *formulate.Model) {
	row := make([]float64, model.NumVars()+1)
	for varID, coeff := range model.Objective {
		row[varID+1] = coeff
	}
	lp.SetObjFn(row)
}

// applySolverSettings turns on row/column/linear-dependency presolve,
// geometric scaling with dynamic update, dual-then-primal simplex,
// ceiling-first branching, dual-feasibility and theta-gap improvement,
// and the caller's time limit and absolute MIP gap. No parallel
// branch-and-bound, symmetry detection, heuristic-effort level or LP
// basis age limit is set.
func applySolverSettings(lp *golp.LP, opts planning.RunOptions) {
	lp.SetPresolve(golp.PresolveRows | golp.PresolveCols | golp.PresolveLinDep)
	lp.SetScaling(golp.ScaleGeometric + golp.ScaleDynUpdate)
	lp.SetSimplexType(golp.SimplexDualPrimal)
	lp.SetBbFloorFirst(golp.CeilMode)
	lp.SetImprove(golp.ImproveDualFeas | golp.ImproveThetaGap)
	if opts.TimeLimitSeconds > 0 {
		lp.SetTimeout(opts.TimeLimitSeconds)
	}
	if opts.MIPGap > 0 {
		lp.SetMipGapAbs(opts.MIPGap)
	}
}

func interpretStatus(status golp.SolutionType, opts planning.RunOptions) (planning.TerminationStatus, error) {
	switch status {
	case golp.OptimalSolution:
		return planning.TerminationOptimal, nil
	case golp.SuboptimalSolution:
		return planning.TerminationFeasible, nil
	case golp.Infeasible:
		return "", &planning.ErrInfeasible{Diagnostics: "solver proved no feasible solution exists"}
	case golp.Unbounded:
		return "", &planning.ErrSolver{Reason: "objective unbounded"}
	case golp.TimedOut:
		return planning.TerminationMaxTimeLimit, nil
	case golp.DegenerateSolution:
		return planning.TerminationIntermediateNonInt, nil
	default:
		return "", &planning.ErrNoIncumbent{TimeLimitSeconds: opts.TimeLimitSeconds}
	}
}

func recomputeObjective(model *formulate.Model, values []float64) float64 {
	total := 0.0
	for varID, coeff := range model.Objective {
		total += coeff * values[varID]
	}
	return total
}
