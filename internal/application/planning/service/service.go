// Package service implements the planning orchestration facade: a
// single entry point sequencing every pipeline stage for one Solve
// call, via an application-service + mediator pattern. The facade is
// itself a mediator.RequestHandler for a SolveRequest command, so
// cross-cutting concerns attach as mediator middleware rather than
// being woven into the handler body.
package service

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/breadworks/swpe/internal/adapters/persistence"
	"github.com/breadworks/swpe/internal/application/mediator"
	"github.com/breadworks/swpe/internal/application/planning/extract"
	"github.com/breadworks/swpe/internal/application/planning/fefo"
	"github.com/breadworks/swpe/internal/application/planning/formulate"
	"github.com/breadworks/swpe/internal/application/planning/index"
	"github.com/breadworks/swpe/internal/application/planning/ingress"
	"github.com/breadworks/swpe/internal/application/planning/postsolve"
	"github.com/breadworks/swpe/internal/application/planning/solve"
	"github.com/breadworks/swpe/internal/domain/planning"
	"github.com/breadworks/swpe/internal/infrastructure/config"
)

// SolveRequest is the mediator command carrying one planning run.
type SolveRequest struct {
	Input   ingress.Input
	Options planning.RunOptions
}

// SolveResponse carries the validated solution.
type SolveResponse struct {
	Solution *planning.Solution
}

// ArtifactStore is the debug-artifact store's write surface, as seen by
// the facade: recording one solve invocation never blocks or fails a
// solve (the same nil-safe-recorder pattern the Prometheus middleware
// uses for metrics).
type ArtifactStore interface {
	RecordSolve(ctx context.Context, rec persistence.SolveRecord)
}

// Service owns admission limiting across concurrent Solve calls and
// sequences the full pipeline for each one. It satisfies
// mediator.RequestHandler so it can be registered and wrapped with
// mediator middleware (metrics, recovery) like any other command
// handler.
type Service struct {
	limiter  *rate.Limiter
	sem      chan struct{}
	defaults planning.RunOptions
	store    ArtifactStore
}

// New builds a Service bounded by cfg.Admission: a token-bucket limiter
// paces the rate at which new solves are admitted; a buffered-channel
// semaphore caps how many solves may run at once, since a rate limiter
// alone paces admission, not concurrency in flight. store may be nil to
// disable artifact recording.
func New(cfg *config.Config, store ArtifactStore) *Service {
	admission := cfg.Admission
	return &Service{
		limiter:  rate.NewLimiter(rate.Limit(admission.RequestsPerSecond), admission.Burst),
		sem:      make(chan struct{}, admission.MaxConcurrentSolves),
		defaults: defaultRunOptions(cfg),
		store:    store,
	}
}

func defaultRunOptions(cfg *config.Config) planning.RunOptions {
	return planning.RunOptions{
		SolverName:       cfg.Solver.Name,
		TimeLimitSeconds: cfg.Solver.TimeLimitSeconds,
		MIPGap:           cfg.Solver.MIPGap,
		Flags: planning.FeatureFlags{
			PalletTracking: cfg.Solver.PalletTracking,
			AllowShortages: cfg.Solver.AllowShortages,
		},
	}
}

// Handle implements mediator.RequestHandler. request must be a
// *SolveRequest; zero-valued RunOptions fields fall back to the
// Service's configured defaults.
func (s *Service) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	req, ok := request.(*SolveRequest)
	if !ok {
		return nil, fmt.Errorf("service: unexpected request type %T", request)
	}

	if err := s.admit(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	opts := mergeRunOptions(s.defaults, req.Options)
	sol, err := s.solve(req.Input, opts)
	if s.store != nil {
		s.store.RecordSolve(ctx, persistence.NewSolveRecord(req.Input, opts, sol, err))
	}
	if err != nil {
		return nil, err
	}
	return &SolveResponse{Solution: sol}, nil
}

// Solve runs one planning call outside the mediator, for callers that
// don't need the command bus (e.g. acceptance tests). It goes through
// the same admission control and pipeline as Handle.
func (s *Service) Solve(ctx context.Context, in ingress.Input, opts planning.RunOptions) (*planning.Solution, error) {
	resp, err := s.Handle(ctx, &SolveRequest{Input: in, Options: opts})
	if err != nil {
		return nil, err
	}
	return resp.(*SolveResponse).Solution, nil
}

// admit blocks until both the rate limiter and the concurrency
// semaphore grant this call a slot, or ctx is cancelled first.
func (s *Service) admit(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("service: admission wait: %w", err)
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) release() {
	<-s.sem
}

// solve runs the full pipeline in construction order: validate -> index
// -> formulate -> solve -> extract -> FEFO allocate -> post-solve
// validate. It fails fast at the first error: no partially-checked
// solution ever reaches a caller.
func (s *Service) solve(in ingress.Input, opts planning.RunOptions) (*planning.Solution, error) {
	bundle, err := ingress.Validate(in)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(bundle)
	if err != nil {
		return nil, err
	}

	model, vars, err := formulate.Build(bundle, idx, opts)
	if err != nil {
		return nil, err
	}

	result, err := solve.Solve(model, opts)
	if err != nil {
		return nil, err
	}

	sol := extract.Extract(bundle, idx, vars, result, opts)

	sol, err = fefo.Allocate(bundle, sol)
	if err != nil {
		return nil, err
	}

	if err := postsolve.Validate(bundle, sol); err != nil {
		return nil, err
	}

	return sol, nil
}

// mergeRunOptions overlays override onto defaults: a zero-valued field
// in override (the caller didn't set it) keeps the Service default.
func mergeRunOptions(defaults, override planning.RunOptions) planning.RunOptions {
	out := defaults
	if override.SolverName != "" {
		out.SolverName = override.SolverName
	}
	if override.TimeLimitSeconds != 0 {
		out.TimeLimitSeconds = override.TimeLimitSeconds
	}
	if override.MIPGap != 0 {
		out.MIPGap = override.MIPGap
	}
	if override.Flags != (planning.FeatureFlags{}) {
		out.Flags = override.Flags
	}
	if override.DumpLPPath != "" {
		out.DumpLPPath = override.DumpLPPath
	}
	if override.DumpSolutionJSON != "" {
		out.DumpSolutionJSON = override.DumpSolutionJSON
	}
	return out
}
