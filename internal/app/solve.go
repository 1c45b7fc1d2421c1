package app

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depcore/internal/solve"
)

// Solve resolves req.Jobs against the service's working pool, writing
// the result back to the pool cache under req.CacheKey if one is set.
func (s *Service) Solve(ctx context.Context, req SolveRequest) (SolveResult, error) {
	if s.Pool == nil {
		return SolveResult{}, errNoPoolLoaded()
	}

	outcome, err := solveOutcome(ctx, s, req)
	if err != nil {
		return SolveResult{}, err
	}

	result := toSolveResult(outcome)

	if req.CacheKey != "" && outcome.Plan != nil {
		if err := s.persistPool(req.CacheKey); err != nil {
			return result, err
		}
	}

	return result, nil
}

// solveOutcome is the one place Solve, Order, and Why each run a
// request through internal/solve, so all three act on the exact same
// outcome for the same inputs.
func solveOutcome(ctx context.Context, s *Service, req SolveRequest) (solve.Outcome, error) {
	return solve.New(s.Pool, s.Installed).Solve(ctx, req.Jobs, req.Mountpoints)
}

func errNoPoolLoaded() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("app: no pool loaded, load a .solv file or run a testcase fixture first")
}

func errUnsatisfiableForOrder() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("app: request is unsatisfiable, nothing to order")
}

func toSolveResult(outcome solve.Outcome) SolveResult {
	if outcome.Plan != nil {
		du := map[string]int64{}
		for _, m := range outcome.Plan.DiskUsage {
			du[m.Mountpoint] = m.Bytes
		}
		return SolveResult{Plan: &PlanView{
			StepCount: len(outcome.Plan.Steps),
			Order:     outcome.Plan.Order,
			Cycles:    len(outcome.Plan.Cycles),
			DiskUsage: du,
		}}
	}

	prob := outcome.Problem
	details := make([]string, 0, len(prob.Solutions))
	for _, sol := range prob.Solutions {
		details = append(details, fmt.Sprintf("%s (rule #%d)", sol.Description, sol.DisableRule))
	}
	return SolveResult{Problem: &ProblemView{
		CoreRuleSeqs:    prob.Core,
		SolutionCount:   len(prob.Solutions),
		SolutionDetails: details,
	}}
}

// persistPool serializes the service's working pool and writes it to
// the pool cache under key, guarded by the mutation lock so a second
// concurrent writer can't corrupt the cache file underneath it.
func (s *Service) persistPool(key string) error {
	ok, err := s.MutationLock.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("app: another process holds the pool cache mutation lock")
	}
	defer s.MutationLock.Unlock()

	var buf bytes.Buffer
	if err := s.PoolFile.Write(&buf, s.Pool); err != nil {
		return err
	}
	return s.PoolCache.Put(key, buf.Bytes())
}
