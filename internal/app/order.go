package app

import (
	"context"

	"depcore/internal/transaction"
)

var stepKindName = map[transaction.StepKind]string{
	transaction.StepInstall:      "install",
	transaction.StepErase:        "erase",
	transaction.StepUpgrade:      "upgrade",
	transaction.StepDowngrade:    "downgrade",
	transaction.StepReinstall:    "reinstall",
	transaction.StepObsolete:     "obsolete",
	transaction.StepMultiInstall: "multi-install",
}

var cycleSeverityName = map[transaction.CycleSeverity]string{
	transaction.SeverityHarmless: "harmless",
	transaction.SeverityNormal:   "normal",
	transaction.SeverityCritical: "critical",
}

// Order resolves req.Jobs exactly as Solve does, but renders the
// resulting application order and any broken cycles by solvable name
// instead of the raw step/index view Solve itself returns.
func (s *Service) Order(ctx context.Context, req SolveRequest) (OrderResult, error) {
	if s.Pool == nil {
		return OrderResult{}, errNoPoolLoaded()
	}

	outcome, err := solveOutcome(ctx, s, req)
	if err != nil {
		return OrderResult{}, err
	}
	if outcome.Plan == nil {
		return OrderResult{}, errUnsatisfiableForOrder()
	}

	steps := make([]OrderedStepView, 0, len(outcome.Plan.Order))
	for _, idx := range outcome.Plan.Order {
		st := outcome.Plan.Steps[idx]
		steps = append(steps, OrderedStepView{
			Name: s.Pool.StrValue(s.Pool.Solvable(st.Solv).Name),
			Kind: stepKindName[st.Kind],
		})
	}

	cycles := make([]CycleView, 0, len(outcome.Plan.Cycles))
	for _, c := range outcome.Plan.Cycles {
		names := make([]string, 0, len(c.Nodes))
		for _, idx := range c.Nodes {
			names = append(names, s.Pool.StrValue(s.Pool.Solvable(outcome.Plan.Steps[idx].Solv).Name))
		}
		cycles = append(cycles, CycleView{
			Steps:    names,
			Severity: cycleSeverityName[c.Severity],
			CutFrom:  s.Pool.StrValue(s.Pool.Solvable(outcome.Plan.Steps[c.CutFrom].Solv).Name),
			CutTo:    s.Pool.StrValue(s.Pool.Solvable(outcome.Plan.Steps[c.CutTo].Solv).Name),
		})
	}

	return OrderResult{Steps: steps, Cycles: cycles}, nil
}

// Why resolves req.Jobs exactly as Solve does, but reports only
// whether the request was satisfiable and, if not, the problem
// explanation — the CLI-facing equivalent of asking "why won't this
// install?".
func (s *Service) Why(ctx context.Context, req SolveRequest) (WhyResult, error) {
	if s.Pool == nil {
		return WhyResult{}, errNoPoolLoaded()
	}

	outcome, err := solveOutcome(ctx, s, req)
	if err != nil {
		return WhyResult{}, err
	}
	if outcome.Plan != nil {
		return WhyResult{Satisfiable: true}, nil
	}

	result := toSolveResult(outcome)
	return WhyResult{Satisfiable: false, Problem: result.Problem}, nil
}
