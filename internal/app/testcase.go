package app

import (
	"context"
	"fmt"
	"os"

	"depcore/internal/pool"
	"depcore/internal/solve"
	"depcore/internal/testcase"
	"depcore/internal/transaction"
)

var stepKindByResultKeyword = map[string]transaction.StepKind{
	"install":      transaction.StepInstall,
	"erase":        transaction.StepErase,
	"upgrade":      transaction.StepUpgrade,
	"downgrade":    transaction.StepDowngrade,
	"reinstall":    transaction.StepReinstall,
	"obsolete":     transaction.StepObsolete,
	"multiinstall": transaction.StepMultiInstall,
}

// TestcaseRun parses and builds req.Path into a pool, solves its
// embedded jobs, and checks the outcome against its "result"
// statements, mirroring the C testcase tool's own "read and replay"
// mode (spec.md §6).
func (s *Service) TestcaseRun(ctx context.Context, req TestcaseRunRequest) (TestcaseRunResult, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return TestcaseRunResult{}, err
	}
	defer f.Close()

	doc, err := s.Testcase.Parse(f)
	if err != nil {
		return TestcaseRunResult{}, err
	}

	built, err := s.Testcase.Build(doc, req.NativeArch, s.Log)
	if err != nil {
		return TestcaseRunResult{}, err
	}

	s.Pool = built.Pool
	s.Installed = built.Installed

	outcome, err := solve.New(built.Pool, built.Installed).Solve(ctx, built.Jobs, nil)
	if err != nil {
		return TestcaseRunResult{}, err
	}

	mismatch := checkExpectations(built.Pool, outcome, built.Expected)
	return TestcaseRunResult{
		Solved:      len(mismatch) == 0,
		Mismatch:    mismatch,
		SolveResult: toSolveResult(outcome),
	}, nil
}

// checkExpectations compares a solve outcome against a testcase
// file's "result" statements: "result problem" expects an
// unsatisfiable outcome, anything else names a step kind and a
// solvable name expected among the plan's steps.
func checkExpectations(p *pool.Pool, outcome solve.Outcome, expected []testcase.Result) []string {
	var mismatch []string
	for _, exp := range expected {
		if exp.Kind == "problem" {
			if outcome.Problem == nil {
				mismatch = append(mismatch, "expected an unsatisfiable result, got a plan")
			}
			continue
		}

		kind, known := stepKindByResultKeyword[exp.Kind]
		if !known {
			mismatch = append(mismatch, fmt.Sprintf("unrecognized result keyword %q", exp.Kind))
			continue
		}
		if outcome.Plan == nil {
			mismatch = append(mismatch, fmt.Sprintf("expected %s %v, got a problem", exp.Kind, exp.Args))
			continue
		}
		if len(exp.Args) == 0 || !planHasStep(p, outcome.Plan.Steps, kind, exp.Args[0]) {
			mismatch = append(mismatch, fmt.Sprintf("expected %s %v not found in plan", exp.Kind, exp.Args))
		}
	}
	return mismatch
}

func planHasStep(p *pool.Pool, steps []transaction.Step, kind transaction.StepKind, name string) bool {
	for _, st := range steps {
		if st.Kind == kind && p.StrValue(p.Solvable(st.Solv).Name) == name {
			return true
		}
	}
	return false
}
