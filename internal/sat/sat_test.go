package sat

import (
	"context"
	"testing"
)

func TestSolveSimpleSatisfiable(t *testing.T) {
	// (x1 OR x2) AND (NOT x1 OR x2) AND (x1 OR NOT x2)
	e := NewEngine(2)
	must(t, e.AddClause([]Lit{1, 2}))
	must(t, e.AddClause([]Lit{-1, 2}))
	must(t, e.AddClause([]Lit{1, -2}))

	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Satisfiable {
		t.Fatalf("expected satisfiable")
	}
	if !res.Model[1] || !res.Model[2] {
		t.Fatalf("expected both variables true, got %v", res.Model)
	}
}

func TestSolveUnsatisfiable(t *testing.T) {
	// x1 AND NOT x1
	e := NewEngine(1)
	must(t, e.AddClause([]Lit{1}))
	must(t, e.AddClause([]Lit{-1}))

	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Satisfiable {
		t.Fatalf("expected unsatisfiable")
	}
}

func TestSolveRequiresConflictIsUnsat(t *testing.T) {
	// x1 (must install) AND (NOT x1 OR x2) [x1 requires x2] AND NOT x2 (x2 unavailable)
	e := NewEngine(2)
	must(t, e.AddClause([]Lit{1}))
	must(t, e.AddClause([]Lit{-1, 2}))
	must(t, e.AddClause([]Lit{-2}))

	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Satisfiable {
		t.Fatalf("expected unsatisfiable when a hard requires target is unavailable")
	}
}

func TestSolveWithConflictDrivenLearning(t *testing.T) {
	// A slightly larger instance that forces at least one conflict +
	// backtrack before reaching a model, to exercise analyze/backtrack.
	e := NewEngine(4)
	must(t, e.AddClause([]Lit{1, 2}))
	must(t, e.AddClause([]Lit{1, -2, 3}))
	must(t, e.AddClause([]Lit{-1, -3}))
	must(t, e.AddClause([]Lit{-3, 4}))
	must(t, e.AddClause([]Lit{-4, -1}))

	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Satisfiable {
		t.Fatalf("expected satisfiable")
	}
	for _, c := range []struct {
		lits []Lit
	}{
		{[]Lit{1, 2}}, {[]Lit{1, -2, 3}}, {[]Lit{-1, -3}}, {[]Lit{-3, 4}}, {[]Lit{-4, -1}},
	} {
		if !clauseSatisfiedBy(c.lits, res.Model) {
			t.Fatalf("model %v does not satisfy clause %v", res.Model, c.lits)
		}
	}
}

func TestSolveCancellation(t *testing.T) {
	e := NewEngine(1)
	must(t, e.AddClause([]Lit{1, -1}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Solve(ctx)
	if err != ErrCanceled {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func clauseSatisfiedBy(lits []Lit, model []bool) bool {
	for _, l := range lits {
		v := l.Var()
		val := model[v]
		if l.Sign() {
			val = !val
		}
		if val {
			return true
		}
	}
	return false
}
