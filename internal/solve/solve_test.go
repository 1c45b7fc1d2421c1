package solve

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/transaction"
	"depcore/internal/types"
)

func buildPool(t *testing.T) (*pool.Pool, map[string]types.Id) {
	t.Helper()
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name, evr string) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str(evr)
		sv.Arch = p.Str("amd64")
		return sid
	}

	ids := map[string]types.Id{}
	ids["foo"] = mk("foo", "1.0-1")
	ids["bar"] = mk("bar", "1.0-1")

	p.Solvable(ids["foo"])
	p.SetDeps(&p.Solvable(ids["foo"]).Requires, []types.Id{p.Str("bar")})

	return p, ids
}

func TestSolveInstallWithRequiresProducesOrderedPlan(t *testing.T) {
	p, ids := buildPool(t)
	s := New(p, types.NewMap(p.SolvableCount()))

	jobs := []types.Job{
		{Type: types.JobInstall, Flags: types.SelSolvable, Arg: ids["foo"]},
	}

	out, err := s.Solve(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if out.Problem != nil {
		t.Fatalf("expected a satisfiable plan, got problem: %+v", out.Problem)
	}
	if out.Plan == nil {
		t.Fatalf("expected a plan")
	}

	kinds := map[transaction.StepKind]int{}
	for _, step := range out.Plan.Steps {
		kinds[step.Kind]++
	}
	if kinds[transaction.StepInstall] != 2 {
		t.Fatalf("expected both foo and bar to be installed, got steps: %+v", out.Plan.Steps)
	}

	pos := map[types.Id]int{}
	for i, sid := range out.Plan.Order {
		pos[types.Id(out.Plan.Steps[sid].Solv)] = i
	}
	if pos[ids["bar"]] > pos[ids["foo"]] {
		t.Fatalf("expected bar (the dependency) to be ordered before foo, got order %v with steps %+v", out.Plan.Order, out.Plan.Steps)
	}
}

func TestSolveMutualConflictIsUnsatWithSolutions(t *testing.T) {
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name string) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str("1.0-1")
		sv.Arch = p.Str("amd64")
		return sid
	}

	a := mk("a")
	b := mk("b")
	p.SetDeps(&p.Solvable(a).Conflicts, []types.Id{p.Str("b")})
	p.SetDeps(&p.Solvable(b).Conflicts, []types.Id{p.Str("a")})

	s := New(p, types.NewMap(p.SolvableCount()))
	jobs := []types.Job{
		{Type: types.JobInstall, Flags: types.SelSolvable, Arg: a},
		{Type: types.JobInstall, Flags: types.SelSolvable, Arg: b},
	}

	out, err := s.Solve(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if out.Plan != nil {
		t.Fatalf("expected an unsatisfiable result, got a plan: %+v", out.Plan)
	}
	if out.Problem == nil || len(out.Problem.Core) == 0 {
		t.Fatalf("expected a non-empty problem core, got %+v", out.Problem)
	}
	if len(out.Problem.Solutions) == 0 {
		t.Fatalf("expected at least one proposed solution")
	}
}

func TestSolveMultiversionKeepsInstalledSiblingCoexisting(t *testing.T) {
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name, evr string) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str(evr)
		sv.Arch = p.Str("amd64")
		return sid
	}

	kernel1 := mk("kernel", "1.0-1")
	kernel2 := mk("kernel", "2.0-1")

	installed := types.NewMap(p.SolvableCount())
	installed.Set(kernel1)

	s := New(p, installed)
	jobs := []types.Job{
		{Type: types.JobMultiversion, Flags: types.SelName, Arg: p.Str("kernel")},
		{Type: types.JobInstall, Flags: types.SelSolvable, Arg: kernel2},
	}

	out, err := s.Solve(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if out.Problem != nil {
		t.Fatalf("expected a satisfiable plan, got problem: %+v", out.Problem)
	}
	if out.Plan == nil {
		t.Fatalf("expected a plan")
	}

	var multiInstall, upgradeOrErase int
	for _, step := range out.Plan.Steps {
		switch step.Kind {
		case transaction.StepMultiInstall:
			multiInstall++
			if step.Solv != kernel2 {
				t.Fatalf("expected the multi-install step to be kernel-2, got %+v", step)
			}
		case transaction.StepUpgrade, transaction.StepDowngrade, transaction.StepErase:
			upgradeOrErase++
		}
	}
	if multiInstall != 1 {
		t.Fatalf("expected exactly one multi-install step, got steps: %+v", out.Plan.Steps)
	}
	if upgradeOrErase != 0 {
		t.Fatalf("expected kernel-1 to stay installed with no upgrade/erase relation, got steps: %+v", out.Plan.Steps)
	}
}

func TestSolveCancellation(t *testing.T) {
	p, ids := buildPool(t)
	s := New(p, types.NewMap(p.SolvableCount()))
	jobs := []types.Job{
		{Type: types.JobInstall, Flags: types.SelSolvable, Arg: ids["foo"]},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Solve(ctx, jobs, nil)
	if err == nil {
		t.Fatalf("expected a cancellation error")
	}
}
