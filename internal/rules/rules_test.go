package rules

import (
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/provides"
	"depcore/internal/types"
)

func setupPool(t *testing.T) (*pool.Pool, *provides.Index, map[string]types.Id) {
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

	fooID := mk("foo", "1.0-1")
	barID := mk("bar", "1.0-1")
	bar2ID := mk("bar", "2.0-1")

	p.SetDeps(&p.Solvable(fooID).Requires, []types.Id{p.Str("bar")})
	p.SetDeps(&p.Solvable(fooID).Conflicts, []types.Id{p.Str("baz")})
	bazID := mk("baz", "1.0-1")

	ids := map[string]types.Id{
		"foo": fooID, "bar": barID, "bar2": bar2ID, "baz": bazID,
	}
	idx := provides.Build(p)
	return p, idx, ids
}

func TestAddPackageRulesRequires(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	set.AddPackageRules(types.NewMap(p.SolvableCount()), nil)

	foundRequires := false
	for _, r := range set.Rules() {
		if r.Class != ClassPkgRequires {
			continue
		}
		lits := set.Literals(r)
		if lits[0] == not(ids["foo"]) {
			foundRequires = true
			hasBar := false
			for _, l := range lits[1:] {
				if l == ids["bar"] || l == ids["bar2"] {
					hasBar = true
				}
			}
			if !hasBar {
				t.Fatalf("expected requires rule to list bar providers, got %v", lits)
			}
		}
	}
	if !foundRequires {
		t.Fatalf("expected a PkgRequires rule for foo")
	}
}

func TestAddPackageRulesConflicts(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	set.AddPackageRules(types.NewMap(p.SolvableCount()), nil)

	found := false
	for _, r := range set.Rules() {
		if r.Class != ClassPkgConflicts {
			continue
		}
		lits := set.Literals(r)
		if len(lits) == 2 && lits[0] == not(ids["foo"]) && lits[1] == not(ids["baz"]) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a conflicts rule between foo and baz")
	}
}

func TestAddSameNameRules(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	set.AddPackageRules(types.NewMap(p.SolvableCount()), nil)

	found := false
	for _, r := range set.Rules() {
		if r.Class != ClassPkgSameName {
			continue
		}
		lits := set.Literals(r)
		if len(lits) == 2 && lits[0] == not(ids["bar"]) && lits[1] == not(ids["bar2"]) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a same-name rule between the two bar versions")
	}
}

func TestAddSameNameRulesSkipsMultiversionNames(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	multiversion := map[types.Id]bool{p.Solvable(ids["bar"]).Name: true}
	set.AddPackageRules(types.NewMap(p.SolvableCount()), multiversion)

	for _, r := range set.Rules() {
		if r.Class != ClassPkgSameName {
			continue
		}
		t.Fatalf("expected no same-name rule for a multiversion name, got %v", set.Literals(r))
	}
}

func TestMultiversionNamesResolvesNameSelector(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	job := types.Job{Type: types.JobMultiversion, Flags: types.SelName, Arg: p.Solvable(ids["bar"]).Name}
	names := set.MultiversionNames([]types.Job{job})
	if !names[p.Solvable(ids["bar"]).Name] {
		t.Fatalf("expected MultiversionNames to mark bar's name, got %v", names)
	}
}

func TestDedupUnifiesIdenticalRules(t *testing.T) {
	p, idx, _ := setupPool(t)
	set := NewSet(p, idx)
	a := set.addRule([]types.Id{1, -2}, ClassPkgRequires)
	b := set.addRule([]types.Id{-2, 1}, ClassPkgConflicts)
	if a != b {
		t.Fatalf("expected identical literal sets (regardless of order) to unify, got %d and %d", a, b)
	}
	if len(set.Rules()) != 1 {
		t.Fatalf("expected exactly one rule after unification, got %d", len(set.Rules()))
	}
}

func TestAddJobRulesInstall(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	job := types.Job{Type: types.JobInstall, Flags: types.SelName, Arg: p.Str("foo")}
	set.AddJobRules([]types.Job{job})
	if len(set.Rules()) != 1 {
		t.Fatalf("expected one job rule, got %d", len(set.Rules()))
	}
	lits := set.Literals(set.Rules()[0])
	if len(lits) != 1 || lits[0] != ids["foo"] {
		t.Fatalf("expected install job rule asserting foo, got %v", lits)
	}
}

func TestAddJobRulesErase(t *testing.T) {
	p, idx, ids := setupPool(t)
	set := NewSet(p, idx)
	job := types.Job{Type: types.JobErase, Flags: types.SelSolvable, Arg: ids["foo"]}
	set.AddJobRules([]types.Job{job})
	if len(set.Rules()) != 1 {
		t.Fatalf("expected one job rule, got %d", len(set.Rules()))
	}
	lits := set.Literals(set.Rules()[0])
	if len(lits) != 1 || lits[0] != not(ids["foo"]) {
		t.Fatalf("expected erase job rule asserting NOT foo, got %v", lits)
	}
}
