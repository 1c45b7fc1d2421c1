package provides

import (
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/types"
)

func buildTestPool(t *testing.T) (*pool.Pool, map[string]types.Id) {
	t.Helper()
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name, evr string, requires []types.Id) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str(evr)
		sv.Arch = p.Str("amd64")
		if requires != nil {
			p.SetDeps(&sv.Requires, requires)
		}
		return sid
	}

	fooDep := p.Rel(p.Str("foo"), p.Str("1.0-1"), pool.RelGE)
	barID := mk("bar", "2.0-1", []types.Id{fooDep})
	fooID := mk("foo", "1.0-1", nil)
	_ = mk("foo", "0.5-1", nil)

	ids := map[string]types.Id{
		"bar-id": barID,
		"foo-id": fooID,
	}
	return p, ids
}

func TestWhatProvidesName(t *testing.T) {
	p, _ := buildTestPool(t)
	idx := Build(p)
	providers := idx.WhatProvidesName(p.Str("foo"))
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers of foo, got %d: %v", len(providers), providers)
	}
}

func TestWhatProvidesVersionedRelation(t *testing.T) {
	p, ids := buildTestPool(t)
	idx := Build(p)
	rel := p.Rel(p.Str("foo"), p.Str("1.0-1"), pool.RelGE)
	providers := idx.WhatProvides(rel)
	if len(providers) != 1 || providers[0] != ids["foo-id"] {
		t.Fatalf("expected exactly foo-id 1.0-1 to satisfy foo >= 1.0-1, got %v", providers)
	}
}

func TestWhatProvidesAndOr(t *testing.T) {
	p, ids := buildTestPool(t)
	idx := Build(p)
	and := p.Rel(p.Str("foo"), p.Str("bar"), pool.RelAnd)
	if got := idx.WhatProvides(and); len(got) != 0 {
		t.Fatalf("expected no solvable named both foo and bar, got %v", got)
	}
	or := p.Rel(p.Str("foo"), p.Str("bar"), pool.RelOr)
	got := idx.WhatProvides(or)
	if len(got) != 3 {
		t.Fatalf("expected 3 solvables providing foo-or-bar, got %d: %v", len(got), got)
	}
	_ = ids
}

func TestWhatProvidesNamespaceCallback(t *testing.T) {
	p, ids := buildTestPool(t)
	called := false
	p.SetNamespaceCallback(func(pp *pool.Pool, name, arg types.Id) []types.Id {
		called = true
		return []types.Id{ids["bar-id"]}
	})
	idx := Build(p)
	ns := p.Rel(p.Str("language"), p.Str("en"), pool.RelNamespace)
	got := idx.WhatProvides(ns)
	if !called {
		t.Fatalf("expected namespace callback to be invoked")
	}
	if len(got) != 1 || got[0] != ids["bar-id"] {
		t.Fatalf("expected namespace callback result to pass through, got %v", got)
	}
}

func TestWhatProvidesUnknownNameReturnsEmpty(t *testing.T) {
	p, _ := buildTestPool(t)
	idx := Build(p)
	got := idx.WhatProvidesName(p.Str("does-not-exist"))
	if len(got) != 0 {
		t.Fatalf("expected no providers, got %v", got)
	}
}
