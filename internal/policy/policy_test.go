package policy

import (
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/provides"
	"depcore/internal/rules"
	"depcore/internal/types"
)

func TestPolicyPrefersInstalledOverNewerVersion(t *testing.T) {
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name, evr, arch string) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str(evr)
		sv.Arch = p.Str(arch)
		return sid
	}

	old := mk("foo", "1.0-1", "amd64")
	newer := mk("foo", "2.0-1", "amd64")

	installed := types.NewMap(p.SolvableCount())
	installed.Set(old)

	idx := provides.Build(p)
	rs := rules.NewSet(p, idx)
	pol := New(p, installed, rs)

	if !pol.less(old, newer) {
		t.Fatalf("expected installed candidate to be preferred over a newer non-installed one")
	}
}

func TestPolicyPrefersNewerVersionWhenNeitherInstalled(t *testing.T) {
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

	old := mk("foo", "1.0-1")
	newer := mk("foo", "2.0-1")

	installed := types.NewMap(p.SolvableCount())
	idx := provides.Build(p)
	rs := rules.NewSet(p, idx)
	pol := New(p, installed, rs)

	if !pol.less(newer, old) {
		t.Fatalf("expected the newer version to be preferred when neither is installed")
	}
}

func TestPolicyArchIncompatibleIsWorst(t *testing.T) {
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 0, pool.SchemeDeb)

	mk := func(name, arch string) types.Id {
		sid, err := p.AddSolvable(repo)
		if err != nil {
			t.Fatalf("AddSolvable: %v", err)
		}
		sv := p.Solvable(sid)
		sv.Name = p.Str(name)
		sv.EVR = p.Str("1.0-1")
		sv.Arch = p.Str(arch)
		return sid
	}

	good := mk("foo", "amd64")
	bad := mk("foo", "sparc")

	installed := types.NewMap(p.SolvableCount())
	idx := provides.Build(p)
	rs := rules.NewSet(p, idx)
	pol := New(p, installed, rs)

	if !pol.less(good, bad) {
		t.Fatalf("expected a compatible arch to beat an incompatible one")
	}
}
