package pool

import (
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/types"
)

func newTestPool() *Pool {
	return New("amd64", zerolog.Nop())
}

func TestStringInterningDedups(t *testing.T) {
	p := newTestPool()
	a := p.Str("foo")
	b := p.Str("foo")
	c := p.Str("bar")
	if a != b {
		t.Fatalf("expected repeated Str(\"foo\") to return the same Id")
	}
	if a == c {
		t.Fatalf("expected distinct strings to get distinct Ids")
	}
	if p.StrValue(a) != "foo" {
		t.Fatalf("expected StrValue to round-trip, got %q", p.StrValue(a))
	}
}

func TestRelInterningDedups(t *testing.T) {
	p := newTestPool()
	name := p.Str("foo")
	evr := p.Str("1.0")
	r1 := p.Rel(name, evr, RelGE)
	r2 := p.Rel(name, evr, RelGE)
	r3 := p.Rel(name, evr, RelLE)
	if r1 != r2 {
		t.Fatalf("expected identical relation triples to share an Id")
	}
	if r1 == r3 {
		t.Fatalf("expected different flags to produce different relation Ids")
	}
	if !p.IsRel(r1) {
		t.Fatalf("expected relation Id to be recognized as a relation")
	}
	info := p.RelInfo(r1)
	if info.Name != name || info.EVR != evr || info.Flags != RelGE {
		t.Fatalf("unexpected relation info: %+v", info)
	}
}

func TestSolvableDepBlocks(t *testing.T) {
	p := newTestPool()
	repo := p.AddRepo("main", 0, SchemeDeb)
	id, err := p.AddSolvable(repo)
	if err != nil {
		t.Fatalf("AddSolvable: %v", err)
	}
	sv := p.Solvable(id)
	sv.Name = p.Str("foo")
	a := p.Str("bar")
	b := p.Str("baz")
	p.SetDeps(&sv.Requires, []types.Id{a, b})

	got := p.DepList(sv.Requires)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("expected [bar baz], got %v", got)
	}
}

func TestArchScore(t *testing.T) {
	p := newTestPool()
	if p.ArchScore("amd64") == types.ArchIncompatible {
		t.Fatalf("expected native arch to be compatible")
	}
	if p.ArchScore("noarch") != types.ArchNoarch {
		t.Fatalf("expected noarch score to be ArchNoarch")
	}
	if p.ArchScore("sparc") != types.ArchIncompatible {
		t.Fatalf("expected unregistered arch to be incompatible")
	}
	p.SetArch("i386", 5)
	if p.ArchScore("i386") != 5 {
		t.Fatalf("expected registered arch score 5, got %d", p.ArchScore("i386"))
	}
}

func TestDebSchemeCompare(t *testing.T) {
	s := SchemeFor(SchemeDeb)
	cmp, err := s.Compare("1.2-1", "1.10-1")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp >= 0 {
		t.Fatalf("expected 1.2-1 < 1.10-1, got cmp=%d", cmp)
	}
	ok, err := s.Satisfies("1.10-1", RelGE, "1.2-1")
	if err != nil || !ok {
		t.Fatalf("expected 1.10-1 >= 1.2-1, got ok=%v err=%v", ok, err)
	}
}

func TestRPMSchemeCompare(t *testing.T) {
	s := SchemeFor(SchemeRPM)
	cmp, err := s.Compare("1.0-1", "1.0-2")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp >= 0 {
		t.Fatalf("expected 1.0-1 < 1.0-2, got cmp=%d", cmp)
	}
	cmp, err = s.Compare("1.0~rc1", "1.0")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp >= 0 {
		t.Fatalf("expected tilde-prerelease to sort before release, got cmp=%d", cmp)
	}
	cmp, err = s.Compare("2:1.0-1", "1:9.0-1")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp <= 0 {
		t.Fatalf("expected higher epoch to win regardless of version, got cmp=%d", cmp)
	}
}

func TestParseCondaMatchSpec(t *testing.T) {
	spec, err := ParseCondaMatchSpec("numpy >=1.20,<2.0 py39h*")
	if err != nil {
		t.Fatalf("ParseCondaMatchSpec: %v", err)
	}
	if spec.Name != "numpy" || spec.Constraint != ">=1.20,<2.0" || spec.Build != "py39h*" {
		t.Fatalf("unexpected spec: %+v", spec)
	}

	bracketed, err := ParseCondaMatchSpec(`numpy[version=">=1.20", build=py39h*]`)
	if err != nil {
		t.Fatalf("ParseCondaMatchSpec (bracketed): %v", err)
	}
	if bracketed.Name != "numpy" || bracketed.Constraint != ">=1.20" || bracketed.Build != "py39h*" {
		t.Fatalf("unexpected bracketed spec: %+v", bracketed)
	}
}
