package solvfile

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/types"
)

func buildFixture(t *testing.T) *pool.Pool {
	t.Helper()
	p := pool.New("amd64", zerolog.Nop())
	repo := p.AddRepo("main", 5, pool.SchemeDeb)

	sid, err := p.AddSolvable(repo)
	if err != nil {
		t.Fatalf("AddSolvable: %v", err)
	}
	sv := p.Solvable(sid)
	sv.Name = p.Str("foo")
	sv.EVR = p.Str("1.0-1")
	sv.Arch = p.Str("amd64")
	rel := p.Rel(p.Str("bar"), p.Str("2.0-1"), pool.RelGE)
	p.SetDeps(&sv.Requires, []types.Id{rel})
	return p
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := buildFixture(t)

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Read(&buf, zerolog.Nop())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if loaded.SolvableCount() != p.SolvableCount() {
		t.Fatalf("solvable count mismatch: got %d, want %d", loaded.SolvableCount(), p.SolvableCount())
	}
	if loaded.NativeArch() != p.NativeArch() {
		t.Fatalf("native arch mismatch: got %q, want %q", loaded.NativeArch(), p.NativeArch())
	}

	sid := types.Id(1)
	if loaded.StrValue(loaded.Solvable(sid).Name) != "foo" {
		t.Fatalf("expected solvable 1 to be named foo, got %q", loaded.StrValue(loaded.Solvable(sid).Name))
	}
	requires := loaded.DepList(loaded.Solvable(sid).Requires)
	if len(requires) != 1 || !loaded.IsRel(requires[0]) {
		t.Fatalf("expected one versioned requires, got %v", requires)
	}
	rel := loaded.RelInfo(requires[0])
	if loaded.StrValue(rel.Name) != "bar" || loaded.StrValue(rel.EVR) != "2.0-1" || rel.Flags != pool.RelGE {
		t.Fatalf("unexpected round-tripped relation: %+v", rel)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a solv file at all")), zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error for a bad magic header")
	}
}

func TestMergeRenamesIdsAcrossFiles(t *testing.T) {
	dst := pool.New("amd64", zerolog.Nop())
	dstRepo := dst.AddRepo("installed", 0, pool.SchemeDeb)
	dstSid, err := dst.AddSolvable(dstRepo)
	if err != nil {
		t.Fatalf("AddSolvable: %v", err)
	}
	dst.Solvable(dstSid).Name = dst.Str("foo")
	dst.Solvable(dstSid).EVR = dst.Str("1.0-1")
	dst.Solvable(dstSid).Arch = dst.Str("amd64")

	src := buildFixture(t)

	idmap := Merge(dst, src)

	if dst.SolvableCount() != 3 { // null + dst's own foo + src's foo
		t.Fatalf("expected 2 solvables (+1 null) after merge, got %d", dst.SolvableCount())
	}

	mergedSid := types.Id(2)
	mergedName := dst.StrValue(dst.Solvable(mergedSid).Name)
	if mergedName != "foo" {
		t.Fatalf("expected the merged solvable to keep its name, got %q", mergedName)
	}

	requires := dst.DepList(dst.Solvable(mergedSid).Requires)
	if len(requires) != 1 || !dst.IsRel(requires[0]) {
		t.Fatalf("expected the merged solvable's requires to carry over, got %v", requires)
	}
	rel := dst.RelInfo(requires[0])
	if dst.StrValue(rel.Name) != "bar" {
		t.Fatalf("expected the remapped relation to still name bar, got %q", dst.StrValue(rel.Name))
	}

	if _, ok := idmap[src.Str("foo")]; !ok {
		t.Fatalf("expected idmap to cover src's interned strings")
	}
}
