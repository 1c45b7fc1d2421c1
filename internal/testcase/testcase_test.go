package testcase

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/types"
)

const fixture = `# a minimal two-package fixture
system amd64 deb
repo system 0 deb
solvable foo 1.0-1 amd64 requires:bar
pool installed system
repo extra 10 deb
solvable bar 2.0-1 amd64
job install name foo
result install foo-1.0-1
`

func TestParseWriteRoundTrip(t *testing.T) {
	f, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf strings.Builder
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != fixture {
		t.Fatalf("round-trip mismatch:\nwant:\n%s\ngot:\n%s", fixture, buf.String())
	}
}

func TestBuildMaterializesPoolAndJobs(t *testing.T) {
	f, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	built, err := Build(f, "amd64", zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.Pool.SolvableCount() != 3 { // index 0 is the null solvable
		t.Fatalf("expected 2 solvables (+1 null), got %d", built.Pool.SolvableCount())
	}
	foundInstalled := false
	for sid := 1; sid < built.Pool.SolvableCount(); sid++ {
		if built.Pool.StrValue(built.Pool.Solvable(types.Id(sid)).Name) == "foo" {
			foundInstalled = built.Installed.Test(types.Id(sid))
		}
	}
	if !foundInstalled {
		t.Fatalf("expected foo to be marked installed")
	}
	if len(built.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(built.Jobs))
	}
	if len(built.Expected) != 1 || built.Expected[0].Kind != "install" {
		t.Fatalf("expected one install result, got %+v", built.Expected)
	}
}

func TestBuildRejectsUnknownKeyword(t *testing.T) {
	f, err := Parse(strings.NewReader("bogus statement here\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Build(f, "amd64", zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an unknown keyword")
	}
}

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	f, err := Parse(strings.NewReader("\n# comment\nrepo main 0 rpm\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.ByKeyword("repo")) != 1 {
		t.Fatalf("expected exactly one repo statement")
	}
}
