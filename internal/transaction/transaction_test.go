package transaction

import (
	"testing"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/types"
)

func TestBuildStepsUpgrade(t *testing.T) {
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
	installed.Set(old)

	model := make([]bool, p.SolvableCount())
	model[newer] = true

	steps := Build(p, installed, model, nil)
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d: %+v", len(steps), steps)
	}
	if steps[0].Kind != StepUpgrade || steps[0].Solv != newer || steps[0].Replace != old {
		t.Fatalf("unexpected step: %+v", steps[0])
	}
}

func TestBuildStepsEraseAndInstall(t *testing.T) {
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

	gone := mk("gone")
	fresh := mk("fresh")

	installed := types.NewMap(p.SolvableCount())
	installed.Set(gone)

	model := make([]bool, p.SolvableCount())
	model[fresh] = true

	steps := Build(p, installed, model, nil)
	kinds := map[StepKind]int{}
	for _, s := range steps {
		kinds[s.Kind]++
	}
	if kinds[StepInstall] != 1 || kinds[StepErase] != 1 {
		t.Fatalf("expected one install and one erase, got %+v", kinds)
	}
}

func TestBuildStepsMultiInstallCoexistsWithInstalled(t *testing.T) {
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

	model := make([]bool, p.SolvableCount())
	model[kernel1] = true
	model[kernel2] = true

	multiversion := map[types.Id]bool{p.Solvable(kernel1).Name: true}

	steps := Build(p, installed, model, multiversion)
	if len(steps) != 1 {
		t.Fatalf("expected kernel-1 to stay untouched and only kernel-2 to get a step, got %+v", steps)
	}
	if steps[0].Kind != StepMultiInstall || steps[0].Solv != kernel2 {
		t.Fatalf("expected a multi-install step for kernel-2, got %+v", steps[0])
	}
}

func TestOrderTopologicalNoCycle(t *testing.T) {
	// Node 2 is a prerequisite of node 1, which is a prerequisite of
	// node 0: install order must be 2, 1, 0.
	g := NewGraph(3)
	g.AddEdge(2, 1, EdgeRequires)
	g.AddEdge(1, 0, EdgeRequires)
	order, cycles := g.Order()
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %+v", cycles)
	}
	pos := map[int]int{}
	for i, n := range order {
		pos[n] = i
	}
	if pos[2] > pos[1] || pos[1] > pos[0] {
		t.Fatalf("expected order 2,1,0 (dependencies first), got %v", order)
	}
}

func TestOrderBreaksCycleAndReportsSeverity(t *testing.T) {
	g := NewGraph(2)
	g.AddEdge(0, 1, EdgePrereq)
	g.AddEdge(1, 0, EdgeRequires)
	order, cycles := g.Order()
	if len(order) != 2 {
		t.Fatalf("expected a full order despite the cycle, got %v", order)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one broken cycle, got %d", len(cycles))
	}
	if cycles[0].Severity != SeverityCritical {
		t.Fatalf("expected a pre-requires edge to make the cycle critical, got %v", cycles[0].Severity)
	}
}

func TestDiskUsageAggregation(t *testing.T) {
	d := NewDiskUsage([]string{"/", "/usr", "/usr/lib"})
	d.Add("/usr/lib/foo.so", 1024, 1)
	d.Add("/etc/foo.conf", 256, 1)
	d.Add("/usr/bin/foo", 512, 1)

	totals := map[string]MountEntry{}
	for _, e := range d.Totals() {
		totals[e.Mountpoint] = e
	}
	if totals["/usr/lib"].Bytes != 1024 {
		t.Fatalf("expected /usr/lib to get the most specific match, got %+v", totals["/usr/lib"])
	}
	if totals["/usr"].Bytes != 512 {
		t.Fatalf("expected /usr to get /usr/bin/foo, got %+v", totals["/usr"])
	}
	if totals["/"].Bytes != 256 {
		t.Fatalf("expected / to get /etc/foo.conf, got %+v", totals["/"])
	}
}
