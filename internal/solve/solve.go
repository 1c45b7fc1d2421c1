// Package solve wires pool, rules, sat, policy, problem, and
// transaction together into the single entry point a caller actually
// wants: given a pool and a job queue, either a transaction plan or an
// unsatisfiability report. It mirrors the teacher's
// internal/core.ResolverCore in role (the one orchestrator an
// application layer calls into) without sharing its apt/pip-specific
// logic.
package solve

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depcore/internal/policy"
	"depcore/internal/pool"
	"depcore/internal/problem"
	"depcore/internal/provides"
	"depcore/internal/rules"
	"depcore/internal/sat"
	"depcore/internal/transaction"
	"depcore/internal/types"
)

// Solver orchestrates one end-to-end solve over a pool.
type Solver struct {
	p         *pool.Pool
	installed types.Map
}

// New creates a Solver over p, with installed marking the solvables
// belonging to the currently installed system state.
func New(p *pool.Pool, installed types.Map) *Solver {
	return &Solver{p: p, installed: installed}
}

// Outcome is either a successful Plan or, on failure, a Problem report.
type Outcome struct {
	Plan    *Plan
	Problem *problem.Problem
}

// Plan is the ordered, classified set of changes a successful solve
// produces, plus the disk-usage impact of applying it.
type Plan struct {
	Steps     []transaction.Step
	Order     []int
	Cycles    []transaction.Cycle
	DiskUsage []transaction.MountEntry
}

// Solve resolves jobs against the pool and returns either a Plan or a
// Problem. Mountpoints configures the disk-usage aggregator; pass nil
// for a single "/" mountpoint.
func (s *Solver) Solve(ctx context.Context, jobs []types.Job, mountpoints []string) (Outcome, error) {
	idx := provides.Build(s.p)

	rs := rules.NewSet(s.p, idx)
	multiversion := rs.MultiversionNames(jobs)
	rs.AddPackageRules(s.installed, multiversion)
	rs.AddUpdateRules(s.installed)
	rs.AddJobRules(jobs)

	engine, seqByClauseIdx := buildEngine(s.p, rs)

	pol := policy.New(s.p, s.installed, rs)
	engine.SetDecisionHook(pol.DecisionHook(engine))

	res, err := engine.Solve(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if !res.Satisfiable {
		core := translateCore(res.UnsatCore, seqByClauseIdx)
		analyzer := problem.NewAnalyzer(s.p, rs)
		prob := analyzer.Analyze(ctx, core, func(disabled map[int]bool) *sat.Engine {
			e, _ := buildEngineWithDisabled(s.p, rs, disabled)
			return e
		})
		return Outcome{Problem: &prob}, nil
	}

	model := s.tryRecommendsBonus(ctx, rs, pol, res.Model)

	steps := transaction.Build(s.p, s.installed, model, multiversion)
	graph := buildDependencyGraph(s.p, steps)
	order, cycles := graph.Order()

	du := transaction.NewDiskUsage(mountpoints)
	// Package-content sizing isn't modeled in this core (no file-list
	// index, see internal/provides's fileProvides note); disk-usage
	// aggregation is exposed for callers who attach sizes out of band.

	return Outcome{Plan: &Plan{Steps: steps, Order: order, Cycles: cycles, DiskUsage: du.Totals()}}, nil
}

func buildEngine(p *pool.Pool, rs *rules.Set) (*sat.Engine, map[int]int) {
	return buildEngineWithDisabled(p, rs, nil)
}

// tryRecommendsBonus asks pol which recommended packages the
// hard-constrained model left unsatisfied and attempts a second solve
// that additionally forces them true. Per spec.md §4.10 point 5,
// inability to honor a recommendation is non-fatal: if forcing the
// bonus literals conflicts with the hard rules, this rolls back to the
// original model rather than let the advisory pass block anything.
func (s *Solver) tryRecommendsBonus(ctx context.Context, rs *rules.Set, pol *policy.Policy, model []bool) []bool {
	bonus := pol.RecommendsBonus(model)
	if len(bonus) == 0 {
		return model
	}

	e, _ := buildEngineWithDisabled(s.p, rs, nil)
	for _, sid := range bonus {
		if err := e.AddClause([]sat.Lit{sat.Lit(sid)}); err != nil {
			return model
		}
	}
	e.SetDecisionHook(pol.DecisionHook(e))

	res, err := e.Solve(ctx)
	if err != nil || !res.Satisfiable {
		return model
	}
	return res.Model
}

func buildEngineWithDisabled(p *pool.Pool, rs *rules.Set, disabled map[int]bool) (*sat.Engine, map[int]int) {
	e := sat.NewEngine(p.SolvableCount() - 1)
	seqByClauseIdx := map[int]int{}
	for _, r := range rs.Rules() {
		// Recommends/constrains rules are advisory per spec.md §4.8:
		// failing to satisfy one must never block a solution, so they
		// never enter the hard clause set. internal/policy.RecommendsBonus
		// drives the separate, optional second pass that tries to honor
		// them. Class, not Seq/WeakStart, is the filter: rules added
		// after AddPackageRules returns (update, job) also carry
		// Seq >= WeakStart but are hard constraints.
		if r.Class == rules.ClassPkgRecommends || r.Class == rules.ClassPkgConstrains {
			continue
		}
		if disabled[r.Seq] {
			continue
		}
		lits := rs.Literals(r)
		satLits := make([]sat.Lit, len(lits))
		for i, l := range lits {
			satLits[i] = sat.Lit(l)
		}
		if err := e.AddClause(satLits); err != nil {
			continue
		}
		seqByClauseIdx[len(seqByClauseIdx)] = r.Seq
	}
	return e, seqByClauseIdx
}

func translateCore(clauseIdxCore []int, seqByClauseIdx map[int]int) []int {
	out := make([]int, 0, len(clauseIdxCore))
	for _, ci := range clauseIdxCore {
		if seq, ok := seqByClauseIdx[ci]; ok {
			out = append(out, seq)
		}
	}
	return out
}

func buildDependencyGraph(p *pool.Pool, steps []transaction.Step) *transaction.Graph {
	g := transaction.NewGraph(len(steps))
	indexBySolv := map[types.Id]int{}
	for i, st := range steps {
		indexBySolv[st.Solv] = i
	}
	for i, st := range steps {
		if st.Kind == transaction.StepErase {
			continue
		}
		for _, dep := range p.DepList(p.Solvable(st.Solv).Requires) {
			for _, provider := range resolveDepToSteps(p, dep, indexBySolv) {
				if provider != i {
					g.AddEdge(provider, i, transaction.EdgeRequires)
				}
			}
		}
		for _, dep := range p.DepList(p.Solvable(st.Solv).PrereqIgnoreinst) {
			for _, provider := range resolveDepToSteps(p, dep, indexBySolv) {
				if provider != i {
					g.AddEdge(provider, i, transaction.EdgePrereq)
				}
			}
		}
	}
	return g
}

func resolveDepToSteps(p *pool.Pool, dep types.Id, indexBySolv map[types.Id]int) []int {
	name := dep
	if p.IsRel(dep) {
		name = p.RelInfo(dep).Name
	}
	var out []int
	for sid, i := range indexBySolv {
		if p.Solvable(sid).Name == name {
			out = append(out, i)
		}
	}
	return out
}

// ErrNoPool is returned when Solve is called without a backing pool,
// guarding against a zero-value Solver reaching the engine.
var ErrNoPool = errbuilder.New().
	WithCode(errbuilder.CodeFailedPrecondition).
	WithMsg("solve: no pool configured")
