// Package problem turns an UNSAT result from internal/sat into a
// human-actionable report: a minimal unsatisfiable core plus a set of
// candidate relaxations (Solutions) that would make the job queue
// satisfiable again.
package problem

import (
	"context"

	"depcore/internal/pool"
	"depcore/internal/rules"
	"depcore/internal/sat"
	"depcore/internal/types"
)

// SolutionKind names one way an unsatisfiable job queue could be
// relaxed into a satisfiable one. Values mirror libsolv's
// SOLVER_SOLUTION_* constants (spec.md §4.11).
type SolutionKind int

const (
	SolutionInfarchChange SolutionKind = iota
	SolutionDistupgradeChange
	SolutionAllowDowngrade
	SolutionAllowArchchange
	SolutionAllowVendorchange
	SolutionAllowReplacement
	SolutionAllowRemove
	SolutionKeepInstalled
	SolutionDoNotInstall
)

// Solution is one concrete relaxation: disable rule DisableRule (a
// Seq number into the originating rules.Set) and/or force literal
// ForceLiteral true, then re-solve.
type Solution struct {
	Kind         SolutionKind
	DisableRule  int
	ForceLiteral types.Id
	Description  string
}

// Problem is one independent unsatisfiability: its minimal core (the
// rule Seq numbers that, together, cannot all hold) and the solutions
// that would resolve it.
type Problem struct {
	Core      []int
	Solutions []Solution
}

// Analyzer re-solves a clause set with rules selectively disabled to
// shrink an engine-reported core down to a minimal one, and proposes
// Solutions for the rules that remain.
type Analyzer struct {
	p  *pool.Pool
	rs *rules.Set
}

// NewAnalyzer builds an Analyzer over the pool and rule set that
// produced an unsatisfiable solve.
func NewAnalyzer(p *pool.Pool, rs *rules.Set) *Analyzer {
	return &Analyzer{p: p, rs: rs}
}

// Analyze takes the engine's reported (non-minimal) core, already
// translated from sat.Engine clause indices to rules.Rule Seq numbers
// by internal/solve's clause<->rule mapping, and returns a minimized
// Problem. rebuild re-runs AddClause for every still-enabled rule and
// returns a fresh engine, used to re-check satisfiability with one
// candidate rule disabled at a time.
func (a *Analyzer) Analyze(ctx context.Context, coarseCore []int, rebuild func(disabled map[int]bool) *sat.Engine) Problem {
	disabled := map[int]bool{}
	minimal := append([]int{}, coarseCore...)

	// Greedy shrink: try disabling each rule in the coarse core; if the
	// engine becomes satisfiable without it, the rule was essential and
	// stays in the minimal core; if disabling it still leaves an
	// unsatisfiable engine, drop it from the core (some other rule, not
	// this one, is the real culprit) and keep it disabled for the rest
	// of the pass. This mirrors libsolv's solver_analyze repeatedly
	// disabling candidate rules and re-solving.
	for _, seq := range coarseCore {
		trial := map[int]bool{seq: true}
		for k, v := range disabled {
			trial[k] = v
		}
		e := rebuild(trial)
		res, err := e.Solve(ctx)
		if err == nil && res.Satisfiable {
			// Disabling seq alone fixes it: seq is essential, keep it.
			continue
		}
		// Still unsat without seq: seq wasn't load-bearing for this
		// particular conflict; drop it from the minimal core.
		disabled[seq] = true
		minimal = removeInt(minimal, seq)
	}

	return Problem{
		Core:      minimal,
		Solutions: a.proposeSolutions(minimal),
	}
}

func removeInt(xs []int, target int) []int {
	out := xs[:0]
	for _, x := range xs {
		if x != target {
			out = append(out, x)
		}
	}
	return out
}

// proposeSolutions inspects each core rule's class and offers the
// relaxation appropriate to it (spec.md §4.11's class-to-solution
// table).
func (a *Analyzer) proposeSolutions(core []int) []Solution {
	var out []Solution
	for _, seq := range core {
		r := a.findRule(seq)
		if r == nil {
			continue
		}
		switch r.Class {
		case rules.ClassPkgSameName:
			out = append(out, Solution{Kind: SolutionAllowReplacement, DisableRule: seq, Description: "allow installing multiple versions of this package"})
		case rules.ClassPkgConflicts, rules.ClassPkgSelfConflict:
			out = append(out, Solution{Kind: SolutionAllowRemove, DisableRule: seq, Description: "remove one of the conflicting packages"})
		case rules.ClassPkgObsoletes, rules.ClassPkgInstalledObsoletes:
			out = append(out, Solution{Kind: SolutionAllowReplacement, DisableRule: seq, Description: "allow the obsoleting package to replace the installed one"})
		case rules.ClassUpdate:
			out = append(out, Solution{Kind: SolutionKeepInstalled, DisableRule: seq, Description: "keep the installed version instead of updating"})
		case rules.ClassDistupgrade:
			out = append(out, Solution{Kind: SolutionDistupgradeChange, DisableRule: seq, Description: "keep a package the target repos no longer carry"})
		case rules.ClassPkgNotInstallable:
			out = append(out, Solution{Kind: SolutionAllowArchchange, DisableRule: seq, Description: "allow a different, installable architecture"})
		case rules.ClassPkgRequires, rules.ClassPkgNothingProvidesDep:
			out = append(out, Solution{Kind: SolutionDoNotInstall, DisableRule: seq, Description: "do not install the package requiring this missing dependency"})
		case rules.ClassJob, rules.ClassJobNothingProvidesDep:
			out = append(out, Solution{Kind: SolutionDoNotInstall, DisableRule: seq, Description: "drop this job from the request"})
		}
	}
	return out
}

func (a *Analyzer) findRule(seq int) *rules.Rule {
	for i := range a.rs.Rules() {
		if a.rs.Rules()[i].Seq == seq {
			return &a.rs.Rules()[i]
		}
	}
	return nil
}
