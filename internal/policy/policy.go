// Package policy implements the solver's branching/decision policy:
// the order in which free literals are chosen during CDCL search, so
// that among many SAT-valid solutions the search converges on the one
// a package manager's users actually want (keep installed packages,
// prefer the best architecture/version/vendor, and so on).
package policy

import (
	"sort"

	"depcore/internal/pool"
	"depcore/internal/rules"
	"depcore/internal/sat"
	"depcore/internal/types"
)

// Policy ranks candidate literals for the CDCL engine's decision hook.
// It holds everything the ranking needs: the pool (for arch/vendor/
// version lookups), the installed-repo membership map, and the
// generated rule set (for the recommends weak-rule pass).
type Policy struct {
	p         *pool.Pool
	installed types.Map
	rs        *rules.Set

	// byName groups every solvable sharing a name, precomputed once so
	// "all alternatives for this package" doesn't re-scan the pool on
	// every decision.
	byName map[types.Id][]types.Id
}

// New builds a Policy over p, with installed marking the currently
// installed solvables and rs the already-generated rule set (used for
// the recommends pass).
func New(p *pool.Pool, installed types.Map, rs *rules.Set) *Policy {
	pol := &Policy{p: p, installed: installed, rs: rs, byName: map[types.Id][]types.Id{}}
	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		name := p.Solvable(sid).Name
		pol.byName[name] = append(pol.byName[name], sid)
	}
	return pol
}

// DecisionHook returns a closure implementing sat.Engine's decision
// hook: scan every still-unassigned variable, keep the ones current at
// the best preference tier, and assert the top candidate true (the
// solver always tries "install the preferred package" before "don't
// install anything" — refuted candidates get excluded by conflict
// learning, not by branching the other way first).
func (pol *Policy) DecisionHook(e *sat.Engine) func() (sat.Lit, bool) {
	return func() (sat.Lit, bool) {
		candidates := pol.freeLiterals(e)
		if len(candidates) == 0 {
			return 0, false
		}
		best := pol.pruneBest(candidates)
		return sat.Lit(best), true
	}
}

func (pol *Policy) freeLiterals(e *sat.Engine) []types.Id {
	var out []types.Id
	for v := int32(1); v <= int32(e.NumVars()); v++ {
		if e.Unassigned(v) {
			out = append(out, types.Id(v))
		}
	}
	return out
}

// pruneBest applies the priority order from spec.md §4.10: level-1
// assertions and installed-repo keep preference are already baked into
// rule generation / the installed map, so this ranks the remaining
// free candidates by installed status (an installed candidate first),
// then arch score, then repo priority, then version
// (newest first), then vendor stickiness against the installed
// sibling (if any), then lowest solvable Id as a final, deterministic
// tiebreak.
func (pol *Policy) pruneBest(candidates []types.Id) types.Id {
	sort.Slice(candidates, func(i, j int) bool {
		return pol.less(candidates[i], candidates[j])
	})
	return candidates[0]
}

// less reports whether a should be preferred over b (a sorts first).
func (pol *Policy) less(a, b types.Id) bool {
	if pol.installed.Test(a) != pol.installed.Test(b) {
		return pol.installed.Test(a) // installed wins ties outright
	}
	sa, sb := pol.p.Solvable(a), pol.p.Solvable(b)

	as := pol.p.ArchScore(pol.p.StrValue(sa.Arch))
	bs := pol.p.ArchScore(pol.p.StrValue(sb.Arch))
	if as != bs {
		return betterArchScore(as, bs)
	}

	rpa, rpb := pol.p.Repo(sa.Repo).Priority, pol.p.Repo(sb.Repo).Priority
	if rpa != rpb {
		return rpa > rpb // higher repo priority wins
	}

	if sa.Name == sb.Name {
		scheme := pol.p.Scheme(sa.Repo)
		if cmp, err := scheme.Compare(pol.p.StrValue(sa.EVR), pol.p.StrValue(sb.EVR)); err == nil && cmp != 0 {
			return cmp > 0 // newer version wins
		}
		if sa.Vendor != sb.Vendor {
			return pol.vendorSticks(a) && !pol.vendorSticks(b)
		}
	}

	return a < b
}

// betterArchScore treats a lower positive score as preferred, except
// ArchIncompatible (0) which is worst regardless of the other side's
// value.
func betterArchScore(a, b int) bool {
	if a == types.ArchIncompatible {
		return false
	}
	if b == types.ArchIncompatible {
		return true
	}
	return a < b
}

// vendorSticks reports whether candidate c shares its vendor with the
// currently installed solvable of the same name, if one exists.
func (pol *Policy) vendorSticks(c types.Id) bool {
	sv := pol.p.Solvable(c)
	for _, sibling := range pol.byName[sv.Name] {
		if pol.installed.Test(sibling) {
			return pol.p.Solvable(sibling).Vendor == sv.Vendor
		}
	}
	return false
}

// RecommendsBonus returns every candidate this policy would like to
// additionally pull in via the weak recommends rules generated at or
// after rs.WeakStart, letting internal/solve make a second pass after
// the hard-constrained solution is found.
func (pol *Policy) RecommendsBonus(model []bool) []types.Id {
	var out []types.Id
	for _, r := range pol.rs.Rules()[pol.rs.WeakStart:] {
		if r.Class != rules.ClassPkgRecommends {
			continue
		}
		lits := pol.rs.Literals(r)
		if len(lits) == 0 {
			continue
		}
		enabler := lits[0] // NOT(sid)
		sid := -enabler
		if sid < 0 || int(sid) >= len(model) || !model[sid] {
			continue
		}
		satisfied := false
		for _, l := range lits[1:] {
			if int(l) < len(model) && model[l] {
				satisfied = true
				break
			}
		}
		if !satisfied && len(lits) > 1 {
			out = append(out, lits[1])
		}
	}
	return out
}
