// Package transaction builds and orders the concrete install/erase
// steps implied by a SAT model: step classification (install vs.
// upgrade vs. downgrade vs. obsolete, ...), dependency-respecting
// ordering with cycle detection, and disk-usage aggregation.
package transaction

import (
	"depcore/internal/pool"
	"depcore/internal/types"
)

// StepKind classifies one transaction step.
type StepKind int

const (
	StepInstall StepKind = iota
	StepErase
	StepUpgrade
	StepDowngrade
	StepReinstall
	StepObsolete
	StepMultiInstall
)

// Step is one package change the transaction must apply.
type Step struct {
	Kind    StepKind
	Solv    types.Id // the solvable being installed/erased/etc.
	Replace types.Id // for upgrade/downgrade/obsolete: the solvable it replaces, else IdNull
}

// Build classifies the difference between the installed set and the
// model's chosen set into Steps, pairing same-name replacements into
// upgrade/downgrade/reinstall and obsoletes relations into explicit
// Obsolete steps. multiversion marks names for which several solvables
// may be simultaneously installed (see internal/rules.MultiversionNames):
// for those names, a newly chosen solvable never replaces an already
// installed sibling, it is added alongside it as StepMultiInstall.
func Build(p *pool.Pool, installed types.Map, model []bool, multiversion map[types.Id]bool) []Step {
	chosen := types.NewMap(len(model))
	for v := 1; v < len(model); v++ {
		if model[v] {
			chosen.Set(types.Id(v))
		}
	}

	byNameInstalled := map[types.Id]types.Id{}
	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		if installed.Test(sid) && !multiversion[p.Solvable(sid).Name] {
			byNameInstalled[p.Solvable(sid).Name] = sid
		}
	}

	var steps []Step
	handledInstalled := map[types.Id]bool{}

	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		if !chosen.Test(sid) {
			continue
		}
		name := p.Solvable(sid).Name
		if multiversion[name] {
			if installed.Test(sid) {
				handledInstalled[sid] = true
				continue // already installed, stays as-is
			}
			steps = append(steps, Step{Kind: StepMultiInstall, Solv: sid})
			continue
		}
		prev, hadPrev := byNameInstalled[name]
		if !hadPrev {
			if isObsoleter(p, sid, installed) {
				steps = append(steps, obsoleteSteps(p, sid, installed)...)
			} else {
				steps = append(steps, Step{Kind: StepInstall, Solv: sid})
			}
			continue
		}
		handledInstalled[prev] = true
		if prev == sid {
			continue // unchanged
		}
		scheme := p.Scheme(p.Solvable(sid).Repo)
		cmp, err := scheme.Compare(p.StrValue(p.Solvable(sid).EVR), p.StrValue(p.Solvable(prev).EVR))
		kind := StepReinstall
		if err == nil {
			if cmp > 0 {
				kind = StepUpgrade
			} else if cmp < 0 {
				kind = StepDowngrade
			}
		}
		steps = append(steps, Step{Kind: kind, Solv: sid, Replace: prev})
	}

	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		if installed.Test(sid) && !chosen.Test(sid) && !handledInstalled[sid] {
			steps = append(steps, Step{Kind: StepErase, Solv: sid})
		}
	}

	return steps
}

func isObsoleter(p *pool.Pool, sid types.Id, installed types.Map) bool {
	return len(p.DepList(p.Solvable(sid).Obsoletes)) > 0
}

func obsoleteSteps(p *pool.Pool, sid types.Id, installed types.Map) []Step {
	var out []Step
	out = append(out, Step{Kind: StepInstall, Solv: sid})
	for sid2 := types.Id(1); sid2 < types.Id(p.SolvableCount()); sid2++ {
		if !installed.Test(sid2) {
			continue
		}
		for _, dep := range p.DepList(p.Solvable(sid).Obsoletes) {
			if obsoletesMatches(p, dep, sid2) {
				out = append(out, Step{Kind: StepObsolete, Solv: sid, Replace: sid2})
			}
		}
	}
	return out
}

func obsoletesMatches(p *pool.Pool, dep types.Id, candidate types.Id) bool {
	if p.IsRel(dep) {
		return p.RelInfo(dep).Name == p.Solvable(candidate).Name
	}
	return dep == p.Solvable(candidate).Name
}
