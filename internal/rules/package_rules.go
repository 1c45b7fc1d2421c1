package rules

import "depcore/internal/types"

// AddPackageRules generates the per-solvable rules: installability,
// requires, conflicts, obsoletes, same-name exclusion, self-conflict,
// and (as weak rules) recommends/constrains. installed marks the
// solvables belonging to the system's installed repo, used to tag
// obsoletes rules as PKG_INSTALLED_OBSOLETES vs plain PKG_OBSOLETES.
// multiversion carries the names a JobMultiversion job marked as
// coexisting, per MultiversionNames; addSameNameRules skips those
// names entirely rather than pairing their solvables off.
func (s *Set) AddPackageRules(installed types.Map, multiversion map[types.Id]bool) {
	for sid := types.Id(1); sid < types.Id(s.p.SolvableCount()); sid++ {
		s.addInstallabilityRule(sid)
		s.addRequiresRules(sid)
		s.addConflictsRules(sid)
		s.addObsoletesRules(sid, installed)
	}
	s.addSameNameRules(multiversion)
	s.WeakStart = len(s.rules)
	for sid := types.Id(1); sid < types.Id(s.p.SolvableCount()); sid++ {
		s.addRecommendsRules(sid)
		s.addConstrainsRules(sid)
	}
}

func (s *Set) addInstallabilityRule(sid types.Id) {
	sv := s.p.Solvable(sid)
	if s.p.ArchScore(s.p.StrValue(sv.Arch)) == types.ArchIncompatible {
		s.addRule([]types.Id{not(sid)}, ClassPkgNotInstallable)
	}
}

func (s *Set) addRequiresRules(sid types.Id) {
	sv := s.p.Solvable(sid)
	for _, dep := range s.p.DepList(sv.Requires) {
		providers := s.idx.WhatProvides(dep)
		if len(providers) == 0 {
			s.addRule([]types.Id{not(sid)}, ClassPkgNothingProvidesDep)
			continue
		}
		lits := make([]types.Id, 0, len(providers)+1)
		lits = append(lits, not(sid))
		lits = append(lits, providers...)
		s.addRule(lits, ClassPkgRequires)
	}
}

func (s *Set) addConflictsRules(sid types.Id) {
	sv := s.p.Solvable(sid)
	for _, dep := range s.p.DepList(sv.Conflicts) {
		for _, other := range s.idx.WhatProvides(dep) {
			if other == sid {
				// A package that conflicts with its own provided name
				// is unsatisfiable outright, not merely paired off
				// against another package.
				s.addRule([]types.Id{not(sid)}, ClassPkgSelfConflict)
				continue
			}
			s.addRule([]types.Id{not(sid), not(other)}, ClassPkgConflicts)
		}
	}
}

func (s *Set) addObsoletesRules(sid types.Id, installed types.Map) {
	sv := s.p.Solvable(sid)
	for _, dep := range s.p.DepList(sv.Obsoletes) {
		for _, other := range s.idx.WhatProvides(dep) {
			if other == sid {
				continue
			}
			class := ClassPkgObsoletes
			if installed.Test(other) {
				class = ClassPkgInstalledObsoletes
			}
			s.addRule([]types.Id{not(sid), not(other)}, class)
		}
	}
}

// addSameNameRules forbids installing two solvables that share a name,
// except for names in multiversion: libsolv never generates the
// same-name rule at all for a multiversion name (there is nothing to
// relax later), so those names are skipped here rather than disabled
// downstream.
func (s *Set) addSameNameRules(multiversion map[types.Id]bool) {
	byName := map[types.Id][]types.Id{}
	for sid := types.Id(1); sid < types.Id(s.p.SolvableCount()); sid++ {
		name := s.p.Solvable(sid).Name
		byName[name] = append(byName[name], sid)
	}
	for name, group := range byName {
		if multiversion[name] {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				s.addRule([]types.Id{not(group[i]), not(group[j])}, ClassPkgSameName)
			}
		}
	}
}

// addRecommendsRules adds a weak "sid implies one-of(recommends)"
// clause: unlike requires, failing to satisfy it never blocks a
// solution, it only loses priority during branching (internal/policy
// inspects ClassPkgRecommends rules directly rather than this
// returning a pass/fail signal).
func (s *Set) addRecommendsRules(sid types.Id) {
	sv := s.p.Solvable(sid)
	for _, dep := range s.p.DepList(sv.Recommends) {
		providers := s.idx.WhatProvides(dep)
		if len(providers) == 0 {
			continue
		}
		lits := make([]types.Id, 0, len(providers)+1)
		lits = append(lits, not(sid))
		lits = append(lits, providers...)
		s.addRule(lits, ClassPkgRecommends)
	}
}

// addConstrainsRules models "supplements"-style constraints: sid may
// only be installed if the constraining dependency is satisfiable by
// something already pulled in for another reason. Implemented as a
// weak requires clause, since no separate supplements/enhances solving
// pass exists in this core (see DESIGN.md).
func (s *Set) addConstrainsRules(sid types.Id) {
	sv := s.p.Solvable(sid)
	for _, dep := range s.p.DepList(sv.Supplements) {
		providers := s.idx.WhatProvides(dep)
		if len(providers) == 0 {
			continue
		}
		lits := make([]types.Id, 0, len(providers)+1)
		lits = append(lits, not(sid))
		lits = append(lits, providers...)
		s.addRule(lits, ClassPkgConstrains)
	}
}
