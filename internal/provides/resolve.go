package provides

import (
	"depcore/internal/pool"
	"depcore/internal/types"
)

// WhatProvides resolves any dependency Id — a plain name or a relation
// of arbitrary shape — to the solvables that satisfy it. Relation
// results are cached per Id since rule generation re-resolves the same
// dependency across every solvable that requires it.
func (idx *Index) WhatProvides(dep types.Id) []types.Id {
	if !idx.p.IsRel(dep) {
		return idx.WhatProvidesName(dep)
	}
	if cached, ok := idx.relCache[dep]; ok {
		return cached
	}
	result := idx.resolveRel(dep)
	idx.relCache[dep] = result
	return result
}

func (idx *Index) resolveRel(dep types.Id) []types.Id {
	rel := idx.p.RelInfo(dep)

	switch {
	case rel.Flags&pool.RelNamespace != 0:
		return idx.resolveNamespace(rel)
	case rel.Flags&pool.RelAnd != 0:
		return intersect(idx.WhatProvides(rel.Name), idx.WhatProvides(rel.EVR))
	case rel.Flags&pool.RelOr != 0:
		return union(idx.WhatProvides(rel.Name), idx.WhatProvides(rel.EVR))
	case rel.Flags&pool.RelWith != 0:
		return intersect(idx.WhatProvides(rel.Name), idx.WhatProvides(rel.EVR))
	case rel.Flags&pool.RelWithout != 0:
		return subtract(idx.WhatProvides(rel.Name), idx.WhatProvides(rel.EVR))
	case rel.Flags&pool.RelCond != 0:
		// "A if B" : if B has no providers the condition is vacuously
		// satisfied by everything, mirroring libsolv's COND handling.
		if len(idx.WhatProvides(rel.EVR)) == 0 {
			return allSolvables(idx.p)
		}
		return idx.WhatProvides(rel.Name)
	case rel.Flags&pool.RelUnless != 0:
		if len(idx.WhatProvides(rel.EVR)) == 0 {
			return idx.WhatProvides(rel.Name)
		}
		return nil
	case rel.Flags&pool.RelElse != 0:
		if providers := idx.WhatProvides(rel.Name); len(providers) > 0 {
			return providers
		}
		return idx.WhatProvides(rel.EVR)
	case rel.Flags&pool.RelArch != 0:
		return idx.filterArch(idx.WhatProvides(rel.Name), idx.p.StrValue(rel.EVR))
	case rel.Flags&pool.RelKind != 0:
		return idx.filterKind(idx.WhatProvides(rel.Name), rel.EVR)
	case rel.Flags&pool.RelFileconflict != 0:
		// File-conflict relations pass through to plain name
		// resolution; conflict detection itself lives in
		// internal/rules, which inspects the dep list directly.
		return idx.WhatProvides(rel.Name)
	case rel.Flags&pool.RelMultiarch != 0, rel.Flags&pool.RelCompat != 0, rel.Flags&pool.RelConda != 0:
		return idx.WhatProvides(rel.Name)
	default:
		return idx.filterVersion(idx.WhatProvidesName(rel.Name), rel)
	}
}

// filterVersion keeps only the candidates whose own EVR satisfies the
// relation's comparator against rel.EVR, dispatched through the
// candidate's owning repo's VersionScheme.
func (idx *Index) filterVersion(candidates []types.Id, rel pool.Rel) []types.Id {
	if rel.Flags&(pool.RelLT|pool.RelEQ|pool.RelGT) == 0 {
		return candidates
	}
	wantEVR := idx.p.StrValue(rel.EVR)
	var out []types.Id
	for _, sid := range candidates {
		sv := idx.p.Solvable(sid)
		scheme := idx.p.Scheme(sv.Repo)
		ok, err := scheme.Satisfies(idx.p.StrValue(sv.EVR), rel.Flags, wantEVR)
		if err == nil && ok {
			out = append(out, sid)
		}
	}
	return out
}

func (idx *Index) filterArch(candidates []types.Id, arch string) []types.Id {
	var out []types.Id
	for _, sid := range candidates {
		sv := idx.p.Solvable(sid)
		if idx.p.StrValue(sv.Arch) == arch {
			out = append(out, sid)
		}
	}
	return out
}

func (idx *Index) filterKind(candidates []types.Id, kind types.Id) []types.Id {
	// Kind filtering (package vs. pattern vs. product, in libsolv's
	// sense) isn't modeled as a separate Solvable field in this core;
	// treat it as a no-op filter rather than dropping every candidate.
	_ = kind
	return candidates
}

func (idx *Index) resolveNamespace(rel pool.Rel) []types.Id {
	cb := idx.p.NamespaceCallback()
	if cb == nil {
		return nil
	}
	return cb(idx.p, rel.Name, rel.EVR)
}

func allSolvables(p *pool.Pool) []types.Id {
	out := make([]types.Id, 0, p.SolvableCount()-1)
	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		out = append(out, sid)
	}
	return out
}

func intersect(a, b []types.Id) []types.Id {
	set := make(map[types.Id]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	var out []types.Id
	for _, id := range a {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func union(a, b []types.Id) []types.Id {
	seen := make(map[types.Id]bool, len(a)+len(b))
	var out []types.Id
	for _, id := range append(append([]types.Id{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func subtract(a, b []types.Id) []types.Id {
	set := make(map[types.Id]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	var out []types.Id
	for _, id := range a {
		if !set[id] {
			out = append(out, id)
		}
	}
	return out
}
