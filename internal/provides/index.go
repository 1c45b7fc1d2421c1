// Package provides implements the solver's whatprovides index: the
// mapping from an interned name/relation Id to the solvables that
// satisfy it. It is built in two passes (count, then fill) exactly as
// libsolv's pool_createwhatprovides does, so a repo of any size gets
// one allocation per table instead of N incremental growths.
package provides

import (
	"depcore/internal/pool"
	"depcore/internal/types"
)

// Index is the built whatprovides table. It is immutable once built;
// a pool mutation (adding a repo) requires a rebuild, matching
// libsolv's own invalidate-and-rebuild contract.
type Index struct {
	p *pool.Pool

	// offsets[nameId] is the Offset into data where that name's
	// provider list starts; data is Null-terminated per name.
	offsets map[types.Id]types.Offset
	data    []types.Id

	relCache map[types.Id][]types.Id
}

// Build constructs a whatprovides index over every solvable in pool.
func Build(p *pool.Pool) *Index {
	idx := &Index{p: p, offsets: map[types.Id]types.Offset{}, relCache: map[types.Id][]types.Id{}}
	idx.build()
	return idx
}

func (idx *Index) build() {
	// Pass 1: count providers per name, so pass 2 writes each solvable
	// Id exactly once into pre-sized per-name runs rather than
	// repeatedly reallocating individual slices.
	counts := map[types.Id]int{}
	for sid := types.Id(1); sid < types.Id(idx.p.SolvableCount()); sid++ {
		for _, name := range idx.providerNames(sid) {
			counts[name]++
		}
	}

	// Lay out each name's run contiguously in idx.data, one IdNull
	// terminator per run, mirroring pool->whatprovidesdata's layout.
	order := make([]types.Id, 0, len(counts))
	for name := range counts {
		order = append(order, name)
	}
	cursor := make(map[types.Id]int, len(order))
	idx.data = make([]types.Id, 1, sumCounts(counts)+len(counts)+1)
	idx.data[0] = types.IdNull
	for _, name := range order {
		off := types.Offset(len(idx.data))
		idx.offsets[name] = off
		cursor[name] = len(idx.data)
		n := counts[name]
		idx.data = append(idx.data, make([]types.Id, n+1)...)
		idx.data[cursor[name]+n] = types.IdNull
	}

	// Pass 2: fill, one monotonically advancing write cursor per name.
	write := make(map[types.Id]int, len(order))
	for name, c := range cursor {
		write[name] = c
	}
	for sid := types.Id(1); sid < types.Id(idx.p.SolvableCount()); sid++ {
		for _, name := range idx.providerNames(sid) {
			w := write[name]
			idx.data[w] = sid
			write[name] = w + 1
		}
	}
}

func sumCounts(m map[types.Id]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// providerNames returns every name (and, for file-like provides, every
// alias) that solvable sid provides, deduplicated.
func (idx *Index) providerNames(sid types.Id) []types.Id {
	sv := idx.p.Solvable(sid)
	seen := map[types.Id]bool{}
	var out []types.Id
	add := func(id types.Id) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(sv.Name)
	for _, id := range idx.p.DepList(sv.Provides) {
		if idx.p.IsRel(id) {
			add(idx.p.RelInfo(id).Name)
			continue
		}
		add(id)
	}
	return out
}

// WhatProvidesName returns every solvable that provides the plain
// name id, without relation filtering.
func (idx *Index) WhatProvidesName(name types.Id) []types.Id {
	off, ok := idx.offsets[name]
	if !ok {
		return idx.fileProvides(name)
	}
	return idx.block(off)
}

func (idx *Index) block(off types.Offset) []types.Id {
	i := int(off)
	j := i
	for idx.data[j] != types.IdNull {
		j++
	}
	return idx.data[i:j]
}

// fileProvides lazily resolves a file-path-shaped name against
// installed file lists. Real file-provides data isn't modeled in this
// core (no filesystem package-content index), so this returns nil for
// every name, file-shaped or not.
func (idx *Index) fileProvides(name types.Id) []types.Id {
	if !looksLikeFilePath(idx.p.StrValue(name)) {
		return nil
	}
	return nil
}

func looksLikeFilePath(s string) bool {
	return len(s) > 0 && s[0] == '/'
}
