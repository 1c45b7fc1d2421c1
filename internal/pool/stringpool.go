// Package pool implements the solver's central interning pool: strings,
// relations, solvables, repos, and the per-scheme version comparator.
// It mirrors the teacher's internal/core layer in shape (small,
// cache-backed lookup helpers wrapped around a couple of maps) while
// carrying a domain model the teacher never had to: an Id-indexed
// package universe rather than a flat Dependency/Constraint list.
package pool

import "depcore/internal/types"

// stringPool interns strings into dense Ids. Every Pool embeds one;
// it is the foundation every other table (relations, solvable names,
// dep lists) is built on, exactly as libsolv's pool.c builds pool->ss
// before anything else.
type stringPool struct {
	strings []string
	byValue map[string]types.Id
}

func newStringPool() *stringPool {
	sp := &stringPool{
		strings: make([]string, types.IdFirstUser),
		byValue: make(map[string]types.Id, 1024),
	}
	sp.strings[types.IdNull] = ""
	sp.strings[types.IdEmpty] = ""
	sp.strings[types.IdNoArch] = "noarch"
	sp.strings[types.IdSrc] = "src"
	sp.strings[types.IdNoSrc] = "nosrc"
	sp.byValue[""] = types.IdEmpty
	sp.byValue["noarch"] = types.IdNoArch
	sp.byValue["src"] = types.IdSrc
	sp.byValue["nosrc"] = types.IdNoSrc
	return sp
}

// Str returns the interned Id for s, creating a new entry if s has not
// been seen before.
func (sp *stringPool) Str(s string) types.Id {
	if id, ok := sp.byValue[s]; ok {
		return id
	}
	id := types.Id(len(sp.strings))
	sp.strings = append(sp.strings, s)
	sp.byValue[s] = id
	return id
}

// StrIfExists returns the Id for s without interning, and false if s
// was never seen. It never grows the pool; nothing in the repository
// calls it.
func (sp *stringPool) StrIfExists(s string) (types.Id, bool) {
	id, ok := sp.byValue[s]
	return id, ok
}

// Value returns the string for an interned Id.
func (sp *stringPool) Value(id types.Id) string {
	return sp.strings[id]
}

func (sp *stringPool) count() int { return len(sp.strings) }

// raw returns the backing string arena verbatim, for internal/solvfile
// to serialize without re-deriving the well-known seeded Ids.
func (sp *stringPool) raw() []string { return sp.strings }

// loadRaw replaces the arena with previously serialized strings,
// rebuilding the reverse lookup map (used when reading a .solv file).
func (sp *stringPool) loadRaw(strings []string) {
	sp.strings = append([]string{}, strings...)
	sp.byValue = make(map[string]types.Id, len(strings))
	for id, s := range sp.strings {
		sp.byValue[s] = types.Id(id)
	}
}
