package pool

import "depcore/internal/types"

// RelFlags are the comparison/combinator bits of a Rel triple. Names
// follow libsolv's REL_* constants; RelLT/RelEQ/RelGT carry libsolv's
// values 1/2/4, and each combinator after them is the next single bit
// (RelAnd = 8, RelOr = 16, ...), not libsolv's sequential codes.
type RelFlags uint16

const (
	RelLT RelFlags = 1 << iota
	RelEQ
	RelGT
	RelAnd
	RelOr
	RelWith
	RelWithout
	RelCond
	RelUnless
	RelElse
	RelNamespace
	RelArch
	RelFileconflict
	RelMultiarch
	RelKind
	RelCompat
	RelConda
)

// RelLE / RelGE are the common two-bit combinations used by most
// dependency strings ("pkg >= 1.0").
const (
	RelLE = RelLT | RelEQ
	RelGE = RelGT | RelEQ
	RelNE = RelLT | RelGT
)

// Rel is a relation triple: name OP evr, or (for combinator flags)
// name OP name2 where evr is reused as the second name's Id.
type Rel struct {
	Name  types.Id
	EVR   types.Id
	Flags RelFlags
}

// relPool interns Rel triples the same way stringPool interns strings:
// relations are deduplicated by value so that two identical dependency
// strings ("foo >= 1.0" appearing in two packages) share one Id.
type relPool struct {
	rels   []Rel // index 0 unused (mirrors types.IdNull)
	byRel  map[Rel]types.Id
	strOff types.Id // Ids >= strOff are relations, not plain strings
}

func newRelPool(strOff types.Id) *relPool {
	return &relPool{
		rels:   make([]Rel, 1),
		byRel:  make(map[Rel]types.Id, 256),
		strOff: strOff,
	}
}

// Rel interns a relation triple and returns its Id, offset above the
// string pool's address space so a single Id can be dispatched as
// "string or relation" by comparing against strOff.
func (rp *relPool) Rel(name, evr types.Id, flags RelFlags) types.Id {
	key := Rel{Name: name, EVR: evr, Flags: flags}
	if id, ok := rp.byRel[key]; ok {
		return id
	}
	localID := types.Id(len(rp.rels))
	rp.rels = append(rp.rels, key)
	id := rp.strOff + localID
	rp.byRel[key] = id
	return id
}

// IsRel reports whether id refers to a relation rather than a plain
// interned string.
func (rp *relPool) IsRel(id types.Id) bool {
	return id >= rp.strOff
}

// Get returns the Rel triple for a relation Id. Callers must check
// IsRel first.
func (rp *relPool) Get(id types.Id) Rel {
	return rp.rels[id-rp.strOff]
}

// raw returns the backing relation table verbatim (index 0 is the
// unused placeholder mirroring types.IdNull), for internal/solvfile.
func (rp *relPool) raw() []Rel { return rp.rels }

// loadRaw replaces the relation table with previously serialized
// triples, rebuilding the dedup map.
func (rp *relPool) loadRaw(rels []Rel, strOff types.Id) {
	rp.rels = append([]Rel{}, rels...)
	rp.strOff = strOff
	rp.byRel = make(map[Rel]types.Id, len(rels))
	for i, r := range rp.rels {
		if i == 0 {
			continue
		}
		rp.byRel[r] = strOff + types.Id(i)
	}
}
