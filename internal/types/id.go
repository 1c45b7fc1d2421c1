// Package types holds the small, dependency-free value types shared
// across the solver core: Id, Offset, Queue, and the dense bitmap.
package types

// Id is a dense handle into a Pool: a string, a relation, or a
// solvable, depending on which table it indexes. Ids are never
// negative in their stored form; a negative Id on a Queue/trail entry
// means "this literal decided false" (see internal/sat).
type Id int32

// Reserved Ids, stable across every pool.
const (
	IdNull      Id = 0
	IdEmpty     Id = 1 // empty string
	IdNoArch    Id = 2
	IdSrc       Id = 3
	IdNoSrc     Id = 4
	IdFirstUser Id = 5
)

// Offset indexes into a Pool-owned flat Id arena (a repo's dependency
// lists, or the provides index's provider lists). It is never a
// pointer so arenas can be serialized and reloaded verbatim.
type Offset int32

// OffsetNone marks "no list" (an empty/absent dependency block).
const OffsetNone Offset = 0
