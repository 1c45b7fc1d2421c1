package pool

import "depcore/internal/types"

// Solvable is one package instance in the pool: a (name, evr, arch)
// triple plus its dependency blocks, each stored as an Offset into the
// pool's shared dep arena rather than an owned slice, so whole repos
// can be serialized/discarded as a unit (see internal/solvfile).
type Solvable struct {
	Name   types.Id
	EVR    types.Id
	Arch   types.Id
	Vendor types.Id
	Repo   RepoId

	Provides    types.Offset
	Requires    types.Offset
	Conflicts   types.Offset
	Obsoletes   types.Offset
	Recommends  types.Offset
	Suggests    types.Offset
	Supplements types.Offset
	Enhances    types.Offset

	// PrereqIgnoreinst holds requires that must be satisfied before
	// install order, but are ignored when only checking "is this
	// solvable installable" (libsolv's SOLVABLE_PREREQ_IGNOREINST).
	PrereqIgnoreinst types.Offset
}

// RepoId indexes a Pool's repo table.
type RepoId int32

// Repo groups solvables under one priority/scheme/name. A pool
// typically holds one "installed" repo plus any number of source
// repos consulted during the solve.
type Repo struct {
	Name     string
	Priority int
	Scheme   Scheme
	Start    types.Id // first Solvable Id belonging to this repo
	End      types.Id // one past the last Solvable Id (exclusive)
}

// Contains reports whether s belongs to this repo's Id range.
func (r Repo) Contains(s types.Id) bool {
	return s >= r.Start && s < r.End
}
