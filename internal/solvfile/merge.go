package solvfile

import (
	"depcore/internal/pool"
	"depcore/internal/types"
)

// Merge copies every repo and solvable from src into dst, renaming
// src's Ids into dst's address space via an idmap exactly as spec.md
// §6 requires ("reading a .solv must yield Ids that are stable
// relative to the file's own header; combining files is done via an
// idmap"). It returns the built idmap (src Id -> dst Id) for callers
// that need to translate additional out-of-band references (e.g. a
// job queue parsed against src).
func Merge(dst *pool.Pool, src *pool.Pool) map[types.Id]types.Id {
	idmap := map[types.Id]types.Id{
		types.IdNull:   types.IdNull,
		types.IdEmpty:  types.IdEmpty,
		types.IdNoArch: types.IdNoArch,
		types.IdSrc:    types.IdSrc,
		types.IdNoSrc:  types.IdNoSrc,
	}

	srcSnap := src.Snapshot()

	// Strings: every src string Id from IdFirstUser on gets interned
	// into dst, deduping against anything dst already knows. The
	// reserved Ids below IdFirstUser are skipped; idmap already maps
	// them to themselves.
	for i := int(types.IdFirstUser); i < len(srcSnap.Strings); i++ {
		srcID := types.Id(i)
		idmap[srcID] = dst.Str(srcSnap.Strings[i])
	}

	// Relations: src's rel table is addressed by Ids >= its own string
	// count; remapping each in increasing order is safe because a
	// relation can only reference strings or earlier relations (the
	// referenced Id must already have existed when the relation was
	// originally interned).
	srcStrOff := types.Id(len(srcSnap.Strings))
	for i := 1; i < len(srcSnap.Rels); i++ {
		r := srcSnap.Rels[i]
		srcID := srcStrOff + types.Id(i)
		idmap[srcID] = dst.Rel(remapID(idmap, r.Name), remapID(idmap, r.EVR), r.Flags)
	}

	// Repos and solvables: every src repo becomes a new dst repo (no
	// attempt to merge same-named repos across files, matching
	// libsolv's own "each repo keeps its identity" semantics), and
	// every solvable is re-added with its scalar fields and dependency
	// blocks translated through idmap.
	for _, repo := range srcSnap.Repos {
		dstRepo := dst.AddRepo(repo.Name, repo.Priority, repo.Scheme)
		for sid := repo.Start; sid < repo.End; sid++ {
			newSID, err := dst.AddSolvable(dstRepo)
			if err != nil {
				continue
			}
			sv := src.Solvable(sid)
			dsv := dst.Solvable(newSID)
			dsv.Name = remapID(idmap, sv.Name)
			dsv.EVR = remapID(idmap, sv.EVR)
			dsv.Arch = remapID(idmap, sv.Arch)
			dsv.Vendor = remapID(idmap, sv.Vendor)
			dst.SetDeps(&dsv.Provides, remapList(idmap, src.DepList(sv.Provides)))
			dst.SetDeps(&dsv.Requires, remapList(idmap, src.DepList(sv.Requires)))
			dst.SetDeps(&dsv.Conflicts, remapList(idmap, src.DepList(sv.Conflicts)))
			dst.SetDeps(&dsv.Obsoletes, remapList(idmap, src.DepList(sv.Obsoletes)))
			dst.SetDeps(&dsv.Recommends, remapList(idmap, src.DepList(sv.Recommends)))
			dst.SetDeps(&dsv.Suggests, remapList(idmap, src.DepList(sv.Suggests)))
			dst.SetDeps(&dsv.Supplements, remapList(idmap, src.DepList(sv.Supplements)))
			dst.SetDeps(&dsv.Enhances, remapList(idmap, src.DepList(sv.Enhances)))
			dst.SetDeps(&dsv.PrereqIgnoreinst, remapList(idmap, src.DepList(sv.PrereqIgnoreinst)))
		}
	}

	return idmap
}

func remapID(idmap map[types.Id]types.Id, id types.Id) types.Id {
	if id == types.IdNull {
		return types.IdNull
	}
	if mapped, ok := idmap[id]; ok {
		return mapped
	}
	return id
}

func remapList(idmap map[types.Id]types.Id, ids []types.Id) []types.Id {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.Id, len(ids))
	for i, id := range ids {
		out[i] = remapID(idmap, id)
	}
	return out
}
