package pool

import "depcore/internal/types"

// depArena is the flat Id array every solvable's dependency blocks are
// carved out of. Each block is a run of Ids terminated by
// types.IdNull, exactly like libsolv's pool->whatprovidesdata /
// repo->idarraydata: this lets a dependency list be addressed by a
// single Offset instead of an owned slice, and makes the whole arena
// trivially serializable (internal/solvfile writes it verbatim).
type depArena struct {
	data []types.Id
}

func newDepArena() *depArena {
	// Offset 0 is reserved for "no list"; seed a null terminator there.
	return &depArena{data: []types.Id{types.IdNull}}
}

// Append writes ids terminated by IdNull and returns the block's
// Offset. An empty ids returns types.OffsetNone.
func (a *depArena) Append(ids []types.Id) types.Offset {
	if len(ids) == 0 {
		return types.OffsetNone
	}
	off := types.Offset(len(a.data))
	a.data = append(a.data, ids...)
	a.data = append(a.data, types.IdNull)
	return off
}

// Extend appends id to the Null-terminated block at off, relocating it
// to the end of the arena. Used when a block grows incrementally (e.g.
// namespace-provides augmentation during rule generation).
func (a *depArena) Extend(off types.Offset, id types.Id) types.Offset {
	if off == types.OffsetNone {
		return a.Append([]types.Id{id})
	}
	existing := a.Block(off)
	grown := make([]types.Id, len(existing)+1)
	copy(grown, existing)
	grown[len(existing)] = id
	return a.Append(grown)
}

// Block returns the Ids stored at off, excluding the IdNull terminator.
func (a *depArena) Block(off types.Offset) []types.Id {
	if off == types.OffsetNone {
		return nil
	}
	i := int(off)
	j := i
	for a.data[j] != types.IdNull {
		j++
	}
	return a.data[i:j]
}

// raw returns the whole arena verbatim, including block terminators,
// for internal/solvfile to serialize in one shot.
func (a *depArena) raw() []types.Id { return a.data }

// loadRaw replaces the arena with a previously serialized one.
func (a *depArena) loadRaw(data []types.Id) { a.data = append([]types.Id{}, data...) }
