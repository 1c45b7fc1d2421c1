package rules

import "depcore/internal/types"

// literalArena stores n-ary rules' literal lists, Null-terminated the
// same way internal/pool's dependency arena is. It is a separate arena
// from the pool's because rule literals are signed (negative = NOT)
// while dependency Ids never are.
type literalArena struct {
	data []types.Id
}

func newLiteralArena() *literalArena {
	return &literalArena{data: []types.Id{types.IdNull}}
}

func (a *literalArena) Append(lits []types.Id) types.Offset {
	off := types.Offset(len(a.data))
	a.data = append(a.data, lits...)
	a.data = append(a.data, types.IdNull)
	return off
}

func (a *literalArena) Block(off types.Offset) []types.Id {
	if off < 0 {
		off = decodeDisabled(off)
	}
	i := int(off)
	j := i
	for a.data[j] != types.IdNull {
		j++
	}
	return a.data[i:j]
}
