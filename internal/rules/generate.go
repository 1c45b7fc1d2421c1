package rules

import (
	"depcore/internal/pool"
	"depcore/internal/provides"
	"depcore/internal/types"
)

// Set is the full generated rule base for one solve: package rules
// (requires/conflicts/obsoletes/...), job rules, and the update/
// distupgrade rules steering the installed-repo branching policy.
// WeakStart records the rule index at which package-rule generation
// ended; rules after it (update, distupgrade and job rules) are not
// weak by position alone. Which rules are advisory is decided by class
// (ClassPkgRecommends) in internal/solve, not by WeakStart.
type Set struct {
	p    *pool.Pool
	idx  *provides.Index
	lits *literalArena

	rules []Rule
	seen  map[string]int // dedup key -> rule index, libsolv's "unify rules"

	WeakStart int
}

// NewSet starts an empty rule set over p/idx.
func NewSet(p *pool.Pool, idx *provides.Index) *Set {
	return &Set{p: p, idx: idx, lits: newLiteralArena(), seen: map[string]int{}}
}

// Rules returns the generated rules in generation order.
func (s *Set) Rules() []Rule { return s.rules }

// Literals resolves a rule's literal list, handling both the binary
// inline form and the n-ary arena form transparently.
func (s *Set) Literals(r Rule) []types.Id {
	if r.IsBinary() {
		if r.W2 == types.IdNull {
			return []types.Id{r.W1}
		}
		return []types.Id{r.W1, r.W2}
	}
	return s.lits.Block(r.D)
}

// addRule appends a new rule unless an identical literal set was
// already added, in which case the earlier rule's class wins (a
// requires-derived binary rule is more informative than a later
// recommends-derived copy of the same clause).
func (s *Set) addRule(lits []types.Id, class Class) int {
	if len(lits) == 0 {
		return -1
	}
	key := dedupKey(lits)
	if i, ok := s.seen[key]; ok {
		return i
	}
	r := Rule{Class: class, Seq: len(s.rules)}
	if len(lits) == 1 {
		r.W1, r.W2 = lits[0], types.IdNull
		r.P = lits[0]
	} else if len(lits) == 2 {
		r.P, r.W1, r.W2 = lits[0], lits[0], lits[1]
		r.D = types.OffsetNone
	} else {
		r.P = lits[0]
		r.W1, r.W2 = lits[0], lits[1]
		r.D = s.lits.Append(lits)
	}
	idx := len(s.rules)
	s.rules = append(s.rules, r)
	s.seen[key] = idx
	return idx
}

func dedupKey(lits []types.Id) string {
	// Order-independent key: rules over the same literal set regardless
	// of generation order should unify, matching libsolv's
	// policy of treating a rule purely as a set of literals.
	sorted := append([]types.Id{}, lits...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	buf := make([]byte, 0, len(sorted)*5)
	for _, id := range sorted {
		buf = appendVarint(buf, int32(id))
	}
	return string(buf)
}

func appendVarint(buf []byte, v int32) []byte {
	u := uint32(v)
	for u >= 0x80 {
		buf = append(buf, byte(u)|0x80)
		u >>= 7
	}
	return append(buf, byte(u))
}

// not negates a literal (package Id) into its "not installed" form.
func not(id types.Id) types.Id { return -id }
