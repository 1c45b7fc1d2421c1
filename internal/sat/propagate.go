package sat

// propagate runs unit propagation to fixpoint. It returns the
// conflicting clause, or nil if propagation reached a fixpoint with no
// conflict. Watches are updated in place using the standard
// two-watched-literal trick: a clause only needs attention when one of
// its two watched literals becomes false.
func (e *Engine) propagate() *Clause {
	for e.propagated < len(e.trail) {
		l := e.trail[e.propagated]
		e.propagated++
		falseLit := l.Negate()

		watchers := e.watches[l]
		kept := watchers[:0]
		for i := 0; i < len(watchers); i++ {
			c := watchers[i]
			if c.Removed {
				continue
			}
			if conflict := e.propagateClause(c, falseLit, &kept); conflict {
				// Re-append the remaining, not-yet-examined watchers
				// before returning so engine state stays consistent if
				// the caller decides to keep searching (it won't, but
				// correctness shouldn't depend on that).
				kept = append(kept, watchers[i+1:]...)
				e.watches[l] = kept
				return c
			}
		}
		e.watches[l] = kept
	}
	return nil
}

// propagateClause re-establishes c's watch invariant after falseLit
// (one of its two watched literals) became false. It returns true if
// c is now a conflict (no replacement watch and the other watch is
// also false), and appends c back into *kept when it should keep
// watching falseLit.
func (e *Engine) propagateClause(c *Clause, falseLit Lit, kept *[]*Clause) bool {
	// Ensure Watch[0] is the slot that just went false so Watch[1]
	// always holds "the other one" below.
	if c.Lits[c.Watch[0]] != falseLit {
		c.Watch[0], c.Watch[1] = c.Watch[1], c.Watch[0]
	}

	other := c.Lits[c.Watch[1]]
	if e.value(other) == True {
		// Clause already satisfied by its other watch; keep watching.
		*kept = append(*kept, c)
		return false
	}

	// Look for a new literal to watch among the non-watched ones.
	for i := range c.Lits {
		if i == c.Watch[0] || i == c.Watch[1] {
			continue
		}
		if e.value(c.Lits[i]) != False {
			c.Watch[0] = i
			e.watches[c.Lits[i].Negate()] = append(e.watches[c.Lits[i].Negate()], c)
			return false
		}
	}

	// No replacement watch found: c is unit under `other`, or a
	// conflict if `other` is already false.
	*kept = append(*kept, c)
	if e.value(other) == False {
		return true
	}
	e.assignTrue(other, Reason{ClauseIdx: c.idx})
	return false
}
