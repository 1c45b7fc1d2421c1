package sat

// analyze performs first-UIP conflict analysis starting from a
// conflicting clause, returning the learnt clause and the level to
// backtrack to. The learnt clause's first literal is always the UIP
// (asserted at the new level after backtracking); the rest are the
// negation of the decision literals that caused the conflict, one per
// involved earlier level.
func (e *Engine) analyze(conflict *Clause) ([]Lit, int) {
	seen := make(map[int32]bool, 16)
	learnt := []Lit{0} // placeholder for the UIP literal, filled below
	counter := 0
	idx := len(e.trail) - 1
	var p Lit
	reasonLits := conflict.Lits

	for {
		for _, q := range reasonLits {
			v := q.Var()
			if seen[v] || e.level[v] == 0 {
				continue
			}
			seen[v] = true
			if e.level[v] == e.currentLevel() {
				counter++
			} else {
				learnt = append(learnt, q)
			}
		}

		for !seen[e.trail[idx].Var()] {
			idx--
		}
		p = e.trail[idx]
		pv := p.Var()
		counter--
		idx--

		if counter == 0 {
			break
		}
		reasonLits = e.clauses[e.reason[pv].ClauseIdx].Lits
	}

	learnt[0] = p.Negate()

	backtrackLevel := 0
	for _, l := range learnt[1:] {
		if lv := e.level[l.Var()]; lv > backtrackLevel {
			backtrackLevel = lv
		}
	}
	return learnt, backtrackLevel
}

// backtrackTo undoes all assignments made at a decision level deeper
// than target, restoring propagated to the trail length at that level.
func (e *Engine) backtrackTo(target int) {
	if target >= e.currentLevel() {
		return
	}
	cut := e.trailLim[target]
	for i := len(e.trail) - 1; i >= cut; i-- {
		v := e.trail[i].Var()
		e.assign[v] = Unassigned
	}
	e.trail = e.trail[:cut]
	e.trailLim = e.trailLim[:target]
	e.propagated = cut
}

// addLearntClause registers a learnt clause and immediately asserts
// its UIP literal (the learnt clause is unit at the post-backtrack
// level by construction).
func (e *Engine) addLearntClause(lits []Lit) {
	c := &Clause{Lits: lits, Learnt: true, idx: len(e.clauses)}
	e.clauses = append(e.clauses, c)
	e.learnts++
	if len(lits) == 1 {
		e.assignTrue(lits[0], Reason{ClauseIdx: c.idx})
		return
	}
	c.Watch = [2]int{0, 1}
	e.watch(c, 0)
	e.watch(c, 1)
	e.assignTrue(lits[0], Reason{ClauseIdx: c.idx})
}
