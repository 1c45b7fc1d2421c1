package sat

import (
	"context"
	"fmt"
)

// Result is the outcome of a Solve call.
type Result struct {
	Satisfiable bool
	Model       []bool // Model[v] is the truth value assigned to variable v, 1-indexed (Model[0] unused)
	Conflicts   int
	Decisions   int
	Restarts    int
	Learnts     int
	// UnsatCore, when !Satisfiable, holds the indices into the original
	// (non-learnt) clause list that participated in the final conflict,
	// feeding internal/problem's minimal-core extraction.
	UnsatCore []int
}

// ErrCanceled is returned when ctx is canceled mid-search.
var ErrCanceled = fmt.Errorf("sat: search canceled")

// Solve runs CDCL search to completion or cancellation. The decision
// hook (SetDecisionHook) is consulted whenever propagation reaches a
// fixpoint with unassigned variables remaining; if no hook is set, an
// internal first-unassigned/last-polarity fallback is used.
func (e *Engine) Solve(ctx context.Context) (Result, error) {
	if c := e.assertUnitClauses(); c != nil {
		return Result{Satisfiable: false, UnsatCore: e.coreFrom(c)}, nil
	}
	if conflict := e.propagate(); conflict != nil {
		return Result{Satisfiable: false, UnsatCore: e.coreFrom(conflict)}, nil
	}

	conflictsSinceRestart := 0
	restartThreshold := 100

	for {
		select {
		case <-ctx.Done():
			return Result{}, ErrCanceled
		default:
		}

		conflict := e.propagate()
		if conflict != nil {
			e.conflicts++
			conflictsSinceRestart++
			if e.currentLevel() == 0 {
				return Result{
					Satisfiable: false,
					Conflicts:   e.conflicts,
					Decisions:   e.decisions,
					Restarts:    e.restarts,
					Learnts:     e.learnts,
					UnsatCore:   e.coreFrom(conflict),
				}, nil
			}
			learnt, backLevel := e.analyze(conflict)
			e.backtrackTo(backLevel)
			e.addLearntClause(learnt)

			if conflictsSinceRestart >= restartThreshold {
				e.restarts++
				conflictsSinceRestart = 0
				restartThreshold = restartThreshold + restartThreshold/2
				e.backtrackTo(0)
				if c2 := e.propagate(); c2 != nil {
					return Result{Satisfiable: false, UnsatCore: e.coreFrom(c2)}, nil
				}
			}
			continue
		}

		lit, ok := e.decide()
		if !ok {
			return Result{
				Satisfiable: true,
				Model:       e.buildModel(),
				Conflicts:   e.conflicts,
				Decisions:   e.decisions,
				Restarts:    e.restarts,
				Learnts:     e.learnts,
			}, nil
		}
		e.decisions++
		e.newDecisionLevel()
		e.assignTrue(lit, Reason{ClauseIdx: -1})
	}
}

// assertUnitClauses enqueues every single-literal clause as a level-0
// assignment before search begins, detecting a trivial level-0
// conflict between two contradictory assertions. It returns the unit
// clause that contradicts an earlier one, or nil if there is none.
func (e *Engine) assertUnitClauses() *Clause {
	for _, c := range e.clauses {
		if len(c.Lits) != 1 {
			continue
		}
		l := c.Lits[0]
		switch e.value(l) {
		case True:
			continue
		case False:
			return c
		default:
			e.assignTrue(l, Reason{ClauseIdx: c.idx})
		}
	}
	return nil
}

// decide picks the next branching literal via the installed policy
// hook, falling back to "first unassigned variable, last-seen
// polarity" when none is installed (SetDecisionHook is always set in
// production by internal/policy; the fallback exists for unit tests
// that exercise the bare engine).
func (e *Engine) decide() (Lit, bool) {
	if e.onDecide != nil {
		return e.onDecide()
	}
	for v := 1; v <= e.numVars; v++ {
		if e.assign[v] == Unassigned {
			l := Lit(v)
			if !e.polarity[v] {
				l = -l
			}
			return l, true
		}
	}
	return 0, false
}

func (e *Engine) buildModel() []bool {
	model := make([]bool, e.numVars+1)
	for v := 1; v <= e.numVars; v++ {
		model[v] = e.assign[v] == True
	}
	return model
}

// Unassigned reports whether variable v is still undecided, used by the
// branching policy to pick among the undecided variables.
func (e *Engine) Unassigned(v int32) bool { return e.assign[v] == Unassigned }

// Value exposes a variable's current truth value (for policy and
// problem analysis callers outside the package).
func (e *Engine) Value(v int32) VarState { return e.assign[v] }

// NumVars returns the number of Boolean variables the engine was
// built for.
func (e *Engine) NumVars() int { return e.numVars }

// coreFrom walks back from a conflicting clause through reason chains
// to collect every non-learnt clause index touched, a coarse
// over-approximation of the unsat core that internal/problem then
// minimizes further by selectively disabling rules and re-solving.
func (e *Engine) coreFrom(conflict *Clause) []int {
	seenClause := map[int]bool{}
	var core []int
	var walk func(c *Clause)
	walk = func(c *Clause) {
		if c == nil || seenClause[c.idx] {
			return
		}
		seenClause[c.idx] = true
		if !c.Learnt {
			core = append(core, c.idx)
		}
		for _, l := range c.Lits {
			v := l.Var()
			if e.reason[v].ClauseIdx >= 0 {
				walk(e.clauses[e.reason[v].ClauseIdx])
			}
		}
	}
	walk(conflict)
	return core
}
