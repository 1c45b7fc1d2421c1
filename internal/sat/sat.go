// Package sat implements the CDCL engine: two-watched-literal unit
// propagation, first-UIP conflict analysis, learnt-clause storage,
// non-chronological backtracking, and restarts. It consumes the
// clause set built by internal/rules and is otherwise independent of
// the package-management domain — literals are plain signed ints.
package sat

import "fmt"

// Lit is a signed literal: a positive variable Id asserts true,
// negative asserts false. Variable 0 is reserved/unused so literal
// arithmetic (negation, indexing) never collides with the zero value.
type Lit int32

func (l Lit) Var() int32 {
	if l < 0 {
		return int32(-l)
	}
	return int32(l)
}

func (l Lit) Sign() bool { return l < 0 } // true means negated

func (l Lit) Negate() Lit { return -l }

// Clause is one CNF clause over Lits, with the two watched positions
// tracked by index into Lits rather than by literal value, so swapping
// watches during propagation is an O(1) slice-index update.
type Clause struct {
	Lits    []Lit
	Learnt  bool
	Watch   [2]int // indices into Lits currently being watched
	Removed bool
	idx     int // position in Engine.clauses, set at registration time
}

// VarState is a variable's current assignment in the trail.
type VarState int8

const (
	Unassigned VarState = 0
	True       VarState = 1
	False      VarState = 2
)

// Reason identifies why a literal was forced true: either a decision
// (no reason, Level > 0 and ClauseIdx == -1) or unit propagation
// from a specific clause.
type Reason struct {
	ClauseIdx int // -1 for a decision or an assumption
}

// Engine is one CDCL solve over a fixed variable count. It is not
// safe for concurrent use; callers needing parallel search should
// construct independent Engines.
type Engine struct {
	numVars int

	clauses []*Clause
	watches map[Lit][]*Clause // watches[l] = clauses watching l.Negate(), visited when l becomes true

	assign   []VarState // 1-indexed by variable
	level    []int      // decision level each variable was assigned at
	reason   []Reason
	trail    []Lit
	trailLim []int // trail length at the start of each decision level

	polarity []bool // phase-saving: last assigned polarity per variable

	propagated int // index into trail of the next literal to propagate

	conflicts  int
	decisions  int
	restarts   int
	learnts    int
	maxLearnts int

	onDecide func() (Lit, bool) // branching policy hook (internal/policy)
}

// NewEngine allocates an engine for numVars Boolean variables (Ids
// 1..numVars).
func NewEngine(numVars int) *Engine {
	return &Engine{
		numVars:    numVars,
		watches:    make(map[Lit][]*Clause, numVars*2),
		assign:     make([]VarState, numVars+1),
		level:      make([]int, numVars+1),
		reason:     make([]Reason, numVars+1),
		polarity:   make([]bool, numVars+1),
		maxLearnts: 256,
	}
}

// SetDecisionHook installs the branching policy used whenever the
// engine must pick a new decision literal. It is called with no
// arguments conceptually but Go requires the closure to capture engine
// state; see internal/policy for the Lit-returning adapter.
func (e *Engine) SetDecisionHook(hook func() (Lit, bool)) { e.onDecide = hook }

// AddClause registers a clause before solving begins (no incremental
// clause addition mid-search beyond learnt clauses). A clause with a
// single literal is recorded as an immediate assertion rather than a
// two-watch clause, since one watch is meaningless.
func (e *Engine) AddClause(lits []Lit) error {
	if len(lits) == 0 {
		return fmt.Errorf("sat: empty clause is trivially unsatisfiable")
	}
	c := &Clause{Lits: append([]Lit{}, lits...), idx: len(e.clauses)}
	e.clauses = append(e.clauses, c)
	if len(c.Lits) == 1 {
		// Treat unit clauses as level-0 assertions, enqueued for the
		// first propagation round rather than watched.
		return nil
	}
	c.Watch = [2]int{0, 1}
	e.watch(c, 0)
	e.watch(c, 1)
	return nil
}

func (e *Engine) watch(c *Clause, pos int) {
	l := c.Lits[c.Watch[pos]]
	e.watches[l.Negate()] = append(e.watches[l.Negate()], c)
	_ = l
}

func (e *Engine) value(l Lit) VarState {
	v := e.assign[l.Var()]
	if v == Unassigned {
		return Unassigned
	}
	if l.Sign() {
		if v == True {
			return False
		}
		return True
	}
	return v
}

func (e *Engine) level0() int { return len(e.trailLim) }

func (e *Engine) assignTrue(l Lit, reason Reason) {
	v := l.Var()
	if l.Sign() {
		e.assign[v] = False
	} else {
		e.assign[v] = True
	}
	e.level[v] = e.level0()
	e.reason[v] = reason
	e.polarity[v] = !l.Sign()
	e.trail = append(e.trail, l)
}

func (e *Engine) newDecisionLevel() {
	e.trailLim = append(e.trailLim, len(e.trail))
}

func (e *Engine) currentLevel() int { return len(e.trailLim) }
