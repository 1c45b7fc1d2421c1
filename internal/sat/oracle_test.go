package sat

import (
	"context"
	"testing"

	"github.com/crillab/gophersat/solver"
)

// oracleSAT cross-checks the hand-rolled CDCL engine against gophersat
// on small CNF instances. gophersat is not the production solver (this
// package is) — it is kept wired purely as an independent SAT/UNSAT
// oracle, the same role the teacher's apt_solver.go gives it, except
// here it verifies rather than performs the search. See DESIGN.md.
func oracleSAT(clauses [][]int, numVars int) bool {
	problem := solver.ParseSliceNb(clauses, numVars)
	pb := solver.New(problem)
	return pb.Solve() == solver.Sat
}

func toIntClauses(clauseSets [][]Lit) [][]int {
	out := make([][]int, len(clauseSets))
	for i, c := range clauseSets {
		row := make([]int, len(c))
		for j, l := range c {
			row[j] = int(l)
		}
		out[i] = row
	}
	return out
}

func TestOracleAgreesOnSatisfiableInstance(t *testing.T) {
	clauses := [][]Lit{{1, 2}, {-1, 2}, {1, -2}}
	e := NewEngine(2)
	for _, c := range clauses {
		must(t, e.AddClause(c))
	}
	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := oracleSAT(toIntClauses(clauses), 2); got != res.Satisfiable {
		t.Fatalf("oracle disagreement: oracle=%v engine=%v", got, res.Satisfiable)
	}
}

func TestOracleAgreesOnUnsatisfiableInstance(t *testing.T) {
	clauses := [][]Lit{{1}, {-1, 2}, {-2}}
	e := NewEngine(2)
	for _, c := range clauses {
		must(t, e.AddClause(c))
	}
	res, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if got := oracleSAT(toIntClauses(clauses), 2); got != res.Satisfiable {
		t.Fatalf("oracle disagreement: oracle=%v engine=%v", got, res.Satisfiable)
	}
}
