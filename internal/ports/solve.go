package ports

import (
	"context"

	"depcore/internal/solve"
	"depcore/internal/types"
)

// SolverPort runs one end-to-end solve over a pool, returning either
// a transaction plan or an unsatisfiability report.
type SolverPort interface {
	Solve(ctx context.Context, jobs []types.Job, mountpoints []string) (solve.Outcome, error)
}
