package app

import "depcore/internal/types"

// SolveRequest names the pool cache entry to operate on, the jobs to
// resolve, and the mountpoints to aggregate disk usage against.
type SolveRequest struct {
	Jobs        []types.Job
	Mountpoints []string
	// CacheKey, if set, writes the resulting pool snapshot back to the
	// pool cache under this key once the solve succeeds.
	CacheKey string
}

// SolveResult mirrors solve.Outcome but in the shape a CLI command
// renders directly: exactly one of Plan or Problem is set.
type SolveResult struct {
	Plan    *PlanView
	Problem *ProblemView
}

// PlanView is the transaction plan a successful solve produced.
type PlanView struct {
	StepCount int
	Order     []int
	Cycles    int
	DiskUsage map[string]int64
}

// ProblemView is the unsatisfiability report a failed solve produced.
type ProblemView struct {
	CoreRuleSeqs    []int
	SolutionCount   int
	SolutionDetails []string
}

// OrderedStepView names one applied step in its final ordering
// position, resolving its solvable Id to a printable name.
type OrderedStepView struct {
	Name string
	Kind string
}

// CycleView reports one dependency cycle that had to be broken to
// produce a linear ordering, and which edge was cut to break it.
type CycleView struct {
	Steps    []string
	Severity string
	CutFrom  string
	CutTo    string
}

// OrderResult is the full ordering the transaction plan was built
// into: the steps in application order, plus every cycle broken to
// get there.
type OrderResult struct {
	Steps  []OrderedStepView
	Cycles []CycleView
}

// WhyResult explains why a solve request failed to find a consistent
// set of packages: the minimal core of conflicting rules and the
// concrete ways a caller could resolve it.
type WhyResult struct {
	Satisfiable bool
	Problem     *ProblemView
}

// TestcaseRunRequest names a ".t" fixture file to parse, build into a
// pool, and solve against its own embedded jobs.
type TestcaseRunRequest struct {
	Path       string
	NativeArch string
}

// TestcaseRunResult reports whether a fixture's embedded jobs solved
// the way its "result" statements expect.
type TestcaseRunResult struct {
	Solved   bool
	Mismatch []string
	SolveResult
}

// PoolDumpRequest names a pool cache key to serialize to a ".solv"
// file on disk.
type PoolDumpRequest struct {
	CacheKey string
	DestPath string
}

// PoolLoadRequest names a ".solv" file to read; the loaded pool
// replaces the service's working pool and, when CacheKey is set, is
// also stored in the pool cache under that key.
type PoolLoadRequest struct {
	SrcPath  string
	CacheKey string
}
