// Package selection turns user-facing strings ("foo", "foo>=1.0",
// "/usr/bin/foo") into Job queues the rule generator can consume. It
// is grounded on golang-dep's intersectConstraintsWithImports, which
// resolves a flat list of package import paths against a radix tree
// of known project roots via longest-prefix match — the same shape
// this engine uses to resolve a glob/prefix selector against every
// known package name.
package selection

import (
	"strings"

	"github.com/armon/go-radix"

	"depcore/internal/pool"
	"depcore/internal/types"
)

// Engine resolves selector strings against a pool's interned names.
type Engine struct {
	p    *pool.Pool
	tree *radix.Tree
}

// NewEngine builds a radix tree over every name provided by any
// solvable in the pool, for prefix/glob selector matching.
func NewEngine(p *pool.Pool) *Engine {
	e := &Engine{p: p, tree: radix.New()}
	for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
		name := p.StrValue(p.Solvable(sid).Name)
		e.tree.Insert(name, struct{}{})
	}
	return e
}

// Op composes how a new selection combines with an accumulating job
// set, mirroring libsolv's SELECTION_* combinator flags.
type Op int

const (
	OpReplace Op = iota
	OpAdd
	OpSubtract
	OpFilter
)

// Select resolves a single raw selector string into a Job: SelProvides
// when the string is a file path or embeds a version comparator, and
// SelName otherwise. It never produces a SelSolvable job.
func (e *Engine) Select(raw string, jobType types.JobType, flags types.JobFlags) (types.Job, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Job{}, false
	}
	if looksLikeFilePath(raw) {
		return types.Job{Type: jobType, Flags: flags | types.SelProvides, Arg: e.p.Str(raw)}, true
	}
	if name, op, version, ok := splitConstraint(raw); ok {
		relFlags := relFlagsForOp(op)
		rel := e.p.Rel(e.p.Str(name), e.p.Str(version), relFlags)
		return types.Job{Type: jobType, Flags: flags | types.SelProvides, Arg: rel}, true
	}
	return types.Job{Type: jobType, Flags: flags | types.SelName, Arg: e.p.Str(raw)}, true
}

// SelectGlob resolves a prefix/glob selector ("foo*") against every
// known name via the radix tree's prefix walk, returning one SelName
// Job per matching name. It returns no Op; callers fold the jobs into a
// running job list with Compose.
func (e *Engine) SelectGlob(prefix string, jobType types.JobType, flags types.JobFlags) []types.Job {
	prefix = strings.TrimSuffix(prefix, "*")
	var jobs []types.Job
	e.tree.WalkPrefix(prefix, func(name string, _ interface{}) bool {
		jobs = append(jobs, types.Job{Type: jobType, Flags: flags | types.SelName, Arg: e.p.Str(name)})
		return false
	})
	return jobs
}

// Compose folds `next` into `acc` under op, the selector composition
// algebra from spec.md §4.7 (REPLACE/ADD/SUBTRACT/FILTER).
func Compose(acc []types.Job, next []types.Job, op Op) []types.Job {
	switch op {
	case OpReplace:
		return append([]types.Job{}, next...)
	case OpAdd:
		return append(append([]types.Job{}, acc...), next...)
	case OpSubtract:
		drop := make(map[types.Id]bool, len(next))
		for _, j := range next {
			drop[j.Arg] = true
		}
		out := make([]types.Job, 0, len(acc))
		for _, j := range acc {
			if !drop[j.Arg] {
				out = append(out, j)
			}
		}
		return out
	case OpFilter:
		keep := make(map[types.Id]bool, len(next))
		for _, j := range next {
			keep[j.Arg] = true
		}
		out := make([]types.Job, 0, len(acc))
		for _, j := range acc {
			if keep[j.Arg] {
				out = append(out, j)
			}
		}
		return out
	default:
		return acc
	}
}

func looksLikeFilePath(s string) bool {
	return strings.HasPrefix(s, "/")
}

var constraintOps = []string{">=", "<=", "==", "!=", "~=", "=", ">", "<"}

// splitConstraint splits "name>=1.0" into ("name", ">=", "1.0"). Order
// matters: multi-char operators must be tried before their single-char
// prefixes, the same guard golang-dep and the teacher's
// ParseConstraint both apply.
func splitConstraint(raw string) (name, op, version string, ok bool) {
	for _, tok := range constraintOps {
		if idx := strings.Index(raw, tok); idx > 0 {
			return strings.TrimSpace(raw[:idx]), tok, strings.TrimSpace(raw[idx+len(tok):]), true
		}
	}
	return "", "", "", false
}

func relFlagsForOp(op string) pool.RelFlags {
	switch op {
	case ">=":
		return pool.RelGE
	case "<=":
		return pool.RelLE
	case "==", "=":
		return pool.RelEQ
	case "!=":
		return pool.RelNE
	case ">":
		return pool.RelGT
	case "<":
		return pool.RelLT
	case "~=":
		return pool.RelGE
	default:
		return pool.RelEQ
	}
}
