package testcase

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/selection"
	"depcore/internal/types"
)

// Result is one expected-outcome assertion parsed from a "result"
// statement, left as raw tokens so callers can match whichever shape
// their own fixtures use (step kind, problem/solution counts, ...).
type Result struct {
	Kind string
	Args []string
}

// Built is the materialized pool plus job queue and expectations a
// testcase file describes.
type Built struct {
	Pool      *pool.Pool
	Installed types.Map
	Jobs      []types.Job
	Expected  []Result
	Disabled  []string
	Enabled   []string
	Features  []string
}

var schemeByName = map[string]pool.Scheme{
	"rpm":    pool.SchemeRPM,
	"deb":    pool.SchemeDeb,
	"conda":  pool.SchemeConda,
	"semver": pool.SchemeSemver,
	"haiku":  pool.SchemeHaiku,
}

// Build materializes f into a fresh Pool and job queue. nativeArch and
// log seed the pool the way internal/cli's solve command does; a
// testcase file's own "system" statement is accepted but has no
// effect on the built pool.
func Build(f *File, nativeArch string, log zerolog.Logger) (*Built, error) {
	p := pool.New(nativeArch, log)
	b := &Built{Pool: p}

	var currentRepo pool.RepoId
	haveRepo := false
	byNameEVR := map[string]types.Id{}
	sel := selection.NewEngine(p) // rebuilt lazily below once solvables exist

	for _, st := range f.Statements {
		switch st.Keyword {
		case "":
			continue
		case "system":
			// system <arch> <scheme> — arch informational here, since
			// Build already received nativeArch explicitly; recorded for
			// round-trip fidelity only.
		case "repo":
			if len(st.Args) < 2 {
				return nil, fmt.Errorf("testcase: repo statement needs a name and priority: %v", st.Args)
			}
			priority := 0
			fmt.Sscanf(st.Args[1], "%d", &priority)
			scheme := pool.SchemeRPM
			if len(st.Args) >= 3 {
				if s, ok := schemeByName[st.Args[2]]; ok {
					scheme = s
				}
			}
			currentRepo = p.AddRepo(st.Args[0], priority, scheme)
			haveRepo = true
		case "pool":
			if len(st.Args) >= 2 && st.Args[0] == "installed" {
				for rid := pool.RepoId(0); rid < pool.RepoId(p.RepoCount()); rid++ {
					if p.Repo(rid).Name == st.Args[1] {
						p.SetInstalledRepo(rid)
						break
					}
				}
			}
		case "solvable":
			if !haveRepo {
				return nil, fmt.Errorf("testcase: solvable statement before any repo: %v", st.Args)
			}
			if len(st.Args) < 3 {
				return nil, fmt.Errorf("testcase: solvable needs name, evr, arch: %v", st.Args)
			}
			sid, err := p.AddSolvable(currentRepo)
			if err != nil {
				return nil, fmt.Errorf("testcase: %w", err)
			}
			sv := p.Solvable(sid)
			sv.Name = p.Str(st.Args[0])
			sv.EVR = p.Str(st.Args[1])
			sv.Arch = p.Str(st.Args[2])
			for _, tagged := range st.Args[3:] {
				if err := applyDepField(p, sv, tagged); err != nil {
					return nil, fmt.Errorf("testcase: %w", err)
				}
			}
			byNameEVR[st.Args[0]+"-"+st.Args[1]] = sid
		case "job":
			sel = selection.NewEngine(p)
			job, err := parseJob(p, sel, byNameEVR, st.Args)
			if err != nil {
				return nil, fmt.Errorf("testcase: %w", err)
			}
			b.Jobs = append(b.Jobs, job)
		case "result":
			if len(st.Args) == 0 {
				continue
			}
			b.Expected = append(b.Expected, Result{Kind: st.Args[0], Args: st.Args[1:]})
		case "disable":
			b.Disabled = append(b.Disabled, st.Args...)
		case "enable":
			b.Enabled = append(b.Enabled, st.Args...)
		case "feature":
			b.Features = append(b.Features, st.Args...)
		case "namespace", "nextjob":
			// namespace declarations feed a caller-installed
			// NamespaceCallback rather than pool state directly;
			// nextjob is a pure grouping marker consumed by the caller
			// iterating b.Jobs in batches. Neither needs Build-time
			// action beyond preserving the statement for Write.
		default:
			return nil, fmt.Errorf("testcase: unknown statement keyword %q", st.Keyword)
		}
	}

	b.Installed = types.NewMap(p.SolvableCount())
	if repo, ok := p.InstalledRepo(); ok {
		for sid := types.Id(1); sid < types.Id(p.SolvableCount()); sid++ {
			if p.Solvable(sid).Repo == repo {
				b.Installed.Set(sid)
			}
		}
	}

	return b, nil
}

var depFieldSetters = map[string]func(p *pool.Pool, sv *pool.Solvable, ids []types.Id){
	"requires":    func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Requires, ids) },
	"provides":    func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Provides, ids) },
	"conflicts":   func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Conflicts, ids) },
	"obsoletes":   func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Obsoletes, ids) },
	"recommends":  func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Recommends, ids) },
	"suggests":    func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Suggests, ids) },
	"supplements": func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Supplements, ids) },
	"enhances":    func(p *pool.Pool, sv *pool.Solvable, ids []types.Id) { p.SetDeps(&sv.Enhances, ids) },
}

// applyDepField parses one "tag:spec,spec,..." solvable field, e.g.
// "requires:bar>=2.0,baz".
func applyDepField(p *pool.Pool, sv *pool.Solvable, tagged string) error {
	tag, rest, ok := strings.Cut(tagged, ":")
	if !ok {
		return fmt.Errorf("malformed dependency field %q (want tag:spec,spec)", tagged)
	}
	setter, ok := depFieldSetters[tag]
	if !ok {
		return fmt.Errorf("unknown dependency tag %q", tag)
	}
	var ids []types.Id
	for _, spec := range strings.Split(rest, ",") {
		ids = append(ids, parseDepSpec(p, spec))
	}
	setter(p, sv, ids)
	return nil
}

var depOps = []string{">=", "<=", "==", "!=", "=", ">", "<"}

// parseDepSpec parses "name", "name>=1.0" into a plain name Id or a
// versioned relation Id, the same grammar internal/selection uses for
// job selectors.
func parseDepSpec(p *pool.Pool, spec string) types.Id {
	spec = strings.TrimSpace(spec)
	for _, op := range depOps {
		if idx := strings.Index(spec, op); idx > 0 {
			name := strings.TrimSpace(spec[:idx])
			version := strings.TrimSpace(spec[idx+len(op):])
			return p.Rel(p.Str(name), p.Str(version), relFlagsForOp(op))
		}
	}
	return p.Str(spec)
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
	default:
		return pool.RelEQ
	}
}

// parseJob turns a "job <type> <selector-kind> <arg>" statement into a
// types.Job, resolving solvable selectors against the name-evr table
// built during the solvable pass and everything else through the
// selection engine.
func parseJob(p *pool.Pool, sel *selection.Engine, byNameEVR map[string]types.Id, args []string) (types.Job, error) {
	if len(args) < 3 {
		return types.Job{}, fmt.Errorf("job statement needs type, selector-kind, arg: %v", args)
	}
	jobType, ok := jobTypeByName[args[0]]
	if !ok {
		return types.Job{}, fmt.Errorf("unknown job type %q", args[0])
	}
	selKind := args[1]
	arg := strings.Join(args[2:], " ")

	switch selKind {
	case "solvable":
		sid, ok := byNameEVR[arg]
		if !ok {
			return types.Job{}, fmt.Errorf("no solvable named %q", arg)
		}
		return types.Job{Type: jobType, Flags: types.SelSolvable, Arg: sid}, nil
	case "name":
		job, ok := sel.Select(arg, jobType, types.SelName)
		if !ok {
			return types.Job{}, fmt.Errorf("could not select %q", arg)
		}
		return job, nil
	case "provides":
		job, ok := sel.Select(arg, jobType, types.SelProvides)
		if !ok {
			return types.Job{}, fmt.Errorf("could not select %q", arg)
		}
		return job, nil
	case "all":
		return types.Job{Type: jobType, Flags: types.SelAll}, nil
	default:
		return types.Job{}, fmt.Errorf("unknown selector kind %q", selKind)
	}
}

var jobTypeByName = map[string]types.JobType{
	"install":      types.JobInstall,
	"erase":        types.JobErase,
	"update":       types.JobUpdate,
	"distupgrade":  types.JobDistupgrade,
	"verify":       types.JobVerify,
	"lock":         types.JobLock,
	"favor":        types.JobFavor,
	"disfavor":     types.JobDisfavor,
	"multiversion": types.JobMultiversion,
}
