package pool

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"

	"depcore/internal/types"
)

// archScore orders architectures by preference; lower wins, 0 means
// incompatible with the pool's native arch. Mirrors libsolv's
// poolarch.h table, which is a flat map rather than a hierarchy — a
// pool only ever scores against the single "native" arch it was built
// for, not a general partial order.
type archScore struct {
	native string
	scores map[string]int
}

func newArchScore(native string) *archScore {
	return &archScore{native: native, scores: map[string]int{
		native:   2,
		"noarch": types.ArchNoarch,
		"any":    types.ArchNoarch,
	}}
}

// SetArch registers a compatible non-native architecture at a given
// score. Lower scores are preferred over higher ones; 0 is reserved
// for "incompatible" and is never assigned explicitly.
func (a *archScore) SetArch(arch string, score int) {
	a.scores[arch] = score
}

// Score returns arch's preference score, or ArchIncompatible if the
// pool's native arch cannot use it at all.
func (a *archScore) Score(arch string) int {
	if s, ok := a.scores[arch]; ok {
		return s
	}
	return types.ArchIncompatible
}

// NamespaceCallback resolves a SOLVER_SELECTION_NAMESPACE-style
// relation (language(foo), modalias(bar)) against the live pool state.
// It returns the set of solvables that satisfy the namespace query, or
// nil if the namespace produced no matches.
type NamespaceCallback func(pool *Pool, name types.Id, arg types.Id) []types.Id

// Pool is the solver's entire interned universe: strings, relations,
// solvables, repos, and the dependency arena they all point into. It
// plays the same "everything hangs off one object" role the teacher's
// internal/core functions play implicitly through closures, except the
// domain here is generic package solving rather than apt/pip-specific
// constraint checks.
type Pool struct {
	log zerolog.Logger

	strs *stringPool
	rels *relPool
	deps *depArena

	solvables []Solvable // index 0 is types.IdNull, unused
	repos     []Repo

	archScore *archScore
	schemeOf  map[RepoId]VersionScheme

	namespaceCB NamespaceCallback

	installedRepo RepoId
	hasInstalled  bool
}

// New creates an empty pool scoring packages against nativeArch.
func New(nativeArch string, log zerolog.Logger) *Pool {
	strs := newStringPool()
	return &Pool{
		log:       log,
		strs:      strs,
		rels:      newRelPool(types.Id(strs.count())),
		deps:      newDepArena(),
		solvables: make([]Solvable, 1),
		archScore: newArchScore(nativeArch),
		schemeOf:  map[RepoId]VersionScheme{},
	}
}

// Str interns s and returns its Id.
func (p *Pool) Str(s string) types.Id { return p.strs.Str(s) }

// StrValue returns the string backing an interned Id.
func (p *Pool) StrValue(id types.Id) string { return p.strs.Value(id) }

// Rel interns a relation triple.
func (p *Pool) Rel(name, evr types.Id, flags RelFlags) types.Id {
	return p.rels.Rel(name, evr, flags)
}

// IsRel reports whether id addresses a relation rather than a string.
func (p *Pool) IsRel(id types.Id) bool { return p.rels.IsRel(id) }

// RelInfo returns the Rel triple for a relation Id.
func (p *Pool) RelInfo(id types.Id) Rel { return p.rels.Get(id) }

// AddRepo registers a new, initially empty repo and returns its Id.
func (p *Pool) AddRepo(name string, priority int, scheme Scheme) RepoId {
	id := RepoId(len(p.repos))
	start := types.Id(len(p.solvables))
	p.repos = append(p.repos, Repo{Name: name, Priority: priority, Scheme: scheme, Start: start, End: start})
	p.schemeOf[id] = SchemeFor(scheme)
	return id
}

// SetInstalledRepo marks repo as the "currently installed" system
// state, the repo whose solvables get keep/update preference during
// branching (internal/policy).
func (p *Pool) SetInstalledRepo(repo RepoId) {
	p.installedRepo = repo
	p.hasInstalled = true
}

// InstalledRepo returns the installed repo Id and whether one was set.
func (p *Pool) InstalledRepo() (RepoId, bool) { return p.installedRepo, p.hasInstalled }

// Repo returns the Repo record for a RepoId.
func (p *Pool) Repo(id RepoId) Repo { return p.repos[id] }

// RepoCount returns the number of registered repos.
func (p *Pool) RepoCount() int { return len(p.repos) }

// Scheme returns the VersionScheme backing a repo.
func (p *Pool) Scheme(repo RepoId) VersionScheme { return p.schemeOf[repo] }

// SetNamespaceCallback installs the namespace-relation resolver used
// during rule generation and provides-index lookups.
func (p *Pool) SetNamespaceCallback(cb NamespaceCallback) { p.namespaceCB = cb }

// NamespaceCallback returns the installed namespace resolver, if any.
func (p *Pool) NamespaceCallback() NamespaceCallback { return p.namespaceCB }

// SetArch registers a compatible non-native architecture at a given
// preference score (lower is preferred).
func (p *Pool) SetArch(arch string, score int) { p.archScore.SetArch(arch, score) }

// ArchScore returns arch's preference score against this pool's
// native architecture.
func (p *Pool) ArchScore(arch string) int { return p.archScore.Score(arch) }

// AddSolvable appends a new, blank Solvable to repo and returns its Id.
// Callers fill in its fields through the pointer Solvable(id) returns.
func (p *Pool) AddSolvable(repo RepoId) (types.Id, error) {
	if int(repo) >= len(p.repos) {
		return types.IdNull, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown repo %d", repo))
	}
	r := &p.repos[repo]
	if r.End != types.Id(len(p.solvables)) {
		return types.IdNull, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cannot add solvables to a repo once another repo has been appended")
	}
	id := types.Id(len(p.solvables))
	p.solvables = append(p.solvables, Solvable{Repo: repo})
	r.End = id + 1
	return id, nil
}

// Solvable returns the Solvable record for id.
func (p *Pool) Solvable(id types.Id) *Solvable { return &p.solvables[id] }

// SolvableCount returns the number of solvables in the pool, including
// the reserved null entry at Id 0.
func (p *Pool) SolvableCount() int { return len(p.solvables) }

// Deps returns the dep arena (exported for internal/rules and
// internal/provides, which both need raw Offset->[]Id resolution).
func (p *Pool) Deps() *depArena { return p.deps }

// SetDeps writes a dependency block for one solvable's field, dispatch
// chosen by the caller (e.g. p.SetDeps(&sv.Requires, ids)).
func (p *Pool) SetDeps(field *types.Offset, ids []types.Id) {
	*field = p.deps.Append(ids)
}

// DepList resolves an Offset to its backing Id slice.
func (p *Pool) DepList(off types.Offset) []types.Id { return p.deps.Block(off) }

// Log returns the pool's structured logger (the one passed to New,
// stored as given), for components that need to emit diagnostics
// without threading a logger through every constructor.
func (p *Pool) Log() *zerolog.Logger { return &p.log }

// NativeArch returns the architecture this pool scores packages
// against, for internal/solvfile's header.
func (p *Pool) NativeArch() string { return p.archScore.native }

// Snapshot is the flat set of arenas needed to serialize or
// reconstruct a Pool bit-for-bit, the shape internal/solvfile's
// ".solv" reader/writer round-trips. Index 0 of Rels and Solvables is
// the reserved placeholder mirroring types.IdNull.
type Snapshot struct {
	NativeArch string
	Strings    []string
	Rels       []Rel
	Deps       []types.Id
	Solvables  []Solvable
	Repos      []Repo
}

// Snapshot captures the pool's entire interned state for persistence.
func (p *Pool) Snapshot() Snapshot {
	return Snapshot{
		NativeArch: p.archScore.native,
		Strings:    append([]string{}, p.strs.raw()...),
		Rels:       append([]Rel{}, p.rels.raw()...),
		Deps:       append([]types.Id{}, p.deps.raw()...),
		Solvables:  append([]Solvable{}, p.solvables...),
		Repos:      append([]Repo{}, p.repos...),
	}
}

// FromSnapshot reconstructs a Pool from a previously captured
// Snapshot, used by internal/solvfile when reading a ".solv" file.
func FromSnapshot(s Snapshot, log zerolog.Logger) *Pool {
	p := New(s.NativeArch, log)
	p.strs.loadRaw(s.Strings)
	p.rels.loadRaw(s.Rels, types.Id(len(s.Strings)))
	p.deps.loadRaw(s.Deps)
	p.solvables = append([]Solvable{}, s.Solvables...)
	p.repos = append([]Repo{}, s.Repos...)
	for i, r := range p.repos {
		p.schemeOf[RepoId(i)] = SchemeFor(r.Scheme)
	}
	return p
}
