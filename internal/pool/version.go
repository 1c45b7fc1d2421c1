package pool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

// Scheme names the version-comparator grammar a repo's packages use.
// A Pool may mix repos of different schemes (e.g. a rpm repo and a
// deb repo coexisting for cross-ecosystem solves); every comparison is
// dispatched through the owning repo's scheme.
type Scheme string

const (
	SchemeRPM    Scheme = "rpm"
	SchemeDeb    Scheme = "deb"
	SchemeConda  Scheme = "conda"
	SchemeSemver Scheme = "semver"
	SchemeHaiku  Scheme = "haiku"
)

// VersionScheme compares two EVR strings under one grammar. Every
// method is pure and side-effect free; caching (where it matters, as
// in the deb/pep440 backends) lives behind the interface.
type VersionScheme interface {
	Compare(a, b string) (int, error)
	Satisfies(version string, flags RelFlags, constraint string) (bool, error)
}

// SchemeFor returns the VersionScheme implementation for a scheme name.
func SchemeFor(s Scheme) VersionScheme {
	switch s {
	case SchemeDeb:
		return &debScheme{cache: map[string]debversion.Version{}}
	case SchemeConda:
		return &pep440Scheme{versions: map[string]pep440.Version{}, specs: map[string]pep440.Specifiers{}}
	case SchemeSemver:
		return &semverScheme{cache: map[string]*semver.Version{}}
	case SchemeHaiku, SchemeRPM:
		return &rpmScheme{}
	default:
		return &rpmScheme{}
	}
}

// relSatisfies reports whether a comparison result cmp (negative, zero
// or positive, as every backend's compare returns) satisfies the
// LT/EQ/GT bits of flags.
func relSatisfies(cmp int, flags RelFlags) bool {
	if flags&RelLT != 0 && cmp < 0 {
		return true
	}
	if flags&RelGT != 0 && cmp > 0 {
		return true
	}
	if flags&RelEQ != 0 && cmp == 0 {
		return true
	}
	return false
}

// --- deb scheme ---------------------------------------------------------

type debScheme struct {
	cache map[string]debversion.Version
}

func (s *debScheme) parse(v string) (debversion.Version, error) {
	if parsed, ok := s.cache[v]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(v)
	if err != nil {
		return debversion.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid deb version %q: %v", v, err))
	}
	s.cache[v] = parsed
	return parsed, nil
}

func (s *debScheme) Compare(a, b string) (int, error) {
	va, err := s.parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

func (s *debScheme) Satisfies(version string, flags RelFlags, constraint string) (bool, error) {
	cmp, err := s.Compare(version, constraint)
	if err != nil {
		return false, err
	}
	return relSatisfies(cmp, flags), nil
}

// --- pep440/conda scheme -------------------------------------------------

// pep440Scheme backs both SchemeConda-tagged packages and pip-style
// ones: conda's dev/post/local-version suffix handling is close enough
// to PEP 440's that it is reused rather than hand-rolled (see
// SPEC_FULL.md §4.5/§4.19 and DESIGN.md for the grounding rationale).
type pep440Scheme struct {
	versions map[string]pep440.Version
	specs    map[string]pep440.Specifiers
}

func (s *pep440Scheme) parse(v string) (pep440.Version, error) {
	if parsed, ok := s.versions[v]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(v)
	if err != nil {
		return pep440.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid conda/pep440 version %q: %v", v, err))
	}
	s.versions[v] = parsed
	return parsed, nil
}

func (s *pep440Scheme) Compare(a, b string) (int, error) {
	va, err := s.parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

func (s *pep440Scheme) Satisfies(version string, flags RelFlags, constraint string) (bool, error) {
	cmp, err := s.Compare(version, constraint)
	if err != nil {
		return false, err
	}
	return relSatisfies(cmp, flags), nil
}

// --- semver scheme --------------------------------------------------------

type semverScheme struct {
	cache map[string]*semver.Version
}

func (s *semverScheme) parse(v string) (*semver.Version, error) {
	if parsed, ok := s.cache[v]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid semver version %q: %v", v, err))
	}
	s.cache[v] = parsed
	return parsed, nil
}

func (s *semverScheme) Compare(a, b string) (int, error) {
	va, err := s.parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

func (s *semverScheme) Satisfies(version string, flags RelFlags, constraint string) (bool, error) {
	cmp, err := s.Compare(version, constraint)
	if err != nil {
		return false, err
	}
	return relSatisfies(cmp, flags), nil
}

// --- rpm/haiku scheme -----------------------------------------------------

// rpmScheme hand-rolls rpm's version comparison: split into alternating
// alpha/digit runs, compare digit runs numerically and alpha runs
// lexically, and treat "~" as sorting before everything, including the
// empty string. No rpm-version comparator library appears anywhere in
// the retrieved example corpus (see DESIGN.md), so this is the one
// stdlib-only comparator. Haiku reuses it unmodified: haiku's version
// grammar is rpm-derived.
type rpmScheme struct{}

func (s *rpmScheme) Compare(a, b string) (int, error) {
	ea, va, ra := splitEVR(a)
	eb, vb, rb := splitEVR(b)
	if ea != eb {
		if ea < eb {
			return -1, nil
		}
		return 1, nil
	}
	if c := rpmCompareSegment(va, vb); c != 0 {
		return c, nil
	}
	return rpmCompareSegment(ra, rb), nil
}

func (s *rpmScheme) Satisfies(version string, flags RelFlags, constraint string) (bool, error) {
	cmp, err := s.Compare(version, constraint)
	if err != nil {
		return false, err
	}
	return relSatisfies(cmp, flags), nil
}

// splitEVR splits "[epoch:]version[-release]" into its three parts.
// Epoch defaults to 0 when absent.
func splitEVR(evr string) (epoch int, version, release string) {
	rest := evr
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		if n, err := strconv.Atoi(rest[:idx]); err == nil {
			epoch = n
		}
		rest = rest[idx+1:]
	}
	if idx := strings.LastIndexByte(rest, '-'); idx >= 0 {
		return epoch, rest[:idx], rest[idx+1:]
	}
	return epoch, rest, ""
}

// rpmCompareSegment compares one version or release segment using
// rpm's tilde-aware alternating alpha/digit run comparison.
func rpmCompareSegment(a, b string) int {
	for len(a) > 0 || len(b) > 0 {
		// Strip leading non-alnum separators from both sides.
		a = strings.TrimLeft(a, ".-+_")
		b = strings.TrimLeft(b, ".-+_")

		if strings.HasPrefix(a, "~") || strings.HasPrefix(b, "~") {
			aTilde := strings.HasPrefix(a, "~")
			bTilde := strings.HasPrefix(b, "~")
			if aTilde && !bTilde {
				return -1
			}
			if !aTilde && bTilde {
				return 1
			}
			a, b = a[1:], b[1:]
			continue
		}

		if len(a) == 0 || len(b) == 0 {
			break
		}

		runA, restA := takeRun(a)
		runB, restB := takeRun(b)

		if isDigitRun(runA) != isDigitRun(runB) {
			// Numeric segments always outrank alphabetic ones.
			if isDigitRun(runA) {
				return 1
			}
			return -1
		}
		var c int
		if isDigitRun(runA) {
			c = compareNumeric(runA, runB)
		} else {
			c = strings.Compare(runA, runB)
		}
		if c != 0 {
			if c < 0 {
				return -1
			}
			return 1
		}
		a, b = restA, restB
	}
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	default:
		return 1
	}
}

func isDigitRun(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// takeRun consumes a maximal run of the same class (digit or alpha)
// from the front of s.
func takeRun(s string) (run, rest string) {
	if s == "" {
		return "", ""
	}
	digit := isDigitRun(s)
	i := 0
	for i < len(s) {
		d := s[i] >= '0' && s[i] <= '9'
		if d != digit {
			break
		}
		i++
	}
	return s[:i], s[i:]
}

// compareNumeric compares two digit runs as arbitrary-precision
// integers after stripping leading zeros, matching rpm's semantics.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
