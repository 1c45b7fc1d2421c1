package pool

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// CondaMatchSpec is a parsed conda-style matchspec: "name
// version_constraint[build_string]". Grounded on libsolv's conda.c
// matchspec grammar (see DESIGN.md). Parsing only splits the spec into
// its parts; the constraint is kept as text and is not evaluated
// against any version scheme here.
type CondaMatchSpec struct {
	Name       string
	Constraint string // e.g. ">=1.0,<2.0" or "" for unconstrained
	Build      string // build string glob, or "" if unspecified
}

// ParseCondaMatchSpec parses "numpy >=1.20,<2.0 py39h*" style specs
// into their name/constraint/build parts.
func ParseCondaMatchSpec(raw string) (CondaMatchSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CondaMatchSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty conda matchspec")
	}

	// The bracketed [build=...] form is conda's canonical long syntax;
	// fold it down to the short "name version build" form we parse below.
	if idx := strings.IndexByte(raw, '['); idx >= 0 && strings.HasSuffix(raw, "]") {
		head := strings.TrimSpace(raw[:idx])
		inner := raw[idx+1 : len(raw)-1]
		spec := CondaMatchSpec{Name: head}
		for _, kv := range strings.Split(inner, ",") {
			kv = strings.TrimSpace(kv)
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				continue
			}
			switch strings.TrimSpace(parts[0]) {
			case "version":
				spec.Constraint = strings.Trim(strings.TrimSpace(parts[1]), `"'`)
			case "build":
				spec.Build = strings.Trim(strings.TrimSpace(parts[1]), `"'`)
			}
		}
		return spec, nil
	}

	fields := strings.Fields(raw)
	spec := CondaMatchSpec{Name: fields[0]}
	if len(fields) > 1 {
		spec.Constraint = fields[1]
	}
	if len(fields) > 2 {
		spec.Build = fields[2]
	}
	return spec, nil
}

// toVersionConstraint renders the constraint half as a PEP-440-style
// specifier string the pep440Scheme can parse directly: conda already
// uses "," for AND-composition the same way PEP 440 specifier sets do.
func (c CondaMatchSpec) toVersionConstraint() string {
	return c.Constraint
}
