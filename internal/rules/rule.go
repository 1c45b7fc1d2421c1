// Package rules implements the CNF rule generator: it turns a pool's
// solvables and job queue into the clause set the CDCL engine in
// internal/sat decides over. Rule shape and class values are
// transcribed from libsolv's src/rules.h (see DESIGN.md).
package rules

import "depcore/internal/types"

// Class tags why a rule exists, for problem analysis and logging.
// Values mirror libsolv's SOLVER_RULE_* enum (including its 0x100
// per-category spacing) so a class's category is recoverable via
// ClassMask without a lookup table.
type Class int

const (
	ClassUnknown Class = 0x000

	ClassPkg                   Class = 0x100
	ClassPkgNotInstallable     Class = 0x101
	ClassPkgNothingProvidesDep Class = 0x102
	ClassPkgRequires           Class = 0x103
	ClassPkgSelfConflict       Class = 0x104
	ClassPkgConflicts          Class = 0x105
	ClassPkgSameName           Class = 0x106
	ClassPkgObsoletes          Class = 0x107
	ClassPkgImplicitObsoletes  Class = 0x108
	ClassPkgInstalledObsoletes Class = 0x109
	ClassPkgRecommends         Class = 0x10a
	ClassPkgConstrains         Class = 0x10b

	ClassUpdate  Class = 0x200
	ClassFeature Class = 0x300

	ClassJob                   Class = 0x400
	ClassJobNothingProvidesDep Class = 0x401

	ClassDistupgrade Class = 0x500
	ClassInfarch     Class = 0x600
	ClassChoice      Class = 0x700
	ClassBest        Class = 0x900
	ClassYumobs      Class = 0xa00
	ClassBlack       Class = 0xc00

	ClassLearnt Class = 0x800
)

// ClassMask isolates the category byte, libsolv's SOLVER_RULE_TYPEMASK.
const ClassMask Class = 0xff00

// Category returns the rule's category (ClassPkg, ClassJob, ...)
// irrespective of its specific sub-reason.
func (c Class) Category() Class { return c & ClassMask }

// Rule is one CNF clause. Binary rules (the overwhelming majority —
// one requires-with-one-provider, one conflicts pair) store their two
// literals directly in P/W2 with D == types.OffsetNone; n-ary rules
// store the literal list in the shared arena at D and leave P as the
// first literal for quick assertion checks.
type Rule struct {
	P      types.Id     // first literal
	D      types.Offset // arena offset of the full literal list; OffsetNone for binary rules
	W1, W2 types.Id     // watched literals (two-watched-literal scheme, internal/sat)
	Class  Class
	Seq    int // stable sequence number for problem/solution reporting
}

// IsBinary reports whether the rule's literals (one or two) are stored
// inline rather than in the shared arena.
func (r Rule) IsBinary() bool { return r.D == types.OffsetNone }

// Disabled rules carry a negated-and-offset D exactly like libsolv's
// `~d` encoding, so enabling/disabling a rule never touches its
// literal data, only this one field.
func (r Rule) Disabled() bool { return int32(r.D) < 0 }

func encodeDisabled(d types.Offset) types.Offset { return -d - 1 }
func decodeDisabled(d types.Offset) types.Offset { return -d - 1 }
