package types

// JobType is the action half of a (job_type|job_flags, arg) job queue
// entry (spec §6).
type JobType uint8

const (
	JobNoop JobType = iota
	JobInstall
	JobErase
	JobUpdate
	JobDistupgrade
	JobVerify
	JobLock
	JobFavor
	JobDisfavor
	JobMultiversion
	JobNoop2 // reserved for "allowuninstall" style selector-only jobs
)

// JobFlags is the selector half: how arg should be interpreted, plus
// modifier bits.
type JobFlags uint32

const (
	SelSolvable JobFlags = 1 << iota
	SelName
	SelProvides
	SelOneOf
	SelAll
	SelRepo

	FlagSetEV
	FlagSetEVR
	FlagSetArch
	FlagSetVendor
	FlagSetRepo
	FlagNoAutoSet
	FlagWeak
	FlagEssential
	FlagCleanDeps
	FlagORUpdate
	FlagForceBest
	FlagTargeted
)

// Job is one entry of the job queue consumed by the rule generator.
type Job struct {
	Type  JobType
	Flags JobFlags
	Arg   Id // a solvable-Id, a name-Id, or a relation-Id depending on Flags
}

// Arch scores: lower is preferred, 0 is incompatible, 1 is noarch
// (compatible with everything). Mirrors libsolv's poolarch.h table,
// which is a flat id->score map rather than a hierarchy.
const (
	ArchIncompatible = 0
	ArchNoarch       = 1
)
