package rules

import "depcore/internal/types"

// AddJobRules turns the job queue into JOB-class rules: each Install
// job becomes "one of the matching providers must be true", each
// Erase job becomes a unit rule forcing every match false, Lock pins
// an installed solvable's current state, and Favor/Disfavor nudge
// internal/policy's branching order without constraining the clause
// set (handled entirely outside rule generation). Multiversion jobs
// are not handled here: the caller must extract them with
// MultiversionNames and pass the result into AddPackageRules before
// calling AddJobRules, since the same-name rule they affect is
// generated from the full solvable set, not from the job queue.
func (s *Set) AddJobRules(jobs []types.Job) {
	for _, job := range jobs {
		switch job.Type {
		case types.JobInstall:
			s.addInstallJob(job)
		case types.JobErase:
			s.addEraseJob(job)
		case types.JobLock:
			s.addLockJob(job)
		case types.JobVerify, types.JobUpdate, types.JobDistupgrade, types.JobMultiversion, types.JobFavor, types.JobDisfavor, types.JobNoop, types.JobNoop2:
			// Update/Distupgrade/Verify steer branching policy and the
			// transaction builder rather than the clause set; Favor/
			// Disfavor are pure tie-break hints; Multiversion is
			// consumed separately by MultiversionNames.
		}
	}
}

// MultiversionNames collects the names marked by JobMultiversion jobs,
// resolving each job's selector to the solvable names it matches (a
// bare "name" selector's Arg is already the name string's Id; other
// selector flags fall back to resolving matching solvables and taking
// their Name). The result is passed into AddPackageRules so
// addSameNameRules can skip those names.
func (s *Set) MultiversionNames(jobs []types.Job) map[types.Id]bool {
	names := map[types.Id]bool{}
	for _, job := range jobs {
		if job.Type != types.JobMultiversion {
			continue
		}
		if job.Flags&types.SelName != 0 {
			names[job.Arg] = true
			continue
		}
		for _, sid := range s.jobCandidates(job) {
			names[s.p.Solvable(sid).Name] = true
		}
	}
	return names
}

func (s *Set) jobCandidates(job types.Job) []types.Id {
	switch {
	case job.Flags&types.SelSolvable != 0:
		return []types.Id{job.Arg}
	case job.Flags&types.SelName != 0:
		return s.idx.WhatProvidesName(job.Arg)
	case job.Flags&types.SelProvides != 0:
		return s.idx.WhatProvides(job.Arg)
	default:
		return s.idx.WhatProvides(job.Arg)
	}
}

func (s *Set) addInstallJob(job types.Job) {
	candidates := s.jobCandidates(job)
	if len(candidates) == 0 {
		s.addRule(nil, ClassJobNothingProvidesDep)
		return
	}
	s.addRule(candidates, ClassJob)
}

func (s *Set) addEraseJob(job types.Job) {
	for _, sid := range s.jobCandidates(job) {
		s.addRule([]types.Id{not(sid)}, ClassJob)
	}
}

func (s *Set) addLockJob(job types.Job) {
	// A lock pins the installed solvable as a hard assertion: true if
	// it is currently installed (handled by the caller passing the
	// already-installed Id as job.Arg under SelSolvable), matching
	// libsolv's SOLVER_LOCK semantics of "keep exactly this state".
	for _, sid := range s.jobCandidates(job) {
		s.addRule([]types.Id{sid}, ClassJob)
	}
}

// AddUpdateRules adds, for every installed solvable not targeted by an
// erase/update job, a weak preference rule keeping it installed unless
// a same-name candidate from a non-installed repo is chosen instead.
// This is libsolv's UPDATE/FEATURE rule pair collapsed into one weak
// clause: this core does not distinguish "no update candidate exists"
// (FEATURE) from "a candidate exists but wasn't picked" (UPDATE)
// because internal/policy already encodes that preference during
// branching (see DESIGN.md).
func (s *Set) AddUpdateRules(installed types.Map) {
	for sid := types.Id(1); sid < types.Id(s.p.SolvableCount()); sid++ {
		if !installed.Test(sid) {
			continue
		}
		name := s.p.Solvable(sid).Name
		siblings := s.idx.WhatProvidesName(name)
		lits := make([]types.Id, 0, len(siblings))
		lits = append(lits, sid)
		for _, o := range siblings {
			if o != sid {
				lits = append(lits, o)
			}
		}
		s.addRule(lits, ClassUpdate)
	}
}

// AddDistupgradeRules forbids keeping any installed solvable whose
// name has no representative at all in the non-installed repos,
// forcing a clean break from packages the target repos have dropped
// entirely — the core of a "distribution upgrade" job.
func (s *Set) AddDistupgradeRules(installed types.Map, availableNames types.Map) {
	for sid := types.Id(1); sid < types.Id(s.p.SolvableCount()); sid++ {
		if !installed.Test(sid) {
			continue
		}
		name := s.p.Solvable(sid).Name
		if !availableNames.Test(name) {
			s.addRule([]types.Id{not(sid)}, ClassDistupgrade)
		}
	}
}
