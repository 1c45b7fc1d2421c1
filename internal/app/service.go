// Package app holds the CLI-facing use cases: Solve, TestcaseRun,
// PoolDump, and PoolLoad. Each wraps the lower internal/* packages
// behind the ports Service depends on, mirroring the teacher's own
// Service/NewService shape (one struct of ports, one constructor that
// wires concrete adapters, one method per use case).
package app

import (
	"github.com/rs/zerolog"

	"depcore/internal/adapters"
	"depcore/internal/pool"
	"depcore/internal/ports"
	"depcore/internal/types"
)

// Service is the application layer a CLI command calls into. It holds
// the working pool a session builds up (via TestcaseRun or PoolLoad)
// plus the ports needed to persist and reload it.
type Service struct {
	PoolCache    ports.PoolCachePort
	MutationLock ports.MutationLockPort
	CacheReplace ports.CacheReplacePort
	PoolFile     ports.PoolFilePort
	Testcase     ports.TestcaseFormatPort
	Fixtures     ports.FixtureSourcePort
	Log          zerolog.Logger

	Pool      *pool.Pool
	Installed types.Map
}

// NewService wires the default adapters: a bbolt pool cache under
// cacheDir, a flock mutation lock alongside it, and the solvfile/
// testcase format adapters.
func NewService(cacheDir string, log zerolog.Logger) (Service, error) {
	cache, err := adapters.OpenPoolCache(cacheDir, log)
	if err != nil {
		return Service{}, err
	}
	return Service{
		PoolCache:    cache,
		MutationLock: adapters.NewMutationLock(cacheDir + "/.lock"),
		CacheReplace: adapters.CacheReplacer{},
		PoolFile:     adapters.SolvFileAdapter{Log: log},
		Testcase:     adapters.TestcaseAdapter{},
		Fixtures:     adapters.FixtureWalker{},
		Log:          log,
	}, nil
}
