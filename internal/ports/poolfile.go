package ports

import (
	"io"

	"depcore/internal/pool"
	"depcore/internal/types"
)

// PoolFilePort reads and writes the ".solv" binary pool format and
// merges a second pool's repos into a first one under a fresh idmap.
type PoolFilePort interface {
	Write(w io.Writer, p *pool.Pool) error
	Read(r io.Reader) (*pool.Pool, error)
	Merge(dst *pool.Pool, src *pool.Pool) map[types.Id]types.Id
}

// FixtureSourcePort discovers testcase fixture files under a root
// directory, the input to a table-driven regression suite.
type FixtureSourcePort interface {
	FixtureFiles(root string) ([]string, error)
	FixtureName(root, path string) string
}
