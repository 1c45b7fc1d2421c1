package adapters

import (
	"io"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/ports"
	"depcore/internal/solvfile"
	"depcore/internal/types"
)

var _ ports.PoolFilePort = SolvFileAdapter{}

// SolvFileAdapter implements ports.PoolFilePort over internal/solvfile's
// package-level Read/Write/Merge functions.
type SolvFileAdapter struct {
	Log zerolog.Logger
}

func (a SolvFileAdapter) Write(w io.Writer, p *pool.Pool) error { return solvfile.Write(w, p) }

func (a SolvFileAdapter) Read(r io.Reader) (*pool.Pool, error) {
	return solvfile.Read(r, a.Log)
}

func (a SolvFileAdapter) Merge(dst *pool.Pool, src *pool.Pool) map[types.Id]types.Id {
	return solvfile.Merge(dst, src)
}
