package adapters

import (
	"os"
	"path/filepath"

	shutil "github.com/termie/go-shutil"

	"depcore/internal/ports"
	"depcore/internal/shared"
)

var _ ports.CacheReplacePort = CacheReplacer{}

// AtomicReplaceDir stages a full copy of src into a sibling temp
// directory next to dst via go-shutil's CopyTree, then removes dst and
// renames the staged copy into its place, so an interrupted copy never
// leaves a half-written dst. The remove and the rename are two separate
// filesystem operations: an interruption between them leaves dst absent
// and the complete copy at the staging path. Grounded on golang-dep's
// own cache directory replace step, which stages into a temp path
// before renaming.
func AtomicReplaceDir(src, dst string) error {
	tmp := dst + ".tmp-" + filepath.Base(src)
	_ = os.RemoveAll(tmp)

	if err := shutil.CopyTree(src, tmp, nil); err != nil {
		os.RemoveAll(tmp)
		return shared.WrapInternal("adapters", "staging replacement for "+dst, err)
	}

	if err := os.RemoveAll(dst); err != nil {
		os.RemoveAll(tmp)
		return shared.WrapInternal("adapters", "clearing previous "+dst, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return shared.WrapInternal("adapters", "finalizing replacement of "+dst, err)
	}
	return nil
}

// CacheReplacer implements ports.CacheReplacePort over
// AtomicReplaceDir.
type CacheReplacer struct{}

func (CacheReplacer) ReplaceDir(src, dst string) error { return AtomicReplaceDir(src, dst) }
