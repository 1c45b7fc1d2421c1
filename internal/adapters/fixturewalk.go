package adapters

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"depcore/internal/ports"
	"depcore/internal/shared"
)

var _ ports.FixtureSourcePort = FixtureWalker{}

// FixtureFiles walks root and returns every "*.t" testcase fixture
// found under it, in deterministic lexical order — the same directory
// shape the teacher's config loader sweeps for profile files, adapted
// here to discover regression-test fixtures instead of packaging
// profiles. godirwalk.Walk reads each directory's node types directly
// off the readdir syscall rather than stat-ing every entry
// individually, the reason golang-dep's own tree carries it over
// filepath.Walk for large trees.
func FixtureFiles(root string) ([]string, error) {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			if strings.HasSuffix(osPathname, ".t") {
				files = append(files, osPathname)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, shared.WrapInternal("adapters", "walking fixture directory "+root, err)
	}
	sort.Strings(files)
	return files, nil
}

// FixtureName derives a test name from a fixture's path, relative to
// root and without its extension, for use as a subtest name.
func FixtureName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// FixtureWalker implements ports.FixtureSourcePort over the
// package-level FixtureFiles/FixtureName functions.
type FixtureWalker struct{}

func (FixtureWalker) FixtureFiles(root string) ([]string, error) { return FixtureFiles(root) }

func (FixtureWalker) FixtureName(root, path string) string { return FixtureName(root, path) }
