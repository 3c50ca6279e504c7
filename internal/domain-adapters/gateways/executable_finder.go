package gateways

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

// ExecutableFinder locates the compiled program inside a build directory
type ExecutableFinder struct{}

// NewExecutableFinder creates a new executable finder
func NewExecutableFinder() *ExecutableFinder {
	return &ExecutableFinder{}
}

// Find returns the first regular file with an execute bit, skipping the
// pipeline's own log files. A directory's files are checked before its
// subdirectories, which keeps compiler probe binaries under CMakeFiles/
// from shadowing the real program at the top of the build directory.
func (f *ExecutableFinder) Find(buildDir string) (string, bool) {
	found := ""

	_ = walkDirs(buildDir, func(dir string, files []fs.DirEntry, _ []fs.DirEntry) error {
		for _, entry := range files {
			if entities.IsReservedLog(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			// Stat follows symlinks, matching how the program is launched.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if info.Mode().Perm()&0o111 != 0 {
				found = path
				return fs.SkipAll
			}
		}
		return nil
	})

	return found, found != ""
}
