package gateways

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ProjectScanner finds built projects in an output tree
type ProjectScanner struct {
	buildDirName string
}

// NewProjectScanner creates a scanner treating any directory with a
// buildDirName subdirectory as a project.
func NewProjectScanner(buildDirName string) *ProjectScanner {
	return &ProjectScanner{buildDirName: buildDirName}
}

// Scan returns project directories in top-down walk order. Build
// directories themselves are not searched.
func (s *ProjectScanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory is not a directory: %s", root)
	}

	var projects []string
	pruned := make(map[string]bool)

	err = walkDirs(root, func(dir string, _ []fs.DirEntry, subdirs []fs.DirEntry) error {
		if pruned[dir] {
			return fs.SkipDir
		}
		for _, sub := range subdirs {
			if sub.Name() == s.buildDirName {
				projects = append(projects, dir)
				pruned[filepath.Join(dir, sub.Name())] = true
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}
