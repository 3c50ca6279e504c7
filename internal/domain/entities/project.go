// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// Project represents one extracted student submission
type Project struct {
	Name       string // archive name without extension, or the directory base name
	SourceRoot string // directory the archive was extracted into
	BuildDir   string // may not exist yet
	EntryDir   string // directory holding the entry-point file, empty if not located
}

// NewProject creates a project rooted at sourceRoot. The build directory is
// resolved once the entry point is located.
func NewProject(name, sourceRoot string) *Project {
	return &Project{
		Name:       name,
		SourceRoot: sourceRoot,
	}
}

// Located reports whether the entry-point directory is known
func (p *Project) Located() bool {
	return p.EntryDir != ""
}

// SetEntryDir records the entry-point directory and derives the build
// directory beneath it.
func (p *Project) SetEntryDir(dir, buildDirName string) {
	p.EntryDir = dir
	p.BuildDir = filepath.Join(dir, buildDirName)
}

// Well-known files inside a build directory
const (
	BuildLogName    = "build.log"
	ValgrindLogName = "valgrind.log"
	DiffLogName     = "diff.log"
)

// IsReservedLog reports whether name is one of the log files the pipeline
// writes into a build directory.
func IsReservedLog(name string) bool {
	switch name {
	case BuildLogName, ValgrindLogName, DiffLogName:
		return true
	}
	return false
}
