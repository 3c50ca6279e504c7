package gateways

import (
	"io/fs"

	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// ProjectLocator finds the directory holding a project's entry-point file
type ProjectLocator struct {
	entryPoint string
	logger     interfaces.Logger
}

// NewProjectLocator creates a locator for the given entry-point file name
func NewProjectLocator(entryPoint string, logger interfaces.Logger) *ProjectLocator {
	return &ProjectLocator{
		entryPoint: entryPoint,
		logger:     interfaces.OrNoOp(logger),
	}
}

// Locate returns the first directory under root, in top-down walk order,
// that contains the entry-point file. When several directories qualify
// (e.g. bundled sample projects) the first one wins and the others are
// reported at Warn so the ambiguity stays visible.
func (l *ProjectLocator) Locate(root string) (string, bool) {
	var found []string

	_ = walkDirs(root, func(dir string, files []fs.DirEntry, _ []fs.DirEntry) error {
		for _, f := range files {
			if f.Name() == l.entryPoint {
				found = append(found, dir)
				break
			}
		}
		return nil
	})

	if len(found) == 0 {
		return "", false
	}
	if len(found) > 1 {
		l.logger.Warn("multiple entry points found, using the first",
			interfaces.F("entry_point", l.entryPoint),
			interfaces.F("chosen", found[0]),
			interfaces.F("candidates", len(found)))
	}
	return found[0], true
}
