package gateways

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// dirVisitor is called once per directory with the directory's non-directory
// entries, in name order. Returning fs.SkipDir skips the directory's
// subdirectories; returning fs.SkipAll ends the walk.
type dirVisitor func(dir string, files []fs.DirEntry, subdirs []fs.DirEntry) error

// walkDirs visits directories top-down. Each directory is handed to visit
// before any of its subdirectories are entered, so a file in a parent always
// wins over a file of the same name deeper in the tree. Unreadable
// directories are skipped. Symlinks are never followed.
func walkDirs(root string, visit dirVisitor) error {
	err := walkDir(root, visit)
	if errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func walkDir(dir string, visit dirVisitor) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files, subdirs []fs.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	if err := visit(dir, files, subdirs); err != nil {
		if errors.Is(err, fs.SkipDir) {
			return nil
		}
		return err
	}

	for _, sub := range subdirs {
		if err := walkDir(filepath.Join(dir, sub.Name()), visit); err != nil {
			return err
		}
	}
	return nil
}
