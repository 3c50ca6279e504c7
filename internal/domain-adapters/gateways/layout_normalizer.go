package gateways

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// LayoutNormalizer canonicalizes the directory layout of an extracted archive.
// Every pass is idempotent and a no-op on directories that need no change.
type LayoutNormalizer struct {
	submissionMarker string
	logger           interfaces.Logger
}

// NewLayoutNormalizer creates a normalizer. An empty marker disables
// submission-wrapper removal.
func NewLayoutNormalizer(submissionMarker string, logger interfaces.Logger) *LayoutNormalizer {
	return &LayoutNormalizer{
		submissionMarker: submissionMarker,
		logger:           interfaces.OrNoOp(logger),
	}
}

// Normalize runs wrapper flattening, space replacement and submission-wrapper
// removal, in that order.
func (n *LayoutNormalizer) Normalize(dir string) error {
	if err := n.FlattenWrappers(dir); err != nil {
		return fmt.Errorf("flatten wrappers: %w", err)
	}
	if err := n.ReplaceSpaces(dir); err != nil {
		return fmt.Errorf("replace spaces: %w", err)
	}
	if err := n.RemoveSubmissionWrappers(dir); err != nil {
		return fmt.Errorf("remove submission wrappers: %w", err)
	}
	return nil
}

// FlattenWrappers promotes the contents of a lone child directory into dir,
// repeating until dir holds more than one entry or a single file.
func (n *LayoutNormalizer) FlattenWrappers(dir string) error {
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dir, err)
		}
		if len(entries) != 1 || !entries[0].IsDir() {
			return nil
		}

		wrapper := filepath.Join(dir, entries[0].Name())
		n.logger.Debug("flattening wrapper directory", interfaces.F("dir", wrapper))
		if err := promote(dir, wrapper); err != nil {
			return err
		}
	}
}

// ReplaceSpaces renames every file and directory below dir so that spaces
// in names become underscores. Deepest entries are renamed first so pending
// paths stay valid. A rename that would overwrite an existing entry is
// skipped and logged.
func (n *LayoutNormalizer) ReplaceSpaces(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.Contains(d.Name(), " ") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return depth(paths[i]) > depth(paths[j])
	})

	for _, path := range paths {
		renamed := filepath.Join(filepath.Dir(path), strings.ReplaceAll(filepath.Base(path), " ", "_"))
		if _, err := os.Lstat(renamed); err == nil {
			n.logger.Warn("rename target already exists, keeping original name",
				interfaces.F("path", path),
				interfaces.F("target", renamed))
			continue
		}
		if err := os.Rename(path, renamed); err != nil {
			return fmt.Errorf("failed to rename %s: %w", path, err)
		}
	}
	return nil
}

// RemoveSubmissionWrappers promotes the contents of every top-level directory
// whose name contains the submission marker, then removes the wrapper.
func (n *LayoutNormalizer) RemoveSubmissionWrappers(dir string) error {
	if n.submissionMarker == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() || !strings.Contains(entry.Name(), n.submissionMarker) {
			continue
		}
		wrapper := filepath.Join(dir, entry.Name())
		n.logger.Debug("removing submission wrapper", interfaces.F("dir", wrapper))
		if err := promote(dir, wrapper); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// promote moves the contents of child into parent and removes child. The
// child is first renamed to a temporary name so it may itself contain an
// entry with its own name. Nothing is moved if any entry would collide.
func promote(parent, child string) error {
	tmp, err := os.MkdirTemp(parent, ".promote-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	staged := filepath.Join(tmp, "contents")
	if err := os.Rename(child, staged); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to stage %s: %w", child, err)
	}

	entries, err := os.ReadDir(staged)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", child, err)
	}

	for _, entry := range entries {
		if _, err := os.Lstat(filepath.Join(parent, entry.Name())); err == nil {
			// Put the wrapper back untouched
			if rerr := os.Rename(staged, child); rerr == nil {
				_ = os.Remove(tmp)
			}
			return fmt.Errorf("cannot promote %s: %s already exists in %s", child, entry.Name(), parent)
		}
	}

	for _, entry := range entries {
		if err := os.Rename(filepath.Join(staged, entry.Name()), filepath.Join(parent, entry.Name())); err != nil {
			return fmt.Errorf("failed to move %s: %w", entry.Name(), err)
		}
	}

	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("failed to remove %s: %w", child, err)
	}
	return nil
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
