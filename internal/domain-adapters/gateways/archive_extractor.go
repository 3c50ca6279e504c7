package gateways

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// maxEntrySize caps a single extracted file (decompression bomb guard)
const maxEntrySize = 1 << 30

// ErrUnsupportedArchive is returned for file names without a known archive suffix
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// ArchiveExtractor unpacks submission archives
type ArchiveExtractor struct {
	extensions []string
	logger     interfaces.Logger
}

// NewArchiveExtractor creates an extractor recognizing the given suffixes.
// Longer suffixes are matched first so ".tar.gz" wins over ".gz".
func NewArchiveExtractor(extensions []string, logger interfaces.Logger) *ArchiveExtractor {
	sorted := append([]string(nil), extensions...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	return &ArchiveExtractor{
		extensions: sorted,
		logger:     interfaces.OrNoOp(logger),
	}
}

// ProjectName strips the archive suffix from a file name
func (e *ArchiveExtractor) ProjectName(fileName string) (string, bool) {
	lower := strings.ToLower(fileName)
	for _, ext := range e.extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return fileName[:len(fileName)-len(ext)], true
		}
	}
	return "", false
}

// Extract unpacks archivePath into destDir, creating destDir if needed
func (e *ArchiveExtractor) Extract(archivePath, destDir string) error {
	format, _ := entities.ArchiveFormat(archivePath)

	var err error
	switch format {
	case entities.ArchiveTarGz, entities.ArchiveTgz:
		err = e.extractTarGz(archivePath, destDir)
	case entities.ArchiveZip:
		err = e.extractZip(archivePath, destDir)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(archivePath))
	}
	if err != nil {
		return err
	}

	e.logger.Info("extracted archive",
		interfaces.F("archive", archivePath),
		interfaces.F("dest", destDir))
	return nil
}

// extractTarGz extracts a .tar.gz file to destination directory
func (e *ArchiveExtractor) extractTarGz(tarPath, destDir string) error {
	//nolint:gosec // G304: tarPath comes from the input directory walk
	file, err := os.Open(tarPath)
	if err != nil {
		return fmt.Errorf("failed to open tar.gz: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	//nolint:errcheck // Defer close on gzip reader
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	// Symlinks are created after all files exist
	type symlinkInfo struct {
		target   string
		linkname string
	}
	var symlinks []symlinkInfo

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("tar read error: %w", err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

		case tar.TypeReg:
			//nolint:gosec // G115: tar header mode fits in FileMode permission bits
			if err := writeFile(target, tr, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			symlinks = append(symlinks, symlinkInfo{
				target:   target,
				linkname: header.Linkname,
			})

		default:
			e.logger.Debug("ignoring unsupported tar entry",
				interfaces.F("type", string(header.Typeflag)),
				interfaces.F("name", header.Name))
		}
	}

	for _, link := range symlinks {
		if err := os.MkdirAll(filepath.Dir(link.target), 0750); err != nil {
			return fmt.Errorf("failed to create directory for symlink: %w", err)
		}
		if err := os.Symlink(link.linkname, link.target); err != nil {
			// Broken links are common in student archives
			e.logger.Warn("failed to create symlink",
				interfaces.F("link", link.target),
				interfaces.F("target", link.linkname),
				interfaces.F("error", err))
		}
	}

	return nil
}

// extractZip extracts a .zip file to destination directory
func (e *ArchiveExtractor) extractZip(zipPath, destDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip: %w", err)
	}
	//nolint:errcheck // Defer close on read-only archive
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	for _, f := range zr.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		if !f.Mode().IsRegular() {
			e.logger.Debug("ignoring unsupported zip entry", interfaces.F("name", f.Name))
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open zip entry %s: %w", f.Name, err)
		}
		perm := f.Mode().Perm()
		if perm == 0 {
			// Archives created on Windows carry no unix permissions
			perm = 0644
		}
		err = writeFile(target, rc, perm)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// safeJoin resolves name under destDir and rejects entries escaping it
func safeJoin(destDir, name string) (string, error) {
	//nolint:gosec // G305: traversal is checked below
	target := filepath.Join(destDir, name)
	rel, err := filepath.Rel(filepath.Clean(destDir), target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path in archive: %s", name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	//nolint:gosec // G304: target was validated by safeJoin
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, io.LimitReader(r, maxEntrySize)); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
