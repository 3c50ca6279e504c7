// Package csv provides the CSV report sink.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

// ReportWriter implements repositories.ReportSink by writing a CSV file
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting path
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Path returns the report file location
func (w *ReportWriter) Path() string {
	return w.path
}

// WriteReport writes a header row and one record per report row. The file
// is written to a temporary sibling and renamed so a failed run never
// leaves a truncated report behind.
func (w *ReportWriter) WriteReport(_ context.Context, report *entities.Report) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	tmpPath := tmp.Name()
	//nolint:errcheck // Best-effort cleanup; a no-op after the rename
	defer os.Remove(tmpPath)

	cw := csv.NewWriter(tmp)
	if err := cw.Write(report.Columns()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err := cw.WriteAll(report.Records()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	//nolint:gosec // G302: the report is meant to be shared
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
