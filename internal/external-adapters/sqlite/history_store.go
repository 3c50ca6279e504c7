// Package sqlite stores report rows in a local database so grading history
// accumulates across runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/russross/meddler"
)

const schema = `
CREATE TABLE IF NOT EXISTS report_rows (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at               DATETIME NOT NULL,
	project              TEXT NOT NULL,
	compilation_errors   INTEGER NOT NULL,
	compilation_warnings INTEGER NOT NULL,
	compilation_status   TEXT NOT NULL,
	build_failure        BOOLEAN NOT NULL,
	build_state          TEXT NOT NULL,
	executable           TEXT NOT NULL,
	valgrind_status      TEXT NOT NULL,
	valgrind_summary     TEXT NOT NULL,
	output_comparison    TEXT NOT NULL,
	diff_log             TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS report_rows_project ON report_rows (project, run_at);
`

// HistoryRow is one stored report row
type HistoryRow struct {
	ID                  int64     `meddler:"id,pk"`
	RunAt               time.Time `meddler:"run_at,localtime"`
	Project             string    `meddler:"project"`
	CompilationErrors   int       `meddler:"compilation_errors"`
	CompilationWarnings int       `meddler:"compilation_warnings"`
	CompilationStatus   string    `meddler:"compilation_status"`
	BuildFailure        bool      `meddler:"build_failure"`
	BuildState          string    `meddler:"build_state"`
	Executable          string    `meddler:"executable"`
	ValgrindStatus      string    `meddler:"valgrind_status"`
	ValgrindSummary     string    `meddler:"valgrind_summary"`
	OutputComparison    string    `meddler:"output_comparison"`
	DiffLog             string    `meddler:"diff_log"`
}

// HistoryStore implements repositories.ReportSink on a sqlite database
type HistoryStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema
func Open(path string) (*HistoryStore, error) {
	meddler.Default = meddler.SQLite

	options :=
		"?" + "_busy_timeout=10000" +
			"&" + "_journal_mode=WAL" +
			"&" + "_synchronous=NORMAL"
	db, err := sql.Open("sqlite3", path+options)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// OpenExisting opens a database that an earlier run created. Unlike Open it
// never creates an empty file for a mistyped path.
func OpenExisting(path string) (*HistoryStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("history database not found: %w", err)
	}
	return Open(path)
}

// Close closes the database
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// WriteReport inserts every row of the report in one transaction, tagged
// with the report's generation time.
func (s *HistoryStore) WriteReport(ctx context.Context, report *entities.Report) error {
	runAt := report.GeneratedAt
	if runAt.IsZero() {
		runAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error starting transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	for _, row := range report.Rows {
		record := toHistoryRow(runAt, row)
		if err := meddler.Insert(tx, "report_rows", record); err != nil {
			return fmt.Errorf("db error inserting row for %s: %w", row.Project, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db error committing report: %w", err)
	}
	return nil
}

// History returns every stored row for a project, oldest first
func (s *HistoryStore) History(project string) ([]*HistoryRow, error) {
	var rows []*HistoryRow
	err := meddler.QueryAll(s.db, &rows,
		`SELECT * FROM report_rows WHERE project = ? ORDER BY run_at, id`, project)
	if err != nil {
		return nil, fmt.Errorf("db error loading history for %s: %w", project, err)
	}
	return rows, nil
}

// Entry converts the stored row back into a report row
func (h *HistoryRow) Entry() entities.HistoryEntry {
	return entities.HistoryEntry{
		RunAt: h.RunAt,
		Row: entities.ReportRow{
			Project: h.Project,
			Build: entities.BuildRecord{
				Errors:         h.CompilationErrors,
				Warnings:       h.CompilationWarnings,
				State:          entities.BuildState(h.BuildState),
				ExecutablePath: h.Executable,
			},
			Memory: entities.MemoryCheckRecord{
				Status:  h.ValgrindStatus,
				Summary: h.ValgrindSummary,
			},
			Comparison: entities.ComparisonRecord{
				Status:      h.OutputComparison,
				DiffLogPath: h.DiffLog,
			},
		},
	}
}

func toHistoryRow(runAt time.Time, row entities.ReportRow) *HistoryRow {
	return &HistoryRow{
		RunAt:               runAt,
		Project:             row.Project,
		CompilationErrors:   row.Build.Errors,
		CompilationWarnings: row.Build.Warnings,
		CompilationStatus:   row.Build.CompilationStatus(),
		BuildFailure:        row.Build.Failed(),
		BuildState:          string(row.Build.State),
		Executable:          row.Build.ExecutablePath,
		ValgrindStatus:      row.Memory.Status,
		ValgrindSummary:     row.Memory.Summary,
		OutputComparison:    row.Comparison.Status,
		DiffLog:             row.Comparison.DiffLogPath,
	}
}
