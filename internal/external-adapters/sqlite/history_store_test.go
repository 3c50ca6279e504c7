package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func reportAt(at time.Time, errors int) *entities.Report {
	return &entities.Report{
		GeneratedAt: at,
		Rows: []entities.ReportRow{
			{
				Project: "s1/alice",
				Build: entities.BuildRecord{
					Errors:         errors,
					Warnings:       1,
					State:          entities.BuildStateSucceeded,
					ExecutablePath: "/out/s1/alice/build/hw",
				},
				Memory:     entities.MemoryCheckRecord{Status: entities.MemoryOK, Summary: "ERROR SUMMARY: 0 errors from 0 contexts"},
				Comparison: entities.SkippedComparison(),
			},
			{
				Project:    "s1/bob",
				Memory:     entities.MissingExecutableMemoryCheck(),
				Comparison: entities.SkippedComparison(),
			},
		},
	}
}

func TestHistoryStore_WriteReport(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := store.WriteReport(ctx, reportAt(first, 0)); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if err := store.WriteReport(ctx, reportAt(first.Add(time.Hour), 2)); err != nil {
		t.Fatalf("WriteReport() second run error = %v", err)
	}

	history, err := store.History("s1/alice")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History() = %d rows, want 2", len(history))
	}

	oldest := history[0]
	if oldest.ID == 0 {
		t.Error("ID not assigned")
	}
	if !oldest.RunAt.Equal(first) {
		t.Errorf("RunAt = %v, want %v", oldest.RunAt, first)
	}
	if oldest.CompilationErrors != 0 || oldest.CompilationWarnings != 1 || oldest.BuildFailure {
		t.Errorf("oldest row = %+v", oldest)
	}
	if oldest.BuildState != "succeeded" || oldest.ValgrindStatus != entities.MemoryOK {
		t.Errorf("oldest row = %+v", oldest)
	}

	latest := history[1]
	if latest.CompilationErrors != 2 || !latest.BuildFailure || latest.CompilationStatus != entities.CompilationErrors {
		t.Errorf("latest row = %+v", latest)
	}

	bob, err := store.History("s1/bob")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(bob) != 2 || bob[0].ValgrindStatus != entities.MemoryNoExecutable || bob[0].Executable != "" {
		t.Errorf("bob history = %+v", bob)
	}
}

func TestHistoryStore_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.WriteReport(context.Background(), reportAt(time.Now(), 0)); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	defer reopened.Close()

	history, err := reopened.History("s1/alice")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("History() = %d rows after reopen, want 1", len(history))
	}
}

func TestHistoryStore_UnknownProject(t *testing.T) {
	history, err := openTestStore(t).History("nobody")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() = %v, want empty", history)
	}
}

func TestHistoryRow_Entry(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	report := reportAt(at, 2)
	if err := store.WriteReport(context.Background(), report); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	for _, want := range report.Rows {
		history, err := store.History(want.Project)
		if err != nil || len(history) != 1 {
			t.Fatalf("History(%s) = %v, %v", want.Project, history, err)
		}
		entry := history[0].Entry()
		if !entry.RunAt.Equal(at) {
			t.Errorf("RunAt = %v, want %v", entry.RunAt, at)
		}
		got := entry.Row.Fields(true)
		wantFields := want.Fields(true)
		for i := range wantFields {
			if got[i] != wantFields[i] {
				t.Errorf("%s field %d = %q, want %q", want.Project, i, got[i], wantFields[i])
			}
		}
	}
}

func TestOpenExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if _, err := OpenExisting(path); err == nil {
		t.Fatal("OpenExisting() on a missing file should fail")
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	_ = store.Close()

	existing, err := OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting() error = %v", err)
	}
	_ = existing.Close()
}
