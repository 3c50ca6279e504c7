package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func makeExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	//nolint:gosec // test binary needs execute permission
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("Failed to write executable: %v", err)
	}
}

func TestExecutableFinder_Find(t *testing.T) {
	t.Run("top-level program wins over CMakeFiles probes", func(t *testing.T) {
		build := t.TempDir()
		makeExecutable(t, filepath.Join(build, "CMakeFiles", "3.22.1", "CompilerIdCXX", "a.out"))
		makeExecutable(t, filepath.Join(build, "main"))
		writeTree(t, build, map[string]string{"Makefile": "all:", "build.log": "log"})

		got, ok := NewExecutableFinder().Find(build)
		if !ok || got != filepath.Join(build, "main") {
			t.Errorf("Find() = (%q, %v), want main", got, ok)
		}
	})

	t.Run("reserved logs skipped even if executable", func(t *testing.T) {
		build := t.TempDir()
		makeExecutable(t, filepath.Join(build, "build.log"))
		makeExecutable(t, filepath.Join(build, "diff.log"))
		makeExecutable(t, filepath.Join(build, "valgrind.log"))

		if got, ok := NewExecutableFinder().Find(build); ok {
			t.Errorf("Find() = %q, want not found", got)
		}
	})

	t.Run("nested executable", func(t *testing.T) {
		build := t.TempDir()
		writeTree(t, build, map[string]string{"CMakeCache.txt": ""})
		makeExecutable(t, filepath.Join(build, "bin", "app"))

		got, ok := NewExecutableFinder().Find(build)
		if !ok || got != filepath.Join(build, "bin", "app") {
			t.Errorf("Find() = (%q, %v), want bin/app", got, ok)
		}
	})

	t.Run("missing build dir", func(t *testing.T) {
		if got, ok := NewExecutableFinder().Find(filepath.Join(t.TempDir(), "nope")); ok {
			t.Errorf("Find() = %q, want not found", got)
		}
	})
}
