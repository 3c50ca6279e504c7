package gateways

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// mockExecutor returns scripted results keyed by the first command word
type mockExecutor struct {
	results map[string]*ExecuteResult
	calls   []ExecuteConfig
}

func (m *mockExecutor) Execute(_ context.Context, config ExecuteConfig) *ExecuteResult {
	m.calls = append(m.calls, config)
	if r, ok := m.results[config.Command[0]]; ok {
		return r
	}
	return &ExecuteResult{Success: true}
}

// writeTree creates files (and their parent directories) under root.
// Paths ending in "/" create empty directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0750); err != nil {
				t.Fatalf("Failed to create dir %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("Failed to create parent of %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// listTree returns every path under root, relative and slash-separated,
// with directories suffixed by "/".
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
	sort.Strings(paths)
	return paths
}

func assertTree(t *testing.T, root string, want []string) {
	t.Helper()
	got := listTree(t, root)
	sort.Strings(want)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("tree mismatch\n got: %v\nwant: %v", got, want)
	}
}
