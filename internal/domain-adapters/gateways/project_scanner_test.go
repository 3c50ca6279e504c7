package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProjectScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"section1/bob/build/build.log":      "",
		"section1/bob/build/build/nested/":  "",
		"section1/alice/src/build/hw":       "",
		"section1/alice/src/Main.cpp":       "",
		"section2/carol/Main.cpp":           "",
		"section2/dave/code/build/":         "",
		"section2/dave/code/lib/build/":     "",
		"section2/dave/code/lib/helper.cpp": "",
	})

	got, err := NewProjectScanner("build").Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "section1", "alice", "src"),
		filepath.Join(root, "section1", "bob"),
		filepath.Join(root, "section2", "dave", "code"),
		filepath.Join(root, "section2", "dave", "code", "lib"),
	}
	if len(got) != len(want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProjectScanner_InvalidRoot(t *testing.T) {
	if _, err := NewProjectScanner("build").Scan(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Scan() missing root: expected error, got nil")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProjectScanner("build").Scan(file); err == nil {
		t.Error("Scan() file root: expected error, got nil")
	}
}
