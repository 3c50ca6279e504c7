package yaml

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

func TestProfileParser_Parse_Valid(t *testing.T) {
	parser := NewProfileParser()
	yamlData := []byte(`entry_point: main.cpp
build:
  directory: out
  configure: [cmake, -DCMAKE_BUILD_TYPE=Debug, ..]
  compile: [make, -j4]
  timeout_minutes: 5
memcheck:
  command: [valgrind, --leak-check=full, --error-exitcode=1]
  timeout_seconds: 60
run:
  timeout_seconds: 3
layout:
  submission_marker: _onlinetext_
warning_filter:
  trigger: CMake Warning (dev)
  directive: ""
archives:
  extensions: [.zip]
`)

	profile, err := parser.Parse(yamlData)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if profile.EntryPoint != "main.cpp" {
		t.Errorf("EntryPoint = %v, want main.cpp", profile.EntryPoint)
	}
	if profile.Build.Directory != "out" {
		t.Errorf("Build.Directory = %v, want out", profile.Build.Directory)
	}
	if !reflect.DeepEqual(profile.Build.Configure, []string{"cmake", "-DCMAKE_BUILD_TYPE=Debug", ".."}) {
		t.Errorf("Build.Configure = %v", profile.Build.Configure)
	}
	if profile.Build.Timeout != 5*time.Minute {
		t.Errorf("Build.Timeout = %v, want 5m", profile.Build.Timeout)
	}
	if profile.MemCheck.Timeout != time.Minute {
		t.Errorf("MemCheck.Timeout = %v, want 1m", profile.MemCheck.Timeout)
	}
	if profile.Run.Timeout != 3*time.Second {
		t.Errorf("Run.Timeout = %v, want 3s", profile.Run.Timeout)
	}
	if profile.Layout.SubmissionMarker != "_onlinetext_" {
		t.Errorf("SubmissionMarker = %v", profile.Layout.SubmissionMarker)
	}
	if profile.WarningFilter.Trigger != "CMake Warning (dev)" || profile.WarningFilter.Directive != "" {
		t.Errorf("WarningFilter = %+v", profile.WarningFilter)
	}
	if !reflect.DeepEqual(profile.Archives.Extensions, []string{".zip"}) {
		t.Errorf("Archives.Extensions = %v", profile.Archives.Extensions)
	}
}

func TestProfileParser_Parse_Defaults(t *testing.T) {
	parser := NewProfileParser()
	want := entities.DefaultProfile()

	for name, data := range map[string]string{
		"empty document": "",
		"comment only":   "# defaults\n",
		"empty mapping":  "{}\n",
	} {
		t.Run(name, func(t *testing.T) {
			profile, err := parser.Parse([]byte(data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(profile, want) {
				t.Errorf("Parse() = %+v, want defaults %+v", profile, want)
			}
		})
	}
}

func TestProfileParser_Parse_PartialOverride(t *testing.T) {
	profile, err := NewProfileParser().Parse([]byte("run:\n  timeout_seconds: 30\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if profile.Run.Timeout != 30*time.Second {
		t.Errorf("Run.Timeout = %v, want 30s", profile.Run.Timeout)
	}
	defaults := entities.DefaultProfile()
	if profile.EntryPoint != defaults.EntryPoint || !reflect.DeepEqual(profile.Build, defaults.Build) {
		t.Error("unrelated settings should keep their defaults")
	}
}

func TestProfileParser_Parse_Invalid(t *testing.T) {
	parser := NewProfileParser()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"unknown key", "entrypoint: Main.cpp\n", "field entrypoint not found"},
		{"malformed", "build: [unclosed\n", "failed to parse YAML"},
		{"empty entry point", "entry_point: \"  \"\n", "entry_point must not be empty"},
		{"nested build dir", "build:\n  directory: a/b\n", "build.directory"},
		{"empty configure", "build:\n  configure: []\n", "build.configure must not be empty"},
		{"zero timeout", "run:\n  timeout_seconds: 0\n", "run.timeout_seconds must be positive"},
		{"negative timeout", "build:\n  timeout_minutes: -1\n", "build.timeout_minutes must be positive"},
		{"empty memcheck", "memcheck:\n  command: []\n", "memcheck.command must not be empty"},
		{"extension without dot", "archives:\n  extensions: [zip]\n", "must start with a dot"},
		{"unsupported extension", "archives:\n  extensions: [.zip, .tar.bz2]\n", "\".tar.bz2\" is not a supported format"},
		{"rar", "archives:\n  extensions: [.rar]\n", "not a supported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestProfileParser_Load(t *testing.T) {
	parser := NewProfileParser()

	profile, err := parser.Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(profile, entities.DefaultProfile()) {
		t.Error("Load(\"\") should return the default profile")
	}

	path := filepath.Join(t.TempDir(), "profile.yml")
	if err := os.WriteFile(path, []byte("entry_point: App.cpp\n"), 0600); err != nil {
		t.Fatal(err)
	}
	profile, err = parser.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if profile.EntryPoint != "App.cpp" {
		t.Errorf("EntryPoint = %v, want App.cpp", profile.EntryPoint)
	}

	if _, err := parser.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing profile, got nil")
	}
}
