package yaml

import (
	"testing"
)

// FuzzProfileParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzProfileParser -fuzztime=30s
func FuzzProfileParser(f *testing.F) {
	f.Add([]byte(`entry_point: Main.cpp
build:
  directory: build
  configure: [cmake, ..]
  compile: [make]
  timeout_minutes: 30
`))
	f.Add([]byte(`memcheck:
  command: [valgrind, --leak-check=full]
  timeout_seconds: 300
warning_filter:
  trigger: CMake Deprecation Warning
  directive: cmake_minimum_required
`))
	f.Add([]byte(""))
	f.Add([]byte("{}"))
	f.Add([]byte("run: {timeout_seconds: -5}"))
	f.Add([]byte("archives:\n  extensions: ~\n"))
	f.Add([]byte("- not\n- a\n- mapping\n"))

	parser := NewProfileParser()
	f.Fuzz(func(t *testing.T, data []byte) {
		profile, err := parser.Parse(data)
		if err != nil {
			return
		}
		// Anything accepted must be usable by the pipeline
		if profile.EntryPoint == "" {
			t.Error("accepted profile with empty entry point")
		}
		if len(profile.Build.Configure) == 0 || len(profile.Build.Compile) == 0 || len(profile.MemCheck.Command) == 0 {
			t.Error("accepted profile with empty command")
		}
		if profile.Build.Timeout <= 0 || profile.MemCheck.Timeout <= 0 || profile.Run.Timeout <= 0 {
			t.Error("accepted profile with non-positive timeout")
		}
	})
}
