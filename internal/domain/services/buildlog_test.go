package services

import (
	"testing"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

func TestBuildLogAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name         string
		log          string
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "empty log",
			log:  "",
		},
		{
			name: "clean build",
			log:  "=== Running cmake .. ===\n-- Configuring done\n[100%] Built target main\n",
		},
		{
			name: "three errors two warnings",
			log: "main.cpp:3:1: error: expected ';'\n" +
				"main.cpp:7:5: warning: unused variable 'x'\n" +
				"list.cpp:12:9: error: use of undeclared identifier 'n'\n" +
				"list.cpp:13:2: warning: implicit conversion\n" +
				"make[2]: *** [CMakeFiles/main.dir/main.cpp.o] Error 1\n",
			wantErrors:   3,
			wantWarnings: 2,
		},
		{
			name:         "case insensitive",
			log:          "ERROR\nWarning\nwArNiNg\n",
			wantErrors:   1,
			wantWarnings: 2,
		},
		{
			name:         "line counts toward both",
			log:          "3 errors, 2 warnings generated.",
			wantErrors:   1,
			wantWarnings: 1,
		},
		{
			name:       "lone carriage return ends a line",
			log:        "error one\rerror two",
			wantErrors: 2,
		},
		{
			name:         "crlf line endings",
			log:          "error one\r\nwarning two\r\n",
			wantErrors:   1,
			wantWarnings: 1,
		},
		{
			name:       "substring inside word",
			log:        "-Werror enabled\nterrors\n",
			wantErrors: 2,
		},
	}

	analyzer := NewBuildLogAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, warns := analyzer.Analyze(tt.log)
			if errs != tt.wantErrors {
				t.Errorf("Analyze() errors = %d, want %d", errs, tt.wantErrors)
			}
			if warns != tt.wantWarnings {
				t.Errorf("Analyze() warnings = %d, want %d", warns, tt.wantWarnings)
			}
		})
	}
}

func TestBuildLogAnalyzer_IgnoresStateTrailer(t *testing.T) {
	analyzer := NewBuildLogAnalyzer()
	for _, state := range []entities.BuildState{
		entities.BuildStateSucceeded,
		entities.BuildStateConfigureFailed,
		entities.BuildStateCompileFailed,
	} {
		errs, warns := analyzer.Analyze(FormatBuildState(state))
		if errs != 0 || warns != 0 {
			t.Errorf("trailer for %q counted (%d, %d), want (0, 0)", state, errs, warns)
		}
	}
}

const deprecationBlock = `CMake Deprecation Warning at CMakeLists.txt:1 (cmake_minimum_required):
  Compatibility with CMake < 3.5 will be removed from a future version of
  CMake.

  Update the VERSION argument <min> value or use a ...<max> suffix to tell
  CMake that the project does not need compatibility with older versions.

`

func TestWarningFilter_Filter(t *testing.T) {
	filter := NewWarningFilter(entities.DefaultProfile().WarningFilter)

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "no block",
			input:  "-- Configuring done\n-- Generating done\n",
			expect: "-- Configuring done\n-- Generating done\n",
		},
		{
			name:   "block removed",
			input:  "-- The CXX compiler identification is GNU\n" + deprecationBlock + "-- Configuring done\n",
			expect: "-- The CXX compiler identification is GNU\n-- Configuring done\n",
		},
		{
			name:   "diagnostic right after block is kept",
			input:  deprecationBlock + "CMake Error at CMakeLists.txt:4 (add_executable):\n  Cannot find source file\n",
			expect: "CMake Error at CMakeLists.txt:4 (add_executable):\n  Cannot find source file\n",
		},
		{
			name:   "block twice",
			input:  deprecationBlock + deprecationBlock + "-- Build files have been written\n",
			expect: "-- Build files have been written\n",
		},
		{
			name:   "block at end",
			input:  "-- start\n" + deprecationBlock,
			expect: "-- start\n",
		},
		{
			name:   "other deprecation warning kept",
			input:  "CMake Deprecation Warning at foo.cmake:3 (message):\n  something else\n",
			expect: "CMake Deprecation Warning at foo.cmake:3 (message):\n  something else\n",
		},
		{
			name:   "other warnings kept",
			input:  "main.cpp:1:1: warning: unused\n" + deprecationBlock + "main.cpp:2:1: warning: shadow\n",
			expect: "main.cpp:1:1: warning: unused\nmain.cpp:2:1: warning: shadow\n",
		},
		{
			name:   "no trailing newline",
			input:  "a\nb",
			expect: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Filter(tt.input)
			if got != tt.expect {
				t.Errorf("Filter() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestWarningFilter_EmptyTriggerIsNoOp(t *testing.T) {
	filter := NewWarningFilter(entities.WarningFilterProfile{})
	input := deprecationBlock + "rest\n"
	if got := filter.Filter(input); got != input {
		t.Errorf("Filter() with empty trigger changed input: %q", got)
	}
}

func TestParseBuildState(t *testing.T) {
	tests := []struct {
		name string
		log  string
		want entities.BuildState
	}{
		{"no trailer", "=== Running make ===\n", entities.BuildStateUnknown},
		{"succeeded", "out\n" + FormatBuildState(entities.BuildStateSucceeded) + "\n", entities.BuildStateSucceeded},
		{"configure failed", FormatBuildState(entities.BuildStateConfigureFailed), entities.BuildStateConfigureFailed},
		{"last trailer wins", FormatBuildState(entities.BuildStateSucceeded) + "\n" + FormatBuildState(entities.BuildStateCompileFailed) + "\n", entities.BuildStateCompileFailed},
		{"non terminal ignored", FormatBuildState(entities.BuildStateCompiling) + "\n", entities.BuildStateUnknown},
		{"crlf", FormatBuildState(entities.BuildStateSucceeded) + "\r\n", entities.BuildStateSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBuildState(tt.log); got != tt.want {
				t.Errorf("ParseBuildState() = %q, want %q", got, tt.want)
			}
		})
	}
}
