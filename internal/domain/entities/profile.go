package entities

import (
	"strings"
	"time"
)

// Profile is the grading configuration shared by the build and report commands
type Profile struct {
	EntryPoint    string
	Build         BuildProfile
	MemCheck      MemCheckProfile
	Run           RunProfile
	Layout        LayoutProfile
	WarningFilter WarningFilterProfile
	Archives      ArchiveProfile
}

// BuildProfile describes the configure and compile steps
type BuildProfile struct {
	Directory string
	Configure []string
	Compile   []string
	Timeout   time.Duration
}

// MemCheckProfile describes how the memory-analysis tool is invoked.
// The executable path is appended to Command.
type MemCheckProfile struct {
	Command []string
	Timeout time.Duration
}

// RunProfile describes the standalone program run
type RunProfile struct {
	Timeout time.Duration
}

// LayoutProfile configures archive normalization
type LayoutProfile struct {
	SubmissionMarker string
}

// WarningFilterProfile identifies the benign warning block removed from build logs.
// A line starts the block when it contains Trigger and, if set, Directive.
type WarningFilterProfile struct {
	Trigger   string
	Directive string
}

// ArchiveProfile lists the recognized archive file name suffixes
type ArchiveProfile struct {
	Extensions []string
}

// Archive formats the extractor can unpack
const (
	ArchiveTarGz = ".tar.gz"
	ArchiveTgz   = ".tgz"
	ArchiveZip   = ".zip"
)

// ArchiveFormat returns the format suffix name ends with, case-insensitively.
// A configured extension such as ".hw1.zip" resolves to ".zip".
func ArchiveFormat(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, format := range []string{ArchiveTarGz, ArchiveTgz, ArchiveZip} {
		if strings.HasSuffix(lower, format) {
			return format, true
		}
	}
	return "", false
}

// DefaultProfile returns the settings used when no profile file is given
func DefaultProfile() *Profile {
	return &Profile{
		EntryPoint: "Main.cpp",
		Build: BuildProfile{
			Directory: "build",
			Configure: []string{"cmake", ".."},
			Compile:   []string{"make"},
			Timeout:   30 * time.Minute,
		},
		MemCheck: MemCheckProfile{
			Command: []string{"valgrind", "--leak-check=full"},
			Timeout: 5 * time.Minute,
		},
		Run: RunProfile{
			Timeout: 10 * time.Second,
		},
		Layout: LayoutProfile{
			SubmissionMarker: "_assignsubmission_file_",
		},
		WarningFilter: WarningFilterProfile{
			Trigger:   "CMake Deprecation Warning",
			Directive: "cmake_minimum_required",
		},
		Archives: ArchiveProfile{
			Extensions: []string{ArchiveTarGz, ArchiveTgz, ArchiveZip},
		},
	}
}
