// Package yaml provides YAML-based grading profile parsing.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// maxTimeout bounds timeout values so they fit a time.Duration in any unit
const maxTimeout = 1_000_000

// yamlProfile represents the raw YAML structure. Pointer and slice fields
// left unset keep the default profile's value.
type yamlProfile struct {
	EntryPoint    *string           `yaml:"entry_point"`
	Build         yamlBuild         `yaml:"build"`
	MemCheck      yamlMemCheck      `yaml:"memcheck"`
	Run           yamlRun           `yaml:"run"`
	Layout        yamlLayout        `yaml:"layout"`
	WarningFilter yamlWarningFilter `yaml:"warning_filter"`
	Archives      yamlArchives      `yaml:"archives"`
}

type yamlBuild struct {
	Directory      *string  `yaml:"directory"`
	Configure      []string `yaml:"configure"`
	Compile        []string `yaml:"compile"`
	TimeoutMinutes *int     `yaml:"timeout_minutes"`
}

type yamlMemCheck struct {
	Command        []string `yaml:"command"`
	TimeoutSeconds *int     `yaml:"timeout_seconds"`
}

type yamlRun struct {
	TimeoutSeconds *int `yaml:"timeout_seconds"`
}

type yamlLayout struct {
	SubmissionMarker *string `yaml:"submission_marker"`
}

type yamlWarningFilter struct {
	Trigger   *string `yaml:"trigger"`
	Directive *string `yaml:"directive"`
}

type yamlArchives struct {
	Extensions []string `yaml:"extensions"`
}

// ProfileParser parses YAML grading profiles
type ProfileParser struct{}

// NewProfileParser creates a new YAML parser
func NewProfileParser() *ProfileParser {
	return &ProfileParser{}
}

// Load returns the default profile when filePath is empty, otherwise the
// parsed file.
func (p *ProfileParser) Load(filePath string) (*entities.Profile, error) {
	if filePath == "" {
		return entities.DefaultProfile(), nil
	}
	return p.ParseFile(filePath)
}

// ParseFile parses a YAML profile file into a Profile entity
func (p *ProfileParser) ParseFile(filePath string) (*entities.Profile, error) {
	//nolint:gosec // G304: filePath is the user-supplied profile
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	profile, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return profile, nil
}

// Parse parses YAML bytes into a Profile entity. Unknown keys are rejected.
func (p *ProfileParser) Parse(data []byte) (*entities.Profile, error) {
	var raw yamlProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	profile := entities.DefaultProfile()
	applyString(&profile.EntryPoint, raw.EntryPoint)

	applyString(&profile.Build.Directory, raw.Build.Directory)
	applyCommand(&profile.Build.Configure, raw.Build.Configure)
	applyCommand(&profile.Build.Compile, raw.Build.Compile)
	applyDuration(&profile.Build.Timeout, raw.Build.TimeoutMinutes, time.Minute)

	applyCommand(&profile.MemCheck.Command, raw.MemCheck.Command)
	applyDuration(&profile.MemCheck.Timeout, raw.MemCheck.TimeoutSeconds, time.Second)

	applyDuration(&profile.Run.Timeout, raw.Run.TimeoutSeconds, time.Second)

	applyString(&profile.Layout.SubmissionMarker, raw.Layout.SubmissionMarker)

	applyString(&profile.WarningFilter.Trigger, raw.WarningFilter.Trigger)
	applyString(&profile.WarningFilter.Directive, raw.WarningFilter.Directive)

	if raw.Archives.Extensions != nil {
		profile.Archives.Extensions = raw.Archives.Extensions
	}

	if err := validate(profile, raw); err != nil {
		return nil, err
	}
	return profile, nil
}

func validate(profile *entities.Profile, raw yamlProfile) error {
	var errs []error

	if strings.TrimSpace(profile.EntryPoint) == "" {
		errs = append(errs, errors.New("entry_point must not be empty"))
	}
	if strings.ContainsAny(profile.Build.Directory, `/\`) || strings.TrimSpace(profile.Build.Directory) == "" {
		errs = append(errs, errors.New("build.directory must be a plain directory name"))
	}
	if len(profile.Build.Configure) == 0 {
		errs = append(errs, errors.New("build.configure must not be empty"))
	}
	if len(profile.Build.Compile) == 0 {
		errs = append(errs, errors.New("build.compile must not be empty"))
	}
	if len(profile.MemCheck.Command) == 0 {
		errs = append(errs, errors.New("memcheck.command must not be empty"))
	}
	for name, v := range map[string]*int{
		"build.timeout_minutes":    raw.Build.TimeoutMinutes,
		"memcheck.timeout_seconds": raw.MemCheck.TimeoutSeconds,
		"run.timeout_seconds":      raw.Run.TimeoutSeconds,
	} {
		switch {
		case v == nil:
		case *v <= 0:
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, *v))
		case *v > maxTimeout:
			errs = append(errs, fmt.Errorf("%s must be at most %d, got %d", name, maxTimeout, *v))
		}
	}
	if len(profile.Archives.Extensions) == 0 {
		errs = append(errs, errors.New("archives.extensions must not be empty"))
	}
	for _, ext := range profile.Archives.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("archive extension %q must start with a dot", ext))
			continue
		}
		if _, ok := entities.ArchiveFormat(ext); !ok {
			errs = append(errs, fmt.Errorf("archive extension %q is not a supported format (.tar.gz, .tgz, .zip)", ext))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// applyCommand replaces dst when the key is present, keeping an explicit
// empty list so validation can reject it.
func applyCommand(dst *[]string, v []string) {
	if v != nil {
		*dst = v
	}
}

func applyDuration(dst *time.Duration, v *int, unit time.Duration) {
	if v != nil {
		*dst = time.Duration(*v) * unit
	}
}
