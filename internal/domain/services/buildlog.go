// Package services implements domain business logic and use cases.
package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/services"
)

// buildLogAnalyzer counts diagnostic lines with a case-insensitive substring match.
// It deliberately ignores compiler-specific diagnostic syntax.
type buildLogAnalyzer struct{}

// NewBuildLogAnalyzer creates the substring-based build log analyzer
func NewBuildLogAnalyzer() services.BuildLogAnalyzer {
	return &buildLogAnalyzer{}
}

// Analyze returns the number of lines mentioning "error" and "warning".
// A single line can count toward both totals.
func (a *buildLogAnalyzer) Analyze(log string) (errors, warnings int) {
	for _, line := range splitLines(log) {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") {
			errors++
		}
		if strings.Contains(lower, "warning") {
			warnings++
		}
	}
	return errors, warnings
}

// WarningFilter removes a known benign warning block from tool output
type WarningFilter struct {
	trigger   string
	directive string
}

// NewWarningFilter creates a filter for the block described by the profile
func NewWarningFilter(p entities.WarningFilterProfile) *WarningFilter {
	return &WarningFilter{
		trigger:   p.Trigger,
		directive: p.Directive,
	}
}

// Filter drops every occurrence of the warning block. A block starts at a
// trigger line and runs through the following indented or blank lines; the
// first line at column zero ends it and is evaluated normally.
func (f *WarningFilter) Filter(output string) string {
	if f.trigger == "" || output == "" {
		return output
	}

	trailingNewline := strings.HasSuffix(output, "\n")
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")

	kept := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if skipping {
			if isContinuation(line) {
				continue
			}
			skipping = false
		}
		if f.isTrigger(line) {
			skipping = true
			continue
		}
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		return ""
	}
	result := strings.Join(kept, "\n")
	if trailingNewline {
		result += "\n"
	}
	return result
}

func (f *WarningFilter) isTrigger(line string) bool {
	if !strings.Contains(line, f.trigger) {
		return false
	}
	return f.directive == "" || strings.Contains(line, f.directive)
}

func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return line[0] == ' ' || line[0] == '\t'
}

// The trailer wording must never contain "error" or "warning" so that it
// does not skew the analyzer counts.
const buildStateTrailerFormat = "=== build state: %s ==="

var buildStatePattern = regexp.MustCompile(`(?m)^=== build state: ([a-z-]+) ===\r?$`)

// FormatBuildState renders the trailer line the build runner appends to build.log
func FormatBuildState(state entities.BuildState) string {
	return fmt.Sprintf(buildStateTrailerFormat, state)
}

// ParseBuildState returns the last state trailer found in a build log, or
// BuildStateUnknown when there is none.
func ParseBuildState(log string) entities.BuildState {
	matches := buildStatePattern.FindAllStringSubmatch(log, -1)
	if len(matches) == 0 {
		return entities.BuildStateUnknown
	}
	state := entities.BuildState(matches[len(matches)-1][1])
	if !state.Terminal() {
		return entities.BuildStateUnknown
	}
	return state
}
