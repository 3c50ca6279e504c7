package services

import (
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/services"
)

// diffContext matches the default context size of a unified diff
const diffContext = 3

// outputComparator compares outputs ignoring blank lines and all whitespace,
// line breaks included. Token order still matters.
type outputComparator struct{}

// NewOutputComparator creates the whitespace-insensitive comparator
func NewOutputComparator() services.OutputComparator {
	return &outputComparator{}
}

// Compare diffs expected against actual and reports whether they match.
// Outputs whose non-whitespace content is identical produce an empty diff
// when their line breaks fall in different places. A permutation of the
// same lines is never treated as a re-break and always differs.
func (c *outputComparator) Compare(actual, expected string) entities.ComparisonRecord {
	expectedLines := NormalizeOutput(expected)
	actualLines := NormalizeOutput(actual)

	diff := ""
	if !rebroken(expectedLines, actualLines) {
		diff = UnifiedDiff(expectedLines, actualLines)
	}

	status := entities.ComparisonDiffers
	if strings.TrimSpace(diff) == "" {
		status = entities.ComparisonMatches
	}

	return entities.ComparisonRecord{
		Status: status,
		Diff:   diff,
	}
}

// rebroken reports whether both sides carry the same tokens split into
// different lines, as opposed to the same lines in a different order.
func rebroken(expected, actual []string) bool {
	if strings.Join(expected, "") != strings.Join(actual, "") {
		return false
	}
	a := slices.Clone(expected)
	b := slices.Clone(actual)
	slices.Sort(a)
	slices.Sort(b)
	return !slices.Equal(a, b)
}

// NormalizeOutput splits text into lines, drops blank lines and removes every
// whitespace character from the lines that remain.
func NormalizeOutput(text string) []string {
	var lines []string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.Join(strings.Fields(line), ""))
	}
	return lines
}

// UnifiedDiff renders a line diff labelled "expected" and "actual". The
// result is empty when the sequences are equal.
func UnifiedDiff(expected, actual []string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withEOL(expected),
		B:        withEOL(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  diffContext,
	})
	if err != nil {
		// Writes go to an in-memory buffer and cannot fail.
		return ""
	}
	return strings.TrimSuffix(text, "\n")
}

func withEOL(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

// splitLines splits on \n, \r\n and lone \r
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
