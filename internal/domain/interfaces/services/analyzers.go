// Package services defines interfaces for domain service contracts.
package services

import "github.com/ochairo/cppgrade/internal/domain/entities"

// BuildLogAnalyzer classifies a build log into diagnostic counts.
// Implementations may be heuristic; the aggregator depends only on this contract.
type BuildLogAnalyzer interface {
	Analyze(log string) (errors, warnings int)
}

// MemoryLogAnalyzer classifies memory-analysis output into a status and summary
type MemoryLogAnalyzer interface {
	Analyze(output string) entities.MemoryCheckRecord
}

// OutputComparator compares actual program output against a reference
type OutputComparator interface {
	Compare(actual, expected string) entities.ComparisonRecord
}
