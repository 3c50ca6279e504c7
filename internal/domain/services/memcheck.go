package services

import (
	"regexp"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/services"
)

// StartupFailureMarker is printed by the memory-analysis tool when the
// program could not be started at all.
const StartupFailureMarker = "Fatal error at startup"

var errorSummaryPattern = regexp.MustCompile(`ERROR SUMMARY:\s+(\d+)\s+errors.*`)

type memoryLogAnalyzer struct{}

// NewMemoryLogAnalyzer creates the analyzer for valgrind-style output
func NewMemoryLogAnalyzer() services.MemoryLogAnalyzer {
	return &memoryLogAnalyzer{}
}

// Analyze classifies memory-analysis output. Startup failure is checked
// first: a crashed run can still print a summary-like fragment.
func (a *memoryLogAnalyzer) Analyze(output string) entities.MemoryCheckRecord {
	if strings.Contains(output, StartupFailureMarker) {
		return entities.MemoryCheckRecord{
			Status:  entities.MemoryToolError,
			Summary: StartupFailureMarker,
		}
	}

	match := errorSummaryPattern.FindStringSubmatch(output)
	if match == nil {
		return entities.MemoryCheckRecord{
			Status:  entities.MemoryUnknown,
			Summary: entities.NotApplicable,
		}
	}

	status := entities.MemoryIssues
	// The count may exceed int range; only zero-ness matters.
	if strings.TrimLeft(match[1], "0") == "" {
		status = entities.MemoryOK
	}

	return entities.MemoryCheckRecord{
		Status:  status,
		Summary: strings.TrimSpace(match[0]),
	}
}
