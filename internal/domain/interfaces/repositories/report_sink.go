// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/cppgrade/internal/domain/entities"
)

// ReportSink persists a finished report
type ReportSink interface {
	// WriteReport stores every row of the report, preserving row order
	WriteReport(ctx context.Context, report *entities.Report) error
}
