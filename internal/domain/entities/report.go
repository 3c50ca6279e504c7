package entities

import (
	"strconv"
	"time"
)

// ReportRow aggregates everything known about one project
type ReportRow struct {
	Project    string
	Build      BuildRecord
	Memory     MemoryCheckRecord
	Comparison ComparisonRecord
}

// Report is the ordered collection of rows produced by one report run.
// Rows keep directory-walk order.
type Report struct {
	Rows              []ReportRow
	IncludeComparison bool
	GeneratedAt       time.Time
}

var baseColumns = []string{
	"Project",
	"Compilation_Errors",
	"Compilation_Warnings",
	"Compilation_Status",
	"Build_Failure",
	"Executable",
	"Valgrind_Status",
	"Valgrind_Error_Summary",
}

var comparisonColumns = []string{
	"Output_Comparison",
	"Diff_Log",
}

// Columns returns the header row for the report
func (r *Report) Columns() []string {
	cols := make([]string, 0, len(baseColumns)+len(comparisonColumns))
	cols = append(cols, baseColumns...)
	if r.IncludeComparison {
		cols = append(cols, comparisonColumns...)
	}
	return cols
}

// Records renders every row as strings in column order
func (r *Report) Records() [][]string {
	records := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		records = append(records, row.Fields(r.IncludeComparison))
	}
	return records
}

// Fields renders the row in column order
func (row ReportRow) Fields(includeComparison bool) []string {
	fields := []string{
		row.Project,
		strconv.Itoa(row.Build.Errors),
		strconv.Itoa(row.Build.Warnings),
		row.Build.CompilationStatus(),
		yesNo(row.Build.Failed()),
		row.Build.ExecutablePath,
		row.Memory.Status,
		row.Memory.Summary,
	}
	if includeComparison {
		fields = append(fields, row.Comparison.Status, row.Comparison.DiffLogPath)
	}
	return fields
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// HistoryEntry is a report row recorded by an earlier run
type HistoryEntry struct {
	RunAt time.Time
	Row   ReportRow
}
