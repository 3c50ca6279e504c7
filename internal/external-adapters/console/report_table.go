package console

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ochairo/cppgrade/internal/domain/entities"
)

// TableStyles holds the colors used by the report table
type TableStyles struct {
	Header lipgloss.Color
	Border lipgloss.Color
	Good   lipgloss.Color
	Bad    lipgloss.Color
	Muted  lipgloss.Color
}

// DefaultTableStyles returns the default color palette
func DefaultTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.Color("#8AB4F8"),
		Border: lipgloss.Color("#5F6368"),
		Good:   lipgloss.Color("#34A853"),
		Bad:    lipgloss.Color("#EA4335"),
		Muted:  lipgloss.Color("#9AA0A6"),
	}
}

// verdicts maps cell values to a good (true) or bad (false) rendering.
// "OK" covers both the compilation and the memory status.
var verdicts = map[string]bool{
	entities.CompilationOK:      true,
	entities.ComparisonMatches:  true,
	"No":                        true,
	entities.CompilationErrors:  false,
	entities.MemoryIssues:       false,
	entities.MemoryToolError:    false,
	entities.MemoryNoExecutable: false,
	entities.ComparisonDiffers:  false,
	"Yes":                       false,
}

// ReportTable renders a report for the terminal
type ReportTable struct {
	styles *TableStyles
}

// NewReportTable creates a renderer with the given styles; nil uses defaults
func NewReportTable(styles *TableStyles) *ReportTable {
	if styles == nil {
		styles = DefaultTableStyles()
	}
	return &ReportTable{styles: styles}
}

// hiddenColumns stay in the CSV but are too long for the terminal
var hiddenColumns = map[string]bool{
	"Valgrind_Error_Summary": true,
	"Diff_Log":               true,
	"Executable":             true,
}

// visible returns the kept column indexes and their headers
func visible(columns []string) ([]int, []string) {
	keep := make([]int, 0, len(columns))
	headers := make([]string, 0, len(columns))
	for i, col := range columns {
		if hiddenColumns[col] {
			continue
		}
		keep = append(keep, i)
		headers = append(headers, col)
	}
	return keep, headers
}

func pick(record []string, keep []int) []string {
	row := make([]string, 0, len(keep))
	for _, i := range keep {
		row = append(row, record[i])
	}
	return row
}

// Render returns the report as a bordered table. The long summary and
// diff-log columns are left out; they stay in the CSV.
func (r *ReportTable) Render(report *entities.Report) string {
	keep, headers := visible(report.Columns())

	rows := make([][]string, 0, len(report.Rows))
	for _, record := range report.Records() {
		rows = append(rows, pick(record, keep))
	}

	return r.renderTable(headers, rows)
}

func (r *ReportTable) renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(r.styles.Header).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.styles.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(rows) || col >= len(rows[row]) {
				return cellStyle
			}
			good, known := verdicts[rows[row][col]]
			switch {
			case !known:
				return cellStyle
			case good:
				return cellStyle.Foreground(r.styles.Good)
			default:
				return cellStyle.Foreground(r.styles.Bad)
			}
		})

	return t.Render()
}

// Print writes the rendered table followed by a one-line tally
func (r *ReportTable) Print(w io.Writer, report *entities.Report) error {
	failed := 0
	for _, row := range report.Rows {
		if row.Build.Failed() {
			failed++
		}
	}
	tally := lipgloss.NewStyle().Foreground(r.styles.Muted).
		Render(fmt.Sprintf("%d project(s), %d build failure(s)", len(report.Rows), failed))

	_, err := fmt.Fprintf(w, "%s\n%s\n", r.Render(report), tally)
	return err
}

// RenderHistory returns earlier runs of one project, oldest first. The
// project column is replaced by the run time.
func (r *ReportTable) RenderHistory(entries []entities.HistoryEntry) string {
	columns := (&entities.Report{IncludeComparison: true}).Columns()
	keep, headers := visible(columns)
	keep, headers = keep[1:], append([]string{"Run_At"}, headers[1:]...)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := append([]string{e.RunAt.Local().Format(time.DateTime)}, pick(e.Row.Fields(true), keep)...)
		rows = append(rows, row)
	}
	return r.renderTable(headers, rows)
}

// PrintHistory writes the history table, or a notice when there is none
func (r *ReportTable) PrintHistory(w io.Writer, project string, entries []entities.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No history recorded for %s\n", project)
		return err
	}
	title := lipgloss.NewStyle().Foreground(r.styles.Header).Bold(true).Render(project)
	tally := lipgloss.NewStyle().Foreground(r.styles.Muted).
		Render(fmt.Sprintf("%d run(s)", len(entries)))
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", title, r.RenderHistory(entries), tally)
	return err
}
