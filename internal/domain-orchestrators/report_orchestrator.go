package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/repositories"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/services"
	domainservices "github.com/ochairo/cppgrade/internal/domain/services"
)

// ProjectScanner interface for finding built projects in an output tree
type ProjectScanner interface {
	Scan(root string) ([]string, error)
}

// ExecutableFinder interface for locating the compiled program
type ExecutableFinder interface {
	Find(buildDir string) (string, bool)
}

// MemoryChecker interface for running the memory-analysis tool
type MemoryChecker interface {
	Check(ctx context.Context, executablePath, buildDir string) (int, string)
}

// ProgramRunner interface for running the program standalone
type ProgramRunner interface {
	Run(ctx context.Context, executablePath string) string
}

// ReportOrchestrator derives one report row per built project
type ReportOrchestrator struct {
	scanner      ProjectScanner
	finder       ExecutableFinder
	memChecker   MemoryChecker
	runner       ProgramRunner
	buildLogs    services.BuildLogAnalyzer
	memoryLogs   services.MemoryLogAnalyzer
	comparator   services.OutputComparator
	sinks        []repositories.ReportSink
	buildDirName string
	logger       interfaces.Logger
}

// ReportOrchestratorConfig holds configuration for the orchestrator
type ReportOrchestratorConfig struct {
	BuildDirName string
}

// NewReportOrchestrator creates a new report orchestrator. Sinks receive the
// finished report in the order given.
func NewReportOrchestrator(
	scanner ProjectScanner,
	finder ExecutableFinder,
	memChecker MemoryChecker,
	runner ProgramRunner,
	buildLogs services.BuildLogAnalyzer,
	memoryLogs services.MemoryLogAnalyzer,
	comparator services.OutputComparator,
	sinks []repositories.ReportSink,
	config ReportOrchestratorConfig,
	logger interfaces.Logger,
) *ReportOrchestrator {
	buildDirName := config.BuildDirName
	if buildDirName == "" {
		buildDirName = "build"
	}

	return &ReportOrchestrator{
		scanner:      scanner,
		finder:       finder,
		memChecker:   memChecker,
		runner:       runner,
		buildLogs:    buildLogs,
		memoryLogs:   memoryLogs,
		comparator:   comparator,
		sinks:        sinks,
		buildDirName: buildDirName,
		logger:       interfaces.OrNoOp(logger),
	}
}

// ReportRequest describes one report run
type ReportRequest struct {
	OutputDir string
	// Expected is the trimmed reference output; nil disables comparison
	Expected *string
}

// LoadExpected reads a reference output file, trimming surrounding whitespace
func LoadExpected(path string) (*string, error) {
	//nolint:gosec // G304: path is the user-supplied reference file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expected output: %w", err)
	}
	expected := strings.TrimSpace(string(data))
	return &expected, nil
}

// GenerateReport analyzes every project under the output directory and hands
// the report to each sink. Per-project problems never abort the run; only a
// missing output directory or a sink failure is returned.
func (o *ReportOrchestrator) GenerateReport(ctx context.Context, req ReportRequest) (*entities.Report, error) {
	projects, err := o.scanner.Scan(req.OutputDir)
	if err != nil {
		return nil, err
	}

	report := &entities.Report{
		IncludeComparison: req.Expected != nil,
		GeneratedAt:       time.Now(),
	}

	for _, dir := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, o.analyzeProject(ctx, req, dir))
	}

	var sinkErrs []error
	for _, sink := range o.sinks {
		if err := sink.WriteReport(ctx, report); err != nil {
			sinkErrs = append(sinkErrs, err)
		}
	}
	if err := errors.Join(sinkErrs...); err != nil {
		return report, fmt.Errorf("failed to write report: %w", err)
	}

	return report, nil
}

func (o *ReportOrchestrator) analyzeProject(ctx context.Context, req ReportRequest, projectDir string) entities.ReportRow {
	buildDir := filepath.Join(projectDir, o.buildDirName)
	row := entities.ReportRow{
		Project:    projectName(req.OutputDir, projectDir),
		Comparison: entities.SkippedComparison(),
	}

	log := o.readBuildLog(buildDir)
	row.Build.Errors, row.Build.Warnings = o.buildLogs.Analyze(log)
	row.Build.State = domainservices.ParseBuildState(log)
	if exe, ok := o.finder.Find(buildDir); ok {
		row.Build.ExecutablePath = exe
	}

	switch {
	case !row.Build.HasExecutable():
		row.Memory = entities.MissingExecutableMemoryCheck()
	case row.Build.Failed():
		row.Memory = entities.SkippedMemoryCheck()
	default:
		_, output := o.memChecker.Check(ctx, row.Build.ExecutablePath, buildDir)
		row.Memory = o.memoryLogs.Analyze(output)
		if req.Expected != nil {
			row.Comparison = o.compare(ctx, row.Build.ExecutablePath, buildDir, *req.Expected)
		}
	}

	o.logger.Info("analyzed project",
		interfaces.F("project", row.Project),
		interfaces.F("errors", row.Build.Errors),
		interfaces.F("warnings", row.Build.Warnings),
		interfaces.F("build_failure", row.Build.Failed()),
		interfaces.F("memory", row.Memory.Status),
		interfaces.F("comparison", row.Comparison.Status))
	return row
}

// readBuildLog returns the build log text; a missing log reads as empty
func (o *ReportOrchestrator) readBuildLog(buildDir string) string {
	path := filepath.Join(buildDir, entities.BuildLogName)
	//nolint:gosec // G304: path is inside the scanned output tree
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			o.logger.Warn("cannot read build log", interfaces.F("path", path), interfaces.F("error", err))
		}
		return ""
	}
	return string(data)
}

func (o *ReportOrchestrator) compare(ctx context.Context, exe, buildDir, expected string) entities.ComparisonRecord {
	actual := o.runner.Run(ctx, exe)
	record := o.comparator.Compare(actual, expected)

	diffPath := filepath.Join(buildDir, entities.DiffLogName)
	if err := os.WriteFile(diffPath, []byte(record.Diff), 0600); err != nil {
		o.logger.Error("failed to write diff log", interfaces.F("path", diffPath), interfaces.F("error", err))
		record.DiffLogPath = entities.NotApplicable
		return record
	}
	record.DiffLogPath = diffPath
	return record
}

// projectName is the project's path relative to the output directory, or the
// output directory's own name when it is the project.
func projectName(outputDir, projectDir string) string {
	rel, err := filepath.Rel(outputDir, projectDir)
	if err != nil || rel == "." {
		abs, _ := filepath.Abs(projectDir)
		return filepath.Base(abs)
	}
	return filepath.ToSlash(rel)
}
