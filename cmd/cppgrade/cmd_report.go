package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/cppgrade/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/cppgrade/internal/domain-orchestrators"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/domain/interfaces/repositories"
	"github.com/ochairo/cppgrade/internal/domain/services"
	"github.com/ochairo/cppgrade/internal/external-adapters/console"
	"github.com/ochairo/cppgrade/internal/external-adapters/csv"
	"github.com/ochairo/cppgrade/internal/external-adapters/sqlite"
)

type reportOptions struct {
	reportPath   string
	expectedPath string
	dbPath       string
	quiet        bool
}

func newReportCmd(setup func() (*app, error)) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report <output_dir>",
		Short: "Analyze built projects and write a CSV report",
		Long: `Walks output_dir and treats every directory holding a build directory as
one project. For each project the build log is scanned for errors and
warnings; projects that built cleanly are run under the memory checker and,
when --expected is given, their output is compared with the reference.

Examples:
  cppgrade report out/
  cppgrade report out/ --report grades.csv --expected expected.txt
  cppgrade report out/ --db history.db --quiet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return runReport(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.reportPath, "report", "report.csv", "output CSV report file")
	cmd.Flags().StringVar(&opts.expectedPath, "expected", "", "file holding the expected program output")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "sqlite database accumulating report history")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the report table")
	return cmd
}

func runReport(cmd *cobra.Command, a *app, outputDir string, opts *reportOptions) error {
	req := orchestrators.ReportRequest{OutputDir: outputDir}
	if opts.expectedPath != "" {
		expected, err := orchestrators.LoadExpected(opts.expectedPath)
		if err != nil {
			// A missing reference only disables comparison.
			a.logger.Warn("skipping output comparison",
				interfaces.F("expected", opts.expectedPath),
				interfaces.F("error", err))
		}
		req.Expected = expected
	}

	csvWriter := csv.NewReportWriter(opts.reportPath)
	sinks := []repositories.ReportSink{csvWriter}
	if opts.dbPath != "" {
		store, err := sqlite.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("failed to close database", interfaces.F("error", err))
			}
		}()
		sinks = append(sinks, store)
	}

	profile := a.profile
	executor := gateways.NewCommandExecutor(a.logger)
	orch := orchestrators.NewReportOrchestrator(
		gateways.NewProjectScanner(profile.Build.Directory),
		gateways.NewExecutableFinder(),
		gateways.NewMemoryChecker(executor, profile.MemCheck, a.logger),
		gateways.NewProgramRunner(executor, profile.Run, a.logger),
		services.NewBuildLogAnalyzer(),
		services.NewMemoryLogAnalyzer(),
		services.NewOutputComparator(),
		sinks,
		orchestrators.ReportOrchestratorConfig{BuildDirName: profile.Build.Directory},
		a.logger,
	)

	report, err := orch.GenerateReport(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Report generated: %s\n", csvWriter.Path())
	if !opts.quiet {
		return console.NewReportTable(nil).Print(a.stdout, report)
	}
	return nil
}
