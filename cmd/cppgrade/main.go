// Package main provides the cppgrade CLI for batch grading C++ submissions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/external-adapters/console"
	"github.com/ochairo/cppgrade/internal/external-adapters/yaml"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	profilePath string
	verbose     bool
}

// app carries what every command needs for one run
type app struct {
	profile *entities.Profile
	logger  interfaces.Logger
	stdout  io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing to the given streams
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "cppgrade",
		Short: "cppgrade - batch grading pipeline for C++ submissions",
		Long: `cppgrade extracts student submission archives, builds each project
with CMake, and produces a report covering compiler diagnostics, memory
checks and output comparison.

Typical workflow:
  cppgrade build submissions/ out/
  cppgrade report out/ --expected expected.txt`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&opts.profilePath, "profile", "", "grading profile YAML (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	setup := func() (*app, error) {
		logger := console.NewLogger(stderr, opts.verbose)
		profile, err := yaml.NewProfileParser().Load(opts.profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if opts.profilePath != "" {
			logger.Debug("loaded profile", interfaces.F("path", opts.profilePath))
		}
		return &app{profile: profile, logger: logger, stdout: stdout}, nil
	}

	rootCmd.AddCommand(newBuildCmd(setup))
	rootCmd.AddCommand(newReportCmd(setup))
	rootCmd.AddCommand(newHistoryCmd(setup))
	return rootCmd
}
