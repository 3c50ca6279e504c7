package gateways

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/domain/services"
)

// commandRunner is the subset of CommandExecutor the runners need
type commandRunner interface {
	Execute(ctx context.Context, config ExecuteConfig) *ExecuteResult
}

// BuildRunner configures and compiles a project in a fresh build directory.
// It moves through clean -> configuring -> compiling -> succeeded, stopping
// at configure-failed or compile-failed.
type BuildRunner struct {
	executor commandRunner
	filter   *services.WarningFilter
	profile  entities.BuildProfile
	logger   interfaces.Logger
}

// NewBuildRunner creates a build runner
func NewBuildRunner(executor commandRunner, filter *services.WarningFilter, profile entities.BuildProfile, logger interfaces.Logger) *BuildRunner {
	return &BuildRunner{
		executor: executor,
		filter:   filter,
		profile:  profile,
		logger:   interfaces.OrNoOp(logger),
	}
}

// buildMachine tracks the runner's state and rejects invalid transitions
type buildMachine struct {
	state entities.BuildState
}

func (m *buildMachine) transition(next entities.BuildState) error {
	if !m.state.CanTransition(next) {
		return fmt.Errorf("invalid build transition %s -> %s", m.state, next)
	}
	m.state = next
	return nil
}

// Build runs the configure and compile steps for a located project. The
// returned error covers only local I/O problems (build directory, log file);
// tool failures are reported through the outcome state.
func (r *BuildRunner) Build(ctx context.Context, project *entities.Project) (*entities.BuildOutcome, error) {
	if !project.Located() {
		return nil, fmt.Errorf("project %s has no entry-point directory", project.Name)
	}

	buildDir := project.BuildDir
	outcome := &entities.BuildOutcome{
		BuildDir:      buildDir,
		LogPath:       filepath.Join(buildDir, entities.BuildLogName),
		ConfigureExit: -1,
		CompileExit:   -1,
	}
	machine := &buildMachine{state: entities.BuildStateClean}

	if err := r.clean(buildDir); err != nil {
		return nil, err
	}

	//nolint:gosec // G304: log path is inside the build directory just created
	logFile, err := os.Create(outcome.LogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create build log: %w", err)
	}
	//nolint:errcheck // Closed explicitly below; this covers early returns
	defer logFile.Close()
	log := bufio.NewWriter(logFile)

	if err := machine.transition(entities.BuildStateConfiguring); err != nil {
		return nil, err
	}
	outcome.ConfigureExit = r.runStep(ctx, log, "configure", r.profile.Configure, buildDir)
	if outcome.ConfigureExit != 0 {
		r.logger.Error("configure step failed",
			interfaces.F("project", project.Name),
			interfaces.F("exit_code", outcome.ConfigureExit))
		fmt.Fprintf(log, "configure step failed with exit code %d\n", outcome.ConfigureExit)
		if err := machine.transition(entities.BuildStateConfigureFailed); err != nil {
			return nil, err
		}
		return r.finish(log, logFile, machine, outcome)
	}

	if err := machine.transition(entities.BuildStateCompiling); err != nil {
		return nil, err
	}
	fmt.Fprintln(log)
	outcome.CompileExit = r.runStep(ctx, log, "compile", r.profile.Compile, buildDir)
	if outcome.CompileExit != 0 {
		r.logger.Error("compile step failed",
			interfaces.F("project", project.Name),
			interfaces.F("exit_code", outcome.CompileExit))
		fmt.Fprintf(log, "compile step failed with exit code %d\n", outcome.CompileExit)
		if err := machine.transition(entities.BuildStateCompileFailed); err != nil {
			return nil, err
		}
		return r.finish(log, logFile, machine, outcome)
	}

	r.logger.Info("build completed", interfaces.F("project", project.Name), interfaces.F("dir", buildDir))
	fmt.Fprintf(log, "Build completed successfully in %s\n", buildDir)
	if err := machine.transition(entities.BuildStateSucceeded); err != nil {
		return nil, err
	}
	return r.finish(log, logFile, machine, outcome)
}

// clean removes a stale build directory and recreates it empty
func (r *BuildRunner) clean(buildDir string) error {
	if _, err := os.Stat(buildDir); err == nil {
		if err := os.RemoveAll(buildDir); err != nil {
			return fmt.Errorf("failed to delete build directory: %w", err)
		}
		r.logger.Debug("deleted existing build directory", interfaces.F("dir", buildDir))
	}
	if err := os.MkdirAll(buildDir, 0750); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	return nil
}

// runStep executes one tool invocation and appends its filtered output to the log
func (r *BuildRunner) runStep(ctx context.Context, log *bufio.Writer, step string, command []string, dir string) int {
	fmt.Fprintf(log, "=== Running %s ===\n", strings.Join(command, " "))

	result := r.executor.Execute(ctx, ExecuteConfig{
		Command:     command,
		WorkingDir:  dir,
		Timeout:     r.profile.Timeout,
		Description: step,
	})

	if result.Stdout != "" {
		r.logger.Debug("command output", interfaces.F("step", step), interfaces.F("stdout", result.Stdout))
	}
	if result.Stderr != "" {
		r.logger.Debug("command diagnostics", interfaces.F("step", step), interfaces.F("stderr", result.Stderr))
	}

	writeSection(log, r.filter.Filter(result.Stdout))
	writeSection(log, r.filter.Filter(result.Stderr))

	if result.Success {
		return 0
	}
	if result.LaunchFailed || result.TimedOut {
		// Recorded in the log so the failure is visible without the console
		fmt.Fprintf(log, "%s step could not complete: %v\n", step, result.Error)
	}
	if result.ExitCode == 0 {
		return -1
	}
	return result.ExitCode
}

func (r *BuildRunner) finish(log *bufio.Writer, logFile *os.File, machine *buildMachine, outcome *entities.BuildOutcome) (*entities.BuildOutcome, error) {
	outcome.State = machine.state
	fmt.Fprintln(log, services.FormatBuildState(machine.state))
	if err := log.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write build log: %w", err)
	}
	if err := logFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close build log: %w", err)
	}
	return outcome, nil
}

func writeSection(log *bufio.Writer, text string) {
	if text == "" {
		return
	}
	_, _ = log.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		_ = log.WriteByte('\n')
	}
}
