// Package gateways provides adapter implementations for external tools and the filesystem.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the
// process itself was killed (make and valgrind spawn children).
const waitDelay = 2 * time.Second

// CommandExecutor runs external tools as blocking subprocesses
type CommandExecutor struct {
	defaultTimeout time.Duration
	logger         interfaces.Logger
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(logger interfaces.Logger) *CommandExecutor {
	return &CommandExecutor{
		defaultTimeout: 30 * time.Minute,
		logger:         interfaces.OrNoOp(logger),
	}
}

// ExecuteConfig contains configuration for running one command
type ExecuteConfig struct {
	Command     []string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration
	Description string
}

// ExecuteResult contains the result of command execution
type ExecuteResult struct {
	Success      bool
	ExitCode     int // -1 when the process never started or was killed
	Stdout       string
	Stderr       string
	Duration     time.Duration
	TimedOut     bool
	LaunchFailed bool
	Error        error
}

// Execute runs the command and waits for it to exit or time out.
// Failures are reported in the result, never as a panic or a returned error.
func (ce *CommandExecutor) Execute(ctx context.Context, config ExecuteConfig) *ExecuteResult {
	startTime := time.Now()
	result := &ExecuteResult{ExitCode: -1}

	if len(config.Command) == 0 {
		result.LaunchFailed = true
		result.Error = fmt.Errorf("empty command")
		return result
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = ce.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: commands come from the grading profile
	cmd := exec.CommandContext(execCtx, config.Command[0], config.Command[1:]...)
	cmd.WaitDelay = waitDelay

	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	if len(config.Env) > 0 {
		env := os.Environ()
		for key, value := range config.Env {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ce.logger.Debug("running command",
		interfaces.F("step", config.Description),
		interfaces.F("command", strings.Join(config.Command, " ")),
		interfaces.F("dir", config.WorkingDir))

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err == nil {
		result.Success = true
		result.ExitCode = 0
		return result
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.Error = fmt.Errorf("%s timed out after %v", config.Command[0], timeout)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		result.Error = err
	default:
		result.LaunchFailed = true
		result.Error = fmt.Errorf("failed to start %s: %w", config.Command[0], err)
	}

	return result
}
