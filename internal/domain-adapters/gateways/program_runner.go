package gateways

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// ProgramRunner runs a compiled program standalone to capture its output
type ProgramRunner struct {
	executor commandRunner
	profile  entities.RunProfile
	logger   interfaces.Logger
}

// NewProgramRunner creates a program runner. The timeout aborts only the
// single program run, never the caller's batch.
func NewProgramRunner(executor commandRunner, profile entities.RunProfile, logger interfaces.Logger) *ProgramRunner {
	return &ProgramRunner{
		executor: executor,
		profile:  profile,
		logger:   interfaces.OrNoOp(logger),
	}
}

// Run returns the program's trimmed stdout. A timeout or launch failure
// yields an empty string; a non-zero exit still returns what was printed.
func (p *ProgramRunner) Run(ctx context.Context, executablePath string) string {
	result := p.executor.Execute(ctx, ExecuteConfig{
		Command:     []string{executablePath},
		WorkingDir:  filepath.Dir(executablePath),
		Timeout:     p.profile.Timeout,
		Description: "run",
	})
	if result.LaunchFailed || result.TimedOut {
		p.logger.Error("error running program",
			interfaces.F("executable", executablePath),
			interfaces.F("error", result.Error))
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}
