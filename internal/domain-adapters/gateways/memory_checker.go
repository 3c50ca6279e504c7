package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// MemoryChecker runs an executable under the memory-analysis tool
type MemoryChecker struct {
	executor commandRunner
	profile  entities.MemCheckProfile
	logger   interfaces.Logger
}

// NewMemoryChecker creates a memory checker
func NewMemoryChecker(executor commandRunner, profile entities.MemCheckProfile, logger interfaces.Logger) *MemoryChecker {
	return &MemoryChecker{
		executor: executor,
		profile:  profile,
		logger:   interfaces.OrNoOp(logger),
	}
}

// Check runs the tool and writes its combined output to valgrind.log in
// buildDir. It returns the tool's exit code and output; when the tool cannot
// be launched or times out it returns -1 and an empty string.
func (c *MemoryChecker) Check(ctx context.Context, executablePath, buildDir string) (int, string) {
	command := append(append([]string(nil), c.profile.Command...), executablePath)

	result := c.executor.Execute(ctx, ExecuteConfig{
		Command:     command,
		WorkingDir:  filepath.Dir(executablePath),
		Timeout:     c.profile.Timeout,
		Description: "memcheck",
	})
	if result.LaunchFailed || result.TimedOut {
		c.logger.Error("memory check failed",
			interfaces.F("executable", executablePath),
			interfaces.F("error", result.Error))
		return -1, ""
	}

	output := result.Stdout + "\n" + result.Stderr
	logPath := filepath.Join(buildDir, entities.ValgrindLogName)
	if err := os.WriteFile(logPath, []byte(output), 0600); err != nil {
		c.logger.Error("failed to write memory check log",
			interfaces.F("path", logPath),
			interfaces.F("error", fmt.Errorf("write: %w", err)))
	} else {
		c.logger.Info("memory check output written", interfaces.F("path", logPath))
	}

	return result.ExitCode, output
}
