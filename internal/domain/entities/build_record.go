package entities

// BuildState is the terminal (or in-flight) state of the build runner
type BuildState string

// Build runner states. Succeeded, ConfigureFailed and CompileFailed are terminal.
const (
	BuildStateClean           BuildState = "clean"
	BuildStateConfiguring     BuildState = "configuring"
	BuildStateCompiling       BuildState = "compiling"
	BuildStateSucceeded       BuildState = "succeeded"
	BuildStateConfigureFailed BuildState = "configure-failed"
	BuildStateCompileFailed   BuildState = "compile-failed"

	// BuildStateUnknown is used when a build log carries no state trailer,
	// e.g. logs produced by an older tool or an interrupted run.
	BuildStateUnknown BuildState = ""
)

// Terminal reports whether the state ends the build
func (s BuildState) Terminal() bool {
	switch s {
	case BuildStateSucceeded, BuildStateConfigureFailed, BuildStateCompileFailed:
		return true
	}
	return false
}

// Failed reports whether the state is a failed terminal state
func (s BuildState) Failed() bool {
	return s == BuildStateConfigureFailed || s == BuildStateCompileFailed
}

// Compilation status values as written to the report
const (
	CompilationOK     = "OK"
	CompilationErrors = "Errors"
)

// BuildRecord is derived from a project's build directory
type BuildRecord struct {
	Errors         int
	Warnings       int
	State          BuildState
	ExecutablePath string // empty when no executable was found
}

// CompilationStatus returns "Errors" when any error line was counted
func (r BuildRecord) CompilationStatus() string {
	if r.Errors > 0 {
		return CompilationErrors
	}
	return CompilationOK
}

// HasExecutable reports whether an executable was found
func (r BuildRecord) HasExecutable() bool {
	return r.ExecutablePath != ""
}

// Failed combines the text heuristic, the executable lookup and the exit
// status recorded by the build runner.
func (r BuildRecord) Failed() bool {
	return r.Errors > 0 || !r.HasExecutable() || r.State.Failed()
}

// CanTransition reports whether the build runner may move from s to next
func (s BuildState) CanTransition(next BuildState) bool {
	switch s {
	case BuildStateClean:
		return next == BuildStateConfiguring
	case BuildStateConfiguring:
		return next == BuildStateCompiling || next == BuildStateConfigureFailed
	case BuildStateCompiling:
		return next == BuildStateSucceeded || next == BuildStateCompileFailed
	default:
		return false
	}
}

// BuildOutcome describes one build attempt as seen by the build runner.
// Exit codes are -1 when the step never ran or could not complete.
type BuildOutcome struct {
	State         BuildState
	BuildDir      string
	LogPath       string
	ConfigureExit int
	CompileExit   int
}
