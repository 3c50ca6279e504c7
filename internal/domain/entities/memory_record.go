package entities

// Memory check status values
const (
	MemoryOK            = "OK"
	MemoryIssues        = "Memory issues"
	MemoryToolError     = "Valgrind Error"
	MemoryUnknown       = "Unknown"
	MemoryNotApplicable = "N/A"
	MemoryNoExecutable  = "No executable found"
)

// NotApplicable is the placeholder used for summaries and paths that do not apply
const NotApplicable = "N/A"

// MemoryCheckRecord is the classified result of a memory-analysis run
type MemoryCheckRecord struct {
	Status  string
	Summary string
}

// SkippedMemoryCheck is recorded when the build failed but an executable exists
func SkippedMemoryCheck() MemoryCheckRecord {
	return MemoryCheckRecord{Status: MemoryNotApplicable, Summary: NotApplicable}
}

// MissingExecutableMemoryCheck is recorded when no executable was found
func MissingExecutableMemoryCheck() MemoryCheckRecord {
	return MemoryCheckRecord{Status: MemoryNoExecutable, Summary: NotApplicable}
}
