package entities

// Output comparison status values
const (
	ComparisonMatches       = "Matches"
	ComparisonDiffers       = "Differs"
	ComparisonNotApplicable = "N/A"
)

// ComparisonRecord is the result of comparing program output with a reference
type ComparisonRecord struct {
	Status      string
	Diff        string
	DiffLogPath string // N/A when no diff log was written
}

// Matches reports whether the outputs were judged equal
func (c ComparisonRecord) Matches() bool {
	return c.Status == ComparisonMatches
}

// SkippedComparison is recorded when no reference was supplied or the build failed
func SkippedComparison() ComparisonRecord {
	return ComparisonRecord{Status: ComparisonNotApplicable, DiffLogPath: NotApplicable}
}
