package memory

import "github.com/m-mizutani/goerr/v2"

// MergeStrategy decides how a candidate statement merges into an existing
// similar memory during add. The set is closed; strategies are selected by
// configuration, not discovered at runtime.
type MergeStrategy string

const (
	// MergeStrategyReplace overwrites the existing content with the
	// candidate statement.
	MergeStrategyReplace MergeStrategy = "replace"

	// MergeStrategyAppend keeps the existing content and appends the
	// candidate statement on a new line.
	MergeStrategyAppend MergeStrategy = "append"
)

// Validate checks if the merge strategy is valid
func (s MergeStrategy) Validate() error {
	switch s {
	case MergeStrategyReplace, MergeStrategyAppend:
		return nil
	default:
		return goerr.New("invalid merge strategy", goerr.Value("strategy", s))
	}
}

// Apply merges the candidate into the existing content.
func (s MergeStrategy) Apply(existing, candidate string) string {
	switch s {
	case MergeStrategyAppend:
		if existing == "" {
			return candidate
		}
		return existing + "\n" + candidate
	default:
		return candidate
	}
}
