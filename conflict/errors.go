package conflict

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation indicates a model contract was broken: mismatched
	// artifact keys, mismatched version pairs, or a missing version.
	ErrInvariantViolation = errors.New("conflict invariant violation")

	// ErrMissingWinner indicates an artifact has several versions in a graph
	// but no resolved version in the winner set
	ErrMissingWinner = errors.New("no winning version")
)

// MissingWinnerError reports an artifact with multiple observed versions and
// no entry in the resolver's winner set. The winner set and the graph it came
// from disagree, so retrying with the same inputs cannot succeed.
type MissingWinnerError struct {
	ArtifactKey string
	Versions    []string
}

// Error implements the error interface.
func (e *MissingWinnerError) Error() string {
	return fmt.Sprintf("no winning version found for artifact %s (observed %v): winner set is inconsistent with the dependency graph",
		e.ArtifactKey, e.Versions)
}

// Unwrap lets errors.Is match ErrMissingWinner.
func (e *MissingWinnerError) Unwrap() error {
	return ErrMissingWinner
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...)
}
