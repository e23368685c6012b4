package commands

// Exit codes returned through ExitError.
const (
	// ExitNewConflicts reports new conflicts under --fail-on-new
	ExitNewConflicts = 2
)

// ExitError ends the process with Code after printing Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
