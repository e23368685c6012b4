package compare

import (
	"fmt"

	"github.com/willibrandon/conflictdiff/conflict"
)

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{conflict.ErrInvariantViolation}, args...)...)
}
