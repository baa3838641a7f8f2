package enhance

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded is returned by the pre-flight estimate when the
// predicted cost exceeds the configured ceiling. No generation call has
// been made when this error surfaces.
var ErrBudgetExceeded = errors.New("estimated cost exceeds configured budget")

// MalformedResponseError reports provider output that could not be used as
// task content. The orchestrator recovers from it with a deterministic
// substitute; it never aborts the run.
type MalformedResponseError struct {
	Feature Feature
	Reason  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response for %s: %s", e.Feature, e.Reason)
}
