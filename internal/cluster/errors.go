package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned for actions that only make sense for
	// clusters muchos provisions itself.
	ErrUnsupported = errors.New("unsupported action")

	// ErrMissingPrecondition is returned when an action needs state left
	// behind by an earlier action.
	ErrMissingPrecondition = errors.New("missing precondition")
)

// CommandError reports a remote command or transfer that finished with a
// non-zero exit status.
type CommandError struct {
	Code    int
	Command string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed with return code of %d: %s", e.Code, e.Command)
}
