package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAccessDenied means the requested path lies outside the configured
	// allow-list of repository roots.
	ErrAccessDenied = errors.New("path is not under an allowed root")

	// ErrNotRepository means the path is not inside a git working tree.
	ErrNotRepository = errors.New("not a git repository")
)

// CommandError reports a git invocation that exited non-zero. The message
// prefers git's own stderr when present.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s failed: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
