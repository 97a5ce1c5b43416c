// Package git wraps invocation of the git executable. The executable's exit
// code and stderr are the only contract; nothing here parses diffs or touches
// the object store directly.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner is the capability surface the commit workflow needs from git.
// The production implementation shells out to the git binary in a fixed
// working directory; tests use FakeRunner so no subprocess is ever spawned.
type Runner interface {
	// Run executes `git <args...>` and returns trimmed stdout.
	Run(ctx context.Context, args ...string) (string, error)
	// Status returns porcelain short status; empty means a clean tree.
	Status(ctx context.Context) (string, error)
	// CurrentBranch returns the abbreviated name of HEAD.
	CurrentBranch(ctx context.Context) (string, error)
	// HasRemote reports whether a remote with the given name is configured.
	HasRemote(ctx context.Context, name string) (bool, error)
}

// ExecRunner invokes the git executable with the working directory pinned to
// a single repository path.
type ExecRunner struct {
	dir string
}

func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{dir: dir}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *ExecRunner) Status(ctx context.Context) (string, error) {
	return r.Run(ctx, "status", "--porcelain")
}

func (r *ExecRunner) CurrentBranch(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

func (r *ExecRunner) HasRemote(ctx context.Context, name string) (bool, error) {
	out, err := r.Run(ctx, "remote")
	if err != nil {
		return false, err
	}
	return remoteListed(out, name), nil
}

// remoteListed scans `git remote` output for an exact name match.
func remoteListed(out, name string) bool {
	for _, remote := range strings.Split(out, "\n") {
		if strings.TrimSpace(remote) == name {
			return true
		}
	}
	return false
}
