package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Repo is a validated handle to a git working tree: the path is absolute,
// inside the allow-list when one is configured, and confirmed to belong to an
// initialized repository. A Repo is immutable and lives for a single call.
type Repo struct {
	path   string
	runner Runner
}

// Open resolves path, enforces allowedRoots (an empty list means
// unrestricted), and confirms the directory is inside a git working tree by
// asking git for its top-level directory.
func Open(ctx context.Context, path string, allowedRoots []string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if err := checkAllowed(abs, allowedRoots); err != nil {
		return nil, err
	}

	runner := NewExecRunner(abs)
	if _, err := runner.Run(ctx, "rev-parse", "--show-toplevel"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}
	return &Repo{path: abs, runner: runner}, nil
}

func (r *Repo) Path() string { return r.path }

func (r *Repo) Runner() Runner { return r.runner }

// checkAllowed accepts abs when it equals an allowed root or sits below one.
// Matching is on path-segment boundaries so /srv/repos-evil does not pass for
// the root /srv/repos.
func checkAllowed(abs string, roots []string) error {
	if len(roots) == 0 {
		return nil
	}
	for _, root := range roots {
		resolved, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		resolved = filepath.Clean(resolved)
		if abs == resolved || strings.HasPrefix(abs, resolved+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (set COMMIT_BUDDY_ALLOWED_ROOTS to allow this repo)", ErrAccessDenied, abs)
}
