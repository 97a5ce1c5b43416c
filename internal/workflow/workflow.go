// Package workflow implements the guarded commit-and-push state machine:
// validate, resolve branch, enforce push safety, resolve the message, then
// commit and optionally push. The step order is load-bearing — the safety
// gate runs before any model call, and dry-run returns before any mutation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samzong/commit-buddy/internal/diff"
	"github.com/samzong/commit-buddy/internal/git"
	"github.com/samzong/commit-buddy/internal/llm"
)

var (
	// ErrMessageRequired means no message was supplied and none could be
	// generated.
	ErrMessageRequired = errors.New("commit message is required (generation disabled or failed)")

	// ErrRemoteNotFound means the named remote is not configured. The commit
	// preceding the push stands; commit and push are not transactional.
	ErrRemoteNotFound = errors.New("remote not found")
)

// Kind discriminates how far the workflow got.
type Kind int

const (
	// NothingToCommit: the working tree was clean.
	NothingToCommit Kind = iota
	// NothingToGenerate: a message was requested from an empty diff.
	NothingToGenerate
	// PushBlocked: the push-safety gate vetoed a push to main/master.
	PushBlocked
	// DryRun: preview only, no mutation happened.
	DryRun
	// Committed: commit recorded, push not requested.
	Committed
	// Pushed: commit recorded and pushed to an existing upstream.
	Pushed
	// PushedSetUpstream: commit recorded and pushed with a new upstream ref.
	PushedSetUpstream
)

// Outcome reports the terminal state and, where it applies, the branch,
// remote, and final message.
type Outcome struct {
	Kind    Kind
	Branch  string
	Remote  string
	Message string
}

// Request mirrors the commit_and_push tool arguments.
type Request struct {
	Message          string
	Signoff          bool
	Branch           string // empty means the current branch
	Remote           string
	Push             bool
	AllowMainPush    bool
	GenerateIfEmpty  bool
	StagedOnlyForGen bool
	DryRun           bool
	Language         string
}

// MessageGenerator is what the orchestrator needs from the llm package.
type MessageGenerator interface {
	Generate(ctx context.Context, diff, language string) (string, error)
}

// Orchestrator runs the commit state machine against one repository.
// generator may be nil when no completion credential is configured; the
// workflow then fails only if generation is actually needed.
type Orchestrator struct {
	runner    git.Runner
	diffs     *diff.Provider
	generator MessageGenerator
}

func New(runner git.Runner, diffs *diff.Provider, generator MessageGenerator) *Orchestrator {
	return &Orchestrator{runner: runner, diffs: diffs, generator: generator}
}

func protectedBranch(name string) bool {
	return name == "main" || name == "master"
}

// Run executes the state machine. A push failure after a successful commit is
// surfaced as an error with the commit left in place.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	status, err := o.runner.Status(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if status == "" {
		return Outcome{Kind: NothingToCommit}, nil
	}

	branch := req.Branch
	if branch == "" {
		branch, err = o.runner.CurrentBranch(ctx)
		if err != nil {
			return Outcome{}, err
		}
	}

	// The gate sits before message resolution so a veto never costs a
	// model call or leaves partial state.
	if req.Push && !req.AllowMainPush && protectedBranch(branch) {
		return Outcome{Kind: PushBlocked, Branch: branch, Remote: req.Remote}, nil
	}

	message, done, err := o.resolveMessage(ctx, req, branch)
	if err != nil {
		return Outcome{}, err
	}
	if done != nil {
		return *done, nil
	}

	if req.DryRun {
		return Outcome{Kind: DryRun, Branch: branch, Remote: req.Remote, Message: message}, nil
	}

	commitArgs := []string{"commit", "-m", message}
	if req.Signoff {
		commitArgs = append(commitArgs, "--signoff")
	}
	if _, err := o.runner.Run(ctx, commitArgs...); err != nil {
		return Outcome{}, err
	}

	if !req.Push {
		return Outcome{Kind: Committed, Branch: branch, Message: message}, nil
	}
	return o.push(ctx, req.Remote, branch, message)
}

// resolveMessage prefers the explicit message; otherwise it generates one
// from the diff when enabled. A non-nil Outcome short-circuits Run.
func (o *Orchestrator) resolveMessage(ctx context.Context, req Request, branch string) (string, *Outcome, error) {
	message := strings.TrimSpace(req.Message)
	if message != "" {
		return message, nil, nil
	}
	if !req.GenerateIfEmpty {
		return "", nil, ErrMessageRequired
	}
	if o.generator == nil {
		return "", nil, llm.ErrMissingAPIKey
	}

	doc, err := o.diffs.Get(ctx, diff.Options{
		StagedOnly:   req.StagedOnlyForGen,
		ContextLines: 3,
	})
	if errors.Is(err, diff.ErrNoChanges) {
		return "", &Outcome{Kind: NothingToGenerate, Branch: branch}, nil
	}
	if err != nil {
		return "", nil, err
	}

	message, err = o.generator.Generate(ctx, doc.Text, req.Language)
	if err != nil {
		return "", nil, err
	}
	return message, nil, nil
}

// push requires the remote to exist, then tries a plain push when an
// upstream tracking ref is configured and falls back to --set-upstream when
// it is not. That switch is a command-variant change, not a retry.
func (o *Orchestrator) push(ctx context.Context, remote, branch, message string) (Outcome, error) {
	ok, err := o.runner.HasRemote(ctx, remote)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q (add it with 'git remote add %s <url>')", ErrRemoteNotFound, remote, remote)
	}

	if _, err := o.runner.Run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"); err != nil {
		if _, err := o.runner.Run(ctx, "push", "--set-upstream", remote, branch); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: PushedSetUpstream, Branch: branch, Remote: remote, Message: message}, nil
	}

	if _, err := o.runner.Run(ctx, "push", remote, branch); err != nil {
		return Outcome{}, err
	}
	return Outcome{Kind: Pushed, Branch: branch, Remote: remote, Message: message}, nil
}
