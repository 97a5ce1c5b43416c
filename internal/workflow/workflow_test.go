package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/samzong/commit-buddy/internal/diff"
	"github.com/samzong/commit-buddy/internal/git"
	"github.com/samzong/commit-buddy/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	message  string
	err      error
	lastDiff string
	lastLang string
	calls    int
}

func (f *fakeGenerator) Generate(_ context.Context, diffText, language string) (string, error) {
	f.calls++
	f.lastDiff = diffText
	f.lastLang = language
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

// dirtyRunner is a FakeRunner primed with a dirty tree on a feature branch
// with an origin remote and an existing upstream ref.
func dirtyRunner() *git.FakeRunner {
	fake := git.NewFakeRunner()
	fake.Responses["status --porcelain"] = " M a.txt"
	fake.Responses["rev-parse --abbrev-ref HEAD"] = "feature/foo"
	fake.Responses["remote"] = "origin"
	fake.Responses["rev-parse --abbrev-ref --symbolic-full-name @{u}"] = "origin/feature/foo"
	return fake
}

func baseRequest() Request {
	return Request{
		Remote:           "origin",
		Push:             true,
		GenerateIfEmpty:  true,
		StagedOnlyForGen: true,
	}
}

func newOrchestrator(fake *git.FakeRunner, gen MessageGenerator) *Orchestrator {
	return New(fake, diff.NewProvider(fake, 200000), gen)
}

func TestRunNothingToCommit(t *testing.T) {
	fake := git.NewFakeRunner()

	out, err := newOrchestrator(fake, nil).Run(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, NothingToCommit, out.Kind)
	// Only the status probe ran; a clean tree must not trigger anything else.
	assert.Len(t, fake.Calls, 1)
	assert.True(t, fake.Called("status", "--porcelain"))
}

func TestRunPushBlockedOnProtectedBranch(t *testing.T) {
	for _, branch := range []string{"main", "master"} {
		t.Run(branch, func(t *testing.T) {
			fake := dirtyRunner()
			fake.Responses["rev-parse --abbrev-ref HEAD"] = branch
			gen := &fakeGenerator{message: "feat: x"}

			out, err := newOrchestrator(fake, gen).Run(context.Background(), baseRequest())
			require.NoError(t, err)

			assert.Equal(t, PushBlocked, out.Kind)
			assert.Equal(t, branch, out.Branch)
			// The veto happens before generation and before any mutation.
			assert.Zero(t, gen.calls)
			assert.False(t, fake.CalledPrefix("commit"))
			assert.False(t, fake.CalledPrefix("push"))
		})
	}
}

func TestRunMainPushAllowedWithOverride(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["rev-parse --abbrev-ref HEAD"] = "main"
	fake.Responses["rev-parse --abbrev-ref --symbolic-full-name @{u}"] = "origin/main"

	req := baseRequest()
	req.Message = "fix: hotfix"
	req.AllowMainPush = true

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, Pushed, out.Kind)
	assert.True(t, fake.Called("push", "origin", "main"))
}

func TestRunProtectedBranchWithoutPush(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["rev-parse --abbrev-ref HEAD"] = "main"

	req := baseRequest()
	req.Message = "docs: readme"
	req.Push = false

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	// The gate only guards pushes; local commits on main are fine.
	assert.Equal(t, Committed, out.Kind)
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.Message = "feat: add foo"
	req.DryRun = true

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, DryRun, out.Kind)
	assert.Equal(t, "feature/foo", out.Branch)
	assert.Equal(t, "origin", out.Remote)
	assert.Equal(t, "feat: add foo", out.Message)
	assert.False(t, fake.CalledPrefix("commit"))
	assert.False(t, fake.CalledPrefix("push"))
}

func TestRunExplicitMessageCommitWithoutPush(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.Message = "feat: add foo"
	req.Push = false

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, Committed, out.Kind)
	assert.Equal(t, "feat: add foo", out.Message)
	assert.True(t, fake.Called("commit", "-m", "feat: add foo"))
	assert.False(t, fake.CalledPrefix("push"))
}

func TestRunSignoff(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.Message = "feat: add foo"
	req.Signoff = true
	req.Push = false

	_, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, fake.Called("commit", "-m", "feat: add foo", "--signoff"))
}

func TestRunGeneratesMessageFromStagedDiff(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["diff --staged -U3"] = "diff --git a/a.txt b/a.txt\n+password=hunter2"
	gen := &fakeGenerator{message: "feat: add foo"}

	req := baseRequest()
	req.Push = false
	req.Language = "Spanish"

	out, err := newOrchestrator(fake, gen).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, Committed, out.Kind)
	assert.Equal(t, "feat: add foo", out.Message)
	assert.Equal(t, "Spanish", gen.lastLang)
	// The generator must only ever see redacted text.
	assert.NotContains(t, gen.lastDiff, "hunter2")
	assert.Contains(t, gen.lastDiff, "password=***")
	assert.True(t, fake.Called("commit", "-m", "feat: add foo"))
}

func TestRunGenerationUsesFullDiffWhenAsked(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["diff -U3"] = "+unstaged change"
	gen := &fakeGenerator{message: "chore: tidy"}

	req := baseRequest()
	req.Push = false
	req.StagedOnlyForGen = false

	_, err := newOrchestrator(fake, gen).Run(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, fake.Called("diff", "-U3"))
	assert.False(t, fake.Called("diff", "--staged", "-U3"))
}

func TestRunNothingToGenerate(t *testing.T) {
	// Dirty tree, but nothing staged for the generation diff.
	fake := dirtyRunner()
	gen := &fakeGenerator{message: "unused"}

	req := baseRequest()
	req.Push = false

	out, err := newOrchestrator(fake, gen).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, NothingToGenerate, out.Kind)
	assert.Zero(t, gen.calls)
	assert.False(t, fake.CalledPrefix("commit"))
}

func TestRunMessageRequired(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.GenerateIfEmpty = false
	req.Message = "   "

	_, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	assert.ErrorIs(t, err, ErrMessageRequired)
	assert.False(t, fake.CalledPrefix("commit"))
}

func TestRunMissingCredentialSurfacesOnGeneration(t *testing.T) {
	fake := dirtyRunner()

	_, err := newOrchestrator(fake, nil).Run(context.Background(), baseRequest())
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestRunGenerationFailureAborts(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["diff --staged -U3"] = "+foo"
	boom := errors.New("model unavailable")
	gen := &fakeGenerator{err: boom}

	_, err := newOrchestrator(fake, gen).Run(context.Background(), baseRequest())
	assert.ErrorIs(t, err, boom)
	assert.False(t, fake.CalledPrefix("commit"))
}

func TestRunRemoteNotFound(t *testing.T) {
	fake := dirtyRunner()
	fake.Responses["remote"] = "upstream"

	req := baseRequest()
	req.Message = "feat: add foo"

	_, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	assert.ErrorIs(t, err, ErrRemoteNotFound)
	// The commit already happened and stays; only the push is refused.
	assert.True(t, fake.Called("commit", "-m", "feat: add foo"))
	assert.False(t, fake.CalledPrefix("push"))
}

func TestRunPushWithExistingUpstream(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.Message = "feat: add foo"

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, Pushed, out.Kind)
	assert.Equal(t, "feature/foo", out.Branch)
	assert.Equal(t, "origin", out.Remote)
	assert.True(t, fake.Called("push", "origin", "feature/foo"))
	assert.False(t, fake.CalledPrefix("push", "--set-upstream"))
}

func TestRunPushFallsBackToSetUpstream(t *testing.T) {
	fake := dirtyRunner()
	fake.Errors["rev-parse --abbrev-ref --symbolic-full-name @{u}"] = &git.CommandError{
		Args:   []string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"},
		Stderr: "fatal: no upstream configured for branch 'feature/foo'",
	}

	req := baseRequest()
	req.Message = "feat: add foo"

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, PushedSetUpstream, out.Kind)
	assert.True(t, fake.Called("push", "--set-upstream", "origin", "feature/foo"))
	assert.False(t, fake.Called("push", "origin", "feature/foo"))
}

func TestRunExplicitBranchSkipsBranchQuery(t *testing.T) {
	fake := dirtyRunner()

	req := baseRequest()
	req.Message = "feat: add foo"
	req.Branch = "release/1.2"
	fake.Responses["rev-parse --abbrev-ref --symbolic-full-name @{u}"] = "origin/release/1.2"

	out, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "release/1.2", out.Branch)
	assert.False(t, fake.Called("rev-parse", "--abbrev-ref", "HEAD"))
	assert.True(t, fake.Called("push", "origin", "release/1.2"))
}

func TestRunCommitFailureIsFatal(t *testing.T) {
	fake := dirtyRunner()
	cmdErr := &git.CommandError{Args: []string{"commit", "-m", "feat: x"}, Stderr: "hook rejected"}
	fake.Errors["commit -m feat: x"] = cmdErr

	req := baseRequest()
	req.Message = "feat: x"

	_, err := newOrchestrator(fake, nil).Run(context.Background(), req)
	var got *git.CommandError
	require.ErrorAs(t, err, &got)
	assert.Contains(t, got.Stderr, "hook rejected")
	assert.False(t, fake.CalledPrefix("push"))
}
