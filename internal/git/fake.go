//go:build !prod

package git

import (
	"context"
	"strings"
)

// FakeRunner is an in-memory Runner for tests. Responses and errors are keyed
// by the space-joined argv; every invocation is recorded so tests can assert
// exactly which commands ran and in what order.
type FakeRunner struct {
	Responses map[string]string
	Errors    map[string]error
	Calls     [][]string
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

func (f *FakeRunner) Run(_ context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.Calls = append(f.Calls, args)
	if err, ok := f.Errors[key]; ok {
		return "", err
	}
	return f.Responses[key], nil
}

func (f *FakeRunner) Status(ctx context.Context) (string, error) {
	return f.Run(ctx, "status", "--porcelain")
}

func (f *FakeRunner) CurrentBranch(ctx context.Context) (string, error) {
	return f.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

func (f *FakeRunner) HasRemote(ctx context.Context, name string) (bool, error) {
	out, err := f.Run(ctx, "remote")
	if err != nil {
		return false, err
	}
	return remoteListed(out, name), nil
}

// Called reports whether the exact argv was run.
func (f *FakeRunner) Called(args ...string) bool {
	want := strings.Join(args, " ")
	for _, call := range f.Calls {
		if strings.Join(call, " ") == want {
			return true
		}
	}
	return false
}

// CalledPrefix reports whether any invocation started with the given args.
func (f *FakeRunner) CalledPrefix(args ...string) bool {
	for _, call := range f.Calls {
		if len(call) < len(args) {
			continue
		}
		if strings.Join(call[:len(args)], " ") == strings.Join(args, " ") {
			return true
		}
	}
	return false
}
