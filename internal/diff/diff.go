// Package diff retrieves redacted, size-capped unified diffs from a
// repository. Retrieval never mutates repository state.
package diff

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/samzong/commit-buddy/internal/git"
	"github.com/samzong/commit-buddy/internal/redact"
)

// TruncationMarker is appended whenever a diff is cut at the size cap.
const TruncationMarker = "\n[commit-buddy] Diff truncated for size.\n"

// ErrNoChanges reports an empty diff. Callers surface it as an explicit
// "no changes" result, never as an empty document.
var ErrNoChanges = errors.New("no changes detected (diff is empty)")

// Document is a redacted unified diff. Text never exceeds the cap the
// provider was asked for; when it was cut, Truncated is set and Text ends
// with TruncationMarker.
type Document struct {
	Text       string
	StagedOnly bool
	Truncated  bool
}

// Options select what to diff and how large the result may grow.
type Options struct {
	StagedOnly   bool
	ContextLines int
	PathFilter   string
	MaxChars     int // 0 falls back to the provider default
}

// Provider builds diffs through a git Runner.
type Provider struct {
	runner   git.Runner
	maxChars int
}

func NewProvider(runner git.Runner, maxChars int) *Provider {
	return &Provider{runner: runner, maxChars: maxChars}
}

// Get returns the redacted diff for the index (staged) or the working tree.
// Redaction always runs before the text is returned to anyone.
func (p *Provider) Get(ctx context.Context, opts Options) (Document, error) {
	args := []string{"diff"}
	if opts.StagedOnly {
		args = append(args, "--staged")
	}
	args = append(args, "-U"+strconv.Itoa(opts.ContextLines))
	if opts.PathFilter != "" {
		args = append(args, "--", opts.PathFilter)
	}

	out, err := p.runner.Run(ctx, args...)
	if err != nil {
		return Document{}, fmt.Errorf("read diff: %w", err)
	}
	if out == "" {
		return Document{}, ErrNoChanges
	}

	doc := Document{
		Text:       redact.Secrets(out),
		StagedOnly: opts.StagedOnly,
	}

	limit := p.maxChars
	if opts.MaxChars > 0 {
		limit = opts.MaxChars
	}
	if limit > 0 && len(doc.Text) > limit {
		doc.Text = doc.Text[:limit] + TruncationMarker
		doc.Truncated = true
	}
	return doc, nil
}
