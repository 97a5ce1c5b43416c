package llm

import (
	"context"
	"fmt"
	"strings"
)

const systemPrompt = "You are a senior engineer who writes excellent Conventional Commits."

// maxCompletionTokens bounds the reply; a commit message never needs more.
const maxCompletionTokens = 220

// Generator turns a redacted diff into a Conventional Commits message.
type Generator struct {
	client      CompletionClient
	model       string
	temperature float32
}

func NewGenerator(client CompletionClient, model string, temperature float32) *Generator {
	return &Generator{client: client, model: model, temperature: temperature}
}

// Generate drafts a message for the given diff. language selects the output
// language; empty means English.
func (g *Generator) Generate(ctx context.Context, diff, language string) (string, error) {
	raw, err := g.client.Complete(ctx, Request{
		System:      systemPrompt,
		User:        buildPrompt(diff, language),
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate commit message: %w", err)
	}

	msg := sanitize(raw)
	if msg == "" {
		return "", ErrEmptyResponse
	}
	return msg, nil
}

func buildPrompt(diff, language string) string {
	directive := "Write in English."
	if language != "" {
		directive = "Write it in " + language + "."
	}

	var b strings.Builder
	b.WriteString("Generate a clear, **Conventional Commits** style commit message based on the unified git diff below.\n")
	b.WriteString("\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- Start with a conventional type (feat, fix, docs, style, refactor, test, chore, perf, build, ci).\n")
	b.WriteString("- A concise subject line (≤ 72 chars).\n")
	b.WriteString("- Optional body lines with bullet points summarizing key changes.\n")
	b.WriteString("- No code fences in the output. Plain text only.\n")
	b.WriteString("- If the changes are trivial (whitespace, typos), use \"chore:\" or \"style:\" accordingly.\n")
	b.WriteString("- " + directive + "\n")
	b.WriteString("\n")
	b.WriteString("Git diff:\n")
	b.WriteString(diff)
	b.WriteString("\n")
	return b.String()
}

// sanitize strips the whitespace, stray backticks, and surrounding quotes
// models occasionally wrap around the message.
func sanitize(msg string) string {
	msg = strings.TrimSpace(msg)
	msg = strings.Trim(msg, "`")
	msg = strings.Trim(msg, `"'`)
	return strings.TrimSpace(msg)
}
