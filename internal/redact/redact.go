// Package redact masks credential-shaped substrings in diff text before the
// text crosses a process boundary (terminal output or a completion request).
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order. Each replacement keeps the key name and drops
// the value, and no rule's output can re-trigger another rule, so a single
// pass is enough and re-applying the set is a no-op.
var rules = []rule{
	{regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*=\s*[A-Za-z0-9/+=]{20,}`), "aws_secret_access_key=***"},
	{regexp.MustCompile(`(?i)api[_-]?key\s*=\s*[A-Za-z0-9_-]{16,}`), "api_key=***"},
	{regexp.MustCompile(`(?i)authorization:\s*bearer\s+[A-Za-z0-9._-]{16,}`), "authorization: Bearer ***"},
	{regexp.MustCompile(`(?i)password\s*=\s*[^ \n]+`), "password=***"},
	{regexp.MustCompile(`(?i)secret\s*=\s*[^ \n]+`), "secret=***"},
}

// Secrets replaces every match of the rule set with its masked form.
func Secrets(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}
