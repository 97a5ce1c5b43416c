// Package ui holds small terminal affordances for the CLI surface.
package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner shows progress on stderr while a model call is in flight. It stays
// silent when stderr is not a terminal, so piped output is never polluted.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

func NewSpinner(message string) *Spinner {
	enabled := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if !enabled {
		return &Spinner{}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{s: s, enabled: true}
}

func (sp *Spinner) Start() {
	if sp.enabled {
		sp.s.Start()
	}
}

func (sp *Spinner) Stop() {
	if sp.enabled {
		sp.s.Stop()
	}
}
