package main

import (
	"github.com/symfony-cli/terminal"

	"github.com/kbukum/datafixture/app"
)

// terminalPrompter asks on the controlling terminal. It is non-interactive
// when stdin is not a TTY or --no-interaction was given.
type terminalPrompter struct{}

var _ app.Prompter = terminalPrompter{}

func (terminalPrompter) Interactive() bool { return terminal.Stdin.IsInteractive() }

func (terminalPrompter) Confirm(question string, def bool) bool {
	return terminal.AskConfirmation(question, def)
}
