package app

import (
	"fmt"
	"io"
)

// PurgeQuestion is asked before a non-append import in an interactive session.
const PurgeQuestion = "<question>Careful, database will be purged. Do you want to continue y/N ?</>"

// Prompter asks the operator for confirmation.
type Prompter interface {
	// Interactive reports whether a human can answer.
	Interactive() bool
	// Confirm asks question and returns the answer, or def on empty input.
	Confirm(question string, def bool) bool
}

// NonInteractive never prompts.
var NonInteractive Prompter = nonInteractive{}

type nonInteractive struct{}

func (nonInteractive) Interactive() bool               { return false }
func (nonInteractive) Confirm(_ string, def bool) bool { return def }

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "<comment>%s</>\n", title)
	fmt.Fprintf(w, "<comment>%s</>\n", underline(title))
}

func underline(title string) string {
	b := make([]byte, len([]rune(title)))
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func comment(w io.Writer, line string) {
	if line != "" {
		fmt.Fprintf(w, "<comment>%s</>\n", line)
	}
}

func tick(w io.Writer, text string) {
	fmt.Fprintf(w, "  <comment>✔</> <info>%s</>\n", text)
}
