package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	friendlyerrors "shotscraper/internal/errors"
)

var stderr io.Writer = os.Stderr

var (
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	suggestionTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	suggestionBody  = lipgloss.NewStyle().Faint(true)
)

// printError writes err, styling friendly errors when w is a terminal.
func printError(w io.Writer, err error) {
	var fe *friendlyerrors.UserFriendlyError
	if !errors.As(err, &fe) || !isTerminal(w) {
		fmt.Fprintln(w, "error:", err)
		return
	}
	fmt.Fprintln(w, errorStyle.Render("error: "+fe.Message))
	if fe.Suggestion != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, suggestionTitle.Render("How to fix:"))
		fmt.Fprintln(w, suggestionBody.Render(fe.Suggestion))
	}
	if fe.DocsLink != "" {
		fmt.Fprintln(w, suggestionBody.Render("Documentation: "+fe.DocsLink))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
