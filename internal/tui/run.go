// internal/tui/run.go
//
// Program runner and user-facing error text.

package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/session"
)

// Run shows m full-screen until the user quits or ctx is cancelled.
// in and out default to the terminal when nil.
func Run(ctx context.Context, m tea.Model, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func noticeFor(err error) string {
	var rej *session.GuessRejected
	switch {
	case errors.Is(err, session.ErrNotInWordList):
		return "Not in word list"
	case errors.Is(err, input.ErrInvalidResult):
		return "Result must be 5 of g/y/b"
	case errors.As(err, &rej):
		return "Guess must be 5 letters"
	case errors.Is(err, session.ErrSessionWon):
		return "You already won. Press ctrl+n for a new game."
	case errors.Is(err, session.ErrExhausted):
		return "No candidates left. Check the results and press ctrl+r."
	case errors.Is(err, session.ErrNoSession):
		return "No game in progress. Press ctrl+n."
	case errors.Is(err, session.ErrSubmitInFlight):
		return "Still checking the last guess"
	case errors.Is(err, session.ErrLoading):
		return "Still loading the word list"
	case errors.Is(err, session.ErrStale):
		return ""
	}
	return "Could not reach the word service. Try again."
}
