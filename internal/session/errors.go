package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotInWordList  = errors.New("not in word list")
	ErrSessionWon     = errors.New("session already won")
	ErrNoSession      = errors.New("no active session")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrStale          = errors.New("response belongs to a previous session")
	ErrExhausted      = errors.New("no candidates left")
	ErrLoading        = errors.New("candidate list is still loading")
)

// GuessRejected is a guess refused before it reached the network.
type GuessRejected struct {
	Word   string
	Reason error
}

func (e *GuessRejected) Error() string {
	if e.Word == "" {
		return fmt.Sprintf("guess rejected: %v", e.Reason)
	}
	return fmt.Sprintf("guess %q rejected: %v", e.Word, e.Reason)
}

func (e *GuessRejected) Unwrap() error { return e.Reason }

// SessionStartError means the collaborator could not start a game; the
// controller is left with an inert session.
type SessionStartError struct{ Err error }

func (e *SessionStartError) Error() string { return "start session: " + e.Err.Error() }
func (e *SessionStartError) Unwrap() error { return e.Err }

// SubmissionError means the collaborator failed to answer a submission.
// The typed input is kept so the user can retry.
type SubmissionError struct{ Err error }

func (e *SubmissionError) Error() string { return "submit: " + e.Err.Error() }
func (e *SubmissionError) Unwrap() error { return e.Err }
