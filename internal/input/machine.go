// internal/input/machine.go
//
// Guess/result input state machine shared by both game modes.
// Responsibilities:
//   - Own the guess buffer and, in assistant mode, the g/y/b result buffer.
//   - Gate keystrokes per state (eliminated letters in practice mode,
//     g/y/b only while entering a result, nothing while a submission is in flight).
//   - Decide when a submission may start and re-validate before it does.
//
// Every input surface (terminal keys, on-screen keyboard labels) goes through
// Apply, so behaviour does not depend on where a key came from.

package input

import (
	"errors"
	"strings"

	"github.com/robalobadob/crackle/internal/game"
)

var (
	ErrIncomplete    = errors.New("guess or result is incomplete")
	ErrInvalidGuess  = errors.New("guess must contain only letters")
	ErrInvalidResult = errors.New("result must contain only g, y or b")
	ErrBusy          = errors.New("submission already in flight")
	ErrFinished      = errors.New("input closed until reset")
)

// Mode selects which buffers are in play.
type Mode uint8

const (
	Practice  Mode = iota // guess buffer only; the system knows the secret
	Assistant             // guess plus user-supplied result
)

func (m Mode) String() string {
	if m == Assistant {
		return "assistant"
	}
	return "practice"
}

// State is the machine's current phase.
type State uint8

const (
	EnteringGuess State = iota
	EnteringResult
	Submitting
	Won
)

func (s State) String() string {
	switch s {
	case EnteringResult:
		return "entering_result"
	case Submitting:
		return "submitting"
	case Won:
		return "won"
	default:
		return "entering_guess"
	}
}

// Event describes what a keystroke did.
type Event uint8

const (
	EventIgnored Event = iota
	EventRejected
	EventGuessChanged
	EventGuessComplete
	EventResultChanged
	EventSubmitRequested
	EventIncomplete
)

func (e Event) String() string {
	switch e {
	case EventRejected:
		return "rejected"
	case EventGuessChanged:
		return "guess_changed"
	case EventGuessComplete:
		return "guess_complete"
	case EventResultChanged:
		return "result_changed"
	case EventSubmitRequested:
		return "submit_requested"
	case EventIncomplete:
		return "incomplete"
	default:
		return "ignored"
	}
}

// Buffers holds the typed text. Guess is upper-case letters, Result is
// upper-case G/Y/B and only grows once Guess is full.
type Buffers struct {
	Guess  string `json:"guess"`
	Result string `json:"result"`
}

// Machine is not safe for concurrent use; its owner serialises events.
type Machine struct {
	mode     Mode
	state    State
	resume   State
	buf      Buffers
	disabled game.LetterSet
}

// New returns a machine waiting for the first guess letter.
func New(mode Mode) *Machine {
	return &Machine{mode: mode}
}

func (m *Machine) Mode() Mode       { return m.mode }
func (m *Machine) State() State     { return m.state }
func (m *Machine) Buffers() Buffers { return m.buf }

// SetDisabled installs the eliminated-letter set. Only practice mode gates on it.
func (m *Machine) SetDisabled(s game.LetterSet) { m.disabled = s }

// CanSubmit reports whether Enter would start a submission.
func (m *Machine) CanSubmit() bool {
	if m.state != EnteringGuess && m.state != EnteringResult {
		return false
	}
	if len(m.buf.Guess) != game.WordLength {
		return false
	}
	return m.mode == Practice || len(m.buf.Result) == game.WordLength
}

// Apply runs one keystroke through the machine.
func (m *Machine) Apply(k Key) Event {
	if m.state == Submitting || m.state == Won {
		return EventIgnored
	}
	switch k.Kind {
	case KeyEnter:
		if m.CanSubmit() {
			return EventSubmitRequested
		}
		return EventIncomplete
	case KeyBackspace:
		return m.backspace()
	case KeyLetter:
		if m.state == EnteringResult {
			return m.resultLetter(k.Letter)
		}
		return m.guessLetter(k.Letter)
	}
	return EventIgnored
}

func (m *Machine) backspace() Event {
	if n := len(m.buf.Result); n > 0 {
		m.buf.Result = m.buf.Result[:n-1]
		return EventResultChanged
	}
	if n := len(m.buf.Guess); n > 0 {
		m.buf.Guess = m.buf.Guess[:n-1]
		m.state = EnteringGuess
		return EventGuessChanged
	}
	return EventIgnored
}

func (m *Machine) guessLetter(r byte) Event {
	if len(m.buf.Guess) >= game.WordLength {
		return EventIgnored
	}
	if m.mode == Practice && m.disabled.Has(r) {
		return EventRejected
	}
	m.buf.Guess += string(r)
	if len(m.buf.Guess) < game.WordLength {
		return EventGuessChanged
	}
	if m.mode == Assistant {
		m.state = EnteringResult
	}
	return EventGuessComplete
}

func (m *Machine) resultLetter(r byte) Event {
	if len(m.buf.Result) >= game.WordLength || !game.IsResultSymbol(r) {
		return EventIgnored
	}
	m.buf.Result += string(r)
	return EventResultChanged
}

// BeginSubmit validates the buffers and moves to Submitting.
// The returned snapshot is what should be sent; the buffers stay intact
// until CompleteSubmit.
func (m *Machine) BeginSubmit() (Buffers, error) {
	switch m.state {
	case Submitting:
		return Buffers{}, ErrBusy
	case Won:
		return Buffers{}, ErrFinished
	}
	if !m.CanSubmit() {
		return Buffers{}, ErrIncomplete
	}
	if _, err := game.ParseWord(m.buf.Guess); err != nil {
		return Buffers{}, ErrInvalidGuess
	}
	if m.mode == Assistant {
		if _, err := game.ParseGYB(m.buf.Result); err != nil {
			return Buffers{}, ErrInvalidResult
		}
	}
	m.resume = m.state
	m.state = Submitting
	return m.buf, nil
}

// CompleteSubmit clears the buffers after an accepted submission.
// won moves the machine to the terminal Won state.
func (m *Machine) CompleteSubmit(won bool) {
	if m.state != Submitting {
		return
	}
	m.buf = Buffers{}
	if won {
		m.state = Won
		return
	}
	m.state = EnteringGuess
}

// AbortSubmit returns to the pre-submit state keeping what was typed.
func (m *Machine) AbortSubmit() {
	if m.state != Submitting {
		return
	}
	m.state = m.resume
}

// SetGuess replaces the guess (suggestion pick) and clears any result.
func (m *Machine) SetGuess(word string) error {
	switch m.state {
	case Submitting:
		return ErrBusy
	case Won:
		return ErrFinished
	}
	w, err := game.ParseWord(word)
	if err != nil {
		return ErrInvalidGuess
	}
	m.buf = Buffers{Guess: string(w)}
	m.state = EnteringGuess
	if m.mode == Assistant {
		m.state = EnteringResult
	}
	return nil
}

// Reset clears everything, including the disabled set.
func (m *Machine) Reset() {
	*m = Machine{mode: m.mode}
}

// Padded returns s right-padded with spaces to the word length; handy for
// rendering fixed rows.
func Padded(s string) string {
	if len(s) >= game.WordLength {
		return s
	}
	return s + strings.Repeat(" ", game.WordLength-len(s))
}
