package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crackle/internal/game"
)

func typeAll(m *Machine, s string) Event {
	var ev Event
	for _, k := range Word(s) {
		ev = m.Apply(k)
	}
	return ev
}

func TestPracticeTypingAndSubmitGate(t *testing.T) {
	m := New(Practice)
	assert.Equal(t, EventIncomplete, m.Apply(Enter))

	assert.Equal(t, EventGuessChanged, typeAll(m, "cran"))
	assert.False(t, m.CanSubmit())
	assert.Equal(t, EventGuessComplete, m.Apply(Letter('e')))
	assert.Equal(t, "CRANE", m.Buffers().Guess)
	assert.Equal(t, EnteringGuess, m.State())
	assert.True(t, m.CanSubmit())

	assert.Equal(t, EventIgnored, m.Apply(Letter('x')), "guess is full")
	assert.Equal(t, EventSubmitRequested, m.Apply(Enter))
}

func TestPracticeRejectsDisabledLetters(t *testing.T) {
	m := New(Practice)
	m.SetDisabled(game.LetterSet(0).With('B').With('P'))
	assert.Equal(t, EventRejected, m.Apply(Letter('b')))
	assert.Equal(t, EventRejected, m.Apply(ParseKey("P")))
	assert.Equal(t, "", m.Buffers().Guess)
	assert.Equal(t, EventGuessChanged, m.Apply(Letter('a')))
}

func TestAssistantIgnoresDisabledLetters(t *testing.T) {
	m := New(Assistant)
	m.SetDisabled(game.LetterSet(0).With('B'))
	assert.Equal(t, EventGuessChanged, m.Apply(Letter('b')))
}

func TestAssistantMovesToResultEntry(t *testing.T) {
	m := New(Assistant)
	assert.Equal(t, EventGuessComplete, typeAll(m, "slate"))
	assert.Equal(t, EnteringResult, m.State())
	assert.False(t, m.CanSubmit())

	assert.Equal(t, EventIgnored, m.Apply(Letter('x')), "only g/y/b while entering a result")
	assert.Equal(t, EventResultChanged, typeAll(m, "gybbb"))
	assert.Equal(t, "GYBBB", m.Buffers().Result)
	assert.Equal(t, EventIgnored, m.Apply(Letter('g')), "result is full")
	assert.True(t, m.CanSubmit())
	assert.Equal(t, EventSubmitRequested, m.Apply(Enter))
}

func TestAssistantBackspaceRemovesGuessLetterWhenNoResult(t *testing.T) {
	m := New(Assistant)
	typeAll(m, "slate")
	assert.Equal(t, EventGuessChanged, m.Apply(Backspace))
	assert.Equal(t, Buffers{Guess: "SLAT"}, m.Buffers())
	assert.Equal(t, EnteringGuess, m.State())
}

func TestAssistantBackspaceRemovesResultFirst(t *testing.T) {
	m := New(Assistant)
	typeAll(m, "slate")
	typeAll(m, "gy")
	assert.Equal(t, EventResultChanged, m.Apply(Backspace))
	assert.Equal(t, Buffers{Guess: "SLATE", Result: "G"}, m.Buffers())
	assert.Equal(t, EventResultChanged, m.Apply(Backspace))
	assert.Equal(t, EnteringResult, m.State())
	assert.Equal(t, EventGuessChanged, m.Apply(Backspace))
	assert.Equal(t, Buffers{Guess: "SLAT"}, m.Buffers())
}

func TestBackspaceOnEmptyIsIgnored(t *testing.T) {
	assert.Equal(t, EventIgnored, New(Practice).Apply(Backspace))
}

func TestSubmitGating(t *testing.T) {
	cases := []struct {
		mode  Mode
		typed string
		want  bool
	}{
		{Practice, "", false},
		{Practice, "abcd", false},
		{Practice, "abcde", true},
		{Assistant, "abcde", false},
		{Assistant, "abcdegyb", false},
		{Assistant, "abcdegybbb", true},
	}
	for _, tc := range cases {
		m := New(tc.mode)
		typeAll(m, tc.typed)
		assert.Equal(t, tc.want, m.CanSubmit(), "%s %q", tc.mode, tc.typed)
	}
}

func TestSubmittingIgnoresInputAndCompletes(t *testing.T) {
	m := New(Practice)
	typeAll(m, "crane")
	buf, err := m.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, "CRANE", buf.Guess)
	assert.Equal(t, Submitting, m.State())

	assert.Equal(t, EventIgnored, m.Apply(Backspace))
	assert.Equal(t, EventIgnored, m.Apply(Enter))
	_, err = m.BeginSubmit()
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "CRANE", m.Buffers().Guess)

	m.CompleteSubmit(false)
	assert.Equal(t, EnteringGuess, m.State())
	assert.Equal(t, Buffers{}, m.Buffers())
}

func TestAbortSubmitKeepsBuffers(t *testing.T) {
	m := New(Assistant)
	typeAll(m, "slategybbb")
	_, err := m.BeginSubmit()
	require.NoError(t, err)
	m.AbortSubmit()
	assert.Equal(t, EnteringResult, m.State())
	assert.Equal(t, Buffers{Guess: "SLATE", Result: "GYBBB"}, m.Buffers())
}

func TestWonIsTerminalUntilReset(t *testing.T) {
	m := New(Practice)
	typeAll(m, "crane")
	_, err := m.BeginSubmit()
	require.NoError(t, err)
	m.CompleteSubmit(true)
	assert.Equal(t, Won, m.State())
	assert.Equal(t, EventIgnored, m.Apply(Letter('a')))
	_, err = m.BeginSubmit()
	assert.ErrorIs(t, err, ErrFinished)

	m.Reset()
	assert.Equal(t, EnteringGuess, m.State())
	assert.Equal(t, EventGuessChanged, m.Apply(Letter('a')))
}

func TestBeginSubmitIncomplete(t *testing.T) {
	m := New(Assistant)
	typeAll(m, "slate")
	_, err := m.BeginSubmit()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, EnteringResult, m.State())
}

func TestSetGuessFromSuggestion(t *testing.T) {
	m := New(Assistant)
	typeAll(m, "slategy")
	require.NoError(t, m.SetGuess("crane"))
	assert.Equal(t, Buffers{Guess: "CRANE"}, m.Buffers())
	assert.Equal(t, EnteringResult, m.State())
	assert.ErrorIs(t, m.SetGuess("cr4ne"), ErrInvalidGuess)
}

func TestParseKeyAcceptsBothSurfaces(t *testing.T) {
	assert.Equal(t, Enter, ParseKey("ENTER"))
	assert.Equal(t, Enter, ParseKey("Enter"))
	assert.Equal(t, Backspace, ParseKey("BACKSPACE"))
	assert.Equal(t, Backspace, ParseKey("⌫"))
	assert.Equal(t, Letter('Q'), ParseKey("q"))
	assert.Equal(t, KeyOther, ParseKey("Shift").Kind)
	assert.Equal(t, KeyOther, ParseKey("1").Kind)
}

// The same key sequence from either surface leaves identical buffers.
func TestSurfacesAreEquivalent(t *testing.T) {
	screen, raw := New(Assistant), New(Assistant)
	for _, k := range []string{"S", "L", "A", "T", "E", "G", "BACKSPACE", "Y", "B"} {
		screen.Apply(ParseKey(k))
	}
	for _, k := range []string{"s", "l", "a", "t", "e", "g", "Backspace", "y", "b"} {
		raw.Apply(ParseKey(k))
	}
	assert.Equal(t, screen.Buffers(), raw.Buffers())
	assert.Equal(t, screen.State(), raw.State())
}

func TestPadded(t *testing.T) {
	assert.Equal(t, "AB   ", Padded("AB"))
	assert.Equal(t, "ABCDE", Padded("ABCDE"))
}
