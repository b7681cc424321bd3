// internal/game/types.go
//
// Core type definitions for the scoring engine.
// Defines:
//   - Word: a normalised 5-letter guess or secret.
//   - Outcome: per-letter result of a guess (correct/present/absent).
//   - ScoredGuess: one immutable entry of a session's history.
//   - LetterSet: compact set of letters A–Z.

package game

import (
	"errors"
	"strings"
)

// WordLength is the fixed number of letters in every word.
const WordLength = 5

// ErrInvalidWord is returned for words of the wrong length or with
// characters outside A–Z.
var ErrInvalidWord = errors.New("invalid word")

// Word is a 5-letter word, always upper-case A–Z.
// The zero value is not a valid word; build one with ParseWord.
type Word string

// ParseWord trims, upper-cases and validates s.
func ParseWord(s string) (Word, error) {
	w := strings.ToUpper(strings.TrimSpace(s))
	if len(w) != WordLength || !isAlpha(w) {
		return "", ErrInvalidWord
	}
	return Word(w), nil
}

// Valid reports whether w is what ParseWord would return for it.
func (w Word) Valid() bool { return len(w) == WordLength && isAlpha(string(w)) }

// MustWord is ParseWord for literals in tests and tables.
func MustWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic("game: invalid word literal " + s)
	}
	return w
}

// Lower returns the lower-case form used on the wire.
func (w Word) Lower() string { return strings.ToLower(string(w)) }

func (w Word) String() string { return string(w) }

// Outcome represents the evaluation result for a single letter in a guess.
//   - Absent:  letter is not in the secret (after duplicate accounting).
//   - Present: letter is in the secret but at another position.
//   - Correct: letter is in the correct position.
type Outcome uint8

const (
	Absent Outcome = iota
	Present
	Correct
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// MarshalText lets outcomes travel as "correct"/"present"/"absent" in JSON.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Outcomes is the outcome vector for one guess.
type Outcomes [WordLength]Outcome

// AllCorrect reports whether every position is Correct.
func (v Outcomes) AllCorrect() bool {
	for _, o := range v {
		if o != Correct {
			return false
		}
	}
	return true
}

// ScoredGuess is one accepted guess with its outcomes.
// Ordinal is the 1-based submission order within the session.
type ScoredGuess struct {
	Guess    Word     `json:"guess"`
	Outcomes Outcomes `json:"outcomes"`
	Ordinal  int      `json:"ordinal"`
}

// LetterSet is a set of letters A–Z packed into a bitmask.
type LetterSet uint32

func bit(r byte) LetterSet { return 1 << (r - 'A') }

// Has reports whether the upper-case letter r is in the set.
// Non-letters are never members.
func (s LetterSet) Has(r byte) bool {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return false
	}
	return s&bit(r) != 0
}

// With returns s plus the letter r.
func (s LetterSet) With(r byte) LetterSet {
	if r < 'A' || r > 'Z' {
		return s
	}
	return s | bit(r)
}

// Letters lists the members in alphabetical order.
func (s LetterSet) Letters() string {
	var b strings.Builder
	for r := byte('A'); r <= 'Z'; r++ {
		if s&bit(r) != 0 {
			b.WriteByte(r)
		}
	}
	return b.String()
}

func (s LetterSet) String() string { return s.Letters() }

// isAlpha reports whether s consists only of upper-case A–Z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
