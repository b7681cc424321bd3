// internal/game/feedback.go
//
// Text encodings of an outcome vector.
//   - Emoji feedback as returned by the collaborator: 🟩 correct, 🟨 present, ⬛ absent.
//   - G/Y/B result strings typed by the user in assistant mode.
//
// Both decode into the same Outcome vocabulary so downstream code never sees
// where an outcome came from.

package game

import (
	"errors"
	"strings"
)

// ErrInvalidFeedback is returned when a feedback or result string does not
// describe exactly WordLength outcomes.
var ErrInvalidFeedback = errors.New("invalid feedback")

const (
	emojiCorrect = '\U0001F7E9' // 🟩
	emojiPresent = '\U0001F7E8' // 🟨
	emojiAbsent  = '\u2B1B'     // ⬛
	variationSel = '\uFE0F'
)

// ParseEmoji decodes a collaborator feedback string.
// Emoji variation selectors are ignored.
func ParseEmoji(s string) (Outcomes, error) {
	var out Outcomes
	n := 0
	for _, r := range s {
		if r == variationSel {
			continue
		}
		if n == WordLength {
			return Outcomes{}, ErrInvalidFeedback
		}
		switch r {
		case emojiCorrect:
			out[n] = Correct
		case emojiPresent:
			out[n] = Present
		case emojiAbsent:
			out[n] = Absent
		default:
			return Outcomes{}, ErrInvalidFeedback
		}
		n++
	}
	if n != WordLength {
		return Outcomes{}, ErrInvalidFeedback
	}
	return out, nil
}

// Emoji encodes v the way the collaborator does.
func (v Outcomes) Emoji() string {
	var b strings.Builder
	for _, o := range v {
		switch o {
		case Correct:
			b.WriteRune(emojiCorrect)
		case Present:
			b.WriteRune(emojiPresent)
		default:
			b.WriteRune(emojiAbsent)
		}
	}
	return b.String()
}

// IsResultSymbol reports whether r is one of g/y/b in either case.
func IsResultSymbol(r byte) bool {
	switch r {
	case 'G', 'Y', 'B', 'g', 'y', 'b':
		return true
	}
	return false
}

// ParseGYB decodes a 5-character g/y/b result string (case-insensitive).
func ParseGYB(s string) (Outcomes, error) {
	var out Outcomes
	if len(s) != WordLength {
		return out, ErrInvalidFeedback
	}
	for i := 0; i < WordLength; i++ {
		switch s[i] {
		case 'G', 'g':
			out[i] = Correct
		case 'Y', 'y':
			out[i] = Present
		case 'B', 'b':
			out[i] = Absent
		default:
			return Outcomes{}, ErrInvalidFeedback
		}
	}
	return out, nil
}

// GYB encodes v as a lower-case g/y/b string, the wire form of /api/filter.
func (v Outcomes) GYB() string {
	b := make([]byte, WordLength)
	for i, o := range v {
		switch o {
		case Correct:
			b[i] = 'g'
		case Present:
			b[i] = 'y'
		default:
			b[i] = 'b'
		}
	}
	return string(b)
}
