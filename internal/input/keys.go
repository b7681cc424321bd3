package input

import "strings"

// KeyKind classifies a keystroke.
type KeyKind uint8

const (
	KeyOther KeyKind = iota
	KeyLetter
	KeyBackspace
	KeyEnter
)

// Key is a normalised keystroke. Letter is upper-case A–Z for KeyLetter.
type Key struct {
	Kind   KeyKind
	Letter byte
}

var (
	Enter     = Key{Kind: KeyEnter}
	Backspace = Key{Kind: KeyBackspace}
)

// Letter builds a letter key; anything outside a–z/A–Z becomes KeyOther.
func Letter(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return Key{Kind: KeyLetter, Letter: byte(r - 'a' + 'A')}
	case r >= 'A' && r <= 'Z':
		return Key{Kind: KeyLetter, Letter: byte(r)}
	}
	return Key{}
}

// ParseKey maps a key name to a Key. It accepts on-screen keyboard labels
// ("ENTER", "BACKSPACE", "⌫", "Q") as well as raw key-event names
// ("Enter", "Backspace", "q").
func ParseKey(name string) Key {
	n := strings.TrimSpace(name)
	switch strings.ToUpper(n) {
	case "ENTER", "RETURN":
		return Enter
	case "BACKSPACE", "⌫":
		return Backspace
	}
	if len(n) == 1 {
		return Letter(rune(n[0]))
	}
	return Key{}
}

// Word returns the keys that type s, for tests and scripted input.
func Word(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Letter(r))
	}
	return keys
}
