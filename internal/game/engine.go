// internal/game/engine.go
//
// Scoring engine used when feedback has to be computed on the client
// (locally injected secrets) and for the `score` command.
// Responsibilities:
//   - Score guesses using the classic two-pass algorithm.
//   - Validate raw strings before scoring.
//   - Decide wins by word equality, never by inspecting the outcome vector.

package game

// Score evaluates guess against secret.
//
// Pass 1:
//   - Mark exact matches as Correct and consume that letter from the
//     secret's letter counts.
//
// Pass 2:
//   - For each remaining guess letter: if the secret still has an unconsumed
//     copy, mark Present and consume it; otherwise leave Absent.
//
// Greens must be reserved before yellows are handed out, otherwise duplicate
// letters in the guess are over-credited.
//
// Both words must come from ParseWord; an invalid word scores all Absent.
func Score(guess, secret Word) Outcomes {
	var out Outcomes
	if !guess.Valid() || !secret.Valid() {
		return out
	}
	var counts [26]int
	for i := 0; i < WordLength; i++ {
		counts[idx(secret[i])]++
	}

	for i := 0; i < WordLength; i++ {
		if guess[i] == secret[i] {
			out[i] = Correct
			counts[idx(guess[i])]--
		}
	}

	for i := 0; i < WordLength; i++ {
		if out[i] == Correct {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			out[i] = Present
			counts[j]--
		}
	}
	return out
}

// ScoreStrings validates both inputs and scores them.
func ScoreStrings(guess, secret string) (Outcomes, error) {
	g, err := ParseWord(guess)
	if err != nil {
		return Outcomes{}, err
	}
	s, err := ParseWord(secret)
	if err != nil {
		return Outcomes{}, err
	}
	return Score(g, s), nil
}

// IsWin reports whether guess equals secret.
func IsWin(guess, secret Word) bool {
	return secret != "" && guess == secret
}

// idx maps an upper-case ASCII letter to 0..25.
// Inputs are validated to A–Z by ParseWord.
func idx(r byte) int { return int(r - 'A') }
