// internal/game/letters.go
//
// Keyboard letter-state inference.
//
// A letter is disabled only when every occurrence of it, in every guess of
// the history, scored Absent. One Present or Correct occurrence anywhere keeps
// it enabled for the rest of the session, so the state is always rebuilt from
// the full history instead of being patched guess by guess.

package game

// DeriveDisabled folds history into the set of disabled letters. Entries
// with an invalid guess are skipped.
func DeriveDisabled(history []ScoredGuess) LetterSet {
	var seen, favourable LetterSet
	for _, sg := range history {
		if !sg.Guess.Valid() {
			continue
		}
		for i := 0; i < WordLength; i++ {
			r := sg.Guess[i]
			seen = seen.With(r)
			if sg.Outcomes[i] != Absent {
				favourable = favourable.With(r)
			}
		}
	}
	return seen &^ favourable
}
