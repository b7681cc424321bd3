package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	A = Absent
	P = Present
	C = Correct
)

func TestScoreExamples(t *testing.T) {
	cases := []struct {
		secret, guess string
		want          Outcomes
	}{
		{"ALTER", "BARER", Outcomes{A, P, A, C, C}},
		{"STALE", "APPLE", Outcomes{P, A, A, C, C}},
		{"DADDY", "PADDY", Outcomes{A, C, C, C, C}},
		{"CRANE", "SPEED", Outcomes{A, A, P, A, A}},
		{"BELLE", "LEVEL", Outcomes{P, C, A, P, P}},
		{"ERASE", "SPEED", Outcomes{P, A, P, P, A}},
		{"ABBEY", "BABES", Outcomes{P, P, C, C, A}},
	}
	for _, tc := range cases {
		t.Run(tc.guess+"_vs_"+tc.secret, func(t *testing.T) {
			got := Score(MustWord(tc.guess), MustWord(tc.secret))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScoreExactMatchIsAllCorrect(t *testing.T) {
	for _, s := range []string{"CRANE", "DADDY", "EERIE", "MAMMA", "ZZZZZ"} {
		w := MustWord(s)
		got := Score(w, w)
		assert.True(t, got.AllCorrect(), s)
		assert.True(t, IsWin(w, w))
	}
}

// Favourable marks for a letter never exceed its multiplicity in the secret
// and always equal min(count in guess, count in secret).
func TestScoreRespectsLetterMultiplicity(t *testing.T) {
	pool := []string{"SPEED", "ERASE", "EERIE", "PADDY", "DADDY", "LEVEL", "BELLE", "ALLEY", "LLAMA", "CRANE", "GEESE", "SASSY"}
	for _, sg := range pool {
		for _, ss := range pool {
			guess, secret := MustWord(sg), MustWord(ss)
			out := Score(guess, secret)
			favourable := map[byte]int{}
			for i := 0; i < WordLength; i++ {
				if out[i] != Absent {
					favourable[guess[i]]++
				}
			}
			for r, n := range favourable {
				inGuess := strings.Count(sg, string(r))
				inSecret := strings.Count(ss, string(r))
				assert.Equal(t, min(inGuess, inSecret), n, "%s vs %s letter %c", sg, ss, r)
			}
		}
	}
}

func TestScoreStringsValidates(t *testing.T) {
	out, err := ScoreStrings(" barer ", "alter")
	require.NoError(t, err)
	assert.Equal(t, Outcomes{A, P, A, C, C}, out)

	for _, bad := range []string{"", "abcd", "abcdef", "ab1de", "héllo"} {
		_, err := ScoreStrings(bad, "alter")
		assert.ErrorIs(t, err, ErrInvalidWord, bad)
		_, err = ScoreStrings("alter", bad)
		assert.ErrorIs(t, err, ErrInvalidWord, bad)
	}
}

func TestParseWordNormalises(t *testing.T) {
	w, err := ParseWord("  CrAnE\n")
	require.NoError(t, err)
	assert.Equal(t, Word("CRANE"), w)
	assert.Equal(t, "crane", w.Lower())
}

func TestIsWinNeedsSecret(t *testing.T) {
	assert.False(t, IsWin(MustWord("CRANE"), ""))
	assert.False(t, IsWin(MustWord("CRANE"), MustWord("CRATE")))
}

func TestScoreInvalidWordsAreAllAbsent(t *testing.T) {
	for _, w := range []Word{"", "hello", "CRAN", "CRANES", "CR4NE"} {
		assert.False(t, w.Valid(), string(w))
		assert.NotPanics(t, func() {
			assert.Equal(t, Outcomes{}, Score(w, MustWord("CRANE")))
			assert.Equal(t, Outcomes{}, Score(MustWord("CRANE"), w))
		}, string(w))
	}
	assert.True(t, MustWord("crane").Valid())
}
