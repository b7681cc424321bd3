package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmoji(t *testing.T) {
	got, err := ParseEmoji("🟨🟩⬛🟨🟨")
	require.NoError(t, err)
	assert.Equal(t, Outcomes{P, C, A, P, P}, got)

	got, err = ParseEmoji("⬛️🟩⬛️⬛🟩")
	require.NoError(t, err)
	assert.Equal(t, Outcomes{A, C, A, A, C}, got)
}

func TestParseEmojiRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "🟩🟩🟩🟩", "🟩🟩🟩🟩🟩🟩", "🟩🟩x🟩🟩", "ggggg"} {
		_, err := ParseEmoji(s)
		assert.ErrorIs(t, err, ErrInvalidFeedback, s)
	}
}

func TestEmojiMatchesCollaboratorEncoding(t *testing.T) {
	assert.Equal(t, "🟩🟩🟩🟩🟩", Score(MustWord("CRANE"), MustWord("CRANE")).Emoji())
	assert.Equal(t, "🟨🟩⬛🟨🟨", Score(MustWord("LEVEL"), MustWord("BELLE")).Emoji())
}

func TestParseGYB(t *testing.T) {
	got, err := ParseGYB("GbYbB")
	require.NoError(t, err)
	assert.Equal(t, Outcomes{C, A, P, A, A}, got)
	assert.Equal(t, "gbybb", got.GYB())

	for _, s := range []string{"", "gyb", "gybgyb", "gybgx"} {
		_, err := ParseGYB(s)
		assert.ErrorIs(t, err, ErrInvalidFeedback, s)
	}
}

func TestOutcomesMarshalAsWords(t *testing.T) {
	b, err := Outcomes{C, P, A, A, A}[0].MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "correct", string(b))
}
