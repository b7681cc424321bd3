// internal/tui/styles.go
//
// lipgloss styles shared by the practice and assistant screens.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/crackle/internal/game"
)

var (
	colorCorrect = lipgloss.Color("#538d4e")
	colorPresent = lipgloss.Color("#b59f3b")
	colorAbsent  = lipgloss.Color("#3a3a3c")
	colorBorder  = lipgloss.Color("#565758")
	colorDanger  = lipgloss.Color("#e53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#818384")
)

var (
	tileBase = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	tileEmpty   = tileBase.Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(colorBorder)
	tileTyped   = tileBase.Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("#ffffff"))
	tileCorrect = tileBase.Background(colorCorrect)
	tilePresent = tileBase.Background(colorPresent)
	tileAbsent  = tileBase.Background(colorAbsent)
	tilePending = tileBase.Foreground(colorMuted)

	keyStyle      = lipgloss.NewStyle().Padding(0, 1)
	keyDisabled   = keyStyle.Foreground(colorAbsent).Strikethrough(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess).MarginBottom(1)
	toastSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(colorSuccess).Padding(0, 1)
	toastDanger   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(colorDanger).Padding(0, 1)
	noticeStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

var keyboardRows = []string{"QWERTYUIOP", "ASDFGHJKL", "ZXCVBNM"}

func outcomeTile(o game.Outcome, letter byte) string {
	s := string(letter)
	switch o {
	case game.Correct:
		return tileCorrect.Render(s)
	case game.Present:
		return tilePresent.Render(s)
	default:
		return tileAbsent.Render(s)
	}
}

// scoredRow renders a guess with its colours, or plain while revealing.
func scoredRow(word string, out game.Outcomes, revealing bool) string {
	tiles := make([]string, 0, game.WordLength)
	for i := 0; i < game.WordLength && i < len(word); i++ {
		if revealing {
			tiles = append(tiles, tilePending.Render(string(word[i])))
			continue
		}
		tiles = append(tiles, outcomeTile(out[i], word[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// typingRow renders a partly typed row padded with empty tiles.
func typingRow(typed string) string {
	tiles := make([]string, 0, game.WordLength)
	for i := 0; i < game.WordLength; i++ {
		if i < len(typed) {
			tiles = append(tiles, tileTyped.Render(string(typed[i])))
		} else {
			tiles = append(tiles, tileEmpty.Render(" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// resultRow renders a typed G/Y/B row using the colour each letter names.
func resultRow(result string) string {
	tiles := make([]string, 0, game.WordLength)
	for i := 0; i < game.WordLength; i++ {
		if i >= len(result) {
			tiles = append(tiles, tileEmpty.Render(" "))
			continue
		}
		var o game.Outcome
		switch result[i] {
		case 'G':
			o = game.Correct
		case 'Y':
			o = game.Present
		}
		tiles = append(tiles, outcomeTile(o, result[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// keyboard renders the QWERTY layout with disabled letters struck through.
func keyboard(disabled game.LetterSet) string {
	rows := make([]string, 0, len(keyboardRows))
	for _, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for i := 0; i < len(row); i++ {
			if disabled.Has(row[i]) {
				keys = append(keys, keyDisabled.Render(string(row[i])))
			} else {
				keys = append(keys, keyStyle.Render(string(row[i])))
			}
		}
		rows = append(rows, strings.Join(keys, ""))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
