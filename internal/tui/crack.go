// internal/tui/crack.go
//
// Terminal assistant ("crack") mode: type the guess you played elsewhere,
// then its colours as G/Y/B, and the word service narrows the candidates.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/session"
)

type loadedMsg struct{ loaded session.Loaded }

type answerMsg struct{ ans session.Answer }

// Crack is the bubbletea model for assistant mode.
type Crack struct {
	ctx    context.Context
	asst   *session.Assistant
	sel    int // next suggestion tab fills
	notice string
}

// NewCrack builds the model; candidates load in Init.
func NewCrack(ctx context.Context, filter session.Filterer, source session.CandidateSource) *Crack {
	return &Crack{ctx: ctx, asst: session.NewAssistant(filter, source)}
}

func (m *Crack) Init() tea.Cmd { return m.reset(false) }

func (m *Crack) reset(clearCache bool) tea.Cmd {
	t := m.asst.BeginReset(clearCache)
	m.sel = 0
	m.notice = ""
	asst, ctx := m.asst, m.ctx
	return func() tea.Msg { return loadedMsg{asst.LoadCandidates(ctx, t)} }
}

func (m *Crack) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		if err := m.asst.FinishReset(msg.loaded); err != nil && !errors.Is(err, session.ErrStale) {
			log.Warn().Err(err).Msg("candidate load")
			m.notice = "Word list unavailable; filtering from the full service list."
		}
		return m, nil

	case answerMsg:
		if _, err := m.asst.Complete(msg.ans); err != nil {
			m.notice = noticeFor(err)
		}
		m.sel = 0
		return m, nil
	}
	return m, nil
}

func (m *Crack) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		return m, m.reset(false)
	case tea.KeyCtrlL:
		return m, m.reset(true)
	case tea.KeyTab:
		if s := m.asst.Suggestions(); len(s) > 0 {
			if err := m.asst.Suggest(s[m.sel%len(s)]); err != nil {
				m.notice = noticeFor(err)
			}
			m.sel++
		}
		return m, nil
	case tea.KeyEnter:
		if m.asst.Key(input.Enter) != input.EventSubmitRequested {
			return m, nil
		}
		q, err := m.asst.Submit()
		if err != nil {
			m.notice = noticeFor(err)
			return m, nil
		}
		m.notice = ""
		asst, ctx := m.asst, m.ctx
		return m, func() tea.Msg { return answerMsg{asst.Resolve(ctx, q)} }
	case tea.KeyBackspace:
		m.asst.Key(input.Backspace)
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.asst.Key(input.Letter(r))
		}
	}
	return m, nil
}

func (m *Crack) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("crackle · assistant"))
	b.WriteString("\n")

	for _, s := range m.asst.Steps() {
		row := scoredRow(s.Guess.String(), s.Result, false)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, row, fmt.Sprintf("  %d left", s.Remaining)))
		b.WriteString("\n")
	}

	buf := m.asst.Buffers()
	b.WriteString("\nguess  " + typingRow(buf.Guess) + "\n")
	b.WriteString("result " + resultRow(buf.Result) + "\n\n")

	switch m.asst.Status() {
	case session.Solved:
		b.WriteString(toastSuccess.Render("Solved: "+strings.ToUpper(m.asst.Solution())) + "\n")
	case session.Exhausted:
		b.WriteString(toastDanger.Render("No candidates left. Check the results and reset.") + "\n")
	default:
		b.WriteString(fmt.Sprintf("%d candidates\n", m.asst.Remaining()))
	}

	if s := m.asst.Suggestions(); len(s) > 0 {
		shown := make([]string, len(s))
		for i, w := range s {
			if i == m.sel%len(s) {
				shown[i] = selectedStyle.Render(w)
			} else {
				shown[i] = w
			}
		}
		b.WriteString("try: " + strings.Join(shown, " ") + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render("letters then g/y/b · enter filter · tab suggestion · ctrl+r reset · ctrl+l reset and refetch · esc quit"))
	return b.String()
}

// Assistant exposes the engine for callers that print a summary on exit.
func (m *Crack) Assistant() *session.Assistant { return m.asst }
