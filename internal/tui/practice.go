// internal/tui/practice.go
//
// Terminal practice game.
// Responsibilities:
//   - Feed physical key presses through the controller's input machine.
//   - Run session starts and guess submissions as tea.Cmds; their results
//     come back as messages and go through the controller's stale checks.
//   - Drive reveal, toast and cooldown timers with tea.Tick messages that
//     carry the token they were armed with.
//   - Render the board, the on-screen keyboard and the toast line.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/reset"
	"github.com/robalobadob/crackle/internal/session"
)

// PracticeConfig wires a practice screen.
type PracticeConfig struct {
	Backend     session.Backend
	Vocab       session.Vocabulary
	Secret      string // non-empty plays locally against this word
	Reset       reset.Config
	RevealDelay time.Duration
}

// ----- messages -----

type startedMsg struct{ started session.Started }

type resolvedMsg struct{ res session.Resolution }

type revealMsg struct{ tok session.RevealToken }

type dismissMsg struct{ gen uint64 }

type cooldownMsg struct{ gen uint64 }

// Practice is the bubbletea model for practice mode.
type Practice struct {
	ctx         context.Context
	ctrl        *session.Controller
	sched       *reset.Scheduler
	secret      string
	revealDelay time.Duration

	notice string
	width  int
}

// NewPractice builds the model; the first session starts in Init.
func NewPractice(ctx context.Context, cfg PracticeConfig) *Practice {
	if cfg.RevealDelay <= 0 {
		cfg.RevealDelay = 1500 * time.Millisecond
	}
	return &Practice{
		ctx:         ctx,
		ctrl:        session.NewController(cfg.Backend, cfg.Vocab),
		sched:       reset.New(cfg.Reset),
		secret:      cfg.Secret,
		revealDelay: cfg.RevealDelay,
	}
}

func (m *Practice) Init() tea.Cmd { return m.start() }

// start begins a new session: locally right away, remotely via a command.
func (m *Practice) start() tea.Cmd {
	if m.secret != "" {
		if _, err := m.ctrl.StartLocalSession(m.secret); err != nil {
			m.notice = fmt.Sprintf("Bad secret: %v", err)
		}
		return nil
	}
	t := m.ctrl.BeginStart()
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg { return startedMsg{ctrl.RequestGame(ctx, t)} }
}

func (m *Practice) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startedMsg:
		if _, err := m.ctrl.FinishStart(msg.started); err != nil && !errors.Is(err, session.ErrStale) {
			log.Warn().Err(err).Msg("session start")
			m.notice = "Could not start a game. Press ctrl+n to retry."
		}
		return m, nil

	case resolvedMsg:
		_, tok, err := m.ctrl.Complete(msg.res)
		if err != nil {
			m.notice = noticeFor(err)
			return m, nil
		}
		return m, tea.Tick(m.revealDelay, func(time.Time) tea.Msg { return revealMsg{tok} })

	case revealMsg:
		m.ctrl.FinishReveal(msg.tok)
		return m, nil

	case dismissMsg:
		return m, m.apply(m.sched.Dismiss(msg.gen))

	case cooldownMsg:
		return m, m.apply(m.sched.CooldownExpired(msg.gen))
	}
	return m, nil
}

func (m *Practice) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlN:
		return m, m.apply(m.sched.Request())
	case tea.KeyEnter:
		if m.ctrl.Key(input.Enter) != input.EventSubmitRequested {
			return m, nil
		}
		return m, m.submit()
	case tea.KeyBackspace:
		m.ctrl.Key(input.Backspace)
		return m, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.ctrl.Key(input.Letter(r))
		}
	}
	return m, nil
}

func (m *Practice) submit() tea.Cmd {
	p, err := m.ctrl.Submit()
	if err != nil {
		m.notice = noticeFor(err)
		return nil
	}
	m.notice = ""
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg { return resolvedMsg{ctrl.Resolve(ctx, p)} }
}

// apply turns scheduler effects into commands.
func (m *Practice) apply(fx reset.Effects) tea.Cmd {
	var cmds []tea.Cmd
	if fx.StartSession {
		m.notice = ""
		if c := m.start(); c != nil {
			cmds = append(cmds, c)
		}
	}
	if fx.Dismiss != nil {
		gen := fx.Dismiss.Gen
		cmds = append(cmds, tea.Tick(fx.Dismiss.After, func(time.Time) tea.Msg { return dismissMsg{gen} }))
	}
	if fx.Cooldown != nil {
		gen := fx.Cooldown.Gen
		cmds = append(cmds, tea.Tick(fx.Cooldown.After, func(time.Time) tea.Msg { return cooldownMsg{gen} }))
	}
	return tea.Batch(cmds...)
}

func (m *Practice) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("crackle · practice"))
	b.WriteString("\n")

	sess := m.ctrl.Session()
	rows := make([]string, 0, len(sess.History)+1)
	for _, g := range sess.History {
		rows = append(rows, scoredRow(g.Guess.String(), g.Outcomes, m.ctrl.Revealing(g.Ordinal)))
	}
	if !sess.Won {
		rows = append(rows, typingRow(m.ctrl.Buffers().Guess))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n\n")
	b.WriteString(keyboard(m.ctrl.Disabled()))
	b.WriteString("\n")

	switch {
	case sess.Won:
		b.WriteString(fmt.Sprintf("\nSolved in %d! The word was %s.\n", len(sess.History), sess.Secret))
	case sess.Inert && !m.ctrl.InFlight():
		b.WriteString("\nNo game yet.\n")
	}
	if t, ok := m.sched.Toast(); ok {
		style := toastSuccess
		if t.Kind == reset.Danger {
			style = toastDanger
		}
		b.WriteString("\n" + style.Render(t.Message) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("enter submit · ctrl+n %s · esc quit", strings.ToLower(m.sched.ButtonLabel()))))
	return b.String()
}

// Controller exposes the engine for callers that print a summary on exit.
func (m *Practice) Controller() *session.Controller { return m.ctrl }
