// internal/session/controller.go
//
// Practice-mode game session controller.
// Responsibilities:
//   - Start sessions against the word service, or locally with a fixed secret.
//   - Route keystrokes into the input machine with the current eliminated letters.
//   - Validate guesses (shape, vocabulary) before any network call.
//   - Score guesses locally or through the service, append them to history,
//     and refold the eliminated-letter set.
//   - Track which rows are still revealing.
//
// Front ends with an event loop use the split calls so the network never
// runs on the loop:
//
//	BeginStart → RequestGame (off-loop) → FinishStart
//	Submit     → Resolve     (off-loop) → Complete
//
// RequestGame and Resolve only read immutable fields and their argument.
// Every session gets a new epoch; results carrying an older epoch are
// dropped with ErrStale.
//
// Controller is not safe for concurrent use.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/api"
	"github.com/robalobadob/crackle/internal/game"
	"github.com/robalobadob/crackle/internal/input"
)

// Backend is the part of the word service a practice session needs.
type Backend interface {
	NewGame(ctx context.Context) (string, error)
	Guess(ctx context.Context, gameID, guess string) (api.GuessResponse, error)
}

// Vocabulary answers membership checks. An empty vocabulary accepts everything.
type Vocabulary interface {
	Contains(word string) bool
	Len() int
}

// Session is a snapshot of one practice game. Secret is empty while the
// service keeps it hidden and filled in on a win.
type Session struct {
	ID        string             `json:"id"`
	Secret    game.Word          `json:"secret,omitempty"`
	History   []game.ScoredGuess `json:"history"`
	Won       bool               `json:"won"`
	CreatedAt time.Time          `json:"createdAt"`
	Local     bool               `json:"local"`
	Inert     bool               `json:"inert"`
}

// LocalPrefix marks IDs of sessions that never touched the service.
const LocalPrefix = "local-"

// StartTicket is handed out by BeginStart and carried through RequestGame.
type StartTicket struct{ epoch uint64 }

// Started is the outcome of RequestGame.
type Started struct {
	epoch uint64
	id    string
	err   error
}

// Pending is an accepted submission waiting for its outcomes.
type Pending struct {
	epoch  uint64
	id     string
	guess  game.Word
	secret game.Word
	local  bool
}

// Guess is the word being submitted.
func (p *Pending) Guess() game.Word { return p.guess }

// Resolution is the outcome of Resolve.
type Resolution struct {
	pending  *Pending
	outcomes game.Outcomes
	won      bool
	target   game.Word
	err      error
}

// Err is the submission failure, if any.
func (r Resolution) Err() error { return r.err }

// RevealToken identifies one row's reveal; it goes stale with its session.
type RevealToken struct {
	epoch   uint64
	ordinal int
}

// Ordinal is the 1-based history position being revealed.
func (t RevealToken) Ordinal() int { return t.ordinal }

// Controller owns one practice session at a time.
type Controller struct {
	backend Backend
	vocab   Vocabulary
	log     zerolog.Logger
	now     func() time.Time

	sess      Session
	machine   *input.Machine
	disabled  game.LetterSet
	epoch     uint64
	inflight  bool
	revealing map[int]struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns a controller with no session; call StartSession
// or StartLocalSession before submitting. vocab may be nil.
func NewController(backend Backend, vocab Vocabulary, opts ...Option) *Controller {
	c := &Controller{
		backend:   backend,
		vocab:     vocab,
		log:       log.Logger,
		now:       time.Now,
		sess:      Session{Inert: true},
		machine:   input.New(input.Practice),
		revealing: map[int]struct{}{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetVocabulary swaps the membership source, e.g. after a late load.
func (c *Controller) SetVocabulary(v Vocabulary) { c.vocab = v }

// ---------------------------- lifecycle ------------------------------------

// StartSession asks the service for a new game. On failure the controller
// holds an inert session and the error is a *SessionStartError.
func (c *Controller) StartSession(ctx context.Context) (Session, error) {
	t := c.BeginStart()
	return c.FinishStart(c.RequestGame(ctx, t))
}

// BeginStart discards the current session and everything in flight.
func (c *Controller) BeginStart() *StartTicket {
	c.clear()
	c.sess = Session{Inert: true, CreatedAt: c.now()}
	return &StartTicket{epoch: c.epoch}
}

// RequestGame performs the network part of a start.
func (c *Controller) RequestGame(ctx context.Context, t *StartTicket) Started {
	id, err := c.backend.NewGame(ctx)
	if err == nil && id == "" {
		err = api.ErrMalformed
	}
	return Started{epoch: t.epoch, id: id, err: err}
}

// FinishStart installs the game RequestGame obtained.
func (c *Controller) FinishStart(s Started) (Session, error) {
	if s.epoch != c.epoch {
		return c.Session(), ErrStale
	}
	if s.err != nil {
		c.log.Warn().Err(s.err).Msg("could not start session")
		c.sess = Session{Inert: true, CreatedAt: c.now()}
		return c.Session(), &SessionStartError{Err: s.err}
	}
	c.sess = Session{ID: s.id, CreatedAt: c.now()}
	c.log.Info().Str("gameId", s.id).Msg("session started")
	return c.Session(), nil
}

// StartLocalSession starts a game against a fixed secret without the
// service. A secret outside the vocabulary is allowed but logged.
func (c *Controller) StartLocalSession(secret string) (Session, error) {
	w, err := game.ParseWord(secret)
	if err != nil {
		return c.Session(), fmt.Errorf("local secret %q: %w", secret, err)
	}
	if c.vocab != nil && c.vocab.Len() > 0 && !c.vocab.Contains(w.Lower()) {
		c.log.Warn().Str("secret", w.Lower()).Msg("local secret is not in the word list")
	}
	c.clear()
	c.sess = Session{
		ID:        LocalPrefix + uuid.NewString(),
		Secret:    w,
		Local:     true,
		CreatedAt: c.now(),
	}
	c.log.Info().Str("gameId", c.sess.ID).Msg("local session started")
	return c.Session(), nil
}

func (c *Controller) clear() {
	c.epoch++
	c.inflight = false
	c.disabled = 0
	c.machine.Reset()
	c.revealing = map[int]struct{}{}
}

// ------------------------------ input --------------------------------------

// Key applies one keystroke.
func (c *Controller) Key(k input.Key) input.Event {
	return c.machine.Apply(k)
}

// Buffers returns what is typed.
func (c *Controller) Buffers() input.Buffers { return c.machine.Buffers() }

// InputState returns the input machine's state.
func (c *Controller) InputState() input.State { return c.machine.State() }

// CanSubmit reports whether Enter would submit.
func (c *Controller) CanSubmit() bool {
	return !c.sess.Inert && !c.sess.Won && c.machine.CanSubmit()
}

// ---------------------------- submission -----------------------------------

// SubmitGuess types word and submits it in one blocking call.
func (c *Controller) SubmitGuess(ctx context.Context, word string) (game.ScoredGuess, error) {
	if err := c.ready(); err != nil {
		return game.ScoredGuess{}, err
	}
	if err := c.machine.SetGuess(word); err != nil {
		return game.ScoredGuess{}, &GuessRejected{Word: word, Reason: game.ErrInvalidWord}
	}
	p, err := c.Submit()
	if err != nil {
		return game.ScoredGuess{}, err
	}
	sg, _, err := c.Complete(c.Resolve(ctx, p))
	return sg, err
}

// Submit validates the typed guess and marks it in flight.
func (c *Controller) Submit() (*Pending, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	typed := c.machine.Buffers().Guess
	buf, err := c.machine.BeginSubmit()
	switch {
	case errors.Is(err, input.ErrBusy):
		return nil, ErrSubmitInFlight
	case errors.Is(err, input.ErrFinished):
		return nil, ErrSessionWon
	case err != nil:
		return nil, &GuessRejected{Word: typed, Reason: game.ErrInvalidWord}
	}

	w, err := game.ParseWord(buf.Guess)
	if err != nil {
		c.machine.AbortSubmit()
		return nil, &GuessRejected{Word: buf.Guess, Reason: game.ErrInvalidWord}
	}
	if c.vocab != nil && c.vocab.Len() > 0 && !c.vocab.Contains(w.Lower()) {
		c.machine.AbortSubmit()
		return nil, &GuessRejected{Word: string(w), Reason: ErrNotInWordList}
	}

	c.inflight = true
	return &Pending{
		epoch:  c.epoch,
		id:     c.sess.ID,
		guess:  w,
		secret: c.sess.Secret,
		local:  c.sess.Local,
	}, nil
}

func (c *Controller) ready() error {
	switch {
	case c.sess.Inert:
		return ErrNoSession
	case c.sess.Won:
		return ErrSessionWon
	case c.inflight:
		return ErrSubmitInFlight
	}
	return nil
}

// Resolve obtains the outcomes for p.
func (c *Controller) Resolve(ctx context.Context, p *Pending) Resolution {
	if p.local {
		return Resolution{
			pending:  p,
			outcomes: game.Score(p.guess, p.secret),
			won:      game.IsWin(p.guess, p.secret),
			target:   p.secret,
		}
	}

	resp, err := c.backend.Guess(ctx, p.id, p.guess.Lower())
	if err != nil {
		return Resolution{pending: p, err: &SubmissionError{Err: err}}
	}
	outcomes, err := game.ParseEmoji(resp.Feedback)
	if err != nil {
		return Resolution{pending: p, err: &SubmissionError{Err: fmt.Errorf("feedback %q: %w", resp.Feedback, err)}}
	}
	res := Resolution{pending: p, outcomes: outcomes, won: resp.Correct}
	if resp.Target != "" {
		if t, err := game.ParseWord(resp.Target); err == nil {
			res.target = t
			res.won = res.won || game.IsWin(p.guess, t)
		}
	}
	return res
}

// Complete folds a resolution into the session. Failures leave the typed
// guess in place; the returned token must be passed to FinishReveal.
func (c *Controller) Complete(r Resolution) (game.ScoredGuess, RevealToken, error) {
	if r.pending == nil || r.pending.epoch != c.epoch {
		return game.ScoredGuess{}, RevealToken{}, ErrStale
	}
	c.inflight = false
	if r.err != nil {
		c.machine.AbortSubmit()
		c.log.Warn().Err(r.err).Str("gameId", c.sess.ID).Msg("guess failed")
		return game.ScoredGuess{}, RevealToken{}, r.err
	}

	sg := game.ScoredGuess{
		Guess:    r.pending.guess,
		Outcomes: r.outcomes,
		Ordinal:  len(c.sess.History) + 1,
	}
	c.sess.History = append(c.sess.History, sg)
	c.disabled = game.DeriveDisabled(c.sess.History)
	c.machine.SetDisabled(c.disabled)
	c.machine.CompleteSubmit(r.won)
	if r.won {
		c.sess.Won = true
		if c.sess.Secret == "" {
			c.sess.Secret = r.target
			if c.sess.Secret == "" {
				c.sess.Secret = sg.Guess
			}
		}
		c.log.Info().Str("gameId", c.sess.ID).Int("guesses", sg.Ordinal).Msg("session won")
	}
	c.revealing[sg.Ordinal] = struct{}{}
	return sg, RevealToken{epoch: c.epoch, ordinal: sg.Ordinal}, nil
}

// ------------------------------ reveal -------------------------------------

// Revealing reports whether the row at ordinal is still animating.
func (c *Controller) Revealing(ordinal int) bool {
	_, ok := c.revealing[ordinal]
	return ok
}

// FinishReveal ends a row's reveal. Tokens from older sessions are ignored.
func (c *Controller) FinishReveal(t RevealToken) bool {
	if t.epoch != c.epoch {
		return false
	}
	if _, ok := c.revealing[t.ordinal]; !ok {
		return false
	}
	delete(c.revealing, t.ordinal)
	return true
}

// ------------------------------ views --------------------------------------

// Disabled returns the eliminated letters.
func (c *Controller) Disabled() game.LetterSet { return c.disabled }

// InFlight reports whether a submission awaits its outcomes.
func (c *Controller) InFlight() bool { return c.inflight }

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	s := c.sess
	s.History = make([]game.ScoredGuess, len(c.sess.History))
	copy(s.History, c.sess.History)
	return s
}
