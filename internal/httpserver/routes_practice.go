// internal/httpserver/routes_practice.go
//
// HTTP routes for practice mode.
// Exposes under /practice:
//   - POST /practice/new                 → start a play ({"secret"} starts a local game)
//   - GET  /practice/{id}                → current view
//   - POST /practice/{id}/keys           → one keystroke ({"key","source"})
//   - POST /practice/{id}/reset          → new-game request through the reset scheduler
//   - POST /practice/{id}/toast/dismiss  → user closed the toast ({"gen"})
//
// Keys from the physical keyboard and the on-screen keyboard take the same
// path; "source" is only logged. Reveal, toast and cooldown timers run on the
// server and mutate the play under its mutex.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/game"
	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/reset"
	"github.com/robalobadob/crackle/internal/session"
)

// backgroundTimeout bounds network calls made from timer callbacks.
const backgroundTimeout = 10 * time.Second

// practicePlay is one browser tab's practice game.
type practicePlay struct {
	mu     sync.Mutex // guards everything below
	id     string
	owner  string
	secret string // non-empty for local plays; reused on reset
	ctrl   *session.Controller
	sched  *reset.Scheduler
	notice string // last error shown to the user
}

// practiceView is the JSON a front end renders.
type practiceView struct {
	ID           string            `json:"id"`
	Session      session.Session   `json:"session"`
	Buffers      input.Buffers     `json:"buffers"`
	State        string            `json:"state"`
	Disabled     string            `json:"disabled"`
	Revealing    []int             `json:"revealing"`
	CanSubmit    bool              `json:"canSubmit"`
	InFlight     bool              `json:"inFlight"`
	Toast        *reset.Toast      `json:"toast,omitempty"`
	Button       string            `json:"button"`
	ResetEnabled bool              `json:"resetEnabled"`
	LastGuess    *game.ScoredGuess `json:"lastGuess,omitempty"`
	Error        string            `json:"error,omitempty"`
}

type newPracticeReq struct {
	Secret string `json:"secret"` // optional fixed secret (testing)
}

type keyReq struct {
	Key    string `json:"key"`
	Source string `json:"source"` // "keyboard" | "screen"
}

type dismissReq struct {
	Gen uint64 `json:"gen"`
}

// mountPractice registers all /practice routes.
func (s *Server) mountPractice(r chi.Router) {
	r.Route("/practice", func(r chi.Router) {
		r.Post("/new", s.handlePracticeNew)
		r.Get("/{id}", s.handlePracticeGet)
		r.Post("/{id}/keys", s.handlePracticeKey)
		r.Post("/{id}/reset", s.handlePracticeReset)
		r.Post("/{id}/toast/dismiss", s.handlePracticeDismiss)
	})
}

func (s *Server) handlePracticeNew(w http.ResponseWriter, r *http.Request) {
	var req newPracticeReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	p := &practicePlay{
		id:     uuid.NewString(),
		owner:  Subject(r.Context()),
		secret: req.Secret,
		ctrl:   session.NewController(s.deps.Backend, s.deps.Vocab),
		sched:  reset.New(s.deps.Reset),
	}

	if req.Secret != "" {
		if _, err := p.ctrl.StartLocalSession(req.Secret); err != nil {
			http.Error(w, `{"error":"invalid_secret"}`, http.StatusBadRequest)
			return
		}
	} else if _, err := p.ctrl.StartSession(r.Context()); err != nil {
		log.Warn().Err(err).Str("reqId", chimw.GetReqID(r.Context())).Msg("practice start")
		p.notice = "Could not start a game. Press New Game to retry."
	}

	s.mu.Lock()
	s.practice[p.id] = p
	s.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	writeJSON(w, http.StatusCreated, p.view(nil))
}

func (s *Server) handlePracticeGet(w http.ResponseWriter, r *http.Request) {
	p := s.practicePlay(r)
	if p == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	writeJSON(w, http.StatusOK, p.view(nil))
}

func (s *Server) handlePracticeKey(w http.ResponseWriter, r *http.Request) {
	p := s.practicePlay(r)
	if p == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	var req keyReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ev := p.ctrl.Key(input.ParseKey(req.Key))
	log.Debug().Str("play", p.id).Str("key", req.Key).Str("source", req.Source).Stringer("event", ev).Msg("key")
	if ev != input.EventSubmitRequested {
		writeJSON(w, http.StatusOK, p.view(nil))
		return
	}

	pending, err := p.ctrl.Submit()
	if err != nil {
		p.notice = noticeFor(err)
		writeJSON(w, http.StatusUnprocessableEntity, p.view(nil))
		return
	}
	p.notice = ""

	p.mu.Unlock()
	res := p.ctrl.Resolve(r.Context(), pending)
	p.mu.Lock()

	sg, tok, err := p.ctrl.Complete(res)
	switch {
	case errors.Is(err, session.ErrStale):
		writeJSON(w, http.StatusConflict, p.view(nil))
		return
	case err != nil:
		p.notice = noticeFor(err)
		writeJSON(w, http.StatusBadGateway, p.view(nil))
		return
	}

	s.timers.after(s.deps.RevealDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.ctrl.FinishReveal(tok)
	})
	writeJSON(w, http.StatusOK, p.view(&sg))
}

func (s *Server) handlePracticeReset(w http.ResponseWriter, r *http.Request) {
	p := s.practicePlay(r)
	if p == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s.applyEffects(r.Context(), p, p.sched.Request())
	writeJSON(w, http.StatusOK, p.view(nil))
}

func (s *Server) handlePracticeDismiss(w http.ResponseWriter, r *http.Request) {
	p := s.practicePlay(r)
	if p == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	var req dismissReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s.applyEffects(r.Context(), p, p.sched.Dismiss(req.Gen))
	writeJSON(w, http.StatusOK, p.view(nil))
}

// applyEffects performs what the scheduler asked for. Called and returns
// with p.mu held; the lock is released while a new game is requested.
func (s *Server) applyEffects(ctx context.Context, p *practicePlay, fx reset.Effects) {
	if fx.Dismiss != nil {
		gen := fx.Dismiss.Gen
		s.timers.after(fx.Dismiss.After, func() {
			ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
			defer cancel()
			p.mu.Lock()
			defer p.mu.Unlock()
			s.applyEffects(ctx, p, p.sched.Dismiss(gen))
		})
	}
	if fx.Cooldown != nil {
		gen := fx.Cooldown.Gen
		s.timers.after(fx.Cooldown.After, func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.sched.CooldownExpired(gen)
		})
	}
	if !fx.StartSession {
		return
	}

	p.notice = ""
	if p.secret != "" {
		if _, err := p.ctrl.StartLocalSession(p.secret); err != nil {
			p.notice = noticeFor(err)
		}
		return
	}
	t := p.ctrl.BeginStart()
	p.mu.Unlock()
	started := p.ctrl.RequestGame(ctx, t)
	p.mu.Lock()
	if _, err := p.ctrl.FinishStart(started); err != nil && !errors.Is(err, session.ErrStale) {
		p.notice = noticeFor(err)
	}
}

// practicePlay looks up {id} for the caller; other owners' plays are invisible.
func (s *Server) practicePlay(r *http.Request) *practicePlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.practice[chi.URLParam(r, "id")]
	if p == nil || p.owner != Subject(r.Context()) {
		return nil
	}
	return p
}

// view renders the play; p.mu must be held.
func (p *practicePlay) view(last *game.ScoredGuess) practiceView {
	sess := p.ctrl.Session()
	if !sess.Won {
		sess.Secret = ""
	}
	v := practiceView{
		ID:           p.id,
		Session:      sess,
		Buffers:      p.ctrl.Buffers(),
		State:        p.ctrl.InputState().String(),
		Disabled:     p.ctrl.Disabled().Letters(),
		Revealing:    []int{},
		CanSubmit:    p.ctrl.CanSubmit(),
		InFlight:     p.ctrl.InFlight(),
		Button:       p.sched.ButtonLabel(),
		ResetEnabled: p.sched.Enabled(),
		LastGuess:    last,
		Error:        p.notice,
	}
	for _, g := range sess.History {
		if p.ctrl.Revealing(g.Ordinal) {
			v.Revealing = append(v.Revealing, g.Ordinal)
		}
	}
	sort.Ints(v.Revealing)
	if t, ok := p.sched.Toast(); ok {
		v.Toast = &t
	}
	return v
}

// noticeFor turns engine errors into user-facing text.
func noticeFor(err error) string {
	var rej *session.GuessRejected
	switch {
	case errors.Is(err, session.ErrNotInWordList):
		return "Not in word list"
	case errors.Is(err, input.ErrInvalidResult):
		return "Result must be 5 of g/y/b"
	case errors.As(err, &rej):
		return "Guess must be 5 letters"
	case errors.Is(err, session.ErrSessionWon):
		return "You already won. Start a new game."
	case errors.Is(err, session.ErrExhausted):
		return "No candidates left. Check the results and reset."
	case errors.Is(err, session.ErrNoSession):
		return "No game in progress. Press New Game."
	case errors.Is(err, session.ErrSubmitInFlight):
		return "Still checking the last guess"
	case errors.Is(err, session.ErrLoading):
		return "Still loading the word list"
	case errors.Is(err, game.ErrInvalidWord):
		return "Secret must be 5 letters"
	}
	var se *session.SessionStartError
	if errors.As(err, &se) {
		return "Could not start a game. Press New Game to retry."
	}
	return "Could not reach the word service. Try again."
}
