// internal/httpserver/routes_crack.go
//
// HTTP routes for assistant ("crack") mode.
// Exposes under /crack:
//   - POST /crack/new            → start an assistant with the full candidate list
//   - GET  /crack/{id}           → current view
//   - POST /crack/{id}/keys      → one keystroke ({"key","source"}); Enter filters
//   - POST /crack/{id}/suggest   → put a suggestion in the guess row ({"word"})
//   - POST /crack/{id}/reset     → start over ({"clearCache"} drops the cached word list first)
//
// Filtering and ranking happen on the word service; the assistant only keeps
// the history, candidates and suggestions it returns.

package httpserver

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/session"
)

// crackPlay is one assistant in progress.
type crackPlay struct {
	mu     sync.Mutex // guards everything below
	id     string
	owner  string
	asst   *session.Assistant
	notice string
}

type crackView struct {
	ID          string         `json:"id"`
	Buffers     input.Buffers  `json:"buffers"`
	State       string         `json:"state"`
	Status      session.Status `json:"status"`
	Solution    string         `json:"solution,omitempty"`
	Remaining   int            `json:"remaining"`
	Steps       []session.Step `json:"steps"`
	Suggestions []string       `json:"suggestions"`
	Disabled    string         `json:"disabled"`
	CanSubmit   bool           `json:"canSubmit"`
	InFlight    bool           `json:"inFlight"`
	Error       string         `json:"error,omitempty"`
}

type suggestReq struct {
	Word string `json:"word"`
}

type crackResetReq struct {
	ClearCache bool `json:"clearCache"`
}

// mountCrack registers all /crack routes.
func (s *Server) mountCrack(r chi.Router) {
	r.Route("/crack", func(r chi.Router) {
		r.Post("/new", s.handleCrackNew)
		r.Get("/{id}", s.handleCrackGet)
		r.Post("/{id}/keys", s.handleCrackKey)
		r.Post("/{id}/suggest", s.handleCrackSuggest)
		r.Post("/{id}/reset", s.handleCrackReset)
	})
}

func (s *Server) handleCrackNew(w http.ResponseWriter, r *http.Request) {
	c := &crackPlay{
		id:    uuid.NewString(),
		owner: Subject(r.Context()),
		asst:  session.NewAssistant(s.deps.Filter, s.deps.Candidates),
	}
	if err := c.asst.Reset(r.Context(), false); err != nil {
		log.Warn().Err(err).Str("play", c.id).Msg("assistant started without candidates")
		c.notice = "Word list unavailable; filtering from the full service list."
	}

	s.mu.Lock()
	s.crack[c.id] = c
	s.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	writeJSON(w, http.StatusCreated, c.view())
}

func (s *Server) handleCrackGet(w http.ResponseWriter, r *http.Request) {
	c := s.crackPlay(r)
	if c == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	writeJSON(w, http.StatusOK, c.view())
}

func (s *Server) handleCrackKey(w http.ResponseWriter, r *http.Request) {
	c := s.crackPlay(r)
	if c == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	var req keyReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ev := c.asst.Key(input.ParseKey(req.Key))
	log.Debug().Str("play", c.id).Str("key", req.Key).Str("source", req.Source).Stringer("event", ev).Msg("key")
	if ev != input.EventSubmitRequested {
		writeJSON(w, http.StatusOK, c.view())
		return
	}

	q, err := c.asst.Submit()
	if err != nil {
		c.notice = noticeFor(err)
		writeJSON(w, http.StatusUnprocessableEntity, c.view())
		return
	}
	c.notice = ""

	c.mu.Unlock()
	ans := c.asst.Resolve(r.Context(), q)
	c.mu.Lock()

	if _, err := c.asst.Complete(ans); err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, session.ErrStale) {
			code = http.StatusConflict
		} else {
			c.notice = noticeFor(err)
		}
		writeJSON(w, code, c.view())
		return
	}
	writeJSON(w, http.StatusOK, c.view())
}

func (s *Server) handleCrackSuggest(w http.ResponseWriter, r *http.Request) {
	c := s.crackPlay(r)
	if c == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	var req suggestReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.asst.Suggest(req.Word); err != nil {
		c.notice = noticeFor(err)
		writeJSON(w, http.StatusUnprocessableEntity, c.view())
		return
	}
	c.notice = ""
	writeJSON(w, http.StatusOK, c.view())
}

func (s *Server) handleCrackReset(w http.ResponseWriter, r *http.Request) {
	c := s.crackPlay(r)
	if c == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	var req crackResetReq
	if err := decodeOptional(r, &req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.asst.BeginReset(req.ClearCache)
	c.notice = ""
	c.mu.Unlock()
	loaded := c.asst.LoadCandidates(r.Context(), t)
	c.mu.Lock()
	if err := c.asst.FinishReset(loaded); err != nil && !errors.Is(err, session.ErrStale) {
		c.notice = "Word list unavailable; filtering from the full service list."
	}
	writeJSON(w, http.StatusOK, c.view())
}

// crackPlay looks up {id} for the caller; other owners' plays are invisible.
func (s *Server) crackPlay(r *http.Request) *crackPlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.crack[chi.URLParam(r, "id")]
	if c == nil || c.owner != Subject(r.Context()) {
		return nil
	}
	return c
}

// view renders the play; c.mu must be held.
func (c *crackPlay) view() crackView {
	steps := c.asst.Steps()
	if steps == nil {
		steps = []session.Step{}
	}
	return crackView{
		ID:          c.id,
		Buffers:     c.asst.Buffers(),
		State:       c.asst.InputState().String(),
		Status:      c.asst.Status(),
		Solution:    c.asst.Solution(),
		Remaining:   c.asst.Remaining(),
		Steps:       steps,
		Suggestions: c.asst.Suggestions(),
		Disabled:    c.asst.Disabled().Letters(),
		CanSubmit:   c.asst.CanSubmit(),
		InFlight:    c.asst.InFlight(),
		Error:       c.notice,
	}
}
