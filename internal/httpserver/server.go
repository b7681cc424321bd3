// internal/httpserver/server.go
//
// Headless engine server: exposes practice and assistant plays as JSON so a
// browser front end only has to render.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Practice endpoints under /practice, assistant endpoints under /crack,
//     both behind optional bearer-token auth (auth.go).
//   - Play registry and the timers that drive reveals, toasts and cooldowns.
//   - Serve lifecycle with graceful shutdown.
//
// Locking:
//   - Server.mu guards the play maps.
//   - Each play has its own mutex around its engine objects. Network calls run
//     with the play mutex released; the engine's epoch tokens drop any result
//     that a concurrent reset made stale.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/crackle/internal/reset"
	"github.com/robalobadob/crackle/internal/session"
)

// Deps are the collaborators every play is built from.
type Deps struct {
	Backend      session.Backend         // practice games
	Filter       session.Filterer        // assistant filtering
	Vocab        session.Vocabulary      // guess validation; nil or empty accepts all
	Candidates   session.CandidateSource // assistant starting list
	Reset        reset.Config
	RevealDelay  time.Duration
	Secret       string // empty = no auth
	ClientOrigin string
}

// Server bundles router, plays and timers.
type Server struct {
	r    *chi.Mux
	deps Deps

	mu       sync.Mutex // guards practice, crack
	practice map[string]*practicePlay
	crack    map[string]*crackPlay

	timers *timerSet
}

// New constructs a Server, installs middleware, and registers routes.
func New(deps Deps) *Server {
	if deps.RevealDelay <= 0 {
		deps.RevealDelay = 1500 * time.Millisecond
	}
	s := &Server{
		r:        chi.NewRouter(),
		deps:     deps,
		practice: make(map[string]*practicePlay),
		crack:    make(map[string]*crackPlay),
		timers:   newTimerSet(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second))   // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(corsFromOrigin(deps.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"crackle","endpoints":["/health","POST /practice/new","POST /crack/new"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		words := 0
		if deps.Vocab != nil {
			words = deps.Vocab.Len()
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "words": words})
	})

	// Plays: token required only when a secret is configured
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireToken())
		s.mountPractice(r)
		s.mountCrack(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully and stops every pending timer.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("serving")
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := hs.Shutdown(sctx)
		s.Close()
		log.Info().Msg("server stopped")
		return err
	})
	return g.Wait()
}

// Close stops every pending timer. Plays stay readable.
func (s *Server) Close() { s.timers.stopAll() }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromOrigin enables credentialed CORS for a single origin;
// defaults to http://localhost:5173.
func corsFromOrigin(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeOptional decodes a JSON body, treating an empty body as zero value.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// timerSet tracks time.AfterFunc timers so shutdown can stop them.
type timerSet struct {
	mu     sync.Mutex
	next   uint64
	timers map[uint64]*time.Timer
	closed bool
}

func newTimerSet() *timerSet { return &timerSet{timers: make(map[uint64]*time.Timer)} }

// after runs f once d has elapsed unless the set is stopped first.
func (t *timerSet) after(d time.Duration, f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.next++
	id := t.next
	t.timers[id] = time.AfterFunc(d, func() {
		t.mu.Lock()
		_, live := t.timers[id]
		delete(t.timers, id)
		t.mu.Unlock()
		if live {
			f()
		}
	})
}

func (t *timerSet) stopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, tm := range t.timers {
		tm.Stop()
		delete(t.timers, id)
	}
}
