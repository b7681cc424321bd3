package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeService mimics the word service with a fixed secret.
type fakeService struct {
	words   []string
	secret  string
	guesses []GuessRequest
	filters []FilterRequest
}

func (f *fakeService) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(WordsResponse{Words: f.words, Count: len(f.words)})
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok", WordsLoaded: len(f.words)})
	})
	r.Post("/api/play/new", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(NewGameResponse{GameID: "123456", Message: "Game started"})
	})
	r.Post("/api/play/guess", func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.guesses = append(f.guesses, req)
		if req.GameID != "123456" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid game_id"}`))
			return
		}
		res := GuessResponse{Feedback: "🟨🟩⬛🟨🟨", Guesses: len(f.guesses)}
		if req.Guess == f.secret {
			res = GuessResponse{Feedback: "🟩🟩🟩🟩🟩", Correct: true, Guesses: len(f.guesses), Target: f.secret}
		}
		_ = json.NewEncoder(w).Encode(res)
	})
	r.Post("/api/filter", func(w http.ResponseWriter, r *http.Request) {
		var req FilterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.filters = append(f.filters, req)
		_ = json.NewEncoder(w).Encode(FilterResponse{Filtered: []string{"reply", "pearl"}, Ranked: []string{"pearl", "reply"}, Count: 2})
	})
	return r
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestWordsAndHealth(t *testing.T) {
	f := &fakeService{words: []string{"crane", "slate"}}
	c := newTestClient(t, f.router())

	words, err := c.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "slate"}, words)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthResponse{Status: "ok", WordsLoaded: 2}, h)
}

func TestPlayRoundTrip(t *testing.T) {
	f := &fakeService{secret: "belle"}
	c := newTestClient(t, f.router())
	ctx := context.Background()

	id, err := c.NewGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456", id)

	res, err := c.Guess(ctx, id, "LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "🟨🟩⬛🟨🟨", res.Feedback)
	assert.False(t, res.Correct)
	assert.Empty(t, res.Target)
	assert.Equal(t, "level", f.guesses[0].Guess, "guesses go out lower-case")

	res, err = c.Guess(ctx, id, "belle")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "belle", res.Target)
}

func TestGuessStatusError(t *testing.T) {
	c := newTestClient(t, (&fakeService{}).router())
	_, err := c.Guess(context.Background(), "nope", "crane")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Invalid game_id", se.Message)
}

func TestFilterSendsLowerCase(t *testing.T) {
	f := &fakeService{}
	c := newTestClient(t, f.router())
	res, err := c.Filter(context.Background(), []string{"reply", "pearl", "beryl"}, "BELLE", "BGYBB")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{"pearl", "reply"}, res.Ranked)
	require.Len(t, f.filters, 1)
	assert.Equal(t, "belle", f.filters[0].Guess)
	assert.Equal(t, "bgybb", f.filters[0].Result)
	assert.Len(t, f.filters[0].PossibleWords, 3)
}

func TestFilterWithoutCandidatesOmitsKey(t *testing.T) {
	var body map[string]json.RawMessage
	r := chi.NewRouter()
	r.Post("/api/filter", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(FilterResponse{Filtered: []string{"crane"}, Ranked: []string{"crane"}, Count: 1})
	})
	c := newTestClient(t, r)

	for _, possible := range [][]string{nil, {}} {
		body = nil
		_, err := c.Filter(context.Background(), possible, "crane", "ggggg")
		require.NoError(t, err)
		assert.NotContains(t, body, "possible_words")
		assert.Contains(t, body, "guess")
	}
}

func TestMalformedReplies(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/play/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	r.Get("/api/words", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	c := newTestClient(t, r)

	_, err := c.NewGame(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = c.Words(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithTimeout(time.Second))
	_, err := c.NewGame(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
	c.hc.CloseIdleConnections()
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, (&fakeService{}).router())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.NewGame(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
