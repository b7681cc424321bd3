// internal/api/client.go
//
// HTTP client for the remote word service.
// Responsibilities:
//   - JSON request/response plumbing with context-bound calls.
//   - Mapping non-2xx replies to *StatusError and empty/garbled bodies to ErrMalformed.
//   - Debug logging of every round trip.
//
// No retries: callers surface failures to the user, who can try again.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrMalformed is returned when the service answers 2xx with a body that
// does not carry what the endpoint promises.
var ErrMalformed = errors.New("malformed response")

// StatusError is a non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("word service: HTTP %d", e.Code)
	}
	return fmt.Sprintf("word service: HTTP %d: %s", e.Code, e.Message)
}

// Client talks to one word service base URL.
type Client struct {
	base string
	hc   *http.Client
	log  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.hc
		hc.Timeout = d
		c.hc = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client. An empty baseURL means same-origin relative paths,
// which only make sense behind a proxy; callers normally pass a full URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		log:  log.Logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Words fetches the full vocabulary.
func (c *Client) Words(ctx context.Context) ([]string, error) {
	var res WordsResponse
	if err := c.do(ctx, http.MethodGet, "/api/words", nil, &res); err != nil {
		return nil, err
	}
	if res.Words == nil {
		return nil, fmt.Errorf("words: %w", ErrMalformed)
	}
	return res.Words, nil
}

// NewGame allocates a game with a hidden secret and returns its id.
func (c *Client) NewGame(ctx context.Context) (string, error) {
	var res NewGameResponse
	if err := c.do(ctx, http.MethodPost, "/api/play/new", nil, &res); err != nil {
		return "", err
	}
	if res.GameID == "" {
		return "", fmt.Errorf("new game: %w", ErrMalformed)
	}
	return res.GameID, nil
}

// Guess scores guess (lower-case) for gameID.
func (c *Client) Guess(ctx context.Context, gameID, guess string) (GuessResponse, error) {
	var res GuessResponse
	req := GuessRequest{GameID: gameID, Guess: strings.ToLower(guess)}
	if err := c.do(ctx, http.MethodPost, "/api/play/guess", req, &res); err != nil {
		return GuessResponse{}, err
	}
	if res.Feedback == "" {
		return GuessResponse{}, fmt.Errorf("guess: %w", ErrMalformed)
	}
	return res, nil
}

// Filter narrows possible with guess and its g/y/b result.
func (c *Client) Filter(ctx context.Context, possible []string, guess, result string) (FilterResponse, error) {
	var res FilterResponse
	req := FilterRequest{
		PossibleWords: possible,
		Guess:         strings.ToLower(guess),
		Result:        strings.ToLower(result),
	}
	if err := c.do(ctx, http.MethodPost, "/api/filter", req, &res); err != nil {
		return FilterResponse{}, err
	}
	if res.Filtered == nil {
		res.Filtered = []string{}
	}
	if res.Ranked == nil {
		res.Ranked = []string{}
	}
	return res, nil
}

// Health reports whether the service is up and how many words it holds.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var res HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &res)
	return res, err
}

// do sends body as JSON (when non-nil) and decodes a 2xx reply into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("word service call failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("word service call")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		return &StatusError{Code: resp.StatusCode, Message: er.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w: %v", path, ErrMalformed, err)
	}
	return nil
}
