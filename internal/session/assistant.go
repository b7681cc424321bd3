// internal/session/assistant.go
//
// Assistant ("crack") mode: the user plays a game elsewhere and types each
// guess together with the g/y/b result it received. The word service narrows
// the candidate list and ranks what to try next.
//
// Split calls for event loops mirror Controller:
//
//	BeginReset → LoadCandidates (off-loop) → FinishReset
//	Submit     → Resolve        (off-loop) → Complete

package session

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/api"
	"github.com/robalobadob/crackle/internal/game"
	"github.com/robalobadob/crackle/internal/input"
	"github.com/robalobadob/crackle/internal/words"
)

// DefaultSuggestions are shown before the first filter.
var DefaultSuggestions = []string{
	"tarse", "salet", "crate", "slate", "trace",
	"crane", "carle", "arose", "soare", "roate",
}

// MaxSuggestions caps the ranked list kept after each filter.
const MaxSuggestions = 10

// Filterer narrows candidates on the word service.
type Filterer interface {
	Filter(ctx context.Context, possible []string, guess, result string) (api.FilterResponse, error)
}

// CandidateSource provides the starting candidate list.
type CandidateSource interface {
	Load(ctx context.Context) (*words.Set, error)
	Invalidate(ctx context.Context) error
}

// Status is where the assistant stands.
type Status uint8

const (
	Solving Status = iota
	Solved
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	default:
		return "solving"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Step is one filtered guess.
type Step struct {
	Guess     game.Word     `json:"guess"`
	Result    game.Outcomes `json:"result"`
	Remaining int           `json:"remaining"`
	Ordinal   int           `json:"ordinal"`
}

// ResetTicket is handed out by BeginReset.
type ResetTicket struct {
	epoch      uint64
	clearCache bool
}

// Loaded is the outcome of LoadCandidates.
type Loaded struct {
	epoch uint64
	words []string
	err   error
}

// Query is an accepted assistant submission.
type Query struct {
	epoch      uint64
	guess      game.Word
	result     game.Outcomes
	candidates []string
}

// Answer is the outcome of Resolve.
type Answer struct {
	query *Query
	resp  api.FilterResponse
	err   error
}

// Assistant is not safe for concurrent use.
type Assistant struct {
	filter Filterer
	source CandidateSource
	log    zerolog.Logger

	machine     *input.Machine
	history     []game.ScoredGuess
	steps       []Step
	candidates  []string
	suggestions []string
	status      Status
	solution    string
	epoch       uint64
	inflight    bool
	loading     bool
}

// NewAssistant returns an assistant with no candidates loaded yet.
// source may be nil, in which case the service filters its full list.
func NewAssistant(filter Filterer, source CandidateSource, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		filter:      filter,
		source:      source,
		log:         log.Logger,
		machine:     input.New(input.Assistant),
		suggestions: append([]string(nil), DefaultSuggestions...),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithAssistantLogger sets the assistant's logger.
func WithAssistantLogger(l zerolog.Logger) AssistantOption {
	return func(a *Assistant) { a.log = l }
}

// ------------------------------ reset --------------------------------------

// Reset clears progress and reloads the candidates, dropping the cached
// list first when clearCache is set. A load failure leaves no candidates,
// so filters run against the service's full list, and is returned.
func (a *Assistant) Reset(ctx context.Context, clearCache bool) error {
	return a.FinishReset(a.LoadCandidates(ctx, a.BeginReset(clearCache)))
}

// BeginReset clears progress and invalidates anything in flight. Submit
// refuses with ErrLoading until the matching FinishReset.
func (a *Assistant) BeginReset(clearCache bool) *ResetTicket {
	a.epoch++
	a.inflight = false
	a.loading = true
	a.machine.Reset()
	a.history = nil
	a.steps = nil
	a.candidates = nil
	a.suggestions = append([]string(nil), DefaultSuggestions...)
	a.status = Solving
	a.solution = ""
	return &ResetTicket{epoch: a.epoch, clearCache: clearCache}
}

// LoadCandidates reads the candidate list from the source.
func (a *Assistant) LoadCandidates(ctx context.Context, t *ResetTicket) Loaded {
	if a.source == nil {
		return Loaded{epoch: t.epoch}
	}
	if t.clearCache {
		if err := a.source.Invalidate(ctx); err != nil {
			a.log.Warn().Err(err).Msg("could not clear word cache")
		}
	}
	set, err := a.source.Load(ctx)
	return Loaded{epoch: t.epoch, words: set.Words(), err: err}
}

// FinishReset installs the loaded candidates.
func (a *Assistant) FinishReset(l Loaded) error {
	if l.epoch != a.epoch {
		return ErrStale
	}
	a.loading = false
	a.candidates = l.words
	if l.err != nil {
		a.log.Warn().Err(l.err).Msg("starting assistant without candidates")
	}
	return l.err
}

// ------------------------------ input --------------------------------------

// Key applies one keystroke.
func (a *Assistant) Key(k input.Key) input.Event { return a.machine.Apply(k) }

// Buffers returns the typed guess and result.
func (a *Assistant) Buffers() input.Buffers { return a.machine.Buffers() }

// InputState returns the input machine's state.
func (a *Assistant) InputState() input.State { return a.machine.State() }

// CanSubmit reports whether Enter would submit.
func (a *Assistant) CanSubmit() bool {
	return a.status == Solving && !a.inflight && !a.loading && a.machine.CanSubmit()
}

// Suggest puts a suggested word into the guess buffer and clears the result.
func (a *Assistant) Suggest(word string) error {
	if err := a.ready(); err != nil {
		return err
	}
	if err := a.machine.SetGuess(word); err != nil {
		return &GuessRejected{Word: word, Reason: game.ErrInvalidWord}
	}
	return nil
}

// ---------------------------- submission -----------------------------------

// SubmitFeedback submits the typed guess and result in one blocking call.
func (a *Assistant) SubmitFeedback(ctx context.Context) (Step, error) {
	q, err := a.Submit()
	if err != nil {
		return Step{}, err
	}
	return a.Complete(a.Resolve(ctx, q))
}

// Submit validates the buffers and marks the query in flight.
func (a *Assistant) Submit() (*Query, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if a.loading {
		return nil, ErrLoading
	}
	typed := a.machine.Buffers()
	buf, err := a.machine.BeginSubmit()
	switch {
	case errors.Is(err, input.ErrBusy):
		return nil, ErrSubmitInFlight
	case errors.Is(err, input.ErrFinished):
		return nil, ErrSessionWon
	case err != nil:
		return nil, &GuessRejected{Word: typed.Guess, Reason: err}
	}

	w, err := game.ParseWord(buf.Guess)
	if err != nil {
		a.machine.AbortSubmit()
		return nil, &GuessRejected{Word: buf.Guess, Reason: game.ErrInvalidWord}
	}
	res, err := game.ParseGYB(buf.Result)
	if err != nil {
		a.machine.AbortSubmit()
		return nil, &GuessRejected{Word: buf.Guess, Reason: input.ErrInvalidResult}
	}

	a.inflight = true
	return &Query{
		epoch:      a.epoch,
		guess:      w,
		result:     res,
		candidates: append([]string(nil), a.candidates...),
	}, nil
}

func (a *Assistant) ready() error {
	switch {
	case a.status == Solved:
		return ErrSessionWon
	case a.status == Exhausted:
		return ErrExhausted
	case a.inflight:
		return ErrSubmitInFlight
	}
	return nil
}

// Resolve asks the service to filter the query's candidates, or its full
// list when there are none.
func (a *Assistant) Resolve(ctx context.Context, q *Query) Answer {
	resp, err := a.filter.Filter(ctx, q.candidates, q.guess.Lower(), q.result.GYB())
	if err != nil {
		return Answer{query: q, err: &SubmissionError{Err: err}}
	}
	return Answer{query: q, resp: resp}
}

// Complete folds a filter answer into the assistant.
func (a *Assistant) Complete(ans Answer) (Step, error) {
	if ans.query == nil || ans.query.epoch != a.epoch {
		return Step{}, ErrStale
	}
	a.inflight = false
	if ans.err != nil {
		a.machine.AbortSubmit()
		a.log.Warn().Err(ans.err).Msg("filter failed")
		return Step{}, ans.err
	}

	q, resp := ans.query, ans.resp
	count := resp.Count
	if count == 0 && len(resp.Filtered) > 0 {
		count = len(resp.Filtered)
	}

	a.history = append(a.history, game.ScoredGuess{Guess: q.guess, Outcomes: q.result, Ordinal: len(a.history) + 1})
	a.machine.SetDisabled(game.DeriveDisabled(a.history))
	a.candidates = lowerAll(resp.Filtered)
	ranked := lowerAll(resp.Ranked)
	if len(ranked) > MaxSuggestions {
		ranked = ranked[:MaxSuggestions]
	}
	a.suggestions = ranked

	switch count {
	case 0:
		a.status = Exhausted
	case 1:
		a.status = Solved
		switch {
		case len(ranked) > 0:
			a.solution = ranked[0]
		case len(a.candidates) > 0:
			a.solution = a.candidates[0]
		}
	}
	a.machine.CompleteSubmit(a.status != Solving)

	step := Step{Guess: q.guess, Result: q.result, Remaining: count, Ordinal: len(a.history)}
	a.steps = append(a.steps, step)
	a.log.Debug().Str("guess", q.guess.Lower()).Str("result", q.result.GYB()).Int("remaining", count).Msg("filtered")
	return step, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, w := range in {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}

// ------------------------------ views --------------------------------------

// Disabled returns letters the history has ruled out. Display only; the
// assistant never gates input on it.
func (a *Assistant) Disabled() game.LetterSet { return game.DeriveDisabled(a.history) }

func (a *Assistant) Status() Status { return a.status }

// Solution is the remaining word once Solved.
func (a *Assistant) Solution() string { return a.solution }

// Remaining is the current candidate count.
func (a *Assistant) Remaining() int { return len(a.candidates) }

// InFlight reports whether a filter call is pending.
func (a *Assistant) InFlight() bool { return a.inflight }

// Loading reports whether a reset is waiting for its candidates.
func (a *Assistant) Loading() bool { return a.loading }

// Steps returns a copy of the filtered guesses.
func (a *Assistant) Steps() []Step { return append([]Step(nil), a.steps...) }

// Suggestions returns a copy of the ranked suggestions.
func (a *Assistant) Suggestions() []string { return append([]string(nil), a.suggestions...) }
