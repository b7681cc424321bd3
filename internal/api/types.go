// internal/api/types.go
//
// Wire payloads of the remote word service.
//   GET  /api/words        → WordsResponse
//   POST /api/play/new     → NewGameResponse
//   POST /api/play/guess   GuessRequest → GuessResponse
//   POST /api/filter       FilterRequest → FilterResponse
//   GET  /api/health       → HealthResponse
// Errors come back as {"error": "..."} with a non-2xx status.

package api

type WordsResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}

type NewGameResponse struct {
	GameID  string `json:"game_id"`
	Message string `json:"message,omitempty"`
}

type GuessRequest struct {
	GameID string `json:"game_id"`
	Guess  string `json:"guess"`
}

// GuessResponse carries emoji feedback (🟩🟨⬛). Target is only set once
// the guess is correct.
type GuessResponse struct {
	Feedback string `json:"feedback"`
	Correct  bool   `json:"correct"`
	Guesses  int    `json:"guesses"`
	Target   string `json:"target,omitempty"`
}

// FilterRequest narrows PossibleWords with a guess and its g/y/b result.
// An absent PossibleWords makes the service filter its full list.
type FilterRequest struct {
	PossibleWords []string `json:"possible_words,omitempty"`
	Guess         string   `json:"guess"`
	Result        string   `json:"result"`
}

type FilterResponse struct {
	Filtered []string `json:"filtered"`
	Ranked   []string `json:"ranked"`
	Count    int      `json:"count"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	WordsLoaded int    `json:"words_loaded"`
}

type errorResponse struct {
	Error string `json:"error"`
}
