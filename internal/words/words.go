// internal/words/words.go
//
// Vocabulary management for the game client.
//
// Responsibilities:
//   - Hold the set of acceptable 5-letter words for membership checks.
//   - Load it from the word cache, a local file, or the collaborator, in that order.
//   - Write freshly downloaded lists back to the cache.
//
// Load order (Loader.Load):
//   1. Cache hit → use it.
//   2. CRACKLE_WORDS_FILE set → one word per line, filtered to 5 letters a–z.
//   3. Collaborator GET /api/words → cached for next time.
//
// An empty Set disables the membership check; Contains is only consulted
// when Len() > 0.
//
// Constraints:
//   • Words are stored lowercase.
//   • Lines that are not exactly 5 ASCII letters are dropped.

package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/store"
)

// ErrEmpty is returned when every source came back empty.
var ErrEmpty = errors.New("words: vocabulary is empty")

// Set is an immutable lookup set of lowercase words.
type Set struct {
	list []string
	set  map[string]struct{}
}

// NewSet normalizes list (trim, lowercase, 5-letter filter, dedupe) into a Set.
func NewSet(list []string) *Set {
	norm := normalize(list)
	return &Set{list: norm, set: toSet(norm)}
}

// Contains reports whether w is in the vocabulary, case-insensitively.
func (s *Set) Contains(w string) bool {
	if s == nil {
		return false
	}
	_, ok := s.set[strings.ToLower(strings.TrimSpace(w))]
	return ok
}

// Len returns the number of words; nil Sets are empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// Words returns a sorted copy of the vocabulary.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.list...)
}

// Fetcher downloads the collaborator's word list.
type Fetcher interface {
	Words(ctx context.Context) ([]string, error)
}

// Loader resolves the vocabulary from its sources. Any field may be nil/empty
// to skip that source.
type Loader struct {
	Cache  store.Cache
	File   string
	Remote Fetcher
	Log    zerolog.Logger
}

// NewLoader builds a Loader logging through the global logger.
func NewLoader(cache store.Cache, file string, remote Fetcher) *Loader {
	return &Loader{Cache: cache, File: file, Remote: remote, Log: log.Logger}
}

// Load returns the first non-empty vocabulary. On total failure it returns
// an empty Set together with the last error, so callers can continue
// without validation.
func (l *Loader) Load(ctx context.Context) (*Set, error) {
	if l.Cache != nil {
		cached, ok, err := l.Cache.Read(ctx)
		switch {
		case err != nil:
			l.Log.Warn().Err(err).Msg("word cache read failed")
		case ok && len(cached) > 0:
			s := NewSet(cached)
			l.Log.Debug().Int("count", s.Len()).Msg("vocabulary from cache")
			return s, nil
		}
	}

	if l.File != "" {
		list, err := readWordFile(l.File)
		if err != nil {
			l.Log.Warn().Err(err).Str("file", l.File).Msg("word file unreadable")
		} else if len(list) > 0 {
			s := NewSet(list)
			l.Log.Info().Int("count", s.Len()).Str("file", l.File).Msg("vocabulary from file")
			return s, nil
		}
	}

	lastErr := ErrEmpty
	if l.Remote != nil {
		list, err := l.Remote.Words(ctx)
		if err != nil {
			lastErr = fmt.Errorf("fetch words: %w", err)
		} else if s := NewSet(list); s.Len() > 0 {
			if l.Cache != nil {
				if err := l.Cache.Write(ctx, s.Words()); err != nil {
					l.Log.Warn().Err(err).Msg("word cache write failed")
				}
			}
			l.Log.Info().Int("count", s.Len()).Msg("vocabulary from collaborator")
			return s, nil
		}
	}

	l.Log.Warn().Err(lastErr).Msg("continuing without word validation")
	return NewSet(nil), lastErr
}

// Invalidate drops the cached list so the next Load goes past the cache.
func (l *Loader) Invalidate(ctx context.Context) error {
	if l.Cache == nil {
		return nil
	}
	return l.Cache.Invalidate(ctx)
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if len(w) == 5 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalize lowercases, filters, dedupes and sorts.
func normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		w := strings.TrimSpace(strings.ToLower(raw))
		if len(w) != 5 || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
