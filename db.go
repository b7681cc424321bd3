// db.go
//
// Word-list cache wiring.
// Responsibilities:
//   - Open the SQLite cache database and apply the embedded migrations.
//   - Fall back to an in-process cache when the path is ":memory:" or the
//     database cannot be opened; the game still works, it just refetches.

package main

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crackle/internal/config"
	"github.com/robalobadob/crackle/internal/store"
)

// memoryPath selects the in-process cache.
const memoryPath = ":memory:"

// openCache returns the configured cache and a closer for its database.
func openCache(cfg *config.Config) (store.Cache, func()) {
	policy := store.Policy{Version: cfg.Cache.Version, TTL: cfg.CacheTTL()}

	path := cfg.Cache.Path
	if path == "" || path == memoryPath {
		return store.NewMemory(policy), func() {}
	}

	db, err := openDB(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("word cache unavailable, using memory")
		return store.NewMemory(policy), func() {}
	}
	return store.NewSQLite(db, policy), func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close cache db")
		}
	}
}

// openDB opens and migrates the cache database.
func openDB(path string) (*sql.DB, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
