// internal/store/cache.go
//
// Persistence for the downloaded word list.
// The cache is deliberately flat: one entry holding the words, the cache
// version they were written under, and when they were written. A read of an
// entry with another version or older than the TTL clears it and misses.
//
// Implementations:
//   - Memory (this package): process-local, used in tests and when no DB is configured.
//   - SQLite (this package): survives restarts, lives next to the binary's data dir.

package store

import (
	"context"
	"time"
)

// Cache defines the word-list cache contract.
type Cache interface {
	// Read returns the cached words. ok is false on a miss, including
	// version mismatch and expiry.
	Read(ctx context.Context) (words []string, ok bool, err error)

	// Write replaces the entry, stamping it with the current version and time.
	Write(ctx context.Context, words []string) error

	// Invalidate drops the entry.
	Invalidate(ctx context.Context) error
}

// DefaultVersion is bumped to invalidate every cache written by older builds.
const DefaultVersion = "1.0"

// DefaultTTL is how long a cached list stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Policy decides whether an entry is still usable.
type Policy struct {
	Version string
	TTL     time.Duration
	Now     func() time.Time
}

func (p Policy) withDefaults() Policy {
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	if p.TTL <= 0 {
		p.TTL = DefaultTTL
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

// fresh reports whether an entry stamped (version, storedAt) may be served.
func (p Policy) fresh(version string, storedAt time.Time) bool {
	return version == p.Version && p.Now().Sub(storedAt) <= p.TTL
}
