// internal/daily/daily.go
//
// Daily word selection for offline play.
// Every client with the same vocabulary and salt picks the same secret for a
// UTC date, so `crackle play --daily` needs no service round trip.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"
)

// ErrNoWords is returned when there is nothing to pick from.
var ErrNoWords = errors.New("daily: empty word list")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the word for date. list must be in a stable order (the
// vocabulary's sorted order) for clients to agree.
func Pick(list []string, date time.Time, salt string) (string, error) {
	if len(list) == 0 {
		return "", ErrNoWords
	}
	return list[WordIndex(date, salt, len(list))], nil
}
