// internal/daily/daily.go
//
// Daily challenge helpers. Every player gets the same board on a given UTC
// day: the board seed is HMAC(salt, YYYY-MM-DD), and scores go to a per-day
// leaderboard board.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic board seed for the day of t.
func Seed(t time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes, top bit cleared so the seed is non-negative
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}

// Board names the leaderboard board for the day of t.
func Board(t time.Time) string {
	return "daily:" + DateKey(t)
}
