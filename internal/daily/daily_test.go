package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 1, 2, 7, 0, 0, 0, loc) // 2026-01-01 21:00 UTC
	assert.Equal(t, "2026-01-01", DateKey(local))
	assert.Equal(t, "daily:2026-01-01", Board(local))
}

func TestSeed(t *testing.T) {
	morning := time.Date(2026, 5, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)
	next := time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, Seed(morning, "s"), Seed(evening, "s"))
	assert.NotEqual(t, Seed(morning, "s"), Seed(next, "s"))
	assert.NotEqual(t, Seed(morning, "s"), Seed(morning, "t"))
	assert.GreaterOrEqual(t, Seed(morning, "s"), int64(0))
}
