// internal/leaderboard/redis.go
//
// Redis leaderboard backend: one sorted set per board at
// `<prefix>:<board>:scores`. Members are JSON entries {addr,name,score,ts}
// scored by the clamped score.

package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultPrefix = "cc"

type redisBoard struct {
	client redis.UniversalClient
	prefix string
	limits Limits
}

// NewRedis wraps an existing client. Close closes the client.
func NewRedis(client redis.UniversalClient, prefix string, limits Limits) Board {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &redisBoard{client: client, prefix: prefix, limits: limits}
}

func (r *redisBoard) key(board string) string {
	return fmt.Sprintf("%s:%s:scores", r.prefix, strings.TrimSpace(board))
}

func (r *redisBoard) Submit(ctx context.Context, board string, e Entry) error {
	e = Sanitize(e, r.limits)
	member, err := json.Marshal(e)
	if err != nil {
		return err
	}
	key := r.key(board)

	var card *redis.IntCmd
	if _, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, key, redis.Z{Score: float64(e.Score), Member: string(member)})
		card = p.ZCard(ctx, key)
		return nil
	}); err != nil {
		return fmt.Errorf("zadd: %w", err)
	}
	if card.Val() <= int64(r.limits.Retain) {
		return nil
	}
	return r.trim(ctx, key)
}

// trim removes every member ranked below Retain. Ties on score are broken
// by submission time, which the sorted set alone cannot express.
func (r *redisBoard) trim(ctx context.Context, key string) error {
	all, members, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	order := rankedIndex(all)
	if len(order) <= r.limits.Retain {
		return nil
	}
	drop := make([]any, 0, len(order)-r.limits.Retain)
	for _, i := range order[r.limits.Retain:] {
		drop = append(drop, members[i])
	}
	if err := r.client.ZRem(ctx, key, drop...).Err(); err != nil {
		return fmt.Errorf("zrem: %w", err)
	}
	return nil
}

func (r *redisBoard) load(ctx context.Context, key string) ([]Entry, []string, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("zrevrange: %w", err)
	}
	entries := make([]Entry, 0, len(zs))
	members := make([]string, 0, len(zs))
	for _, z := range zs {
		m, _ := z.Member.(string)
		var e Entry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("skipping malformed leaderboard member")
			continue
		}
		e.Score = int(z.Score)
		entries = append(entries, e)
		members = append(members, m)
	}
	return entries, members, nil
}

// rankedIndex returns the indices of entries ordered best first.
func rankedIndex(entries []Entry) []int {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sortIndex(idx, entries)
	return idx
}

func (r *redisBoard) Top(ctx context.Context, board string, n int) ([]Ranked, error) {
	n = ClampTop(n, r.limits)
	entries, _, err := r.load(ctx, r.key(board))
	if err != nil {
		return nil, err
	}
	out := rank(entries)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *redisBoard) Clear(ctx context.Context, board string) error {
	return r.client.Del(ctx, r.key(board)).Err()
}

func (r *redisBoard) Close() error { return r.client.Close() }
