// Package directory keeps the external game directory's copy of each
// snapshot up to date. The directory is a cache over the ledger's own
// store: writes here are best effort and a lagging copy is an accepted,
// bounded inconsistency, never a correctness problem.
package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"match-ledger-service/internal/domain"
)

const (
	gameKeyPrefix         = "game:"
	allGamesKey           = "games:all"
	dateIndexPrefix       = "games:date:"
	tournamentIndexPrefix = "games:tournament:"
)

// Writer is the directory write contract the outbox drains into.
type Writer interface {
	WriteGame(ctx context.Context, game domain.Game) error
}

// RedisWriter mirrors game snapshots into Redis with date/tournament
// secondary indices.
type RedisWriter struct {
	client *redis.Client
}

// NewRedisWriter wraps a connected client.
func NewRedisWriter(client *redis.Client) *RedisWriter {
	return &RedisWriter{client: client}
}

// WriteGame stores the full snapshot under game:{id} and maintains the
// index sets in one pipeline.
func (w *RedisWriter) WriteGame(ctx context.Context, game domain.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", game.ID, err)
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, gameKeyPrefix+game.ID, data, 0)
	pipe.SAdd(ctx, allGamesKey, game.ID)
	if game.Meta.Date != "" {
		pipe.SAdd(ctx, dateIndexPrefix+game.Meta.Date, game.ID)
	}
	if game.Meta.Tournament != "" {
		pipe.SAdd(ctx, tournamentIndexPrefix+game.Meta.Tournament, game.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write game %s to directory: %w", game.ID, err)
	}
	return nil
}

// Ping checks directory reachability for the readiness probe.
func (w *RedisWriter) Ping(ctx context.Context) error {
	return w.client.Ping(ctx).Err()
}
