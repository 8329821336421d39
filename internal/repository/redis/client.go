package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-ai/internal/domain"
)

const moveKeyPrefix = "c4:move:"

// InitRedis connects to addr. A failed ping is not fatal: it returns a nil client and
// the server runs with per-session caches only.
func InitRedis(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		log.Info().Msg("[REDIS] REDIS_URL not set, shared move cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("[REDIS] could not connect, falling back to in-process caches only")
		client.Close()
		return nil
	}

	log.Info().Str("addr", addr).Msg("[REDIS] connected successfully")
	return client
}

// MoveCache remembers the column chosen for a position so that other processes (or a
// restarted one) can answer the same request without searching again.
type MoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveCache(client *redis.Client, ttl time.Duration) *MoveCache {
	return &MoveCache{client: client, ttl: ttl}
}

// MoveKey encodes the board, the AI piece and the search depth. These fix the root
// score; when several columns tie on it, any of them is an equally good answer.
func MoveKey(b domain.Board, ai domain.Cell, depth int) string {
	buf := make([]byte, 0, len(moveKeyPrefix)+domain.Rows*domain.Columns+8)
	buf = append(buf, moveKeyPrefix...)
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c < domain.Columns; c++ {
			buf = append(buf, byte('0'+b[r][c]))
		}
	}
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(ai), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(depth), 10)
	return string(buf)
}

// Get returns the cached column, or ok=false on a miss.
func (m *MoveCache) Get(ctx context.Context, b domain.Board, ai domain.Cell, depth int) (int, bool, error) {
	val, err := m.client.Get(ctx, MoveKey(b, ai, depth)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read move cache: %w", err)
	}
	col, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt move cache entry %q: %w", val, err)
	}
	return col, true, nil
}

func (m *MoveCache) Set(ctx context.Context, b domain.Board, ai domain.Cell, depth int, column int) error {
	if err := m.client.Set(ctx, MoveKey(b, ai, depth), strconv.Itoa(column), m.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write move cache: %w", err)
	}
	return nil
}
