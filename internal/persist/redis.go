package persist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/internal/config"
)

// RedisStore keeps the latest snapshot of each world in a redis hash and
// the ticks of every save in a capped list.
type RedisStore struct {
	Client *redis.Client
	prefix string
	keep   int64
	log    *zap.Logger
}

func NewRedisStore(cfg config.RedisConfig, keep int, log *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStoreFromClient(client, cfg.KeyPrefix, keep, log)
}

func NewRedisStoreFromClient(client *redis.Client, prefix string, keep int, log *zap.Logger) *RedisStore {
	if keep < 1 {
		keep = 1
	}
	return &RedisStore{Client: client, prefix: prefix, keep: int64(keep), log: log}
}

func (r *RedisStore) latestKey(world string) string  { return r.prefix + ":world:" + world + ":latest" }
func (r *RedisStore) historyKey(world string) string { return r.prefix + ":world:" + world + ":ticks" }

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Save replaces the latest snapshot and records its tick atomically.
func (r *RedisStore) Save(ctx context.Context, s *Snapshot) error {
	pipe := r.Client.TxPipeline()
	pipe.HSet(ctx, r.latestKey(s.World), map[string]any{
		"tick":       s.Tick,
		"payload":    s.Payload,
		"checksum":   s.Checksum,
		"created_at": s.CreatedAt.UnixNano(),
	})
	pipe.LPush(ctx, r.historyKey(s.World), s.Tick)
	pipe.LTrim(ctx, r.historyKey(s.World), 0, r.keep-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", s.World, err)
	}
	r.log.Debug("snapshot stored in redis",
		zap.String("world", s.World),
		zap.Uint64("tick", s.Tick),
		zap.Int("bytes", len(s.Payload)),
	)
	return nil
}

func (r *RedisStore) Latest(ctx context.Context, world string) (*Snapshot, error) {
	fields, err := r.Client.HGetAll(ctx, r.latestKey(world)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis load %s: %w", world, err)
	}
	if len(fields) == 0 {
		return nil, ErrNoSnapshot
	}

	tick, err := strconv.ParseUint(fields["tick"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis load %s: tick: %w", world, err)
	}
	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis load %s: created_at: %w", world, err)
	}
	s := &Snapshot{
		World:     world,
		Tick:      tick,
		Payload:   []byte(fields["payload"]),
		Checksum:  []byte(fields["checksum"]),
		CreatedAt: time.Unix(0, created).UTC(),
	}
	if err := Verify(s); err != nil {
		return nil, err
	}
	return s, nil
}

// History returns the ticks of the most recent saves, newest first.
func (r *RedisStore) History(ctx context.Context, world string) ([]uint64, error) {
	raw, err := r.Client.LRange(ctx, r.historyKey(world), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis history %s: %w", world, err)
	}
	ticks := make([]uint64, 0, len(raw))
	for _, v := range raw {
		t, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis history %s: %w", world, err)
		}
		ticks = append(ticks, t)
	}
	return ticks, nil
}

func (r *RedisStore) Close() error {
	return r.Client.Close()
}
