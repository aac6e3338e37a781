package catalog

// This file defines where a fetched catalog can be parked so that several
// console replicas share one copy instead of each hitting the movie API.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-console/internal/config"
	"github.com/iliyamo/movie-console/internal/model"
)

// SnapshotStore persists the last fetched catalog outside the process.
type SnapshotStore interface {
	// Load returns the stored catalog; ok is false on a miss.
	Load(ctx context.Context) (movies []model.Movie, ok bool, err error)
	Save(ctx context.Context, movies []model.Movie) error
	Clear(ctx context.Context) error
}

// RedisSnapshot keeps the catalog as one JSON value under "<prefix>:movies".
type RedisSnapshot struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisSnapshot returns nil when sharing is disabled or no Redis client
// is available; the service then keeps its catalog in memory only.
func NewRedisSnapshot(cfg config.CatalogConfig, rdb *redis.Client) *RedisSnapshot {
	if !cfg.Shared || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSnapshot{rdb: rdb, key: cfg.Prefix + ":movies", ttl: ttl}
}

func (s *RedisSnapshot) Load(ctx context.Context) ([]model.Movie, bool, error) {
	bs, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var movies []model.Movie
	if err := json.Unmarshal(bs, &movies); err != nil {
		// a corrupt entry is a miss; the next fetch overwrites it
		return nil, false, nil
	}
	return movies, true, nil
}

func (s *RedisSnapshot) Save(ctx context.Context, movies []model.Movie) error {
	bs, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return s.rdb.SetEx(ctx, s.key, bs, s.ttl).Err()
}

func (s *RedisSnapshot) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
