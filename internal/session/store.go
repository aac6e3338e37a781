package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by a Store when no live session exists for a key.
var ErrNotFound = errors.New("session not found")

// Store persists session tokens.  Keys are already hashed by the Manager.
type Store interface {
	Get(ctx context.Context, key string) (token string, err error)
	Put(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps sessions in process memory.  Sessions are lost on
// restart and are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memEntry
	now   func() time.Time
}

type memEntry struct {
	token string
	exp   time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		return "", ErrNotFound
	}
	if !e.exp.IsZero() && s.now().After(e.exp) {
		delete(s.items, key)
		return "", ErrNotFound
	}
	return e.token, nil
}

func (s *MemoryStore) Put(_ context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.items[key] = memEntry{token: token, exp: exp}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// RedisStore keeps each session as a string value under "<prefix>:<key>"
// with the session TTL as expiry.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	tok, err := s.rdb.Get(ctx, s.prefix+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return tok, err
}

func (s *RedisStore) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+":"+key, token, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+":"+key).Err()
}
