package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb, "")
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", "tok", time.Minute))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
	assert.True(t, mr.Exists("session:k"))
	assert.Equal(t, time.Minute, mr.TTL("session:k"))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k2", "tok2", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrNotFound)
}
