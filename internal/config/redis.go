package config

// This file defines the Redis client used by the console.  Redis backs the
// redis session store, the shared catalog snapshot and the rate limiter.
// If the server cannot be reached at startup the constructor returns nil and
// callers degrade gracefully (in-memory catalog, no rate limiting).

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads:
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand (used when host/port are not both set)
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
func LoadRedisConfig() RedisConfig {
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	tlsEnv := envStr("REDIS_TLS", "")
	return RedisConfig{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		TLS:      strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
	}
}

// NewRedisClient connects and pings with a short timeout.  It returns nil on
// failure.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
