// Package cache provides the shared key-value cache fronting derived read
// paths. Cache unavailability is never an error for callers: a failed lookup
// is a miss and a failed write is dropped, so requests fall through to the
// source of truth.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"playapp/internal/utils"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, keys ...string)
	Health() map[string]string
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects a Redis-backed Store with a default entry TTL. The connection
// is lazy; a dead Redis degrades every read into a miss rather than failing
// startup.
func New(addr, password string, ttl time.Duration) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		}
		utils.CacheRequestsTotal.WithLabelValues(key, "miss").Inc()
		return nil, false
	}
	utils.CacheRequestsTotal.WithLabelValues(key, "hit").Inc()
	return data, true
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache set failed, entry dropped")
	}
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Cache delete failed")
	}
}

func (s *redisStore) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return map[string]string{
			"message": "cache down",
			"error":   err.Error(),
		}
	}
	return map[string]string{
		"message": "It's healthy",
	}
}
