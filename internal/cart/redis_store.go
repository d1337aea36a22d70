package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxWatchAttempts = 3

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Store keeping JSON snapshots in Redis. Every
// access refreshes the TTL.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-redis-store").Logger(),
	}
}

func (s *redisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Load returns the session's cart.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	key := s.key(sessionID)

	data, err := s.client.GetEx(ctx, key, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return decodeCart(data)
}

// Update applies fn inside a WATCH/MULTI transaction so concurrent updates of
// one session never overwrite each other.
func (s *redisStore) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	key := s.key(sessionID)

	var result *Cart
	txf := func(tx *redis.Tx) error {
		c := New()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to load cart: %w", err)
		default:
			if c, err = decodeCart(data); err != nil {
				return err
			}
		}

		if err := fn(c); err != nil {
			return err
		}

		payload, err := json.Marshal(c.Snapshot())
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err == nil {
			result = c
		}
		return err
	}

	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug().Str("key", key).Int("attempt", attempt+1).Msg("cart changed concurrently, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	s.logger.Warn().Str("key", key).Msg("cart update contended")
	return nil, fmt.Errorf("failed to update cart: %w", redis.TxFailedErr)
}

// Delete drops the session's cart.
func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func decodeCart(data []byte) (*Cart, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return FromSnapshot(snap), nil
}
