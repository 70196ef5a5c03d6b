package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as JSON values that expire with their TTL
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to addr. Keys are namespaced under prefix.
func NewRedisStore(addr, password, prefix string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		prefix: prefix,
	}
}

// Ping checks connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) redisKey(key string) string {
	return fmt.Sprintf("%s:idempotency:%s", s.prefix, compositeKey(key))
}

// Reserve implements the Store interface.
func (s *RedisStore) Reserve(ctx context.Context, key, fingerprint string, now time.Time, ttl time.Duration) (Reservation, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	record := Record{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      StatusPending,
		CreatedAt:   now.UTC(),
		ExpiresAt:   now.UTC().Add(ttl),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return Reservation{}, err
	}

	ok, err := s.client.SetNX(ctx, s.redisKey(key), payload, ttl).Result()
	if err != nil {
		return Reservation{}, err
	}
	if ok {
		return Reservation{State: ReservationStateNew, Record: record}, nil
	}

	existing, err := s.get(ctx, key)
	if err != nil {
		return Reservation{}, err
	}
	if existing == nil {
		// expired between SETNX and GET
		return s.Reserve(ctx, key, fingerprint, now, ttl)
	}
	if existing.Fingerprint != fingerprint {
		return Reservation{}, ErrFingerprintMismatch
	}
	if existing.Status == StatusCompleted {
		return Reservation{State: ReservationStateCompleted, Record: *existing}, nil
	}
	return Reservation{State: ReservationStatePending, Record: *existing}, nil
}

// SaveResponse implements the Store interface.
func (s *RedisStore) SaveResponse(ctx context.Context, key, fingerprint string, resp Response, now time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	existing, err := s.get(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil && existing.Fingerprint != fingerprint {
		return ErrFingerprintMismatch
	}
	record := Record{
		Key:             key,
		Fingerprint:     fingerprint,
		Status:          StatusCompleted,
		ResponseStatus:  resp.Status,
		ResponseHeaders: sanitizeHeaders(resp.Headers),
		ResponseBody:    resp.Body,
		CreatedAt:       now.UTC(),
		ExpiresAt:       now.UTC().Add(ttl),
	}
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.redisKey(key), payload, ttl).Err()
}

// Release implements the Store interface.
func (s *RedisStore) Release(ctx context.Context, key, _ string) error {
	return s.client.Del(ctx, s.redisKey(key)).Err()
}

// CleanupExpired is a no-op; Redis expires keys on its own.
func (s *RedisStore) CleanupExpired(context.Context, time.Time, int) (int, error) {
	return 0, nil
}

func (s *RedisStore) get(ctx context.Context, key string) (*Record, error) {
	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("idempotency: decode record: %w", err)
	}
	return &record, nil
}
