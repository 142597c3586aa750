package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StateProcessing = "processing"
	StateDone       = "done"
)

// Record is the stored outcome of a request made under an Idempotency-Key
type Record struct {
	RequestHash string          `json:"request_hash"`
	State       string          `json:"state"`
	Status      int             `json:"status,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

type Store interface {
	// Reserve stores rec only if key is unused and reports whether it did
	Reserve(ctx context.Context, key string, rec Record, ttl time.Duration) (bool, error)
	// Get returns nil when key is unknown
	Get(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type redisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Reserve(ctx context.Context, key string, rec Record, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &rec, nil
}

func (s *redisStore) Save(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
