package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRecordStore is a Redis-backed implementation of RecordStore.
// Suitable for distributed deployments. Records are stored as JSON values
// with a sorted set as the recency index.
type RedisRecordStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisOptions configures a RedisRecordStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix defaults to "handoffcore:".
	KeyPrefix string
	// TTL expires record values after this duration (0 = keep forever).
	TTL time.Duration
}

// NewRedisRecordStore connects to Redis and verifies the connection.
func NewRedisRecordStore(opts RedisOptions) (*RedisRecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "handoffcore:"
	}

	return &RedisRecordStore{
		client:    client,
		keyPrefix: prefix + "record:",
		ttl:       opts.TTL,
	}, nil
}

// Close closes the store.
func (s *RedisRecordStore) Close() error {
	return s.client.Close()
}

// Ping checks if the store is healthy.
func (s *RedisRecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisRecordStore) recordKey(id string) string {
	return s.keyPrefix + "data:" + id
}

func (s *RedisRecordStore) indexKey() string {
	return s.keyPrefix + "index"
}

// Save persists a record.
func (s *RedisRecordStore) Save(ctx context.Context, rec *HandoffRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.recordKey(rec.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(rec.CreatedAt.UnixNano()),
		Member: rec.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// Get returns the record with the given ID.
func (s *RedisRecordStore) Get(ctx context.Context, id string) (*HandoffRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec HandoffRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// List returns the most recent records, newest first.
func (s *RedisRecordStore) List(ctx context.Context, limit int) ([]*HandoffRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*HandoffRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Value expired out from under the index.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Purge removes records created before the cutoff.
func (s *RedisRecordStore) Purge(ctx context.Context, before time.Time) (int, error) {
	max := strconv.FormatInt(before.UnixNano()-1, 10)

	ids, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.recordKey(id))
	}
	pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", max)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return len(ids), nil
}
