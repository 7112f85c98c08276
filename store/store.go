package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"artexport/config"
	"artexport/types"

	"github.com/redis/go-redis/v9"
)

const (
	uploadKeyPrefix = "upload:"
	uploadsListKey  = "uploads"
	// maxListed bounds the uploads index
	maxListed = 1000
)

// UploadStore persists uploads accepted by the receiver
type UploadStore interface {
	Save(ctx context.Context, rec types.UploadRecord) error
	Recent(ctx context.Context, n int) ([]types.UploadRecord, error)
	Close() error
}

// RedisStore keeps each record as JSON under upload:<id> and an index list of ids
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store and verifies connectivity
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Save stores the record and pushes its id onto the index
func (s *RedisStore) Save(ctx context.Context, rec types.UploadRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, uploadKeyPrefix+rec.ID, data, s.ttl)
		pipe.LPush(ctx, uploadsListKey, rec.ID)
		pipe.LTrim(ctx, uploadsListKey, 0, maxListed-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save upload %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to n records, newest first. Expired records are skipped.
func (s *RedisStore) Recent(ctx context.Context, n int) ([]types.UploadRecord, error) {
	if n <= 0 {
		return []types.UploadRecord{}, nil
	}

	ids, err := s.client.LRange(ctx, uploadsListKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	if len(ids) == 0 {
		return []types.UploadRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = uploadKeyPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load uploads: %w", err)
	}

	records := make([]types.UploadRecord, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec types.UploadRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decode upload: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is an in-process UploadStore used when Redis is not configured
type MemoryStore struct {
	mu      sync.Mutex
	records []types.UploadRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends the record
func (s *MemoryStore) Save(ctx context.Context, rec types.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if len(s.records) > maxListed {
		s.records = s.records[len(s.records)-maxListed:]
	}
	return nil
}

// Recent returns up to n records, newest first
func (s *MemoryStore) Recent(ctx context.Context, n int) ([]types.UploadRecord, error) {
	if n <= 0 {
		return []types.UploadRecord{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.UploadRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
