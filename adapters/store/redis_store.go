package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

// RedisStore is a Redis implementation of the SubmissionStore interface.
// Each submission lives under its own key; a sorted set scored by creation
// time keeps the newest-first listing cheap.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "atlas:submissions:",
	}
}

var _ ports.SubmissionStore = (*RedisStore)(nil)

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "by_created_at"
}

// Create persists a new submission
func (s *RedisStore) Create(ctx context.Context, submission *core.Submission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", core.ErrStoreOperationFailed)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(submission.ID), payload, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(submission.CreatedAt.UnixNano()),
		Member: submission.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store submission: %w", core.ErrStoreOperationFailed)
	}

	return nil
}

// ListAll returns all submissions, newest first
func (s *RedisStore) ListAll(ctx context.Context) ([]core.Submission, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list submission ids: %w", core.ErrStoreOperationFailed)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", core.ErrStoreOperationFailed)
	}

	out := make([]core.Submission, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index entry without a record; skip rather than fail the listing.
			continue
		}
		var submission core.Submission
		if err := json.Unmarshal([]byte(raw), &submission); err != nil {
			return nil, fmt.Errorf("unmarshal submission: %w", core.ErrStoreOperationFailed)
		}
		out = append(out, submission)
	}

	return out, nil
}

// UpdateStatus sets the status of an existing submission
func (s *RedisStore) UpdateStatus(ctx context.Context, id string, status core.Status) error {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("submission %q: %w", id, core.ErrNotFound)
		}
		return fmt.Errorf("fetch submission: %w", core.ErrStoreOperationFailed)
	}

	var submission core.Submission
	if err := json.Unmarshal([]byte(raw), &submission); err != nil {
		return fmt.Errorf("unmarshal submission: %w", core.ErrStoreOperationFailed)
	}

	submission.Status = status
	payload, err := json.Marshal(&submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", core.ErrStoreOperationFailed)
	}

	if err := s.client.Set(ctx, s.key(id), payload, 0).Err(); err != nil {
		return fmt.Errorf("store submission: %w", core.ErrStoreOperationFailed)
	}

	return nil
}
