package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

// MemoryStore is an in-memory implementation of the SubmissionStore interface,
// intended for tests and local development.
type MemoryStore struct {
	submissions map[string]core.Submission
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: make(map[string]core.Submission),
	}
}

var _ ports.SubmissionStore = (*MemoryStore)(nil)

// Create persists a new submission
func (s *MemoryStore) Create(ctx context.Context, submission *core.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions[submission.ID] = *submission
	return nil
}

// ListAll returns all submissions, newest first
func (s *MemoryStore) ListAll(ctx context.Context) ([]core.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Submission, 0, len(s.submissions))
	for _, submission := range s.submissions {
		out = append(out, submission)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// UpdateStatus sets the status of an existing submission
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	submission, ok := s.submissions[id]
	if !ok {
		return fmt.Errorf("submission %q: %w", id, core.ErrNotFound)
	}

	submission.Status = status
	s.submissions[id] = submission
	return nil
}
