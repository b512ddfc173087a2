package ports

import (
	"context"

	"github.com/chrimage/atlas-divisions/core"
)

// SubmissionStore persists contact form submissions
type SubmissionStore interface {
	// Create persists a new submission
	Create(ctx context.Context, submission *core.Submission) error

	// ListAll returns all submissions ordered by creation time, newest first
	ListAll(ctx context.Context) ([]core.Submission, error)

	// UpdateStatus sets the status of the submission with the given ID,
	// leaving all other fields untouched. Returns core.ErrNotFound when no
	// submission exists for the ID.
	UpdateStatus(ctx context.Context, id string, status core.Status) error
}
