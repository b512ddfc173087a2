package ports

import (
	"context"

	"github.com/chrimage/atlas-divisions/core"
)

// Notifier delivers an admin notification for a new submission.
// Delivery is best-effort and at-most-once; callers log and swallow failures.
type Notifier interface {
	Notify(ctx context.Context, submission *core.Submission) error
}

// EventPublisher publishes submission lifecycle events to notify other systems
type EventPublisher interface {
	// PublishSubmissionCreated publishes an event for a newly created submission
	PublishSubmissionCreated(ctx context.Context, submission *core.Submission) error

	// PublishStatusChanged publishes an event for a submission status change
	PublishStatusChanged(ctx context.Context, id string, status core.Status) error
}
