package core

import "time"

// Status is the triage state of a contact submission.
type Status string

const (
	// StatusNew is the initial status assigned at creation.
	StatusNew Status = "new"

	// StatusInProgress marks a submission an admin is working on.
	StatusInProgress Status = "in_progress"

	// StatusResolved marks a submission as handled.
	StatusResolved Status = "resolved"

	// StatusCancelled marks a submission that will not be handled.
	StatusCancelled Status = "cancelled"
)

// DefaultStatuses returns the built-in status enumeration in display order.
func DefaultStatuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusResolved, StatusCancelled}
}

// Submission represents a persisted contact form submission
type Submission struct {
	ID          string    // Unique identifier, assigned at creation
	Name        string    // Name of the person submitting the form
	Email       string    // Optional reply address
	Phone       string    // Optional phone number
	ServiceType string    // One of the configured service types
	Message     string    // Free-form message body
	Status      Status    // Current triage status
	CreatedAt   time.Time // When the submission was received
}

// SubmissionInput carries the raw contact form fields before validation.
type SubmissionInput struct {
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Message     string
}
