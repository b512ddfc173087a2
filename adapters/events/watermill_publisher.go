package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

// SubmissionCreatedEvent announces a newly received submission
type SubmissionCreatedEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ServiceType string    `json:"service_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusChangedEvent announces an admin status update
type StatusChangedEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher    message.Publisher
	createdTopic string
	statusTopic  string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher:    publisher,
		createdTopic: "contact.submission.created",
		statusTopic:  "contact.submission.status_changed",
	}
}

// PublishSubmissionCreated publishes a submission-created event
func (p *WatermillPublisher) PublishSubmissionCreated(ctx context.Context, submission *core.Submission) error {
	event := SubmissionCreatedEvent{
		ID:          submission.ID,
		Name:        submission.Name,
		ServiceType: submission.ServiceType,
		CreatedAt:   submission.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(submission.ID, payload)

	if err := p.publisher.Publish(p.createdTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// PublishStatusChanged publishes a status-changed event
func (p *WatermillPublisher) PublishStatusChanged(ctx context.Context, id string, status core.Status) error {
	event := StatusChangedEvent{
		ID:     id,
		Status: string(status),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := p.publisher.Publish(p.statusTopic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
