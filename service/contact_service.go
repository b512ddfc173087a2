package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

// Validation messages surfaced to the form user.
const (
	msgNameRequired        = "Name is required"
	msgServiceTypeRequired = "Please select a service type"
	msgMessageRequired     = "Message is required"
	msgEmailInvalid        = "Please enter a valid email address"
)

// ContactService handles the contact submission lifecycle
type ContactService struct {
	store    ports.SubmissionStore
	notifier ports.Notifier
	events   ports.EventPublisher
	logger   *slog.Logger

	serviceTypes []string
	statuses     []core.Status

	clock func() time.Time
	newID func() string
}

// NewContactService creates a new contact service. The notifier and event
// publisher are optional; nil disables them.
func NewContactService(
	store ports.SubmissionStore,
	notifier ports.Notifier,
	events ports.EventPublisher,
	serviceTypes []string,
	statuses []core.Status,
	logger *slog.Logger,
) *ContactService {
	return &ContactService{
		store:        store,
		notifier:     notifier,
		events:       events,
		logger:       logger,
		serviceTypes: serviceTypes,
		statuses:     statuses,
		clock:        time.Now,
		newID:        uuid.NewString,
	}
}

// ServiceTypes returns the configured service type enumeration.
func (s *ContactService) ServiceTypes() []string {
	return s.serviceTypes
}

// Statuses returns the configured status enumeration.
func (s *ContactService) Statuses() []core.Status {
	return s.statuses
}

// Create validates the form input, persists a new submission with a fresh ID
// and status "new", and best-effort notifies the admin. Notification and
// event failures are logged and never surface to the submitter.
func (s *ContactService) Create(ctx context.Context, input core.SubmissionInput) (*core.Submission, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)

	if err := s.validate(input); err != nil {
		return nil, err
	}

	submission := &core.Submission{
		ID:          s.newID(),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		ServiceType: input.ServiceType,
		Message:     input.Message,
		Status:      core.StatusNew,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.store.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, submission); err != nil {
			s.logger.Warn("admin notification failed", "submission_id", submission.ID, "error", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishSubmissionCreated(ctx, submission); err != nil {
			s.logger.Warn("failed to publish submission created event", "submission_id", submission.ID, "error", err)
		}
	}

	return submission, nil
}

// UpdateStatus sets a submission's status to any member of the configured
// status enumeration. There is no transition graph: terminal states may be
// reopened.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) error {
	if !s.validStatus(status) {
		return fmt.Errorf("status %q: %w", status, core.ErrInvalidStatus)
	}

	if err := s.store.UpdateStatus(ctx, id, core.Status(status)); err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishStatusChanged(ctx, id, core.Status(status)); err != nil {
			s.logger.Warn("failed to publish status changed event", "submission_id", id, "error", err)
		}
	}

	return nil
}

// List returns all submissions, newest first.
func (s *ContactService) List(ctx context.Context) ([]core.Submission, error) {
	submissions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

func (s *ContactService) validate(input core.SubmissionInput) error {
	var fields []string

	if input.Name == "" {
		fields = append(fields, msgNameRequired)
	}
	if !s.validServiceType(input.ServiceType) {
		fields = append(fields, msgServiceTypeRequired)
	}
	if input.Message == "" {
		fields = append(fields, msgMessageRequired)
	}
	if input.Email != "" && !govalidator.IsEmail(input.Email) {
		fields = append(fields, msgEmailInvalid)
	}

	if len(fields) > 0 {
		return &core.ValidationError{Fields: fields}
	}
	return nil
}

func (s *ContactService) validServiceType(serviceType string) bool {
	for _, t := range s.serviceTypes {
		if t == serviceType {
			return true
		}
	}
	return false
}

func (s *ContactService) validStatus(status string) bool {
	for _, st := range s.statuses {
		if string(st) == status {
			return true
		}
	}
	return false
}
