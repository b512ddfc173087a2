package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrimage/atlas-divisions/adapters/store"
	"github.com/chrimage/atlas-divisions/core"
)

var testServiceTypes = []string{"General Inquiry", "Partnership Opportunity"}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestService(t *testing.T) (*ContactService, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(discardWriter{}, nil))
	svc := NewContactService(memStore, nil, nil, testServiceTypes, core.DefaultStatuses(), logger)
	return svc, memStore
}

func validInput() core.SubmissionInput {
	return core.SubmissionInput{
		Name:        "A",
		ServiceType: "General Inquiry",
		Message:     "hi",
	}
}

func TestCreateAssignsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	submission, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, core.StatusNew, submission.Status)
	assert.NotZero(t, submission.CreatedAt)
	_, err = uuid.Parse(submission.ID)
	assert.NoError(t, err, "submission ID should be a freshly generated UUID")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name  string
		input core.SubmissionInput
		wants []string
	}{
		{
			name:  "missing name",
			input: core.SubmissionInput{ServiceType: "General Inquiry", Message: "hi"},
			wants: []string{msgNameRequired},
		},
		{
			name:  "unknown service type",
			input: core.SubmissionInput{Name: "A", ServiceType: "Bogus", Message: "hi"},
			wants: []string{msgServiceTypeRequired},
		},
		{
			name:  "missing message",
			input: core.SubmissionInput{Name: "A", ServiceType: "General Inquiry"},
			wants: []string{msgMessageRequired},
		},
		{
			name:  "invalid email",
			input: core.SubmissionInput{Name: "A", ServiceType: "General Inquiry", Message: "hi", Email: "not-an-email"},
			wants: []string{msgEmailInvalid},
		},
		{
			name:  "multiple failures aggregate",
			input: core.SubmissionInput{Email: "not-an-email"},
			wants: []string{msgNameRequired, msgServiceTypeRequired, msgMessageRequired, msgEmailInvalid},
		},
		{
			name:  "whitespace-only fields are empty",
			input: core.SubmissionInput{Name: "  ", ServiceType: "General Inquiry", Message: "\t\n"},
			wants: []string{msgNameRequired, msgMessageRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)

			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wants, vErr.Fields)
		})
	}
}

func TestCreateAcceptsOptionalFields(t *testing.T) {
	svc, _ := newTestService(t)

	input := validInput()
	input.Email = "reply@example.com"
	input.Phone = "+1 555 0100"

	submission, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "reply@example.com", submission.Email)
	assert.Equal(t, "+1 555 0100", submission.Phone)
}

type failingNotifier struct {
	calls int
}

func (n *failingNotifier) Notify(ctx context.Context, submission *core.Submission) error {
	n.calls++
	return errors.New("smtp on fire")
}

func TestCreateSwallowsNotifierFailure(t *testing.T) {
	memStore := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(discardWriter{}, nil))
	notifier := &failingNotifier{}
	svc := NewContactService(memStore, notifier, nil, testServiceTypes, core.DefaultStatuses(), logger)

	_, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err, "notifier failures must never surface to the submitter")
	assert.Equal(t, 1, notifier.calls)
}

type recordingPublisher struct {
	created []string
	changed []string
}

func (p *recordingPublisher) PublishSubmissionCreated(ctx context.Context, submission *core.Submission) error {
	p.created = append(p.created, submission.ID)
	return nil
}

func (p *recordingPublisher) PublishStatusChanged(ctx context.Context, id string, status core.Status) error {
	p.changed = append(p.changed, id+":"+string(status))
	return nil
}

func TestLifecycleEventsPublished(t *testing.T) {
	memStore := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(discardWriter{}, nil))
	publisher := &recordingPublisher{}
	svc := NewContactService(memStore, nil, publisher, testServiceTypes, core.DefaultStatuses(), logger)

	submission, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), submission.ID, "resolved"))

	assert.Equal(t, []string{submission.ID}, publisher.created)
	assert.Equal(t, []string{submission.ID + ":resolved"}, publisher.changed)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)

	submission, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	t.Run("rejects statuses outside the enumeration", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), submission.ID, "bogus")
		assert.ErrorIs(t, err, core.ErrInvalidStatus)
	})

	t.Run("fails for unknown ids", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), "no-such-id", "resolved")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("persists the new status and nothing else", func(t *testing.T) {
		require.NoError(t, svc.UpdateStatus(context.Background(), submission.ID, "resolved"))

		listed, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, core.StatusResolved, listed[0].Status)
		assert.Equal(t, submission.CreatedAt, listed[0].CreatedAt)
		assert.Equal(t, submission.Name, listed[0].Name)
	})

	t.Run("terminal states may be reopened", func(t *testing.T) {
		require.NoError(t, svc.UpdateStatus(context.Background(), submission.ID, "in_progress"))
	})
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}
	idx := 0
	svc.clock = func() time.Time {
		ts := times[idx]
		idx++
		return ts
	}

	var ids []string
	for range times {
		submission, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		ids = append(ids, submission.ID)
	}

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}
