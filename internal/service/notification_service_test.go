package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/model"
	"auraflux-be/pkg/events"
)

type fakeNotificationRepo struct {
	created   []model.Notification
	createErr error
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return r.created, int64(len(r.created)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.created {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error     { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, id uuid.UUID) error { return nil }

type fakeDelivery struct {
	sent []model.Notification
}

func (d *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.sent = append(d.sent, n)
}

func (d *fakeDelivery) Broadcast(n model.Notification) {
	d.sent = append(d.sent, n)
}

func TestNotificationServiceBuildsFromCatalogue(t *testing.T) {
	repo := &fakeNotificationRepo{}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	userID := uuid.New()
	event := events.NewBaseEvent(constant.EventStageAdvanced, map[string]interface{}{
		"user_id":    userID.String(),
		"session_id": uuid.New().String(),
		"stage":      "EXPLORATION",
	})

	err := svc.handleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	notif := repo.created[0]
	assert.Equal(t, userID, notif.UserID)
	assert.Equal(t, constant.EventStageAdvanced, notif.TypeCode)
	assert.Contains(t, notif.Message, "EXPLORATION")
	assert.False(t, notif.IsRead)

	require.Len(t, delivery.sent, 1)
	assert.Equal(t, notif.ID, delivery.sent[0].ID)
}

func TestNotificationServiceSkipsUnknownEvent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	event := events.NewBaseEvent("SOMETHING_ELSE", map[string]interface{}{
		"user_id": uuid.New().String(),
	})

	err := svc.handleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	assert.Empty(t, delivery.sent)
}

func TestNotificationServiceSkipsEventWithoutUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, &fakeDelivery{}, nopLogger{})

	event := events.NewBaseEvent(constant.EventTopicStabilized, map[string]interface{}{
		"stability_score": 7.5,
	})

	err := svc.handleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestNotificationServiceReturnsErrorForRetry(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("db down")}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	event := events.NewBaseEvent(constant.EventWorkflowCreated, map[string]interface{}{
		"user_id": uuid.New().String(),
	})

	err := svc.handleEvent(context.Background(), event)
	require.Error(t, err)
	assert.Empty(t, delivery.sent)
}
