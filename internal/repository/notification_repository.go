package repository

import (
	"context"

	"github.com/google/uuid"

	"auraflux-be/internal/model"
)

// NotificationRepository persists the user notification inbox. Kept outside
// the contract/ split because notifications bypass the entity/mapper layer.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
