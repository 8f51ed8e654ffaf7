package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/model"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/internal/repository"
	"auraflux-be/internal/websocket"
	"auraflux-be/pkg/events"
	pktNats "auraflux-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// hubDelivery adapts the websocket hub to NotificationDelivery.
type hubDelivery struct {
	hub *websocket.Hub
}

func NewHubDelivery(hub *websocket.Hub) NotificationDelivery {
	return &hubDelivery{hub: hub}
}

func (d *hubDelivery) Send(userID uuid.UUID, notification model.Notification) {
	d.hub.Push(userID, constant.PushEventNotification, constant.PushStatusSuccess, notification)
}

func (d *hubDelivery) Broadcast(notification model.Notification) {
	d.hub.Broadcast(constant.PushEventNotification, constant.PushStatusSuccess, notification)
}

// notificationTemplate describes how one event code renders into an inbox
// entry. The catalogue is fixed in code; events without an entry are
// intentionally silent.
type notificationTemplate struct {
	Title   string
	Message func(payload map[string]interface{}) string
}

var notificationCatalogue = map[string]notificationTemplate{
	constant.EventWorkflowCreated: {
		Title: "Research session started",
		Message: func(p map[string]interface{}) string {
			return "Your research session is ready. Start the conversation to define your topic."
		},
	},
	constant.EventStageAdvanced: {
		Title: "Stage advanced",
		Message: func(p map[string]interface{}) string {
			stage, _ := p["stage"].(string)
			return fmt.Sprintf("Your research session moved to the %s stage.", stage)
		},
	},
	constant.EventTopicStabilized: {
		Title: "Topic is taking shape",
		Message: func(p map[string]interface{}) string {
			return "Your topic has stabilized enough to move on. Review the draft research question when you are ready."
		},
	},
	constant.EventAnalysisFailed: {
		Title: "Topic analysis delayed",
		Message: func(p map[string]interface{}) string {
			return "We could not analyze your latest messages. The analysis will retry on your next message."
		},
	},
	constant.EventReflectionLogSaved: {
		Title: "Reflection saved",
		Message: func(p map[string]interface{}) string {
			title, _ := p["title"].(string)
			return fmt.Sprintf("Your reflection \"%s\" was committed to the session journal.", title)
		},
	},
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	template, ok := notificationCatalogue[event.EventType()]
	if !ok {
		s.logger.Info("NotificationService", fmt.Sprintf("No template for event '%s', skipping", event.EventType()), nil)
		return nil
	}

	payload := event.Payload()
	userIDStr, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Event carries no valid user_id, skipping", map[string]interface{}{
			"type": event.EventType(),
		})
		return nil
	}

	notif := s.buildNotification(userID, event.EventType(), template, payload)

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Failed to save notification", map[string]interface{}{"error": err.Error()})
		return err // Nack, retry
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}

	return nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, typeCode string, template notificationTemplate, payload map[string]interface{}) model.Notification {
	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TypeCode:  typeCode,
		Title:     template.Title,
		Message:   template.Message(payload),
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}

// GetNotifications returns the paginated inbox plus total count.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
