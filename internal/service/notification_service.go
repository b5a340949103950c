// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"escribanos-be/internal/model"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/pkg/mailer"
	"escribanos-be/internal/repository"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"
	"escribanos-be/pkg/events"
	pkgNats "escribanos-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// NotificationService is the delivery worker. Notification rows are written
// by the reconciler and the sweep inside their own transactions; this worker
// only consumes the bus and fans the news out over websocket and email.
type NotificationService struct {
	repo         repository.NotificationRepository
	uowFactory   unitofwork.RepositoryFactory
	subscriber   *pkgNats.Subscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	uowFactory unitofwork.RepositoryFactory,
	sub *pkgNats.Subscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:         repo,
		uowFactory:   uowFactory,
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-delivery-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification worker started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	userIdStr, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		// Events without a target user need no delivery.
		return nil
	}

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		return err // NATS redelivers
	}
	if config == nil {
		s.logger.Warn("NotificationService", "no notification type registered for event", map[string]interface{}{"type": typeCode})
		return nil
	}

	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userId,
		TypeCode:  typeCode,
		Title:     config.DisplayName,
		Message:   config.Template,
		CreatedAt: time.Now(),
	}
	if s.delivery != nil {
		s.delivery.Send(userId, notif)
	}

	if channelEnabled(config.Channels, "email") {
		if err := s.sendEmail(ctx, typeCode, userId, payload); err != nil {
			s.logger.Error("NotificationService", "email delivery failed", map[string]interface{}{
				"type":    typeCode,
				"user_id": userId,
				"error":   err.Error(),
			})
			// Push already went out; do not replay the whole event for a
			// failed email.
		}
	}

	return nil
}

func (s *NotificationService) sendEmail(ctx context.Context, typeCode string, userId uuid.UUID, payload map[string]interface{}) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userId)
	}

	switch typeCode {
	case events.TypePaymentApproved:
		monto, _ := payload["monto"].(float64)
		return s.emailService.SendPaymentReceipt(user.Email, monto, time.Now())
	case events.TypePaymentRejected:
		monto, _ := payload["monto"].(float64)
		return s.emailService.SendPaymentProblem(user.Email, monto)
	case events.TypePlanExpiryWarning:
		fechaFin := time.Now().Add(7 * 24 * time.Hour)
		if raw, ok := payload["fecha_fin"].(string); ok {
			if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
				fechaFin = parsed
			}
		}
		return s.emailService.SendPlanExpiryWarning(user.Email, fechaFin)
	default:
		return nil
	}
}

func channelEnabled(channels []byte, name string) bool {
	var list []string
	if err := json.Unmarshal(channels, &list); err != nil {
		return false
	}
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}

// --- Inbox ---

func (s *NotificationService) GetInbox(ctx context.Context, userId uuid.UUID, page, limit int) ([]model.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	notifications, total, err := s.repo.GetNotificationsByUserID(ctx, userId, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.GetUnreadCount(ctx, userId)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationId uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationId)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userId)
}
