package service

import (
	"context"
	"testing"
	"time"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
	"escribanos-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeDelivery struct {
	sent []model.Notification
}

func (d *fakeDelivery) Send(userID uuid.UUID, notification model.Notification) {
	notification.UserID = userID
	d.sent = append(d.sent, notification)
}

func (d *fakeDelivery) Broadcast(notification model.Notification) {}

type fakeMailer struct {
	receipts int
	problems int
	warnings int
}

func (m *fakeMailer) SendVerificationEmail(toEmail, token string) error { return nil }

func (m *fakeMailer) SendPaymentReceipt(toEmail string, monto float64, fechaPago time.Time) error {
	m.receipts++
	return nil
}

func (m *fakeMailer) SendPaymentProblem(toEmail string, monto float64) error {
	m.problems++
	return nil
}

func (m *fakeMailer) SendPlanExpiryWarning(toEmail string, fechaFin time.Time) error {
	m.warnings++
	return nil
}

type workerFixture struct {
	store    *fakeStore
	delivery *fakeDelivery
	mailer   *fakeMailer
	service  *NotificationService

	user *entity.User
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()

	store := newFakeStore()
	store.notifTypes = map[string]*model.NotificationType{
		events.TypePaymentApproved: {
			Code:        events.TypePaymentApproved,
			DisplayName: "Pago aprobado",
			Template:    "Tu pago fue acreditado.",
			Channels:    datatypes.JSON(`["web", "email"]`),
			IsActive:    true,
		},
		events.TypeSubscriptionExpired: {
			Code:        events.TypeSubscriptionExpired,
			DisplayName: "Suscripción vencida",
			Template:    "Tu suscripción venció.",
			Channels:    datatypes.JSON(`["web"]`),
			IsActive:    true,
		},
	}

	user := &entity.User{
		Id:    uuid.New(),
		Email: "worker@example.com",
		Role:  entity.UserRoleEscribano,
	}
	store.users = append(store.users, user)

	delivery := &fakeDelivery{}
	mail := &fakeMailer{}
	svc := NewNotificationService(&fakeNotificationRepo{store: store}, &fakeFactory{store: store}, nil, delivery, mail, fakeLogger{})

	return &workerFixture{store: store, delivery: delivery, mailer: mail, service: svc, user: user}
}

func busEvent(eventType string, data map[string]interface{}) events.BaseEvent {
	// The subscriber hands events over with the subject as the type.
	return events.BaseEvent{Type: "events." + eventType, Data: data, OccurredAt: time.Now()}
}

func TestHandleEventPushesSubscriptionExpired(t *testing.T) {
	f := newWorkerFixture(t)

	evt := busEvent(events.TypeSubscriptionExpired, map[string]interface{}{
		"subscription_id": uuid.New().String(),
		"user_id":         f.user.Id.String(),
	})
	if err := f.service.handleEvent(context.Background(), evt); err != nil {
		t.Fatalf("handleEvent() error = %v", err)
	}

	if len(f.delivery.sent) != 1 {
		t.Fatalf("pushes sent = %d, want 1", len(f.delivery.sent))
	}
	if f.delivery.sent[0].UserID != f.user.Id {
		t.Errorf("push user = %v, want %v", f.delivery.sent[0].UserID, f.user.Id)
	}
	if f.delivery.sent[0].TypeCode != events.TypeSubscriptionExpired {
		t.Errorf("push type = %q, want %q", f.delivery.sent[0].TypeCode, events.TypeSubscriptionExpired)
	}
	if f.mailer.receipts+f.mailer.problems+f.mailer.warnings != 0 {
		t.Error("web-only type should not trigger email")
	}
}

func TestHandleEventWithoutTargetUserIsDropped(t *testing.T) {
	f := newWorkerFixture(t)

	evt := busEvent(events.TypeSubscriptionExpired, map[string]interface{}{
		"subscription_id": uuid.New().String(),
	})
	if err := f.service.handleEvent(context.Background(), evt); err != nil {
		t.Fatalf("handleEvent() error = %v", err)
	}
	if len(f.delivery.sent) != 0 {
		t.Errorf("pushes sent = %d, want 0 without a target user", len(f.delivery.sent))
	}
}

func TestHandleEventSendsEmailWhenChannelEnabled(t *testing.T) {
	f := newWorkerFixture(t)

	evt := busEvent(events.TypePaymentApproved, map[string]interface{}{
		"subscription_id": uuid.New().String(),
		"user_id":         f.user.Id.String(),
		"monto":           7500.0,
	})
	if err := f.service.handleEvent(context.Background(), evt); err != nil {
		t.Fatalf("handleEvent() error = %v", err)
	}

	if len(f.delivery.sent) != 1 {
		t.Errorf("pushes sent = %d, want 1", len(f.delivery.sent))
	}
	if f.mailer.receipts != 1 {
		t.Errorf("payment receipts mailed = %d, want 1", f.mailer.receipts)
	}
}
