// FILE: internal/service/subscription_reconciler.go
package service

import (
	"context"
	"fmt"
	"time"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"escribanos-be/pkg/events"
	pkgNats "escribanos-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification type codes, seeded in the notification_types registry.
const (
	NotifPagoExitoso    = "PAGO_EXITOSO"
	NotifPagoProblema   = "PAGO_PROBLEMA"
	NotifPlanPorVencer  = "PLAN_POR_VENCER"
	NotifSuscripcionFin = "SUSCRIPCION_FINALIZADA"
)

// SubscriptionReconciler applies state transitions to a Subscription and its
// owning Escribano. Both rows are written inside the same transaction so they
// never diverge, and every transition leaves a Notification for the user.
type SubscriptionReconciler struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewSubscriptionReconciler(uowFactory unitofwork.RepositoryFactory, eventPublisher *pkgNats.Publisher, log logger.ILogger) *SubscriptionReconciler {
	return &SubscriptionReconciler{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// ApplyApprovedPayment moves a pending or past_due subscription to active and
// promotes the notary. An already active subscription keeps its status but the
// user is still notified about the payment.
func (r *SubscriptionReconciler) ApplyApprovedPayment(ctx context.Context, sub *entity.Subscription, monto float64) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if sub.Status == entity.SubscriptionStatusPending || sub.Status == entity.SubscriptionStatusPastDue {
		r.log.Info("reconciler", "activating subscription on approved payment", map[string]interface{}{
			"subscription_id": sub.Id,
			"from_status":     sub.Status,
		})
		sub.Status = entity.SubscriptionStatusActive
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
		if err := r.syncEscribano(ctx, uow, sub, entity.EstadoPagoActivo, true); err != nil {
			return err
		}
	}

	userId, err := r.ownerUserId(ctx, uow, sub)
	if err != nil {
		return err
	}

	notif := &model.Notification{
		UserID:   userId,
		TypeCode: NotifPagoExitoso,
		Title:    "Pago recibido",
		Message:  fmt.Sprintf("Registramos tu pago de $%.2f. Tu suscripción está activa.", monto),
		Link:     "/mi-cuenta/suscripcion",
		Metadata: datatypes.JSON(fmt.Sprintf(`{"subscription_id":%q,"monto":%.2f}`, sub.Id.String(), monto)),
	}
	if err := uow.NotificationRepository().CreateNotification(ctx, notif); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	r.publish(ctx, events.TypePaymentApproved, map[string]interface{}{
		"subscription_id": sub.Id,
		"user_id":         userId,
		"monto":           monto,
	})
	return nil
}

// ApplyRejectedPayment marks the subscription past_due and the notary VENCIDO.
// The active flag is left untouched: a single failed charge should not pull
// the profile from the directory before the grace period runs out.
func (r *SubscriptionReconciler) ApplyRejectedPayment(ctx context.Context, sub *entity.Subscription, monto float64) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	r.log.Info("reconciler", "marking subscription past_due on rejected payment", map[string]interface{}{
		"subscription_id": sub.Id,
		"from_status":     sub.Status,
	})

	sub.Status = entity.SubscriptionStatusPastDue
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	escribano, err := uow.EscribanoRepository().FindOne(ctx, specification.ByID{ID: sub.EscribanoId})
	if err != nil {
		return err
	}
	if escribano == nil {
		return fmt.Errorf("escribano %s not found for subscription %s", sub.EscribanoId, sub.Id)
	}
	escribano.EstadoPago = entity.EstadoPagoVencido
	if err := uow.EscribanoRepository().Update(ctx, escribano); err != nil {
		return err
	}

	notif := &model.Notification{
		UserID:   escribano.UserId,
		TypeCode: NotifPagoProblema,
		Title:    "Problema con tu pago",
		Message:  fmt.Sprintf("No pudimos procesar tu pago de $%.2f. Revisá tu medio de pago.", monto),
		Link:     "/mi-cuenta/suscripcion",
	}
	if err := uow.NotificationRepository().CreateNotification(ctx, notif); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	r.publish(ctx, events.TypePaymentRejected, map[string]interface{}{
		"subscription_id": sub.Id,
		"user_id":         escribano.UserId,
		"monto":           monto,
	})
	return nil
}

// ApplyPreapprovalStatus maps a gateway-reported preapproval status onto the
// subscription state machine. Statuses outside the table are a no-op.
func (r *SubscriptionReconciler) ApplyPreapprovalStatus(ctx context.Context, sub *entity.Subscription, gatewayStatus string) error {
	var (
		newStatus  entity.SubscriptionStatus
		estadoPago entity.EstadoPago
		activo     bool
		eventType  string
	)

	switch gatewayStatus {
	case "authorized":
		newStatus = entity.SubscriptionStatusActive
		estadoPago = entity.EstadoPagoActivo
		activo = true
		eventType = events.TypeSubscriptionActivated
	case "paused":
		newStatus = entity.SubscriptionStatusPastDue
		estadoPago = entity.EstadoPagoSuspendido
		activo = false
		eventType = ""
	case "cancelled":
		newStatus = entity.SubscriptionStatusCancelled
		estadoPago = entity.EstadoPagoCancelado
		activo = false
		eventType = events.TypeSubscriptionCancelled
	default:
		r.log.Info("reconciler", "preapproval status outside transition table, ignoring", map[string]interface{}{
			"subscription_id": sub.Id,
			"gateway_status":  gatewayStatus,
		})
		return nil
	}

	if sub.Status == newStatus {
		return nil
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	r.log.Info("reconciler", "applying preapproval transition", map[string]interface{}{
		"subscription_id": sub.Id,
		"from_status":     sub.Status,
		"to_status":       newStatus,
	})

	sub.Status = newStatus
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}
	if err := r.syncEscribano(ctx, uow, sub, estadoPago, activo); err != nil {
		return err
	}

	userId, err := r.ownerUserId(ctx, uow, sub)
	if err != nil {
		return err
	}

	if newStatus == entity.SubscriptionStatusCancelled {
		notif := &model.Notification{
			UserID:   userId,
			TypeCode: NotifSuscripcionFin,
			Title:    "Suscripción cancelada",
			Message:  "Tu suscripción fue cancelada. Tu perfil ya no aparece en el directorio.",
			Link:     "/mi-cuenta/suscripcion",
		}
		if err := uow.NotificationRepository().CreateNotification(ctx, notif); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if eventType != "" {
		r.publish(ctx, eventType, map[string]interface{}{
			"subscription_id": sub.Id,
			"user_id":         userId,
			"status":          newStatus,
		})
	}
	return nil
}

// syncEscribano keeps the notary account in lockstep with the subscription.
func (r *SubscriptionReconciler) syncEscribano(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, estado entity.EstadoPago, activo bool) error {
	escribano, err := uow.EscribanoRepository().FindOne(ctx, specification.ByID{ID: sub.EscribanoId})
	if err != nil {
		return err
	}
	if escribano == nil {
		return fmt.Errorf("escribano %s not found for subscription %s", sub.EscribanoId, sub.Id)
	}

	escribano.EstadoPago = estado
	escribano.Activo = activo
	if activo {
		escribano.Plan = sub.Plan
		fechaFin := sub.FechaFin
		escribano.FechaVencimientoPlan = &fechaFin
	}
	return uow.EscribanoRepository().Update(ctx, escribano)
}

func (r *SubscriptionReconciler) ownerUserId(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) (uuid.UUID, error) {
	escribano, err := uow.EscribanoRepository().FindOne(ctx, specification.ByID{ID: sub.EscribanoId})
	if err != nil {
		return uuid.Nil, err
	}
	if escribano == nil {
		return uuid.Nil, fmt.Errorf("escribano %s not found for subscription %s", sub.EscribanoId, sub.Id)
	}
	return escribano.UserId, nil
}

func (r *SubscriptionReconciler) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if r.eventPublisher == nil {
		return
	}
	data["occurred_at"] = time.Now()
	evt := events.NewBillingEvent(eventType, data)
	if err := r.eventPublisher.Publish(ctx, evt); err != nil {
		r.log.Warn("reconciler", "failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
