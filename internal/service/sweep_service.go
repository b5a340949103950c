// FILE: internal/service/sweep_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"escribanos-be/pkg/events"
	pkgNats "escribanos-be/pkg/nats"

	"github.com/google/uuid"
)

const expiryWarningWindow = 7 * 24 * time.Hour

type ISweepService interface {
	VerifySubscriptions(ctx context.Context) (*dto.SweepSummary, error)
}

// sweepService is the time-driven counterpart of the webhook reconciler. It
// applies the same transition rules from dates alone, covering missed or
// delayed webhook deliveries.
type sweepService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
	now            func() time.Time
}

func NewSweepService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pkgNats.Publisher, log logger.ILogger) ISweepService {
	return &sweepService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
		now:            time.Now,
	}
}

func (s *sweepService) VerifySubscriptions(ctx context.Context) (*dto.SweepSummary, error) {
	now := s.now()
	summary := &dto.SweepSummary{}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// 1. Activate pending subscriptions whose start date has arrived.
	pending, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusPending)},
	)
	if err != nil {
		return nil, err
	}
	summary.Pendientes = int64(len(pending))

	var dueIds []uuid.UUID
	var dueEscribanos []uuid.UUID
	for _, sub := range pending {
		if !sub.FechaInicio.After(now) {
			dueIds = append(dueIds, sub.Id)
			dueEscribanos = append(dueEscribanos, sub.EscribanoId)
		}
	}
	activated, err := uow.SubscriptionRepository().UpdateStatus(ctx, dueIds, entity.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}
	summary.Activadas = activated
	if _, err := uow.EscribanoRepository().UpdatePaymentState(ctx, dueEscribanos, entity.EstadoPagoActivo, true); err != nil {
		return nil, err
	}

	// 2. Expire active subscriptions past their end date.
	overdue, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.EndDateBefore{Now: now},
	)
	if err != nil {
		return nil, err
	}

	var overdueIds []uuid.UUID
	var overdueEscribanos []uuid.UUID
	var overdueUsers []uuid.UUID
	for _, sub := range overdue {
		owner, err := uow.EscribanoRepository().FindOne(ctx, specification.ByID{ID: sub.EscribanoId})
		if err != nil {
			return nil, err
		}
		overdueIds = append(overdueIds, sub.Id)
		overdueEscribanos = append(overdueEscribanos, sub.EscribanoId)
		if owner != nil {
			overdueUsers = append(overdueUsers, owner.UserId)
		} else {
			overdueUsers = append(overdueUsers, uuid.Nil)
		}
	}
	expired, err := uow.SubscriptionRepository().UpdateStatus(ctx, overdueIds, entity.SubscriptionStatusExpired)
	if err != nil {
		return nil, err
	}
	summary.Vencidas = expired

	// 3. Demote the notaries owning the expired subscriptions.
	if _, err := uow.EscribanoRepository().UpdatePaymentState(ctx, overdueEscribanos, entity.EstadoPagoVencido, false); err != nil {
		return nil, err
	}

	// 4. Warn about subscriptions ending inside the next 7 days. The dedupe
	// key buckets by day, so re-running the sweep the same day is silent.
	expiring, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.EndDateWithin{From: now, To: now.Add(expiryWarningWindow)},
	)
	if err != nil {
		return nil, err
	}

	for _, sub := range expiring {
		escribano, err := uow.EscribanoRepository().FindOne(ctx, specification.ByID{ID: sub.EscribanoId})
		if err != nil {
			return nil, err
		}
		if escribano == nil {
			continue
		}

		dedupeKey := fmt.Sprintf("%s:%s:%s:%s", escribano.UserId, NotifPlanPorVencer, sub.Id, now.Format("2006-01-02"))
		notif := &model.Notification{
			UserID:    escribano.UserId,
			TypeCode:  NotifPlanPorVencer,
			Title:     "Tu plan vence pronto",
			Message:   fmt.Sprintf("Tu suscripción vence el %s. Renovala para seguir apareciendo en el directorio.", sub.FechaFin.Format("02/01/2006")),
			Link:      "/mi-cuenta/suscripcion",
			DedupeKey: &dedupeKey,
		}
		created, err := uow.NotificationRepository().CreateIfAbsent(ctx, notif)
		if err != nil {
			return nil, err
		}
		if created {
			summary.AvisosVencimiento++
			s.publish(ctx, events.TypePlanExpiryWarning, map[string]interface{}{
				"subscription_id": sub.Id,
				"user_id":         escribano.UserId,
				"fecha_fin":       sub.FechaFin,
			})
		}
	}

	// 5. Repair divergence between subscriptions and notary accounts.
	repaired, err := s.repairDivergence(ctx, uow)
	if err != nil {
		return nil, err
	}
	summary.Reparadas = repaired

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	for i, subId := range overdueIds {
		if overdueUsers[i] == uuid.Nil {
			continue
		}
		s.publish(ctx, events.TypeSubscriptionExpired, map[string]interface{}{
			"subscription_id": subId,
			"escribano_id":    overdueEscribanos[i],
			"user_id":         overdueUsers[i],
		})
	}

	s.log.Info("sweep", "verification run finished", map[string]interface{}{
		"pendientes":         summary.Pendientes,
		"activadas":          summary.Activadas,
		"vencidas":           summary.Vencidas,
		"avisos_vencimiento": summary.AvisosVencimiento,
		"reparadas":          summary.Reparadas,
	})
	return summary, nil
}

// repairDivergence re-aligns notary accounts with their subscription status.
// A visible notary without an active or past_due subscription is hidden; a
// past_due one stays up because a rejected charge keeps the profile visible
// through the dunning grace period. A hidden notary with an active
// subscription is restored.
func (s *sweepService) repairDivergence(ctx context.Context, uow unitofwork.UnitOfWork) (int64, error) {
	liveSubs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.StatusIn{Statuses: []string{
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusPastDue),
		}},
	)
	if err != nil {
		return 0, err
	}
	liveByEscribano := make(map[uuid.UUID]bool, len(liveSubs))
	activeByEscribano := make(map[uuid.UUID]bool, len(liveSubs))
	for _, sub := range liveSubs {
		liveByEscribano[sub.EscribanoId] = true
		if sub.Status == entity.SubscriptionStatusActive {
			activeByEscribano[sub.EscribanoId] = true
		}
	}

	visible, err := uow.EscribanoRepository().FindAll(ctx, specification.ActivoOnly{})
	if err != nil {
		return 0, err
	}

	var repaired int64
	var toHide []uuid.UUID
	for _, escribano := range visible {
		if !liveByEscribano[escribano.Id] {
			toHide = append(toHide, escribano.Id)
		}
		delete(activeByEscribano, escribano.Id)
	}

	hidden, err := uow.EscribanoRepository().UpdatePaymentState(ctx, toHide, entity.EstadoPagoVencido, false)
	if err != nil {
		return 0, err
	}
	repaired += hidden

	// Whatever is left in the map has an active subscription but is hidden.
	var toRestore []uuid.UUID
	for escribanoId := range activeByEscribano {
		toRestore = append(toRestore, escribanoId)
	}
	restored, err := uow.EscribanoRepository().UpdatePaymentState(ctx, toRestore, entity.EstadoPagoActivo, true)
	if err != nil {
		return 0, err
	}
	repaired += restored

	if repaired > 0 {
		s.log.Warn("sweep", "repaired diverged notary accounts", map[string]interface{}{
			"hidden":   hidden,
			"restored": restored,
		})
	}
	return repaired, nil
}

func (s *sweepService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewBillingEvent(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("sweep", "failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
