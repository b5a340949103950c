// FILE: internal/service/webhook_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/pkg/mercadopago"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSignature is returned when the x-signature header fails HMAC
// verification. Every other processing failure is contained and logged so the
// gateway still gets its acknowledgment and stops retrying.
var ErrInvalidSignature = errors.New("invalid signature")

const webhookDedupTTL = 10 * time.Minute

type IWebhookService interface {
	Process(ctx context.Context, headers dto.WebhookHeaders, req *dto.WebhookNotification) error
}

type webhookService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    mercadopago.Gateway
	verifier   *mercadopago.SignatureVerifier
	reconciler *SubscriptionReconciler
	rdb        *redis.Client
	log        logger.ILogger
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	gateway mercadopago.Gateway,
	verifier *mercadopago.SignatureVerifier,
	reconciler *SubscriptionReconciler,
	rdb *redis.Client,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		uowFactory: uowFactory,
		gateway:    gateway,
		verifier:   verifier,
		reconciler: reconciler,
		rdb:        rdb,
		log:        log,
	}
}

func (s *webhookService) Process(ctx context.Context, headers dto.WebhookHeaders, req *dto.WebhookNotification) error {
	if s.verifier.Enabled() {
		if err := s.verifier.Verify(headers.XSignature, headers.XRequestID, headers.DataID); err != nil {
			s.log.Warn("webhook", "signature verification failed", map[string]interface{}{
				"type":    req.Type,
				"data_id": req.Data.ID,
				"error":   err.Error(),
			})
			return ErrInvalidSignature
		}
	}

	if s.alreadyProcessed(ctx, req) {
		s.log.Info("webhook", "duplicate delivery, skipping", map[string]interface{}{
			"type":    req.Type,
			"data_id": req.Data.ID,
			"action":  req.Action,
		})
		return nil
	}

	kind := entity.ParseWebhookEventKind(req.Type)
	switch kind {
	case entity.WebhookEventPayment:
		if err := s.handlePayment(ctx, req.Data.ID); err != nil {
			s.log.Error("webhook", "payment event handling failed", map[string]interface{}{
				"data_id": req.Data.ID,
				"action":  req.Action,
				"error":   err.Error(),
			})
		}
	case entity.WebhookEventPreapproval:
		if err := s.handlePreapproval(ctx, req.Data.ID); err != nil {
			s.log.Error("webhook", "preapproval event handling failed", map[string]interface{}{
				"data_id": req.Data.ID,
				"action":  req.Action,
				"error":   err.Error(),
			})
		}
	case entity.WebhookEventAuthorizedPayment:
		// Recurring charge receipts arrive as payment events too, so this is
		// a recording point only.
		s.log.Info("webhook", "authorized payment event received", map[string]interface{}{
			"data_id": req.Data.ID,
			"action":  req.Action,
		})
	default:
		s.log.Info("webhook", "unrecognized event type, ignoring", map[string]interface{}{
			"type":    req.Type,
			"data_id": req.Data.ID,
		})
	}

	return nil
}

// alreadyProcessed claims the delivery in redis with SETNX. When redis is not
// configured the claim always succeeds; the payment upsert stays idempotent
// either way.
func (s *webhookService) alreadyProcessed(ctx context.Context, req *dto.WebhookNotification) bool {
	if s.rdb == nil {
		return false
	}
	key := fmt.Sprintf("webhook:%s:%s:%s", req.Type, req.Data.ID, req.Action)
	ok, err := s.rdb.SetNX(ctx, key, 1, webhookDedupTTL).Result()
	if err != nil {
		s.log.Warn("webhook", "redis dedup check failed, processing anyway", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return !ok
}

func (s *webhookService) handlePayment(ctx context.Context, paymentId string) error {
	info, err := s.gateway.GetPayment(ctx, paymentId)
	if err != nil {
		return fmt.Errorf("fetch payment: %w", err)
	}

	sub, err := s.locateSubscription(ctx, info.ExternalReference)
	if err != nil {
		return err
	}
	if sub == nil {
		s.log.Warn("webhook", "no subscription matches payment reference", map[string]interface{}{
			"payment_id":         paymentId,
			"external_reference": info.ExternalReference,
		})
		return nil
	}

	status := entity.MapGatewayPaymentStatus(info.Status)

	payment := &entity.Payment{
		SubscriptionId: sub.Id,
		MpPaymentId:    info.Id,
		Monto:          info.TransactionAmount,
		Status:         status,
		MetodoPago:     info.PaymentMethodId,
		FechaPago:      info.DateApproved,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaymentRepository().Upsert(ctx, payment); err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}

	switch status {
	case entity.PaymentStatusApproved:
		return s.reconciler.ApplyApprovedPayment(ctx, sub, info.TransactionAmount)
	case entity.PaymentStatusRejected:
		return s.reconciler.ApplyRejectedPayment(ctx, sub, info.TransactionAmount)
	default:
		// Record only.
		return nil
	}
}

func (s *webhookService) handlePreapproval(ctx context.Context, preapprovalId string) error {
	info, err := s.gateway.GetPreapproval(ctx, preapprovalId)
	if err != nil {
		return fmt.Errorf("fetch preapproval: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	changed := false
	sub, err := uow.SubscriptionRepository().FindByPreapprovalId(ctx, info.Id)
	if err != nil {
		return err
	}
	if sub == nil {
		// First notification for a fresh agreement: the row was created at
		// checkout without a preapproval id, so fall back to the external
		// reference and attach the id now.
		sub, err = s.locateSubscription(ctx, info.ExternalReference)
		if err != nil {
			return err
		}
		if sub == nil {
			s.log.Warn("webhook", "no subscription matches preapproval", map[string]interface{}{
				"preapproval_id": preapprovalId,
			})
			return nil
		}
		sub.MpPreapprovalId = &info.Id
		changed = true
	}

	if info.NextPaymentDate != nil && (sub.ProximoCobro == nil || !sub.ProximoCobro.Equal(*info.NextPaymentDate)) {
		sub.ProximoCobro = info.NextPaymentDate
		changed = true
	}

	// The monthly "authorized" event carries a fresh next-billing date but no
	// status transition, so the write cannot be left to the reconciler.
	if changed {
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
	}

	return s.reconciler.ApplyPreapprovalStatus(ctx, sub, info.Status)
}

// locateSubscription resolves the payment's external reference, which the
// processor fills with either our preapproval id or the notary id.
func (s *webhookService) locateSubscription(ctx context.Context, externalReference string) (*entity.Subscription, error) {
	if externalReference == "" {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindByPreapprovalId(ctx, externalReference)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}

	escribanoId, err := uuid.Parse(externalReference)
	if err != nil {
		return nil, nil
	}

	return uow.SubscriptionRepository().FindOne(ctx,
		specification.ByEscribano{EscribanoId: escribanoId},
		specification.StatusIn{Statuses: []string{
			string(entity.SubscriptionStatusPending),
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusPastDue),
		}},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}
