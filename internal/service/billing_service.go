// FILE: internal/service/billing_service.go
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
)

var (
	ErrNotAnEscribano     = errors.New("user has no escribano profile")
	ErrSubscriptionExists = errors.New("an open subscription already exists")
	ErrNoSubscription     = errors.New("no subscription found")
	ErrUnknownPlan        = errors.New("unknown plan tier")
)

// planPrices is the monthly catalog in ARS.
var planPrices = map[entity.PlanTier]float64{
	entity.PlanTierBasico:      7500,
	entity.PlanTierProfesional: 14500,
	entity.PlanTierPremium:     26000,
}

type IBillingService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryItem, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
}

type billingService struct {
	uowFactory unitofwork.RepositoryFactory
	gateway    mercadopago.Gateway
	reconciler *SubscriptionReconciler
	clientURL  string
	log        logger.ILogger
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	gateway mercadopago.Gateway,
	reconciler *SubscriptionReconciler,
	clientURL string,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory: uowFactory,
		gateway:    gateway,
		reconciler: reconciler,
		clientURL:  clientURL,
		log:        log,
	}
}

func (s *billingService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan := entity.PlanTier(req.Plan)
	monto, ok := planPrices[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if escribano == nil {
		return nil, ErrNotAnEscribano
	}

	// One open subscription per notary. Cancel or let it expire first.
	open, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByEscribano{EscribanoId: escribano.Id},
		specification.StatusIn{Statuses: []string{
			string(entity.SubscriptionStatusPending),
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusPastDue),
		}},
	)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrSubscriptionExists
	}

	backURL := fmt.Sprintf("%s/mi-cuenta/suscripcion", s.clientURL)
	reason := fmt.Sprintf("Plan %s - Directorio de Escribanos", req.Plan)
	planInfo, err := s.gateway.CreatePreapprovalPlan(ctx, reason, monto, backURL)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	now := time.Now()
	sub := &entity.Subscription{
		EscribanoId: escribano.Id,
		Plan:        plan,
		Monto:       monto,
		Moneda:      "ARS",
		Status:      entity.SubscriptionStatusPending,
		FechaInicio: now,
		FechaFin:    now.AddDate(0, 1, 0),
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("billing", "checkout created", map[string]interface{}{
		"subscription_id": sub.Id,
		"escribano_id":    escribano.Id,
		"plan":            req.Plan,
	})

	return &dto.CheckoutResponse{
		SubscriptionId: sub.Id,
		Plan:           req.Plan,
		Monto:          monto,
		Moneda:         "ARS",
		InitPoint:      planInfo.InitPoint,
	}, nil
}

func (s *billingService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if escribano == nil {
		return nil, ErrNotAnEscribano
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByEscribano{EscribanoId: escribano.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionId: sub.Id,
		Plan:           string(sub.Plan),
		Status:         string(sub.Status),
		Monto:          sub.Monto,
		Moneda:         sub.Moneda,
		FechaInicio:    sub.FechaInicio,
		FechaFin:       sub.FechaFin,
		ProximoCobro:   sub.ProximoCobro,
		EstadoPago:     string(escribano.EstadoPago),
	}, nil
}

func (s *billingService) GetPaymentHistory(ctx context.Context, userId uuid.UUID) ([]*dto.PaymentHistoryItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if escribano == nil {
		return nil, ErrNotAnEscribano
	}

	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.ByEscribano{EscribanoId: escribano.Id},
	)
	if err != nil {
		return nil, err
	}

	history := []*dto.PaymentHistoryItem{}
	for _, sub := range subs {
		payments, err := uow.PaymentRepository().FindAll(ctx,
			specification.FilterBy{Field: "subscription_id", Value: sub.Id},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			history = append(history, &dto.PaymentHistoryItem{
				Id:         p.Id,
				Monto:      p.Monto,
				Status:     string(p.Status),
				MetodoPago: p.MetodoPago,
				FechaPago:  p.FechaPago,
			})
		}
	}
	return history, nil
}

func (s *billingService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if escribano == nil {
		return ErrNotAnEscribano
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByEscribano{EscribanoId: escribano.Id},
		specification.StatusIn{Statuses: []string{
			string(entity.SubscriptionStatusPending),
			string(entity.SubscriptionStatusActive),
			string(entity.SubscriptionStatusPastDue),
		}},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNoSubscription
	}

	if sub.MpPreapprovalId != nil {
		if err := s.gateway.CancelPreapproval(ctx, *sub.MpPreapprovalId); err != nil {
			// The local row still moves to cancelled; the agreement is
			// retried manually if the gateway call failed.
			s.log.Error("billing", "gateway cancel failed", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
		}
	}

	return s.reconciler.ApplyPreapprovalStatus(ctx, sub, "cancelled")
}
