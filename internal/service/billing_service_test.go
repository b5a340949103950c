package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"

	"github.com/google/uuid"
)

type billingFixture struct {
	store   *fakeStore
	gateway *fakeGateway
	service IBillingService

	escribano *entity.Escribano
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	store := newFakeStore()
	factory := &fakeFactory{store: store}
	log := fakeLogger{}

	escribano := &entity.Escribano{
		Id:         uuid.New(),
		UserId:     uuid.New(),
		Matricula:  "MAT-2002",
		Provincia:  "Córdoba",
		EstadoPago: entity.EstadoPagoVencido,
	}
	store.escribanos = append(store.escribanos, escribano)

	gateway := newFakeGateway()
	reconciler := NewSubscriptionReconciler(factory, nil, log)
	svc := NewBillingService(factory, gateway, reconciler, "https://app.test", log)

	return &billingFixture{store: store, gateway: gateway, service: svc, escribano: escribano}
}

func TestCheckoutCreatesPendingSubscription(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.service.Checkout(context.Background(), f.escribano.UserId, &dto.CheckoutRequest{Plan: "profesional"})
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if resp.Monto != 14500 {
		t.Errorf("monto = %v, want 14500", resp.Monto)
	}
	if resp.Moneda != "ARS" {
		t.Errorf("moneda = %q, want ARS", resp.Moneda)
	}
	if resp.InitPoint != f.gateway.plan.InitPoint {
		t.Errorf("init point = %q, want %q", resp.InitPoint, f.gateway.plan.InitPoint)
	}
	if len(f.store.subscriptions) != 1 {
		t.Fatalf("subscriptions stored = %d, want 1", len(f.store.subscriptions))
	}
	sub := f.store.subscriptions[0]
	if sub.Status != entity.SubscriptionStatusPending {
		t.Errorf("subscription status = %q, want pending", sub.Status)
	}
	if sub.Plan != entity.PlanTierProfesional {
		t.Errorf("subscription plan = %q, want profesional", sub.Plan)
	}
}

func TestCheckoutRejectsUnknownPlan(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.service.Checkout(context.Background(), f.escribano.UserId, &dto.CheckoutRequest{Plan: "enterprise"})
	if !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("Checkout() error = %v, want ErrUnknownPlan", err)
	}
}

func TestCheckoutRejectsNonEscribano(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.service.Checkout(context.Background(), uuid.New(), &dto.CheckoutRequest{Plan: "basico"})
	if !errors.Is(err, ErrNotAnEscribano) {
		t.Fatalf("Checkout() error = %v, want ErrNotAnEscribano", err)
	}
}

func TestCheckoutRejectsSecondOpenSubscription(t *testing.T) {
	f := newBillingFixture(t)

	if _, err := f.service.Checkout(context.Background(), f.escribano.UserId, &dto.CheckoutRequest{Plan: "basico"}); err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}
	_, err := f.service.Checkout(context.Background(), f.escribano.UserId, &dto.CheckoutRequest{Plan: "premium"})
	if !errors.Is(err, ErrSubscriptionExists) {
		t.Fatalf("second Checkout() error = %v, want ErrSubscriptionExists", err)
	}
	if len(f.store.subscriptions) != 1 {
		t.Errorf("subscriptions stored = %d, want 1", len(f.store.subscriptions))
	}
}

func TestCheckoutAllowedAfterTerminalSubscription(t *testing.T) {
	f := newBillingFixture(t)
	f.store.subscriptions = append(f.store.subscriptions, &entity.Subscription{
		Id:          uuid.New(),
		EscribanoId: f.escribano.Id,
		Plan:        entity.PlanTierBasico,
		Status:      entity.SubscriptionStatusExpired,
		FechaInicio: time.Now().AddDate(0, -2, 0),
		FechaFin:    time.Now().AddDate(0, -1, 0),
	})

	if _, err := f.service.Checkout(context.Background(), f.escribano.UserId, &dto.CheckoutRequest{Plan: "basico"}); err != nil {
		t.Fatalf("Checkout() after expired subscription error = %v", err)
	}
}

func TestGetSubscriptionStatusReturnsLatest(t *testing.T) {
	f := newBillingFixture(t)
	f.escribano.EstadoPago = entity.EstadoPagoActivo

	old := f.addSub(entity.SubscriptionStatusExpired, time.Now().AddDate(0, -3, 0))
	latest := f.addSub(entity.SubscriptionStatusActive, time.Now().AddDate(0, 0, -1))
	_ = old

	resp, err := f.service.GetSubscriptionStatus(context.Background(), f.escribano.UserId)
	if err != nil {
		t.Fatalf("GetSubscriptionStatus() error = %v", err)
	}
	if resp.SubscriptionId != latest.Id {
		t.Errorf("subscription id = %v, want latest %v", resp.SubscriptionId, latest.Id)
	}
	if resp.EstadoPago != string(entity.EstadoPagoActivo) {
		t.Errorf("estado_pago = %q, want ACTIVO", resp.EstadoPago)
	}
}

func TestGetSubscriptionStatusWithoutSubscription(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.service.GetSubscriptionStatus(context.Background(), f.escribano.UserId)
	if !errors.Is(err, ErrNoSubscription) {
		t.Fatalf("GetSubscriptionStatus() error = %v, want ErrNoSubscription", err)
	}
}

func TestCancelSubscriptionCancelsGatewayAgreement(t *testing.T) {
	f := newBillingFixture(t)
	preapprovalId := "preapproval-cancel"
	sub := f.addSub(entity.SubscriptionStatusActive, time.Now().AddDate(0, 0, -1))
	sub.MpPreapprovalId = &preapprovalId
	f.escribano.Activo = true
	f.escribano.EstadoPago = entity.EstadoPagoActivo

	if err := f.service.CancelSubscription(context.Background(), f.escribano.UserId); err != nil {
		t.Fatalf("CancelSubscription() error = %v", err)
	}

	if len(f.gateway.cancelled) != 1 || f.gateway.cancelled[0] != preapprovalId {
		t.Errorf("gateway cancellations = %v, want [%s]", f.gateway.cancelled, preapprovalId)
	}
	if sub.Status != entity.SubscriptionStatusCancelled {
		t.Errorf("subscription status = %q, want cancelled", sub.Status)
	}
	if f.escribano.Activo {
		t.Error("escribano should be hidden after cancellation")
	}
}

func TestCancelSubscriptionSurvivesGatewayFailure(t *testing.T) {
	f := newBillingFixture(t)
	preapprovalId := "preapproval-cancel"
	sub := f.addSub(entity.SubscriptionStatusActive, time.Now().AddDate(0, 0, -1))
	sub.MpPreapprovalId = &preapprovalId
	f.gateway.cancelErr = errors.New("gateway down")

	if err := f.service.CancelSubscription(context.Background(), f.escribano.UserId); err != nil {
		t.Fatalf("CancelSubscription() error = %v, want nil despite gateway failure", err)
	}
	if sub.Status != entity.SubscriptionStatusCancelled {
		t.Errorf("subscription status = %q, want cancelled locally", sub.Status)
	}
}

func TestGetPaymentHistory(t *testing.T) {
	f := newBillingFixture(t)
	sub := f.addSub(entity.SubscriptionStatusActive, time.Now().AddDate(0, -1, 0))

	fecha := time.Now().AddDate(0, 0, -10)
	f.store.payments = append(f.store.payments,
		&entity.Payment{Id: uuid.New(), SubscriptionId: sub.Id, MpPaymentId: "900", Monto: 7500, Status: entity.PaymentStatusApproved, FechaPago: &fecha},
		&entity.Payment{Id: uuid.New(), SubscriptionId: uuid.New(), MpPaymentId: "901", Monto: 9999, Status: entity.PaymentStatusApproved},
	)

	history, err := f.service.GetPaymentHistory(context.Background(), f.escribano.UserId)
	if err != nil {
		t.Fatalf("GetPaymentHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history items = %d, want 1 (other subscription excluded)", len(history))
	}
	if history[0].Monto != 7500 {
		t.Errorf("monto = %v, want 7500", history[0].Monto)
	}
}

func (f *billingFixture) addSub(status entity.SubscriptionStatus, createdAt time.Time) *entity.Subscription {
	s := &entity.Subscription{
		Id:          uuid.New(),
		EscribanoId: f.escribano.Id,
		Plan:        entity.PlanTierBasico,
		Monto:       7500,
		Moneda:      "ARS",
		Status:      status,
		FechaInicio: createdAt,
		FechaFin:    createdAt.AddDate(0, 1, 0),
		CreatedAt:   createdAt,
	}
	f.store.subscriptions = append(f.store.subscriptions, s)
	return s
}
