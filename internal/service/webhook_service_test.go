package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"
	"escribanos-be/internal/pkg/mercadopago"

	"github.com/google/uuid"
)

type webhookFixture struct {
	store   *fakeStore
	gateway *fakeGateway
	service IWebhookService

	escribano *entity.Escribano
	sub       *entity.Subscription
}

// newWebhookFixture seeds one escribano with a pending subscription whose
// preapproval id is already stored, mirroring the state right after checkout
// plus the first authorized notification.
func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()

	store := newFakeStore()
	factory := &fakeFactory{store: store}
	log := fakeLogger{}

	preapprovalId := "preapproval-001"
	escribano := &entity.Escribano{
		Id:         uuid.New(),
		UserId:     uuid.New(),
		Matricula:  "MAT-1001",
		Provincia:  "Buenos Aires",
		EstadoPago: entity.EstadoPagoVencido,
		Activo:     false,
	}
	sub := &entity.Subscription{
		Id:              uuid.New(),
		EscribanoId:     escribano.Id,
		MpPreapprovalId: &preapprovalId,
		Plan:            entity.PlanTierBasico,
		Monto:           7500,
		Moneda:          "ARS",
		Status:          entity.SubscriptionStatusPending,
		FechaInicio:     time.Now().AddDate(0, 0, -1),
		FechaFin:        time.Now().AddDate(0, 1, 0),
		CreatedAt:       time.Now(),
	}
	store.escribanos = append(store.escribanos, escribano)
	store.subscriptions = append(store.subscriptions, sub)

	gateway := newFakeGateway()
	reconciler := NewSubscriptionReconciler(factory, nil, log)
	svc := NewWebhookService(factory, gateway, mercadopago.NewSignatureVerifier(secret), reconciler, nil, log)

	return &webhookFixture{
		store:     store,
		gateway:   gateway,
		service:   svc,
		escribano: escribano,
		sub:       sub,
	}
}

func paymentEvent(dataID string) (dto.WebhookHeaders, *dto.WebhookNotification) {
	req := &dto.WebhookNotification{Type: "payment", Action: "payment.updated"}
	req.Data.ID = dataID
	return dto.WebhookHeaders{DataID: dataID}, req
}

func preapprovalEvent(dataID string) (dto.WebhookHeaders, *dto.WebhookNotification) {
	req := &dto.WebhookNotification{Type: "subscription_preapproval", Action: "updated"}
	req.Data.ID = dataID
	return dto.WebhookHeaders{DataID: dataID}, req
}

func (f *webhookFixture) notificationsOfType(code string) int {
	count := 0
	for _, n := range f.store.notifications {
		if n.TypeCode == code {
			count++
		}
	}
	return count
}

func TestProcessApprovedPaymentActivatesPendingSubscription(t *testing.T) {
	f := newWebhookFixture(t, "")
	approvedAt := time.Now()
	f.gateway.payments["777"] = &mercadopago.PaymentInfo{
		Id:                "777",
		Status:            "approved",
		TransactionAmount: 7500,
		PaymentMethodId:   "visa",
		DateApproved:      &approvedAt,
		ExternalReference: *f.sub.MpPreapprovalId,
	}

	headers, req := paymentEvent("777")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
	if f.escribano.EstadoPago != entity.EstadoPagoActivo {
		t.Errorf("escribano estado_pago = %q, want ACTIVO", f.escribano.EstadoPago)
	}
	if !f.escribano.Activo {
		t.Error("escribano should be visible after approved payment")
	}
	if f.escribano.Plan != f.sub.Plan {
		t.Errorf("escribano plan = %q, want %q", f.escribano.Plan, f.sub.Plan)
	}
	if len(f.store.payments) != 1 {
		t.Fatalf("payments stored = %d, want 1", len(f.store.payments))
	}
	if f.store.payments[0].Status != entity.PaymentStatusApproved {
		t.Errorf("payment status = %q, want approved", f.store.payments[0].Status)
	}
	if got := f.notificationsOfType(NotifPagoExitoso); got != 1 {
		t.Errorf("PAGO_EXITOSO notifications = %d, want 1", got)
	}
	if f.store.commits != 1 {
		t.Errorf("commits = %d, want 1", f.store.commits)
	}
}

func TestProcessApprovedPaymentRecoversPastDueSubscription(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusPastDue
	f.escribano.Activo = true
	f.escribano.EstadoPago = entity.EstadoPagoVencido

	f.gateway.payments["778"] = &mercadopago.PaymentInfo{
		Id:                "778",
		Status:            "approved",
		TransactionAmount: 7500,
		ExternalReference: *f.sub.MpPreapprovalId,
	}

	headers, req := paymentEvent("778")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
	if f.escribano.EstadoPago != entity.EstadoPagoActivo {
		t.Errorf("escribano estado_pago = %q, want ACTIVO", f.escribano.EstadoPago)
	}
}

func TestProcessRejectedPaymentKeepsProfileVisible(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusActive
	f.escribano.Activo = true
	f.escribano.EstadoPago = entity.EstadoPagoActivo

	f.gateway.payments["779"] = &mercadopago.PaymentInfo{
		Id:                "779",
		Status:            "rejected",
		TransactionAmount: 7500,
		ExternalReference: *f.sub.MpPreapprovalId,
	}

	headers, req := paymentEvent("779")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusPastDue {
		t.Errorf("subscription status = %q, want past_due", f.sub.Status)
	}
	if f.escribano.EstadoPago != entity.EstadoPagoVencido {
		t.Errorf("escribano estado_pago = %q, want VENCIDO", f.escribano.EstadoPago)
	}
	// A single failed charge demotes the billing state but does not pull the
	// profile from the directory.
	if !f.escribano.Activo {
		t.Error("escribano should stay visible after one rejected payment")
	}
	if got := f.notificationsOfType(NotifPagoProblema); got != 1 {
		t.Errorf("PAGO_PROBLEMA notifications = %d, want 1", got)
	}
}

func TestProcessPaymentResolvesEscribanoReference(t *testing.T) {
	f := newWebhookFixture(t, "")
	// External reference carries the escribano id instead of the preapproval id.
	f.gateway.payments["780"] = &mercadopago.PaymentInfo{
		Id:                "780",
		Status:            "approved",
		TransactionAmount: 7500,
		ExternalReference: f.escribano.Id.String(),
	}

	headers, req := paymentEvent("780")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
	if len(f.store.payments) != 1 {
		t.Errorf("payments stored = %d, want 1", len(f.store.payments))
	}
}

func TestProcessPaymentWithUnmatchedReferenceIsContained(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.gateway.payments["781"] = &mercadopago.PaymentInfo{
		Id:                "781",
		Status:            "approved",
		TransactionAmount: 7500,
		ExternalReference: "no-such-reference",
	}

	headers, req := paymentEvent("781")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v, want nil (contained)", err)
	}
	if len(f.store.payments) != 0 {
		t.Errorf("payments stored = %d, want 0", len(f.store.payments))
	}
}

func TestProcessGatewayFailureIsContained(t *testing.T) {
	f := newWebhookFixture(t, "")
	// No payment registered in the fake gateway: the fetch fails, the error is
	// logged and the delivery is still acknowledged.
	headers, req := paymentEvent("999")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v, want nil (contained)", err)
	}
}

func TestProcessPaymentRedeliveryIsIdempotent(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.gateway.payments["782"] = &mercadopago.PaymentInfo{
		Id:                "782",
		Status:            "approved",
		TransactionAmount: 7500,
		ExternalReference: *f.sub.MpPreapprovalId,
	}

	headers, req := paymentEvent("782")
	for i := 0; i < 3; i++ {
		if err := f.service.Process(context.Background(), headers, req); err != nil {
			t.Fatalf("Process() run %d error = %v", i, err)
		}
	}

	if len(f.store.payments) != 1 {
		t.Errorf("payments stored = %d, want 1 after redeliveries", len(f.store.payments))
	}
	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
}

func TestProcessUnknownEventTypeIsIgnored(t *testing.T) {
	f := newWebhookFixture(t, "")
	req := &dto.WebhookNotification{Type: "plan", Action: "created"}
	req.Data.ID = "42"

	if err := f.service.Process(context.Background(), dto.WebhookHeaders{DataID: "42"}, req); err != nil {
		t.Fatalf("Process() error = %v, want nil", err)
	}
	if len(f.store.payments) != 0 || len(f.store.notifications) != 0 {
		t.Error("unknown event type should not touch any state")
	}
	if f.sub.Status != entity.SubscriptionStatusPending {
		t.Errorf("subscription status = %q, want pending", f.sub.Status)
	}
}

func TestProcessRejectsInvalidSignature(t *testing.T) {
	f := newWebhookFixture(t, "webhook-secret")
	headers, req := paymentEvent("777")
	headers.XSignature = "ts=1704908010,v1=deadbeef"
	headers.XRequestID = "req-1"

	err := f.service.Process(context.Background(), headers, req)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Process() error = %v, want ErrInvalidSignature", err)
	}
}

func TestProcessAcceptsValidSignature(t *testing.T) {
	const secret = "webhook-secret"
	f := newWebhookFixture(t, secret)
	f.gateway.payments["777"] = &mercadopago.PaymentInfo{
		Id:                "777",
		Status:            "approved",
		TransactionAmount: 7500,
		ExternalReference: *f.sub.MpPreapprovalId,
	}

	headers, req := paymentEvent("777")
	headers.XRequestID = "req-1"
	ts := "1704908010"
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", headers.DataID, headers.XRequestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	headers.XSignature = fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
}

func TestProcessPreapprovalPausedSuspendsProfile(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusActive
	f.escribano.Activo = true
	f.escribano.EstadoPago = entity.EstadoPagoActivo

	f.gateway.preapprovals[*f.sub.MpPreapprovalId] = &mercadopago.PreapprovalInfo{
		Id:     *f.sub.MpPreapprovalId,
		Status: "paused",
	}

	headers, req := preapprovalEvent(*f.sub.MpPreapprovalId)
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusPastDue {
		t.Errorf("subscription status = %q, want past_due", f.sub.Status)
	}
	if f.escribano.EstadoPago != entity.EstadoPagoSuspendido {
		t.Errorf("escribano estado_pago = %q, want SUSPENDIDO", f.escribano.EstadoPago)
	}
	if f.escribano.Activo {
		t.Error("escribano should be hidden while the agreement is paused")
	}
}

func TestProcessPreapprovalCancelledNotifiesUser(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusActive
	f.escribano.Activo = true

	f.gateway.preapprovals[*f.sub.MpPreapprovalId] = &mercadopago.PreapprovalInfo{
		Id:     *f.sub.MpPreapprovalId,
		Status: "cancelled",
	}

	headers, req := preapprovalEvent(*f.sub.MpPreapprovalId)
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.Status != entity.SubscriptionStatusCancelled {
		t.Errorf("subscription status = %q, want cancelled", f.sub.Status)
	}
	if f.escribano.EstadoPago != entity.EstadoPagoCancelado {
		t.Errorf("escribano estado_pago = %q, want CANCELADO", f.escribano.EstadoPago)
	}
	if got := f.notificationsOfType(NotifSuscripcionFin); got != 1 {
		t.Errorf("SUSCRIPCION_FINALIZADA notifications = %d, want 1", got)
	}
}

func TestProcessPreapprovalAttachesIdToFreshSubscription(t *testing.T) {
	f := newWebhookFixture(t, "")
	// Simulate the first notification for a fresh agreement: the subscription
	// row exists but the preapproval id has not been stored yet.
	f.sub.MpPreapprovalId = nil
	next := time.Now().AddDate(0, 1, 0)

	f.gateway.preapprovals["preapproval-new"] = &mercadopago.PreapprovalInfo{
		Id:                "preapproval-new",
		Status:            "authorized",
		ExternalReference: f.escribano.Id.String(),
		NextPaymentDate:   &next,
	}

	headers, req := preapprovalEvent("preapproval-new")
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.MpPreapprovalId == nil || *f.sub.MpPreapprovalId != "preapproval-new" {
		t.Errorf("preapproval id not attached: %v", f.sub.MpPreapprovalId)
	}
	if f.sub.Status != entity.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.sub.Status)
	}
	if f.sub.ProximoCobro == nil || !f.sub.ProximoCobro.Equal(next) {
		t.Errorf("proximo cobro = %v, want %v", f.sub.ProximoCobro, next)
	}
}

func TestProcessPreapprovalSameStatusPersistsNextBillingDate(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusActive
	next := time.Now().AddDate(0, 1, 0)

	// Monthly renewal: the agreement stays authorized, only the next billing
	// date moves forward.
	f.gateway.preapprovals[*f.sub.MpPreapprovalId] = &mercadopago.PreapprovalInfo{
		Id:              *f.sub.MpPreapprovalId,
		Status:          "authorized",
		NextPaymentDate: &next,
	}

	headers, req := preapprovalEvent(*f.sub.MpPreapprovalId)
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.sub.ProximoCobro == nil || !f.sub.ProximoCobro.Equal(next) {
		t.Errorf("proximo cobro = %v, want %v", f.sub.ProximoCobro, next)
	}
	if f.store.subUpdates == 0 {
		t.Error("next billing date was not written to the store")
	}
	if f.store.begins != 0 {
		t.Errorf("begins = %d, want 0 when status is unchanged", f.store.begins)
	}
}

func TestProcessPreapprovalSameStatusIsNoOp(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.sub.Status = entity.SubscriptionStatusActive

	f.gateway.preapprovals[*f.sub.MpPreapprovalId] = &mercadopago.PreapprovalInfo{
		Id:     *f.sub.MpPreapprovalId,
		Status: "authorized",
	}

	headers, req := preapprovalEvent(*f.sub.MpPreapprovalId)
	if err := f.service.Process(context.Background(), headers, req); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if f.store.begins != 0 {
		t.Errorf("begins = %d, want 0 when status is unchanged", f.store.begins)
	}
	if len(f.store.notifications) != 0 {
		t.Errorf("notifications = %d, want 0", len(f.store.notifications))
	}
}
