package service

import (
	"context"
	"errors"
	"sort"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
	"escribanos-be/internal/pkg/mercadopago"
	"escribanos-be/internal/repository"
	"escribanos-be/internal/repository/contract"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret the concrete
// specification types the services actually use, nothing more.

type fakeLogger struct{}

func (fakeLogger) Debug(module, message string, details map[string]interface{}) {}
func (fakeLogger) Info(module, message string, details map[string]interface{})  {}
func (fakeLogger) Warn(module, message string, details map[string]interface{})  {}
func (fakeLogger) Error(module, message string, details map[string]interface{}) {}
func (fakeLogger) Sync() error                                                  { return nil }

type fakeStore struct {
	users         []*entity.User
	escribanos    []*entity.Escribano
	subscriptions []*entity.Subscription
	payments      []*entity.Payment
	notifications []model.Notification
	dedupeKeys    map[string]bool
	notifTypes    map[string]*model.NotificationType

	begins     int
	commits    int
	rollbacks  int
	subUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{dedupeKeys: make(map[string]bool)}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.store.begins++
	return nil
}

func (u *fakeUow) Commit() error {
	u.store.commits++
	return nil
}

func (u *fakeUow) Rollback() error {
	u.store.rollbacks++
	return nil
}

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) EscribanoRepository() contract.EscribanoRepository {
	return &fakeEscribanoRepo{store: u.store}
}

func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{store: u.store}
}

func (u *fakeUow) PaymentRepository() contract.PaymentRepository {
	return &fakePaymentRepo{store: u.store}
}

func (u *fakeUow) NotificationRepository() repository.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

// --- users ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.store.users {
		if u.Id == user.Id {
			r.store.users[i] = user
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.store.users, nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok && u.Id != byID.ID {
			return false
		}
	}
	return true
}

// --- escribanos ---

type fakeEscribanoRepo struct {
	store *fakeStore
}

func (r *fakeEscribanoRepo) Create(ctx context.Context, escribano *entity.Escribano) error {
	r.store.escribanos = append(r.store.escribanos, escribano)
	return nil
}

func (r *fakeEscribanoRepo) Update(ctx context.Context, escribano *entity.Escribano) error {
	for i, e := range r.store.escribanos {
		if e.Id == escribano.Id {
			r.store.escribanos[i] = escribano
		}
	}
	return nil
}

func (r *fakeEscribanoRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeEscribanoRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escribano, error) {
	for _, e := range r.store.escribanos {
		if matchEscribano(e, specs) {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEscribanoRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Escribano, error) {
	for _, e := range r.store.escribanos {
		if e.UserId == userId {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEscribanoRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escribano, error) {
	var out []*entity.Escribano
	for _, e := range r.store.escribanos {
		if matchEscribano(e, specs) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEscribanoRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeEscribanoRepo) UpdatePaymentState(ctx context.Context, ids []uuid.UUID, estado entity.EstadoPago, activo bool) (int64, error) {
	var updated int64
	for _, id := range ids {
		for _, e := range r.store.escribanos {
			if e.Id == id {
				e.EstadoPago = estado
				e.Activo = activo
				updated++
			}
		}
	}
	return updated, nil
}

func matchEscribano(e *entity.Escribano, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if e.Id != s.ID {
				return false
			}
		case specification.ActivoOnly:
			if !e.Activo {
				return false
			}
		case specification.ByProvincia:
			if e.Provincia != s.Provincia {
				return false
			}
		case specification.ByLocalidad:
			if e.Localidad != s.Localidad {
				return false
			}
		}
	}
	return true
}

// --- subscriptions ---

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	r.store.subscriptions = append(r.store.subscriptions, sub)
	return nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	r.store.subUpdates++
	for i, s := range r.store.subscriptions {
		if s.Id == sub.Id {
			r.store.subscriptions[i] = sub
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeSubscriptionRepo) FindByPreapprovalId(ctx context.Context, preapprovalId string) (*entity.Subscription, error) {
	for _, s := range r.store.subscriptions {
		if s.MpPreapprovalId != nil && *s.MpPreapprovalId == preapprovalId {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, s := range r.store.subscriptions {
		if matchSubscription(s, specs) {
			out = append(out, s)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.Slice(out, func(i, j int) bool {
				if order.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.SubscriptionStatus) (int64, error) {
	var updated int64
	for _, id := range ids {
		for _, s := range r.store.subscriptions {
			if s.Id == id {
				s.Status = status
				updated++
			}
		}
	}
	return updated, nil
}

func matchSubscription(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.StatusIs:
			if string(sub.Status) != s.Status {
				return false
			}
		case specification.StatusIn:
			found := false
			for _, st := range s.Statuses {
				if string(sub.Status) == st {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.ByEscribano:
			if sub.EscribanoId != s.EscribanoId {
				return false
			}
		case specification.EndDateBefore:
			if sub.FechaFin.After(s.Now) {
				return false
			}
		case specification.EndDateWithin:
			if sub.FechaFin.Before(s.From) || sub.FechaFin.After(s.To) {
				return false
			}
		}
	}
	return true
}

// --- payments ---

type fakePaymentRepo struct {
	store *fakeStore
}

func (r *fakePaymentRepo) Upsert(ctx context.Context, payment *entity.Payment) error {
	for _, p := range r.store.payments {
		if p.MpPaymentId == payment.MpPaymentId {
			p.Status = payment.Status
			p.Monto = payment.Monto
			p.MetodoPago = payment.MetodoPago
			p.FechaPago = payment.FechaPago
			return nil
		}
	}
	if payment.Id == uuid.Nil {
		payment.Id = uuid.New()
	}
	r.store.payments = append(r.store.payments, payment)
	return nil
}

func (r *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakePaymentRepo) FindByMpPaymentId(ctx context.Context, mpPaymentId string) (*entity.Payment, error) {
	for _, p := range r.store.payments {
		if p.MpPaymentId == mpPaymentId {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.store.payments {
		keep := true
		for _, spec := range specs {
			if f, ok := spec.(specification.FilterBy); ok && f.Field == "subscription_id" {
				if id, isId := f.Value.(uuid.UUID); isId && p.SubscriptionId != id {
					keep = false
				}
			}
		}
		if keep {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *model.Notification) error {
	r.store.notifications = append(r.store.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) CreateIfAbsent(ctx context.Context, notification *model.Notification) (bool, error) {
	if notification.DedupeKey != nil {
		if r.store.dedupeKeys[*notification.DedupeKey] {
			return false, nil
		}
		r.store.dedupeKeys[*notification.DedupeKey] = true
	}
	r.store.notifications = append(r.store.notifications, *notification)
	return true, nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	if r.store.notifTypes != nil {
		return r.store.notifTypes[code], nil
	}
	return &model.NotificationType{Code: code, DisplayName: code, Template: "{mensaje}", IsActive: true}, nil
}

// --- gateway ---

type fakeGateway struct {
	payments     map[string]*mercadopago.PaymentInfo
	preapprovals map[string]*mercadopago.PreapprovalInfo
	plan         *mercadopago.PreapprovalPlanInfo
	cancelled    []string
	cancelErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		payments:     make(map[string]*mercadopago.PaymentInfo),
		preapprovals: make(map[string]*mercadopago.PreapprovalInfo),
		plan:         &mercadopago.PreapprovalPlanInfo{Id: "plan-1", InitPoint: "https://mp.test/init/plan-1"},
	}
}

func (g *fakeGateway) GetPayment(ctx context.Context, id string) (*mercadopago.PaymentInfo, error) {
	if info, ok := g.payments[id]; ok {
		return info, nil
	}
	return nil, errors.New("payment not found")
}

func (g *fakeGateway) GetPreapproval(ctx context.Context, id string) (*mercadopago.PreapprovalInfo, error) {
	if info, ok := g.preapprovals[id]; ok {
		return info, nil
	}
	return nil, errors.New("preapproval not found")
}

func (g *fakeGateway) CreatePreapprovalPlan(ctx context.Context, reason string, amount float64, backURL string) (*mercadopago.PreapprovalPlanInfo, error) {
	return g.plan, nil
}

func (g *fakeGateway) CancelPreapproval(ctx context.Context, id string) error {
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.cancelled = append(g.cancelled, id)
	return nil
}
