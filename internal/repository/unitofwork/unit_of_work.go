package unitofwork

import (
	"context"

	"escribanos-be/internal/repository"
	"escribanos-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	EscribanoRepository() contract.EscribanoRepository
	SubscriptionRepository() contract.SubscriptionRepository
	PaymentRepository() contract.PaymentRepository
	NotificationRepository() repository.NotificationRepository
}
