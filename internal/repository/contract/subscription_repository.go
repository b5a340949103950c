package contract

import (
	"context"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindByPreapprovalId(ctx context.Context, preapprovalId string) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// UpdateStatus bulk-moves a set of subscriptions to a new status.
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status entity.SubscriptionStatus) (int64, error)
}
