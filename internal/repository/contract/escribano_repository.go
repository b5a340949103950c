package contract

import (
	"context"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EscribanoRepository interface {
	Create(ctx context.Context, escribano *entity.Escribano) error
	Update(ctx context.Context, escribano *entity.Escribano) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escribano, error)
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Escribano, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escribano, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdatePaymentState bulk-updates estado_pago and activo for a set of escribanos.
	UpdatePaymentState(ctx context.Context, ids []uuid.UUID, estado entity.EstadoPago, activo bool) (int64, error)
}
