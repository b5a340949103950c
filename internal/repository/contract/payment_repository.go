package contract

import (
	"context"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/repository/specification"
)

type PaymentRepository interface {
	// Upsert inserts the payment or, when mp_payment_id already exists,
	// refreshes status, monto, metodo_pago and fecha_pago in place.
	Upsert(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindByMpPaymentId(ctx context.Context, mpPaymentId string) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
}
