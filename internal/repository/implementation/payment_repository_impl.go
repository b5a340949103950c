package implementation

import (
	"context"
	"errors"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/mapper"
	"escribanos-be/internal/model"
	"escribanos-be/internal/repository/contract"
	"escribanos-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) Upsert(ctx context.Context, payment *entity.Payment) error {
	m := r.mapper.ToModel(payment)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mp_payment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "monto", "metodo_pago", "fecha_pago", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	// Re-read so the caller sees the surviving row, not the candidate insert.
	var stored model.Payment
	if err := r.db.WithContext(ctx).Where("mp_payment_id = ?", m.MpPaymentId).First(&stored).Error; err != nil {
		return err
	}
	*payment = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindByMpPaymentId(ctx context.Context, mpPaymentId string) (*entity.Payment, error) {
	var m model.Payment
	if err := r.db.WithContext(ctx).Where("mp_payment_id = ?", mpPaymentId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Payment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
