package implementation

import (
	"context"
	"errors"

	"escribanos-be/internal/entity"
	"escribanos-be/internal/mapper"
	"escribanos-be/internal/model"
	"escribanos-be/internal/repository/contract"
	"escribanos-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EscribanoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EscribanoMapper
}

func NewEscribanoRepository(db *gorm.DB) contract.EscribanoRepository {
	return &EscribanoRepositoryImpl{
		db:     db,
		mapper: mapper.NewEscribanoMapper(),
	}
}

func (r *EscribanoRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EscribanoRepositoryImpl) Create(ctx context.Context, escribano *entity.Escribano) error {
	m := r.mapper.ToModel(escribano)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*escribano = *r.mapper.ToEntity(m)
	return nil
}

func (r *EscribanoRepositoryImpl) Update(ctx context.Context, escribano *entity.Escribano) error {
	m := r.mapper.ToModel(escribano)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*escribano = *r.mapper.ToEntity(m)
	return nil
}

func (r *EscribanoRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Escribano{}, id).Error
}

func (r *EscribanoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escribano, error) {
	var m model.Escribano
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EscribanoRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.Escribano, error) {
	var m model.Escribano
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EscribanoRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escribano, error) {
	var models []*model.Escribano
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Escribano, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *EscribanoRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Escribano{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EscribanoRepositoryImpl) UpdatePaymentState(ctx context.Context, ids []uuid.UUID, estado entity.EstadoPago, activo bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Escribano{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"estado_pago": string(estado),
			"activo":      activo,
		})
	return result.RowsAffected, result.Error
}
