package mapper

import (
	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:             p.Id,
		SubscriptionId: p.SubscriptionId,
		MpPaymentId:    p.MpPaymentId,
		Monto:          p.Monto,
		Status:         entity.PaymentStatus(p.Status),
		MetodoPago:     p.MetodoPago,
		FechaPago:      p.FechaPago,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:             p.Id,
		SubscriptionId: p.SubscriptionId,
		MpPaymentId:    p.MpPaymentId,
		Monto:          p.Monto,
		Status:         string(p.Status),
		MetodoPago:     p.MetodoPago,
		FechaPago:      p.FechaPago,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
