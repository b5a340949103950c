package mapper

import (
	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:              s.Id,
		EscribanoId:     s.EscribanoId,
		MpPreapprovalId: s.MpPreapprovalId,
		Plan:            entity.PlanTier(s.Plan),
		Monto:           s.Monto,
		Moneda:          s.Moneda,
		Status:          entity.SubscriptionStatus(s.Status),
		FechaInicio:     s.FechaInicio,
		FechaFin:        s.FechaFin,
		ProximoCobro:    s.ProximoCobro,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:              s.Id,
		EscribanoId:     s.EscribanoId,
		MpPreapprovalId: s.MpPreapprovalId,
		Plan:            string(s.Plan),
		Monto:           s.Monto,
		Moneda:          s.Moneda,
		Status:          string(s.Status),
		FechaInicio:     s.FechaInicio,
		FechaFin:        s.FechaFin,
		ProximoCobro:    s.ProximoCobro,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
