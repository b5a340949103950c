package mapper

import (
	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
)

type EscribanoMapper struct{}

func NewEscribanoMapper() *EscribanoMapper {
	return &EscribanoMapper{}
}

func (m *EscribanoMapper) ToEntity(e *model.Escribano) *entity.Escribano {
	if e == nil {
		return nil
	}
	return &entity.Escribano{
		Id:                   e.Id,
		UserId:               e.UserId,
		Matricula:            e.Matricula,
		NombreCompleto:       e.NombreCompleto,
		Provincia:            e.Provincia,
		Localidad:            e.Localidad,
		Especialidades:       e.Especialidades,
		Telefono:             e.Telefono,
		Direccion:            e.Direccion,
		Descripcion:          e.Descripcion,
		Plan:                 entity.PlanTier(e.Plan),
		FechaVencimientoPlan: e.FechaVencimientoPlan,
		EstadoPago:           entity.EstadoPago(e.EstadoPago),
		Activo:               e.Activo,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (m *EscribanoMapper) ToModel(e *entity.Escribano) *model.Escribano {
	if e == nil {
		return nil
	}
	return &model.Escribano{
		Id:                   e.Id,
		UserId:               e.UserId,
		Matricula:            e.Matricula,
		NombreCompleto:       e.NombreCompleto,
		Provincia:            e.Provincia,
		Localidad:            e.Localidad,
		Especialidades:       e.Especialidades,
		Telefono:             e.Telefono,
		Direccion:            e.Direccion,
		Descripcion:          e.Descripcion,
		Plan:                 string(e.Plan),
		FechaVencimientoPlan: e.FechaVencimientoPlan,
		EstadoPago:           string(e.EstadoPago),
		Activo:               e.Activo,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}
