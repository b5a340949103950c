// FILE: internal/dto/escribano_dto.go
package dto

import (
	"github.com/google/uuid"
)

type EscribanoSearchRequest struct {
	Provincia    string `query:"provincia"`
	Localidad    string `query:"localidad"`
	Especialidad string `query:"especialidad"`
	Query        string `query:"q"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
}

type EscribanoResponse struct {
	Id             uuid.UUID `json:"id"`
	NombreCompleto string    `json:"nombre_completo"`
	Matricula      string    `json:"matricula"`
	Provincia      string    `json:"provincia"`
	Localidad      string    `json:"localidad"`
	Especialidades string    `json:"especialidades,omitempty"`
	Telefono       string    `json:"telefono,omitempty"`
	Direccion      string    `json:"direccion,omitempty"`
	Descripcion    string    `json:"descripcion,omitempty"`
	Plan           string    `json:"plan"`
}

type EscribanoListResponse struct {
	Escribanos []EscribanoResponse `json:"escribanos"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

type EscribanoProfileUpdateRequest struct {
	Provincia      *string `json:"provincia,omitempty"`
	Localidad      *string `json:"localidad,omitempty"`
	Especialidades *string `json:"especialidades,omitempty"`
	Telefono       *string `json:"telefono,omitempty"`
	Direccion      *string `json:"direccion,omitempty"`
	Descripcion    *string `json:"descripcion,omitempty"`
}
