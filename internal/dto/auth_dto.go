// FILE: internal/dto/auth_dto.go
package dto

import (
	"github.com/google/uuid"
)

type RegisterRequest struct {
	NombreCompleto string `json:"nombre_completo" validate:"required,min=3"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"required,oneof=cliente escribano"`
	// Escribano-only fields, required when Role is escribano.
	Matricula *string `json:"matricula,omitempty" validate:"required_if=Role escribano"`
	Provincia *string `json:"provincia,omitempty" validate:"required_if=Role escribano"`
	Localidad *string `json:"localidad,omitempty"`
}

type RegisterResponse struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type UserDTO struct {
	Id             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	NombreCompleto string    `json:"nombre_completo"`
	Role           string    `json:"role"`
}
