// FILE: internal/entity/escribano_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// EstadoPago is the billing state shown on the notary account. It moves in
// lockstep with the owning Subscription status: the two are always written
// inside the same transaction.
type EstadoPago string

const (
	EstadoPagoActivo     EstadoPago = "ACTIVO"
	EstadoPagoVencido    EstadoPago = "VENCIDO"
	EstadoPagoSuspendido EstadoPago = "SUSPENDIDO"
	EstadoPagoCancelado  EstadoPago = "CANCELADO"
)

type Escribano struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Matricula            string
	NombreCompleto       string
	Provincia            string
	Localidad            string
	Especialidades       string
	Telefono             string
	Direccion            string
	Descripcion          string
	Plan                 PlanTier
	FechaVencimientoPlan *time.Time
	EstadoPago           EstadoPago
	// Activo gates visibility in the public directory.
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
