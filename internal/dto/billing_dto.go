// FILE: internal/dto/billing_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Checkout ---

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=basico profesional premium"`
}

type CheckoutResponse struct {
	SubscriptionId uuid.UUID `json:"subscription_id"`
	Plan           string    `json:"plan"`
	Monto          float64   `json:"monto"`
	Moneda         string    `json:"moneda"`
	// InitPoint is the Mercado Pago URL the frontend redirects to.
	InitPoint string `json:"init_point"`
}

// --- Subscription status ---

type SubscriptionStatusResponse struct {
	SubscriptionId uuid.UUID  `json:"subscription_id"`
	Plan           string     `json:"plan"`
	Status         string     `json:"status"`
	Monto          float64    `json:"monto"`
	Moneda         string     `json:"moneda"`
	FechaInicio    time.Time  `json:"fecha_inicio"`
	FechaFin       time.Time  `json:"fecha_fin"`
	ProximoCobro   *time.Time `json:"proximo_cobro,omitempty"`
	EstadoPago     string     `json:"estado_pago"`
}

type PaymentHistoryItem struct {
	Id         uuid.UUID  `json:"id"`
	Monto      float64    `json:"monto"`
	Status     string     `json:"status"`
	MetodoPago string     `json:"metodo_pago,omitempty"`
	FechaPago  *time.Time `json:"fecha_pago,omitempty"`
}

// --- Sweep ---

// SweepSummary is the JSON body returned by the scheduled verification run.
type SweepSummary struct {
	Pendientes        int64 `json:"pendientes"`
	Activadas         int64 `json:"activadas"`
	Vencidas          int64 `json:"vencidas"`
	AvisosVencimiento int64 `json:"avisos_vencimiento"`
	Reparadas         int64 `json:"reparadas"`
}
