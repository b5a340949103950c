// FILE: internal/entity/payment_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// MapGatewayPaymentStatus translates Mercado Pago's status vocabulary into
// the internal enumeration. Unrecognized statuses map to pending so a new
// processor status never fabricates an approval or rejection.
func MapGatewayPaymentStatus(s string) PaymentStatus {
	switch s {
	case "approved":
		return PaymentStatusApproved
	case "rejected":
		return PaymentStatusRejected
	case "cancelled":
		return PaymentStatusCancelled
	case "refunded", "charged_back":
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}

type Payment struct {
	Id             uuid.UUID
	SubscriptionId uuid.UUID
	MpPaymentId    string
	Monto          float64
	Status         PaymentStatus
	MetodoPago     string
	FechaPago      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
