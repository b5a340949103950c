// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PlanTier string
type BillingPeriod string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	PlanTierBasico      PlanTier = "basico"
	PlanTierProfesional PlanTier = "profesional"
	PlanTierPremium     PlanTier = "premium"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

// IsTerminal reports whether no further automatic transition is defined
// out of this status. The sweep never touches expired or cancelled rows.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusExpired || s == SubscriptionStatusCancelled
}

type Subscription struct {
	Id              uuid.UUID
	EscribanoId     uuid.UUID
	MpPreapprovalId *string
	Plan            PlanTier
	Monto           float64
	Moneda          string
	Status          SubscriptionStatus
	FechaInicio     time.Time
	FechaFin        time.Time
	ProximoCobro    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
