package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment holds one row per processor payment notification. MpPaymentId is
// the idempotency key: redelivery updates the row instead of inserting.
type Payment struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId uuid.UUID `gorm:"type:uuid;not null;index"`
	MpPaymentId    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Monto          float64   `gorm:"type:decimal(12,2);not null"`
	Status         string    `gorm:"type:varchar(50);not null"`
	MetodoPago     string    `gorm:"type:varchar(100)"`
	FechaPago      *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
