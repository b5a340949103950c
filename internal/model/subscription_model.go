package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EscribanoId     uuid.UUID `gorm:"type:uuid;not null;index"`
	MpPreapprovalId *string   `gorm:"type:varchar(255);index"`
	Plan            string    `gorm:"type:varchar(50);not null"`
	Monto           float64   `gorm:"type:decimal(12,2);not null"`
	Moneda          string    `gorm:"type:varchar(10);not null;default:'ARS'"`
	Status          string    `gorm:"type:varchar(50);not null;index"`
	FechaInicio     time.Time `gorm:"not null"`
	FechaFin        time.Time `gorm:"not null"`
	ProximoCobro    *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
