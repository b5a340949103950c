package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Escribano struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId               uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Matricula            string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	NombreCompleto       string    `gorm:"type:varchar(255);not null"`
	Provincia            string    `gorm:"type:varchar(100);not null;index"`
	Localidad            string    `gorm:"type:varchar(100);index"`
	Especialidades       string    `gorm:"type:text"`
	Telefono             string    `gorm:"type:varchar(50)"`
	Direccion            string    `gorm:"type:text"`
	Descripcion          string    `gorm:"type:text"`
	Plan                 string    `gorm:"type:varchar(50)"`
	FechaVencimientoPlan *time.Time
	EstadoPago           string         `gorm:"type:varchar(20);not null;default:'VENCIDO'"`
	Activo               bool           `gorm:"default:false;index"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (Escribano) TableName() string {
	return "escribanos"
}
