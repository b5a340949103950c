package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusIs filters by status column (subscriptions, payments).
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// StatusIn filters by a set of statuses.
type StatusIn struct {
	Statuses []string
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// ByEscribano filters rows owned by an escribano.
type ByEscribano struct {
	EscribanoId uuid.UUID
}

func (s ByEscribano) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("escribano_id = ?", s.EscribanoId)
}

// ByPreapprovalId filters subscriptions by the gateway preapproval id.
type ByPreapprovalId struct {
	PreapprovalId string
}

func (s ByPreapprovalId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mp_preapproval_id = ?", s.PreapprovalId)
}

// StartDateDue matches subscriptions whose start date has arrived.
type StartDateDue struct {
	Now time.Time
}

func (s StartDateDue) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fecha_inicio <= ?", s.Now)
}

// EndDateBefore matches subscriptions whose end date has arrived, inclusive.
type EndDateBefore struct {
	Now time.Time
}

func (s EndDateBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fecha_fin <= ?", s.Now)
}

// EndDateWithin matches subscriptions ending inside the warning window.
type EndDateWithin struct {
	From time.Time
	To   time.Time
}

func (s EndDateWithin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fecha_fin >= ? AND fecha_fin <= ?", s.From, s.To)
}

// ActivoOnly keeps only escribanos visible in the public directory.
type ActivoOnly struct{}

func (s ActivoOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("activo = ?", true)
}

// ByProvincia filters escribanos by province.
type ByProvincia struct {
	Provincia string
}

func (s ByProvincia) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provincia = ?", s.Provincia)
}

// ByLocalidad filters escribanos by locality.
type ByLocalidad struct {
	Localidad string
}

func (s ByLocalidad) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("localidad = ?", s.Localidad)
}

// ByEspecialidad matches escribanos listing the given specialty.
type ByEspecialidad struct {
	Especialidad string
}

func (s ByEspecialidad) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("especialidades ILIKE ?", "%"+s.Especialidad+"%")
}

// NameOrDescriptionLike is the free-text directory search.
type NameOrDescriptionLike struct {
	Query string
}

func (s NameOrDescriptionLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("nombre_completo ILIKE ? OR descripcion ILIKE ?", pattern, pattern)
}
