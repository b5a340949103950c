// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleCliente   UserRole = "cliente"
	UserRoleEscribano UserRole = "escribano"
	UserRoleAdmin     UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id             uuid.UUID
	Email          string
	PasswordHash   *string
	NombreCompleto string
	Role           UserRole
	Status         UserStatus
	EmailVerified  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
