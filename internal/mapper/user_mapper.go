package mapper

import (
	"escribanos-be/internal/entity"
	"escribanos-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:             u.Id,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		NombreCompleto: u.NombreCompleto,
		Role:           entity.UserRole(u.Role),
		Status:         entity.UserStatus(u.Status),
		EmailVerified:  u.EmailVerified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:             u.Id,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		NombreCompleto: u.NombreCompleto,
		Role:           string(u.Role),
		Status:         string(u.Status),
		EmailVerified:  u.EmailVerified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
