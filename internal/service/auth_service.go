// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/pkg/mailer"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrMatriculaTaken     = errors.New("matricula already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	jwtSecret    string
	jwtExpiry    time.Duration
	log          logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, jwtSecret string, jwtExpiryMinutes int, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		jwtSecret:    jwtSecret,
		jwtExpiry:    time.Duration(jwtExpiryMinutes) * time.Minute,
		log:          log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user := &entity.User{
		Email:          req.Email,
		PasswordHash:   &hashStr,
		NombreCompleto: req.NombreCompleto,
		Role:           entity.UserRole(req.Role),
		Status:         entity.UserStatusPending,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// An escribano registers with a closed profile; it only becomes visible
	// in the directory once a subscription is paid.
	if user.Role == entity.UserRoleEscribano {
		escribano := &entity.Escribano{
			UserId:         user.Id,
			NombreCompleto: req.NombreCompleto,
			EstadoPago:     entity.EstadoPagoVencido,
			Activo:         false,
		}
		if req.Matricula != nil {
			escribano.Matricula = *req.Matricula
		}
		if req.Provincia != nil {
			escribano.Provincia = *req.Provincia
		}
		if req.Localidad != nil {
			escribano.Localidad = *req.Localidad
		}
		if err := uow.EscribanoRepository().Create(ctx, escribano); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	token, err := s.signToken(user.Id, string(user.Role), "verify_email", 24*time.Hour)
	if err == nil {
		if mailErr := s.emailService.SendVerificationEmail(user.Email, token); mailErr != nil {
			s.log.Warn("auth", "verification email failed", map[string]interface{}{
				"user_id": user.Id,
				"error":   mailErr.Error(),
			})
		}
	}

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(user.Id, string(user.Role), "access", s.jwtExpiry)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		User: dto.UserDTO{
			Id:             user.Id,
			Email:          user.Email,
			NombreCompleto: user.NombreCompleto,
			Role:           string(user.Role),
		},
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "verify_email" {
		return ErrInvalidToken
	}

	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ErrInvalidToken
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	user.EmailVerified = true
	user.Status = entity.UserStatusActive
	return uow.UserRepository().Update(ctx, user)
}

func (s *authService) signToken(userId uuid.UUID, role, purpose string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    role,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
