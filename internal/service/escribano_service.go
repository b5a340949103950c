// FILE: internal/service/escribano_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/entity"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/repository/specification"
	"escribanos-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	directoryCacheTTL = 60 * time.Second
	defaultPageSize   = 20
	maxPageSize       = 100
)

type IEscribanoService interface {
	Search(ctx context.Context, req *dto.EscribanoSearchRequest) (*dto.EscribanoListResponse, error)
	GetById(ctx context.Context, id uuid.UUID) (*dto.EscribanoResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.EscribanoProfileUpdateRequest) (*dto.EscribanoResponse, error)
}

// escribanoService serves the public directory. Listings only include
// notaries with an active flag, which the billing reconciler maintains.
type escribanoService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	log        logger.ILogger
}

func NewEscribanoService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IEscribanoService {
	return &escribanoService{
		uowFactory: uowFactory,
		cache:      gocache.New(directoryCacheTTL, 2*directoryCacheTTL),
		log:        log,
	}
}

func (s *escribanoService) Search(ctx context.Context, req *dto.EscribanoSearchRequest) (*dto.EscribanoListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultPageSize
	}
	if req.Limit > maxPageSize {
		req.Limit = maxPageSize
	}

	cacheKey := fmt.Sprintf("dir:%s:%s:%s:%s:%d:%d", req.Provincia, req.Localidad, req.Especialidad, req.Query, req.Page, req.Limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*dto.EscribanoListResponse), nil
	}

	specs := []specification.Specification{specification.ActivoOnly{}}
	if req.Provincia != "" {
		specs = append(specs, specification.ByProvincia{Provincia: req.Provincia})
	}
	if req.Localidad != "" {
		specs = append(specs, specification.ByLocalidad{Localidad: req.Localidad})
	}
	if req.Especialidad != "" {
		specs = append(specs, specification.ByEspecialidad{Especialidad: req.Especialidad})
	}
	if req.Query != "" {
		specs = append(specs, specification.NameOrDescriptionLike{Query: req.Query})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.EscribanoRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(specs,
		specification.OrderBy{Field: "nombre_completo", Desc: false},
		specification.Pagination{Limit: req.Limit, Offset: (req.Page - 1) * req.Limit},
	)
	escribanos, err := uow.EscribanoRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	res := &dto.EscribanoListResponse{
		Escribanos: make([]dto.EscribanoResponse, 0, len(escribanos)),
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
	}
	for _, e := range escribanos {
		res.Escribanos = append(res.Escribanos, toEscribanoResponse(e))
	}

	s.cache.Set(cacheKey, res, gocache.DefaultExpiration)
	return res, nil
}

func (s *escribanoService) GetById(ctx context.Context, id uuid.UUID) (*dto.EscribanoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ActivoOnly{},
	)
	if err != nil {
		return nil, err
	}
	if escribano == nil {
		return nil, nil
	}
	res := toEscribanoResponse(escribano)
	return &res, nil
}

func (s *escribanoService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.EscribanoProfileUpdateRequest) (*dto.EscribanoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	escribano, err := uow.EscribanoRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if escribano == nil {
		return nil, ErrNotAnEscribano
	}

	if req.Provincia != nil {
		escribano.Provincia = *req.Provincia
	}
	if req.Localidad != nil {
		escribano.Localidad = *req.Localidad
	}
	if req.Especialidades != nil {
		escribano.Especialidades = *req.Especialidades
	}
	if req.Telefono != nil {
		escribano.Telefono = *req.Telefono
	}
	if req.Direccion != nil {
		escribano.Direccion = *req.Direccion
	}
	if req.Descripcion != nil {
		escribano.Descripcion = *req.Descripcion
	}

	if err := uow.EscribanoRepository().Update(ctx, escribano); err != nil {
		return nil, err
	}

	// Listing pages are cached; flush so the edit shows up right away.
	s.cache.Flush()

	res := toEscribanoResponse(escribano)
	return &res, nil
}

func toEscribanoResponse(e *entity.Escribano) dto.EscribanoResponse {
	return dto.EscribanoResponse{
		Id:             e.Id,
		NombreCompleto: e.NombreCompleto,
		Matricula:      e.Matricula,
		Provincia:      e.Provincia,
		Localidad:      e.Localidad,
		Especialidades: e.Especialidades,
		Telefono:       e.Telefono,
		Direccion:      e.Direccion,
		Descripcion:    e.Descripcion,
		Plan:           string(e.Plan),
	}
}
