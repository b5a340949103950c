// FILE: internal/controller/escribano_controller.go
package controller

import (
	"errors"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/pkg/serverutils"
	"escribanos-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEscribanoController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type escribanoController struct {
	service       service.IEscribanoService
	jwtMiddleware fiber.Handler
}

func NewEscribanoController(service service.IEscribanoService, jwtMiddleware fiber.Handler) IEscribanoController {
	return &escribanoController{service: service, jwtMiddleware: jwtMiddleware}
}

func (c *escribanoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/escribanos")
	h.Get("/", c.Search)
	h.Get("/:id", c.GetById)
	h.Put("/perfil", c.jwtMiddleware, c.UpdateProfile)
}

func (c *escribanoController) Search(ctx *fiber.Ctx) error {
	var req dto.EscribanoSearchRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid query parameters"))
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Escribanos", res))
}

func (c *escribanoController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid id format"))
	}

	res, err := c.service.GetById(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "escribano not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Escribano", res))
}

func (c *escribanoController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid session"))
	}

	var req dto.EscribanoProfileUpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotAnEscribano) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Perfil actualizado", res))
}
