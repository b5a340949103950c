// FILE: internal/controller/billing_controller.go
package controller

import (
	"errors"

	"escribanos-be/internal/dto"
	"escribanos-be/internal/pkg/serverutils"
	"escribanos-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	Checkout(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	GetPaymentHistory(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
}

type billingController struct {
	service       service.IBillingService
	jwtMiddleware fiber.Handler
}

func NewBillingController(service service.IBillingService, jwtMiddleware fiber.Handler) IBillingController {
	return &billingController{service: service, jwtMiddleware: jwtMiddleware}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing", c.jwtMiddleware)
	h.Post("/checkout", c.Checkout)
	h.Get("/status", c.GetStatus)
	h.Get("/pagos", c.GetPaymentHistory)
	h.Post("/cancel", c.CancelSubscription)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	return uuid.Parse(raw)
}

func (c *billingController) Checkout(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid session"))
	}

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAnEscribano), errors.Is(err, service.ErrUnknownPlan):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		case errors.Is(err, service.ErrSubscriptionExists):
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *billingController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid session"))
	}

	res, err := c.service.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) || errors.Is(err, service.ErrNotAnEscribano) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *billingController) GetPaymentHistory(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid session"))
	}

	res, err := c.service.GetPaymentHistory(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrNotAnEscribano) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment history", res))
}

func (c *billingController) CancelSubscription(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "invalid session"))
	}

	if err := c.service.CancelSubscription(ctx.Context(), userId); err != nil {
		if errors.Is(err, service.ErrNoSubscription) || errors.Is(err, service.ErrNotAnEscribano) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription canceled", nil))
}
