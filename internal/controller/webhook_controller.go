// FILE: internal/controller/webhook_controller.go
package controller

import (
	"escribanos-be/internal/dto"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleMercadoPago(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
	log     logger.ILogger
}

func NewWebhookController(service service.IWebhookService, log logger.ILogger) IWebhookController {
	return &webhookController{service: service, log: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhooks")
	h.Post("/mercadopago", c.HandleMercadoPago)
	h.Get("/mercadopago", c.Health)
}

// HandleMercadoPago acknowledges every delivery it can parse; handler-level
// failures are contained inside the service so the gateway stops retrying
// events we cannot act on. Only a bad signature is surfaced.
func (c *webhookController) HandleMercadoPago(ctx *fiber.Ctx) error {
	var req dto.WebhookNotification
	if err := ctx.BodyParser(&req); err != nil {
		c.log.Warn("webhook", "unparseable webhook body", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	// Mercado Pago signs the data.id query parameter, not the body field.
	dataID := ctx.Query("data.id")
	if dataID == "" {
		dataID = req.Data.ID
	}

	headers := dto.WebhookHeaders{
		XSignature: ctx.Get("x-signature"),
		XRequestID: ctx.Get("x-request-id"),
		DataID:     dataID,
	}

	if err := c.service.Process(ctx.Context(), headers, &req); err != nil {
		if err == service.ErrInvalidSignature {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	return ctx.JSON(fiber.Map{"received": true})
}

func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
