// FILE: internal/controller/cron_controller.go
package controller

import (
	"crypto/subtle"

	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICronController interface {
	RegisterRoutes(r fiber.Router)
	VerifySubscriptions(ctx *fiber.Ctx) error
}

type cronController struct {
	service service.ISweepService
	secret  string
	log     logger.ILogger
}

func NewCronController(service service.ISweepService, secret string, log logger.ILogger) ICronController {
	return &cronController{service: service, secret: secret, log: log}
}

func (c *cronController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cron")
	h.Get("/verificar-suscripciones", c.VerifySubscriptions)
}

func (c *cronController) VerifySubscriptions(ctx *fiber.Ctx) error {
	auth := ctx.Get("Authorization")
	expected := "Bearer " + c.secret
	if c.secret == "" || subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) != 1 {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	summary, err := c.service.VerifySubscriptions(ctx.Context())
	if err != nil {
		c.log.Error("cron", "subscription verification failed", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error al verificar suscripciones"})
	}

	return ctx.JSON(summary)
}
