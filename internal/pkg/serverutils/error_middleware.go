// FILE: internal/pkg/serverutils/error_middleware.go
package serverutils

import (
	"errors"

	"escribanos-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware recovers handler errors into the standard envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		log.Error("http", "request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
