// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message}
}

// ErrorHandlerMiddleware catches panics and unhandled errors so the
// transport always answers with JSON.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %v", r)
				_ = ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "internal server error"))
			}
		}()
		return ctx.Next()
	}
}
