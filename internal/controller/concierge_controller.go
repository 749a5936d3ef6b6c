// FILE: internal/controller/concierge_controller.go
package controller

import (
	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConciergeController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
}

type conciergeController struct {
	service service.IConciergeService
}

func NewConciergeController(service service.IConciergeService) IConciergeController {
	return &conciergeController{service: service}
}

func (c *conciergeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/concierge")
	h.Post("/ask", c.Ask)
	h.Get("/sessions/:id/history", c.GetHistory)
	h.Delete("/sessions/:id", c.EndSession)
}

func (c *conciergeController) Ask(ctx *fiber.Ctx) error {
	var request dto.AskRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if request.SessionId == "" || request.Text == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "session_id and text are required"))
	}

	res, err := c.service.Handle(ctx.Context(), &request)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *conciergeController) GetHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	res, err := c.service.GetHistory(ctx.Context(), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}

func (c *conciergeController) EndSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	if err := c.service.EndSession(ctx.Context(), sessionId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
