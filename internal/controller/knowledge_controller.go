// FILE: internal/controller/knowledge_controller.go
package controller

import (
	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
}

func NewKnowledgeController(service service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{service: service}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge")
	h.Post("/", c.Ingest)
	h.Get("/", c.List)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var request dto.IngestKnowledgeRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if request.Content == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "content is required"))
	}

	res, err := c.service.Ingest(ctx.Context(), &request)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusAccepted).JSON(res)
}

func (c *knowledgeController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	res, err := c.service.List(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(res)
}
