package controller

import (
	"fmt"

	"dimensa-be/internal/dto"
	"dimensa-be/internal/pkg/serverutils"
	"dimensa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const HeaderSessionId = "X-Session-Id"

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type generationController struct {
	service service.IGenerationService
}

func NewGenerationController(service service.IGenerationService) IGenerationController {
	return &generationController{service: service}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate", c.Generate)
	r.Get("/health", c.Health)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("Invalid request body"))
	}
	if req.SessionId == "" {
		req.SessionId = ctx.Get(HeaderSessionId)
	}

	res, err := c.service.Generate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	ctx.Set(HeaderSessionId, res.SessionId)
	ctx.Set("X-Run-Id", res.RunId)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", res.FileName))
	ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return ctx.Status(fiber.StatusOK).Send(res.Model)
}

func (c *generationController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any]("", nil))
}
