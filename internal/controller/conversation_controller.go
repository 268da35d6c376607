package controller

import (
	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/internal/pkg/serverutils"
	"b2b-catalog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Turn(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Post("turn", c.Turn)
	h.Get("session/:id", c.Show)
	h.Delete("session/:id", c.End)
}

func (c *conversationController) Turn(ctx *fiber.Ctx) error {
	var req dto.ConversationTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.conversationService.HandleTurn(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle turn", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	res, err := c.conversationService.ShowSession(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *conversationController) End(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	if err := c.conversationService.EndSession(ctx.Context(), sessionId); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success end session", nil))
}
