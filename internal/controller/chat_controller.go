package controller

import (
	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/pkg/serverutils"
	"cargo-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	GetWindowSize(ctx *fiber.Ctx) error
	SetWindowSize(ctx *fiber.Ctx) error
	SetDefaultWindowSize(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
	h.Get(":sessionId/history", c.History)
	h.Get(":sessionId/window", c.GetWindowSize)
	h.Put(":sessionId/window", c.SetWindowSize)
	h.Put("window-default", c.SetDefaultWindowSize)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	req.UserAgent = ctx.Get(fiber.HeaderUserAgent)
	req.IpAddress = ctx.IP()

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to process question"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Answer generated", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Session ID is required"))
	}

	res := c.chatService.GetHistory(sessionId)
	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

func (c *chatController) GetWindowSize(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Session ID is required"))
	}

	res := c.chatService.GetWindowSize(sessionId)
	return ctx.JSON(serverutils.SuccessResponse("Conversation window size", res))
}

func (c *chatController) SetWindowSize(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Session ID is required"))
	}

	var req dto.SetWindowSizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res := c.chatService.SetWindowSize(sessionId, req.WindowSize)
	return ctx.JSON(serverutils.SuccessResponse("Conversation window size updated", res))
}

func (c *chatController) SetDefaultWindowSize(ctx *fiber.Ctx) error {
	var req dto.SetWindowSizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res := c.chatService.SetDefaultWindowSize(req.WindowSize)
	return ctx.JSON(serverutils.SuccessResponse("Default conversation window size updated", res))
}
