package controller

import (
	"cargo-chatbot-be/internal/pkg/serverutils"
	"cargo-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router)
}

type analyticsController struct {
	analyticsService service.IAnalyticsService
}

func NewAnalyticsController(analyticsService service.IAnalyticsService) IAnalyticsController {
	return &analyticsController{
		analyticsService: analyticsService,
	}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analytics/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("summary", c.Summary)
	h.Get("conversation-quality", c.Quality)
	h.Get("follow-up-patterns", c.FollowUpPatterns)
	h.Get("user-retention", c.Retention)
	h.Get("top-topics", c.TopTopics)
	h.Get("conversation-windows", c.WindowEffectiveness)
	h.Get("human-assistance", c.HumanAssistanceQuestions)
	h.Get("session/:sessionId", c.SessionStats)
	h.Get("session/:sessionId/recommended-window", c.RecommendedWindow)
}

const unavailableMessage = "Analytics service is not available"

func (c *analyticsController) Summary(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 7)

	summary, err := c.analyticsService.Summary(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve analytics summary"))
	}
	if summary == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Analytics summary", summary))
}

func (c *analyticsController) SessionStats(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Session ID is required"))
	}

	stats, err := c.analyticsService.SessionStats(ctx.Context(), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve session analytics"))
	}
	if stats == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Session analytics", stats))
}

func (c *analyticsController) Quality(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 7)

	metrics, err := c.analyticsService.Quality(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve conversation quality metrics"))
	}
	if metrics == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversation quality metrics", metrics))
}

func (c *analyticsController) FollowUpPatterns(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 10)

	patterns, err := c.analyticsService.FollowUpPatterns(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve follow-up patterns"))
	}
	if patterns == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Follow-up patterns", patterns))
}

func (c *analyticsController) Retention(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)

	retention, err := c.analyticsService.Retention(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve user retention data"))
	}
	if retention == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("User retention", retention))
}

func (c *analyticsController) TopTopics(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)
	limit := ctx.QueryInt("limit", 10)

	topics, err := c.analyticsService.TopTopics(ctx.Context(), days, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve top topics"))
	}
	if topics == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Top topics", topics))
}

func (c *analyticsController) WindowEffectiveness(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", 30)

	analysis, err := c.analyticsService.WindowEffectiveness(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to analyze conversation windows"))
	}
	if analysis == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversation window analysis", analysis))
}

func (c *analyticsController) RecommendedWindow(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Session ID is required"))
	}

	recommendation, err := c.analyticsService.RecommendedWindow(ctx.Context(), sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to compute recommended window"))
	}
	if recommendation == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Recommended window size", recommendation))
}

func (c *analyticsController) HumanAssistanceQuestions(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 10)

	questions, err := c.analyticsService.HumanAssistanceQuestions(ctx.Context(), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to retrieve human assistance questions"))
	}
	if questions == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, unavailableMessage))
	}

	return ctx.JSON(serverutils.SuccessResponse("Human assistance questions", questions))
}
