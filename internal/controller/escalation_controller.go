package controller

import (
	"os"

	"cargo-chatbot-be/internal/pkg/logger"
	"cargo-chatbot-be/internal/pkg/serverutils"
	internalWS "cargo-chatbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IEscalationController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type escalationController struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewEscalationController(hub *internalWS.Hub, log logger.ILogger) IEscalationController {
	return &escalationController{
		hub:    hub,
		logger: log,
	}
}

func (c *escalationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/escalation/v1")
	h.Get("ws", c.ServeWs)
	h.Get("agents", serverutils.JwtMiddleware, c.AgentCount)
}

// ServeWs upgrades a support agent connection onto the escalation feed.
func (c *escalationController) ServeWs(ctx *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard)
	tokenStr := ctx.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		c.logger.Warn("EscalationController", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	agentIDStr, ok := claims["user_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	agentID, err := uuid.Parse(agentIDStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid agent ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("EscalationController", "Starting WebSocket session", map[string]interface{}{"agent_id": agentID})
			internalWS.ServeWs(c.hub, conn, agentID)
			c.logger.Info("EscalationController", "WebSocket session ended", map[string]interface{}{"agent_id": agentID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

// AgentCount reports how many agents are listening on the feed.
func (c *escalationController) AgentCount(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Connected agents", fiber.Map{
		"agents": c.hub.AgentCount(),
	}))
}
