package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/404-t/lotobot-backend/internal/dto"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/pkg/serverutils"
	"github.com/404-t/lotobot-backend/internal/service"
	"github.com/404-t/lotobot-backend/internal/websocket"
	"github.com/404-t/lotobot-backend/pkg/ai/agent"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	AnalyzeArchive(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
}

type aiController struct {
	agent       *agent.Agent
	chatService service.IChatService
	logger      logger.ILogger
}

func NewAiController(a *agent.Agent, chat service.IChatService, log logger.ILogger) IAiController {
	return &aiController{
		agent:       a,
		chatService: chat,
		logger:      log,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Use("/chat", websocket.UpgradeMiddleware)
	h.Get("/chat", websocket.ChatHandler(c.chatService, c.logger))
	h.Post("/analyze-archive", c.AnalyzeArchive)
	h.Post("/refresh", c.Refresh)
	h.Get("/sessions", c.Sessions)
}

func (c *aiController) AnalyzeArchive(ctx *fiber.Ctx) error {
	var req dto.AnalyzeArchiveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	analysis, err := c.agent.AnalyzeArchive(ctx.Context(), req.ArchiveData)
	if err != nil {
		c.logger.Error("AiController", "Archive analysis failed", map[string]interface{}{"error": err.Error()})
		return fiber.NewError(fiber.StatusBadGateway, "analysis failed")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze archive", dto.AnalyzeArchiveResponse{Analysis: analysis}))
}

// Refresh forces a catalog re-fetch and re-index, bypassing section caches.
func (c *aiController) Refresh(ctx *fiber.Ctx) error {
	c.agent.RefreshCatalog(ctx.Context(), true)

	return ctx.JSON(serverutils.SuccessResponse("Success refresh catalog", dto.RefreshResponse{
		Status:  "ok",
		Records: c.agent.IndexLen(),
	}))
}

func (c *aiController) Sessions(ctx *fiber.Ctx) error {
	live := c.chatService.LiveSessions()

	sessions := make([]dto.LiveSessionResponse, len(live))
	for i, s := range live {
		sessions[i] = dto.LiveSessionResponse{
			Id:          s.ID,
			ConnectedAt: s.ConnectedAt,
			Turns:       s.Turns,
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", dto.LiveSessionsResponse{
		Count:    len(sessions),
		Sessions: sessions,
	}))
}
