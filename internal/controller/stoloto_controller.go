package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/404-t/lotobot-backend/internal/config"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/pkg/serverutils"
	"github.com/404-t/lotobot-backend/pkg/cache"
	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

type IStolotoController interface {
	RegisterRoutes(r fiber.Router)
	Main(ctx *fiber.Ctx) error
	Tabs(ctx *fiber.Ctx) error
	Packets(ctx *fiber.Ctx) error
	Details(ctx *fiber.Ctx) error
}

type stolotoController struct {
	client  *stoloto.Client
	store   *cache.Store
	cfg     *config.Config
	logger  logger.ILogger
	main    *stoloto.MainSection
	tabs    *stoloto.TabsSection
	packets *stoloto.PacketsSection
}

func NewStolotoController(
	client *stoloto.Client,
	store *cache.Store,
	cfg *config.Config,
	log logger.ILogger,
	main *stoloto.MainSection,
	tabs *stoloto.TabsSection,
	packets *stoloto.PacketsSection,
) IStolotoController {
	return &stolotoController{
		client:  client,
		store:   store,
		cfg:     cfg,
		logger:  log,
		main:    main,
		tabs:    tabs,
		packets: packets,
	}
}

func (c *stolotoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/stoloto")
	h.Get("/main", c.Main)
	h.Get("/tabs", c.Tabs)
	h.Get("/packets", c.Packets)
	h.Get("/details", c.Details)
}

func (c *stolotoController) Main(ctx *fiber.Ctx) error {
	res, err := stoloto.Fetch(ctx.Context(), c.store, c.logger, c.main, forceRefresh(ctx))
	if err != nil {
		return mapGatewayError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch main categories", res))
}

func (c *stolotoController) Tabs(ctx *fiber.Ctx) error {
	res, err := stoloto.Fetch(ctx.Context(), c.store, c.logger, c.tabs, forceRefresh(ctx))
	if err != nil {
		return mapGatewayError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch tabs", res))
}

func (c *stolotoController) Packets(ctx *fiber.Ctx) error {
	res, err := stoloto.Fetch(ctx.Context(), c.store, c.logger, c.packets, forceRefresh(ctx))
	if err != nil {
		return mapGatewayError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch packets", res))
}

// Details serves archived draws for one lottery. The section is built per
// request because lottery and count parameterize both the URL and cache key.
func (c *stolotoController) Details(ctx *fiber.Ctx) error {
	lottery := ctx.Query("lottery", "")
	count := ctx.QueryInt("count", 0)

	section := stoloto.NewDetailsSection(c.client, c.cfg.Stoloto.MobileBaseURL, c.cfg.Stoloto.SectionTTL, lottery, count)

	res, err := stoloto.Fetch(ctx.Context(), c.store, c.logger, section, forceRefresh(ctx))
	if err != nil {
		return mapGatewayError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch draw details", res))
}

func forceRefresh(ctx *fiber.Ctx) bool {
	return ctx.QueryBool("force_refresh", false)
}

func mapGatewayError(err error) error {
	var gwErr *stoloto.GatewayError
	if errors.As(err, &gwErr) {
		return fiber.NewError(fiber.StatusBadGateway, "upstream request failed")
	}
	return err
}
