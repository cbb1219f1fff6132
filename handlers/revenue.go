// handlers/revenue.go
package handlers

import (
	"hall-da-fama/services"
	"hall-da-fama/utils"

	"github.com/gofiber/fiber/v2"
)

// RevenueHandler serves the revenue gauges, the pipeline forecast and the
// operator config endpoints that adjust them.
type RevenueHandler struct {
	Revenue *services.RevenueService
	Cache   *services.Cache
	Config  *utils.ConfigStore
}

func SetupRevenueRoutes(app *fiber.App, revenue *services.RevenueService, cache *services.Cache, config *utils.ConfigStore) {
	h := &RevenueHandler{Revenue: revenue, Cache: cache, Config: config}

	group := app.Group("/api/revenue")
	group.Get("/", h.CurrentMonth)
	group.Get("/today", h.Today)
	group.Get("/until-yesterday", h.UntilYesterday)
	group.Get("/manual-revenue/config", h.GetManualRevenue)
	group.Post("/manual-revenue/config", h.SetManualRevenue)
	group.Get("/manual-goal/config", h.GetManualGoal)
	group.Post("/manual-goal/config", h.SetManualGoal)
	group.Get("/celebration-theme/config", h.GetCelebrationTheme)
	group.Post("/celebration-theme/config", h.SetCelebrationTheme)

	app.Get("/api/pipeline/today", h.PipelineToday)
}

func (h *RevenueHandler) serveCached(c *fiber.Ctx, cacheKey string, compute func() (interface{}, error)) error {
	useCache := c.Query("use_cache") == "true"

	if useCache {
		if cached, ok := h.Cache.Get(cacheKey); ok {
			c.Set("X-Cache", "HIT")
			return c.JSON(cached)
		}
	}

	data, err := compute()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Erro ao calcular receita",
			"cause": err.Error(),
		})
	}

	if useCache {
		h.Cache.Set(cacheKey, data)
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(data)
}

func (h *RevenueHandler) CurrentMonth(c *fiber.Ctx) error {
	return h.serveCached(c, services.CacheKeyRevenue, func() (interface{}, error) {
		return h.Revenue.CurrentMonthRevenue()
	})
}

func (h *RevenueHandler) Today(c *fiber.Ctx) error {
	return h.serveCached(c, services.CacheKeyRevenueToday, func() (interface{}, error) {
		return h.Revenue.TodayRevenue()
	})
}

func (h *RevenueHandler) UntilYesterday(c *fiber.Ctx) error {
	data, err := h.Revenue.RevenueUntilYesterday()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Erro ao calcular receita",
			"cause": err.Error(),
		})
	}
	return c.JSON(data)
}

func (h *RevenueHandler) PipelineToday(c *fiber.Ctx) error {
	return h.serveCached(c, services.CacheKeyPipelineToday, func() (interface{}, error) {
		return h.Revenue.PipelineToday()
	})
}

func (h *RevenueHandler) GetManualRevenue(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"config": h.Config.ManualRevenue(),
	})
}

func (h *RevenueHandler) SetManualRevenue(c *fiber.Ctx) error {
	var config utils.ManualRevenueConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payload inválido",
			"cause": err.Error(),
		})
	}
	if err := h.Config.SetManualRevenue(config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// stale revenue must not survive a config change
	h.Cache.Invalidate(services.CacheKeyRevenue)
	h.Cache.Invalidate(services.CacheKeyRevenueToday)

	return c.JSON(fiber.Map{
		"status": "success",
		"config": h.Config.ManualRevenue(),
	})
}

func (h *RevenueHandler) GetManualGoal(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"goal":   h.Config.ManualGoal(0),
	})
}

func (h *RevenueHandler) SetManualGoal(c *fiber.Ctx) error {
	var config utils.ManualGoalConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payload inválido",
			"cause": err.Error(),
		})
	}
	if err := h.Config.SetManualGoal(config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.Cache.Invalidate(services.CacheKeyRevenue)

	return c.JSON(fiber.Map{
		"status": "success",
	})
}

func (h *RevenueHandler) GetCelebrationTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"config": h.Config.CelebrationTheme(),
	})
}

func (h *RevenueHandler) SetCelebrationTheme(c *fiber.Ctx) error {
	var config utils.CelebrationThemeConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payload inválido",
			"cause": err.Error(),
		})
	}
	if config.ActiveTheme == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "activeTheme é obrigatório",
		})
	}
	if err := h.Config.SetCelebrationTheme(config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"config": h.Config.CelebrationTheme(),
	})
}
