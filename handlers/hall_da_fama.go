// handlers/hall_da_fama.go
package handlers

import (
	"errors"

	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

// HallHandler serves the realtime Hall da Fama rankings. With use_cache=true
// the response comes from the worker-warmed cache and carries an X-Cache
// header; without it the CRM is queried inline.
type HallHandler struct {
	Hall  *services.HallService
	Cache *services.Cache
}

func SetupHallDaFamaRoutes(app *fiber.App, hall *services.HallService, cache *services.Cache) {
	h := &HallHandler{Hall: hall, Cache: cache}

	group := app.Group("/api/hall-da-fama")
	group.Get("/evs-realtime", h.EVsRealtime)
	group.Get("/sdrs-realtime", h.SDRsRealtime)
	group.Get("/ldrs-realtime", h.LDRsRealtime)
}

func (h *HallHandler) serveRanking(c *fiber.Ctx, cacheKey string, compute func() (*services.HallResult, error)) error {
	useCache := c.Query("use_cache") == "true"

	if useCache {
		if cached, ok := h.Cache.Get(cacheKey); ok {
			c.Set("X-Cache", "HIT")
			return c.JSON(cached)
		}
	}

	result, err := compute()
	if err != nil {
		if errors.Is(err, services.ErrInvalidPipeline) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Erro ao buscar ranking",
			"cause": err.Error(),
		})
	}

	if useCache {
		h.Cache.Set(cacheKey, result)
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(result)
}

func (h *HallHandler) EVsRealtime(c *fiber.Ctx) error {
	return h.serveRanking(c, services.CacheKeyHallEVs, func() (*services.HallResult, error) {
		return h.Hall.TopEVsToday(c.Context())
	})
}

func (h *HallHandler) SDRsRealtime(c *fiber.Ctx) error {
	pipeline := c.Query("pipeline", services.PipelineNew)

	cacheKey := services.CacheKeyHallSDRsNew
	if pipeline == services.PipelineExpansao {
		cacheKey = services.CacheKeyHallSDRsExp
	}

	return h.serveRanking(c, cacheKey, func() (*services.HallResult, error) {
		return h.Hall.TopSDRsToday(c.Context(), pipeline)
	})
}

func (h *HallHandler) LDRsRealtime(c *fiber.Ctx) error {
	return h.serveRanking(c, services.CacheKeyHallLDRs, func() (*services.HallResult, error) {
		return h.Hall.TopLDRsToday(c.Context())
	})
}
