// handlers/rankings.go
package handlers

import (
	"time"

	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

// RankingHandler serves the top-5 rankings computed from the local mirror
// tables, the dashboard's fallback when realtime CRM queries are slow.
type RankingHandler struct {
	Rankings *services.RankingService
}

func SetupRankingRoutes(app *fiber.App, rankings *services.RankingService) {
	h := &RankingHandler{Rankings: rankings}

	app.Get("/api/top-evs-today", h.TopEVsToday)
	app.Get("/api/top-sdrs-today", h.TopSDRsToday)
	app.Get("/api/top-ldrs-today", h.TopLDRsToday)
}

func rankingError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (h *RankingHandler) TopEVsToday(c *fiber.Ctx) error {
	ranking, err := h.Rankings.TopEVsToday()
	if err != nil {
		return rankingError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"data":      ranking,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *RankingHandler) TopSDRsToday(c *fiber.Ctx) error {
	ranking, err := h.Rankings.TopSDRsToday(c.Query("pipeline"))
	if err != nil {
		return rankingError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"data":      ranking,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *RankingHandler) TopLDRsToday(c *fiber.Ctx) error {
	ranking, err := h.Rankings.TopLDRsToday()
	if err != nil {
		return rankingError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"data":      ranking,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
