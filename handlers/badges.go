// handlers/badges.go
package handlers

import (
	"time"

	"hall-da-fama/models"
	"hall-da-fama/services"
	"hall-da-fama/utils"

	"github.com/gofiber/fiber/v2"
)

// BadgeHandler serves the badge history, all-time records and weekly MVPs.
type BadgeHandler struct {
	Badges *services.BadgeService
}

func SetupBadgeRoutes(app *fiber.App, badges *services.BadgeService) {
	h := &BadgeHandler{Badges: badges}

	app.Get("/api/badges/user/:userType/:userId", h.UserBadges)
	app.Get("/api/badges/stats", h.Stats)
	app.Get("/api/recordes", h.Records)
	app.Get("/api/mvp-semana", h.WeeklyMVP)
}

func (h *BadgeHandler) UserBadges(c *fiber.Ctx) error {
	userType := models.UserType(c.Params("userType"))
	userID := c.Params("userId")
	dateFilter := c.Query("filter")

	badges, err := h.Badges.GetUserBadges(userType, userID, dateFilter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"userType": userType,
		"userId":   userID,
		"userName": utils.GetAnalystName(userID),
		"filter":   dateFilter,
		"badges":   badges,
		"total":    len(badges),
	})
}

func (h *BadgeHandler) Records(c *fiber.Ctx) error {
	records, err := h.Badges.GetRecords()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"recordes":  records,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *BadgeHandler) WeeklyMVP(c *fiber.Ctx) error {
	mvps, err := h.Badges.GetWeeklyMVPs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"mvps":      mvps,
		"periodo":   "últimos 7 dias",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *BadgeHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Badges.GetBadgeStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":    "success",
		"stats":     stats,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
