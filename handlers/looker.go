// handlers/looker.go
package handlers

import (
	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

// LookerHandler serves the BI gauge reading.
type LookerHandler struct {
	Looker *services.LookerService
}

func SetupLookerRoutes(app *fiber.App, looker *services.LookerService) {
	h := &LookerHandler{Looker: looker}
	app.Get("/api/looker/gauge-value", h.GaugeValue)
}

func (h *LookerHandler) GaugeValue(c *fiber.Ctx) error {
	force := c.Query("force_refresh") == "true"

	data, err := h.Looker.GaugeValue(c.Context(), force)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Não foi possível obter os dados do Looker",
			"cause": err.Error(),
		})
	}
	return c.JSON(data)
}
