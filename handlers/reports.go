// handlers/reports.go
package handlers

import (
	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler exposes a manual trigger for the daily MVP report, used
// when the 20h job needs to be re-fired.
type ReportHandler struct {
	Reports *services.ReportService
}

func SetupReportRoutes(app *fiber.App, reports *services.ReportService) {
	h := &ReportHandler{Reports: reports}
	app.Post("/api/send-daily-mvp-report", h.SendDailyMVP)
}

func (h *ReportHandler) SendDailyMVP(c *fiber.Ctx) error {
	if err := h.Reports.SendDailyMVPReport(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Relatório diário de MVPs enviado",
	})
}
