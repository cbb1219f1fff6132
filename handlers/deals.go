// handlers/deals.go
package handlers

import (
	"time"

	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

// DealHandler serves the notification polling endpoints the dashboard
// front end uses to play celebration animations exactly once per screen.
type DealHandler struct {
	Notifications *services.NotificationService
}

func SetupDealRoutes(app *fiber.App, notifications *services.NotificationService) {
	h := &DealHandler{Notifications: notifications}

	group := app.Group("/api/deals")
	group.Get("/pending", h.Pending)
	group.Post("/mark-viewed/:dealId", h.MarkViewed)
}

func (h *DealHandler) Pending(c *fiber.Ctx) error {
	clientID := c.Query("client_id")

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "since deve ser um timestamp ISO 8601",
			})
		}
		since = &parsed
	}

	pending, err := h.Notifications.FetchPending(clientID, since, 100)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Erro ao buscar notificações: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"notifications": pending,
		"count":         len(pending),
	})
}

func (h *DealHandler) MarkViewed(c *fiber.Ctx) error {
	dealID := c.Params("dealId")

	clientID := c.Query("client_id")
	if clientID == "" {
		var body struct {
			ClientID string `json:"client_id"`
		}
		if err := c.BodyParser(&body); err == nil {
			clientID = body.ClientID
		}
	}
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client_id é obrigatório",
		})
	}

	updated, err := h.Notifications.MarkViewed(dealID, clientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Erro ao marcar notificação: " + err.Error(),
		})
	}

	if !updated {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Notificação já estava marcada",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}
