// handlers/webhooks.go
package handlers

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"hall-da-fama/middleware"
	"hall-da-fama/models"
	"hall-da-fama/services"

	"github.com/gofiber/fiber/v2"
)

const webhookLogLimit = 50

// webhookLogEntry is one received delivery, kept in memory for debugging.
type webhookLogEntry struct {
	Timestamp   string                 `json:"timestamp"`
	Payload     map[string]interface{} `json:"payload"`
	Method      string                 `json:"method"`
	ContentType string                 `json:"content_type"`
	RemoteAddr  string                 `json:"remote_addr"`
}

// WebhookHandler receives deal-won deliveries from the CRM workflow,
// persists them with dedupe and fires the WhatsApp celebration.
type WebhookHandler struct {
	Notifications *services.NotificationService
	Celebration   *services.CelebrationService
	WhatsApp      *services.WhatsAppClient

	logMu sync.Mutex
	logs  []webhookLogEntry
}

func SetupWebhookRoutes(app *fiber.App, notifications *services.NotificationService, celebration *services.CelebrationService, whatsapp *services.WhatsAppClient) {
	h := &WebhookHandler{
		Notifications: notifications,
		Celebration:   celebration,
		WhatsApp:      whatsapp,
	}

	group := app.Group("/api/webhook")
	group.Post("/deal-won", middleware.WebhookAuthMiddleware(), h.DealWon)
	group.Post("/test", h.DealWon)
	group.Get("/logs", h.Logs)
}

func (h *WebhookHandler) appendLog(entry webhookLogEntry) {
	h.logMu.Lock()
	defer h.logMu.Unlock()
	h.logs = append(h.logs, entry)
	if len(h.logs) > webhookLogLimit {
		h.logs = h.logs[1:]
	}
}

func (h *WebhookHandler) DealWon(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil || len(payload) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payload vazio",
		})
	}

	h.appendLog(webhookLogEntry{
		Timestamp:   time.Now().Format(time.RFC3339),
		Payload:     payload,
		Method:      c.Method(),
		ContentType: c.Get("Content-Type"),
		RemoteAddr:  c.IP(),
	})

	notification, err := services.ParseDealWonPayload(payload)
	if err != nil {
		if errors.Is(err, services.ErrMissingDealID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "dealId é obrigatório",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	inserted, err := h.Notifications.Insert(notification)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Erro ao processar webhook: " + err.Error(),
		})
	}

	if !inserted {
		log.Printf("[AVISO] Deal %s já foi processado anteriormente. Ignorando duplicado.", notification.ID)
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Deal já processado anteriormente (duplicado ignorado)",
			"dealId":  notification.ID,
		})
	}

	log.Printf("[OK] Notificação adicionada: Deal %s - %s", notification.ID, notification.DealName)

	// Celebration goes out in the background so the CRM workflow gets its
	// ack immediately.
	go h.celebrate(notification)

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Notificação recebida com sucesso",
		"dealId":  notification.ID,
	})
}

func (h *WebhookHandler) celebrate(notification *models.DealNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	image, err := h.Celebration.RenderImage(ctx, notification)
	if err != nil {
		log.Printf("[AVISO] Erro ao gerar imagem de celebração: %v", err)
		image = nil
	}

	if err := h.WhatsApp.SendDealCelebration(ctx, notification, image); err != nil {
		log.Printf("❌ Erro ao enviar notificação WhatsApp: %v", err)
		return
	}

	h.Celebration.Archive(ctx, notification, image)
}

func (h *WebhookHandler) Logs(c *fiber.Ctx) error {
	h.logMu.Lock()
	logs := make([]webhookLogEntry, len(h.logs))
	copy(logs, h.logs)
	h.logMu.Unlock()

	notifications, err := h.Notifications.FetchPending("", nil, 100)
	if err != nil {
		log.Printf("[AVISO] Falha ao buscar notificações para os logs: %v", err)
		notifications = nil
	}

	return c.JSON(fiber.Map{
		"logs":                logs,
		"count":               len(logs),
		"notifications":       notifications,
		"notifications_count": len(notifications),
	})
}
