// handlers/themes.go
package handlers

import (
	"fmt"

	"hall-da-fama/utils"

	"github.com/gofiber/fiber/v2"
)

// ThemeHandler serves the dashboard theme catalog.
type ThemeHandler struct {
	Config *utils.ConfigStore
}

func SetupThemeRoutes(app *fiber.App, config *utils.ConfigStore) {
	h := &ThemeHandler{Config: config}

	group := app.Group("/api/themes")
	group.Get("/config", h.ThemesConfig)
	group.Get("/:themeId", h.Theme)
}

func (h *ThemeHandler) loadThemes() map[string]interface{} {
	themes, err := h.Config.Themes()
	if err != nil || themes == nil {
		return map[string]interface{}{
			"themes":        map[string]interface{}{},
			"default_theme": "natal",
		}
	}
	return themes
}

func (h *ThemeHandler) ThemesConfig(c *fiber.Ctx) error {
	return c.JSON(h.loadThemes())
}

func (h *ThemeHandler) Theme(c *fiber.Ctx) error {
	themeID := c.Params("themeId")
	config := h.loadThemes()

	themes, _ := config["themes"].(map[string]interface{})
	theme, ok := themes[themeID]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Tema %q não encontrado", themeID),
		})
	}

	return c.JSON(fiber.Map{
		"theme_id": themeID,
		"theme":    theme,
	})
}
