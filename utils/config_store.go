// utils/config_store.go
package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ManualRevenueConfig lets operators correct the displayed revenue when a
// deal is booked outside the CRM, and toggle renewal-pipeline inclusion.
type ManualRevenueConfig struct {
	Enabled                bool    `json:"enabled"`
	AdditionalValue        float64 `json:"additionalValue"`
	IncludeRenewalPipeline bool    `json:"includeRenewalPipeline"`
	Description            string  `json:"description,omitempty"`
	UpdatedAt              string  `json:"updatedAt,omitempty"`
}

// ManualGoalConfig overrides the monthly revenue goal shown on the gauge.
type ManualGoalConfig struct {
	Enabled   bool    `json:"enabled"`
	Goal      float64 `json:"goal"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// CelebrationThemeConfig selects which celebration theme the dashboard
// plays when a deal-won notification arrives.
type CelebrationThemeConfig struct {
	ActiveTheme string `json:"activeTheme"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// ConfigStore persists the small operator-editable configs as JSON files
// under the data directory. Reads tolerate missing files and return zero
// values; writes are atomic via rename.
type ConfigStore struct {
	mu  sync.RWMutex
	dir string
}

func NewConfigStore() *ConfigStore {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return &ConfigStore{dir: dir}
}

func (c *ConfigStore) path(name string) string {
	return filepath.Join(c.dir, name)
}

func (c *ConfigStore) read(name string, target interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, err := os.ReadFile(c.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (c *ConfigStore) write(name string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	tmp := c.path(name + ".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, c.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// ManualRevenue returns the current manual revenue config. A missing or
// broken file means no adjustment.
func (c *ConfigStore) ManualRevenue() ManualRevenueConfig {
	var config ManualRevenueConfig
	_ = c.read("manual_revenue_config.json", &config)
	return config
}

func (c *ConfigStore) SetManualRevenue(config ManualRevenueConfig) error {
	config.UpdatedAt = time.Now().In(BrazilTZ).Format(time.RFC3339)
	return c.write("manual_revenue_config.json", config)
}

// ManualGoal returns the configured goal, or fallback when the override is
// off or unset.
func (c *ConfigStore) ManualGoal(fallback float64) float64 {
	var config ManualGoalConfig
	_ = c.read("manual_goal_config.json", &config)
	if config.Enabled && config.Goal > 0 {
		return config.Goal
	}
	return fallback
}

func (c *ConfigStore) SetManualGoal(config ManualGoalConfig) error {
	config.UpdatedAt = time.Now().In(BrazilTZ).Format(time.RFC3339)
	return c.write("manual_goal_config.json", config)
}

// CelebrationTheme returns the active celebration theme, defaulting to the
// standard confetti theme.
func (c *ConfigStore) CelebrationTheme() CelebrationThemeConfig {
	config := CelebrationThemeConfig{ActiveTheme: "padrao"}
	_ = c.read("celebration_theme_config.json", &config)
	if config.ActiveTheme == "" {
		config.ActiveTheme = "padrao"
	}
	return config
}

func (c *ConfigStore) SetCelebrationTheme(config CelebrationThemeConfig) error {
	config.UpdatedAt = time.Now().In(BrazilTZ).Format(time.RFC3339)
	return c.write("celebration_theme_config.json", config)
}

// Themes returns the raw theme catalog as stored, or an empty object when
// none was configured yet.
func (c *ConfigStore) Themes() (map[string]interface{}, error) {
	themes := map[string]interface{}{}
	if err := c.read("themes_config.json", &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

func (c *ConfigStore) SetThemes(themes map[string]interface{}) error {
	return c.write("themes_config.json", themes)
}
