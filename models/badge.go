package models

import (
	"time"
)

// Badge categories.
const (
	BadgeCategoryVolume  = "volume"
	BadgeCategoryValor   = "valor"
	BadgeCategoryHorario = "horario"
	BadgeCategorySpeed   = "velocidade"
)

// Badge is a stateless achievement definition detected from a day's
// aggregate. Name may embed an occurrence count (e.g. "Madrugador (2x)").
type Badge struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UnlockedBadge is the history record of a badge detection. At most one row
// exists per (user_type, user_id, badge_code, day); repeat detections on the
// same day max-merge the metric value and replace the context. Rows are
// never deleted by the application.
type UnlockedBadge struct {
	ID            string   `gorm:"primaryKey;type:uuid" json:"id"`
	UserType      UserType `gorm:"type:varchar(8);not null;uniqueIndex:idx_unlocked_badge_day" json:"user_type"`
	UserID        string   `gorm:"not null;uniqueIndex:idx_unlocked_badge_day" json:"user_id"`
	UserName      string   `json:"user_name"`
	BadgeCode     string   `gorm:"not null;uniqueIndex:idx_unlocked_badge_day" json:"badge_code"`
	BadgeName     string   `json:"badge_name"`
	BadgeCategory string   `gorm:"type:varchar(16)" json:"badge_category"`

	// Day is the Brazil-local calendar day (YYYY-MM-DD) the badge was
	// detected on. Part of the uniqueness key so history accrues per day.
	Day string `gorm:"type:varchar(10);not null;uniqueIndex:idx_unlocked_badge_day" json:"day"`

	DealID      *string `json:"deal_id,omitempty"`
	DealName    *string `json:"deal_name,omitempty"`
	MetricValue float64 `json:"metric_value"`
	Pipeline    string  `gorm:"type:varchar(32)" json:"pipeline,omitempty"`
	Source      string  `gorm:"type:varchar(32);default:'hubspot_api'" json:"source"`
	Context     string  `gorm:"type:jsonb" json:"context,omitempty"`

	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}
