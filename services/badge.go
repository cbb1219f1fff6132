package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DetectBadges evaluates the day's aggregate against the static threshold
// table and returns every badge earned. Rules are cumulative: count=10
// yields all four volume badges, not just the top tier.
//
// timestamps must be sorted ascending. revenue <= 0 means "no revenue
// signal" (SDR rankings pass 0).
func DetectBadges(timestamps []time.Time, count int, revenue float64, userType models.UserType) []models.Badge {
	var badges []models.Badge

	// Volume
	if count >= 3 {
		badges = append(badges, models.Badge{Code: "precision_sniper", Name: "Precision Sniper", Category: models.BadgeCategoryVolume})
	}
	if count >= 5 {
		if userType == models.UserTypeSDR {
			badges = append(badges, models.Badge{Code: "master_scheduler", Name: "Master Scheduler", Category: models.BadgeCategoryVolume})
		} else {
			badges = append(badges, models.Badge{Code: "full_pressure", Name: "Full Pressure", Category: models.BadgeCategoryVolume})
		}
	}
	if count >= 7 {
		badges = append(badges, models.Badge{Code: "full_pressure", Name: "Full Pressure", Category: models.BadgeCategoryVolume})
	}
	if count >= 10 {
		badges = append(badges, models.Badge{Code: "overload_closer", Name: "Overload Closer", Category: models.BadgeCategoryVolume})
	}

	// Valor (only roles that carry revenue)
	if revenue > 0 && (userType == models.UserTypeEV || userType == models.UserTypeLDR) {
		if revenue >= 2500 {
			badges = append(badges, models.Badge{Code: "bronze_closer", Name: "Bronze Closer", Category: models.BadgeCategoryValor})
		}
		if revenue >= 5000 {
			badges = append(badges, models.Badge{Code: "silver_closer", Name: "Silver Closer", Category: models.BadgeCategoryValor})
		}
		if revenue >= 10000 {
			badges = append(badges, models.Badge{Code: "gold_closer", Name: "Gold Closer", Category: models.BadgeCategoryValor})
		}
	}

	// Horário
	if len(timestamps) > 0 {
		earlyBird, nightOwl := 0, 0
		for _, ts := range timestamps {
			hour := ts.In(utils.BrazilTZ).Hour()
			if hour < 8 {
				earlyBird++
			}
			if hour >= 21 {
				nightOwl++
			}
		}
		if earlyBird > 0 {
			badges = append(badges, models.Badge{Code: "madrugador", Name: fmt.Sprintf("Madrugador (%dx)", earlyBird), Category: models.BadgeCategoryHorario})
		}
		if nightOwl > 0 {
			badges = append(badges, models.Badge{Code: "coruja", Name: fmt.Sprintf("Coruja (%dx)", nightOwl), Category: models.BadgeCategoryHorario})
		}
	}

	// Velocidade (only roles where back-to-back wins are a thing)
	if (userType == models.UserTypeEV || userType == models.UserTypeSDR) && len(timestamps) > 1 {
		speedDemon, flash := 0, 0
		for i := 1; i < len(timestamps); i++ {
			diff := timestamps[i].Sub(timestamps[i-1])
			if diff < time.Hour {
				speedDemon++
			}
			if diff < 3*time.Hour {
				flash++
			}
		}
		if flash > 0 {
			badges = append(badges, models.Badge{Code: "velocista", Name: fmt.Sprintf("Velocista (%dx)", flash), Category: models.BadgeCategorySpeed})
		}
		if speedDemon > 0 {
			badges = append(badges, models.Badge{Code: "relampago", Name: fmt.Sprintf("Relampago (%dx)", speedDemon), Category: models.BadgeCategorySpeed})
		}
	}

	return badges
}

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// UnlockContext is the JSON blob stored alongside an unlocked badge.
type UnlockContext struct {
	Count      int      `json:"count"`
	Revenue    float64  `json:"revenue,omitempty"`
	Pipeline   string   `json:"pipeline,omitempty"`
	Deals      []string `json:"deals,omitempty"`
	Timestamps []string `json:"timestamps,omitempty"`
}

// SaveUnlockedBadge upserts one detection into unlocked_badges. On conflict
// with the same (user_type, user_id, badge_code, day) it keeps the larger
// metric value and replaces the context. Returns the row id.
func (s *BadgeService) SaveUnlockedBadge(userType models.UserType, userID, userName string, badge models.Badge, metricValue float64, pipeline string, ctx *UnlockContext) (string, error) {
	var contextJSON string
	if ctx != nil {
		raw, err := json.Marshal(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to marshal badge context: %w", err)
		}
		contextJSON = string(raw)
	}

	row := models.UnlockedBadge{
		ID:            uuid.NewString(),
		UserType:      userType,
		UserID:        userID,
		UserName:      userName,
		BadgeCode:     badge.Code,
		BadgeName:     badge.Name,
		BadgeCategory: badge.Category,
		Day:           utils.BrazilDay(time.Now()),
		MetricValue:   metricValue,
		Pipeline:      pipeline,
		Source:        "hubspot_api",
		Context:       contextJSON,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_type"}, {Name: "user_id"}, {Name: "badge_code"}, {Name: "day"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"metric_value": gorm.Expr("CASE WHEN excluded.metric_value > metric_value THEN excluded.metric_value ELSE metric_value END"),
			"context":      gorm.Expr("excluded.context"),
			"badge_name":   gorm.Expr("excluded.badge_name"),
		}),
	}).Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("failed to upsert badge %s for %s: %w", badge.Code, userID, err)
	}

	// On conflict the generated id was discarded; fetch the surviving row.
	var saved models.UnlockedBadge
	if err := s.DB.Where("user_type = ? AND user_id = ? AND badge_code = ? AND day = ?",
		userType, userID, badge.Code, row.Day).First(&saved).Error; err != nil {
		return "", err
	}
	return saved.ID, nil
}

// PersistDetected saves every badge in a ranked entry, best-effort: a dead
// database must never break the ranking response the caller is building.
func (s *BadgeService) PersistDetected(userType models.UserType, userID, userName string, badges []models.Badge, metricValue float64, pipeline string, ctx *UnlockContext) {
	for _, badge := range badges {
		if _, err := s.SaveUnlockedBadge(userType, userID, userName, badge, metricValue, pipeline, ctx); err != nil {
			log.Printf("[AVISO] Failed to save badge %s for %s: %v", badge.Code, userName, err)
		}
	}
}

// GetUserBadges returns a user's unlock history, optionally filtered to
// today / the last 7 days / the last 30 days.
func (s *BadgeService) GetUserBadges(userType models.UserType, userID, dateFilter string) ([]models.UnlockedBadge, error) {
	query := s.DB.Where("user_type = ? AND user_id = ?", userType, userID)

	now := time.Now()
	switch dateFilter {
	case "today":
		query = query.Where("day = ?", utils.BrazilDay(now))
	case "week":
		query = query.Where("unlocked_at >= ?", now.AddDate(0, 0, -7))
	case "month":
		query = query.Where("unlocked_at >= ?", now.AddDate(0, 0, -30))
	}

	var badges []models.UnlockedBadge
	err := query.Order("unlocked_at DESC").Find(&badges).Error
	return badges, err
}
