// services/records.go
package services

import (
	"time"

	"hall-da-fama/utils"
)

// RecordEntry is one all-time record computed from the badge history.
type RecordEntry struct {
	Date     string  `json:"data,omitempty"`
	UserName string  `json:"usuario"`
	DealName string  `json:"deal,omitempty"`
	Value    float64 `json:"valor,omitempty"`
	Total    int64   `json:"total,omitempty"`
}

// WeeklyMVP is the strongest performer of the last 7 days for one role.
type WeeklyMVP struct {
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName"`
	Pipeline     string  `json:"pipeline,omitempty"`
	TotalRevenue float64 `json:"totalRevenue,omitempty"`
	ActiveDays   int64   `json:"diasAtivos"`
	TotalBadges  int64   `json:"totalBadges"`
}

// GetRecords mines the unlocked-badge history for all-time records: best
// revenue day, biggest single deal, most deals in one day.
func (s *BadgeService) GetRecords() (map[string]RecordEntry, error) {
	records := make(map[string]RecordEntry)

	var bestDay struct {
		Day      string
		UserName string
		Total    float64
	}
	err := s.DB.Raw(`
		SELECT day, user_name, SUM(metric_value) AS total
		FROM unlocked_badges
		WHERE badge_category = 'valor' AND user_type = 'EV'
		GROUP BY day, user_name
		ORDER BY total DESC LIMIT 1
	`).Scan(&bestDay).Error
	if err != nil {
		return nil, err
	}
	if bestDay.UserName != "" {
		records["maior_dia"] = RecordEntry{Date: bestDay.Day, UserName: bestDay.UserName, Value: bestDay.Total}
	}

	var bestDeal struct {
		UserName    string
		DealName    *string
		MetricValue float64
		Day         string
	}
	err = s.DB.Raw(`
		SELECT user_name, deal_name, metric_value, day
		FROM unlocked_badges
		WHERE badge_category = 'valor'
		ORDER BY metric_value DESC LIMIT 1
	`).Scan(&bestDeal).Error
	if err != nil {
		return nil, err
	}
	if bestDeal.UserName != "" {
		entry := RecordEntry{UserName: bestDeal.UserName, Value: bestDeal.MetricValue, Date: bestDeal.Day}
		if bestDeal.DealName != nil {
			entry.DealName = *bestDeal.DealName
		}
		records["maior_deal"] = entry
	}

	var mostDeals struct {
		Day      string
		UserName string
		Total    int64
	}
	err = s.DB.Raw(`
		SELECT day, user_name, COUNT(*) AS total
		FROM unlocked_badges
		WHERE badge_category = 'volume'
		GROUP BY day, user_name
		ORDER BY total DESC LIMIT 1
	`).Scan(&mostDeals).Error
	if err != nil {
		return nil, err
	}
	if mostDeals.UserName != "" {
		records["mais_deals_dia"] = RecordEntry{Date: mostDeals.Day, UserName: mostDeals.UserName, Total: mostDeals.Total}
	}

	return records, nil
}

// BadgeStats is the dashboard's badge activity summary.
type BadgeStats struct {
	BadgesToday      int64            `json:"badges_hoje"`
	BadgesWeek       int64            `json:"badges_semana"`
	ByCategoryToday  map[string]int64 `json:"por_categoria_hoje"`
	TopUsersToday    []BadgeTopUser   `json:"top_usuarios_hoje"`
}

type BadgeTopUser struct {
	UserName    string `json:"user_name"`
	UserType    string `json:"user_type"`
	TotalBadges int64  `json:"total_badges"`
}

// GetBadgeStats summarizes today's and the week's badge activity.
func (s *BadgeService) GetBadgeStats() (*BadgeStats, error) {
	stats := &BadgeStats{ByCategoryToday: map[string]int64{}}
	today := utils.BrazilDay(time.Now())
	weekAgo := time.Now().AddDate(0, 0, -7)

	if err := s.DB.Raw(`SELECT COUNT(*) FROM unlocked_badges WHERE day = ?`, today).
		Scan(&stats.BadgesToday).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Raw(`SELECT COUNT(*) FROM unlocked_badges WHERE unlocked_at >= ?`, weekAgo).
		Scan(&stats.BadgesWeek).Error; err != nil {
		return nil, err
	}

	var categories []struct {
		BadgeCategory string
		Total         int64
	}
	err := s.DB.Raw(`
		SELECT badge_category, COUNT(*) AS total
		FROM unlocked_badges
		WHERE day = ?
		GROUP BY badge_category
		ORDER BY total DESC
	`, today).Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	for _, row := range categories {
		stats.ByCategoryToday[row.BadgeCategory] = row.Total
	}

	err = s.DB.Raw(`
		SELECT user_name, user_type, COUNT(*) AS total_badges
		FROM unlocked_badges
		WHERE day = ?
		GROUP BY user_name, user_type
		ORDER BY total_badges DESC
		LIMIT 3
	`, today).Scan(&stats.TopUsersToday).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetWeeklyMVPs returns the MVP of the last 7 days per role: EVs and LDRs
// by summed revenue, SDRs by badge count.
func (s *BadgeService) GetWeeklyMVPs() (map[string]WeeklyMVP, error) {
	mvps := make(map[string]WeeklyMVP)
	since := time.Now().AddDate(0, 0, -7)

	for _, role := range []string{"EV", "LDR"} {
		var row WeeklyMVP
		err := s.DB.Raw(`
			SELECT user_id, user_name,
				SUM(metric_value) AS total_revenue,
				COUNT(DISTINCT day) AS active_days,
				COUNT(*) AS total_badges
			FROM unlocked_badges
			WHERE user_type = ? AND unlocked_at >= ? AND badge_category = 'valor'
			GROUP BY user_id, user_name
			ORDER BY total_revenue DESC LIMIT 1
		`, role, since).Scan(&row).Error
		if err != nil {
			return nil, err
		}
		if row.UserID != "" {
			mvps[role] = row
		}
	}

	var sdr WeeklyMVP
	err := s.DB.Raw(`
		SELECT user_id, user_name, pipeline,
			COUNT(*) AS total_badges,
			COUNT(DISTINCT day) AS active_days
		FROM unlocked_badges
		WHERE user_type = 'SDR' AND unlocked_at >= ?
		GROUP BY user_id, user_name, pipeline
		ORDER BY total_badges DESC LIMIT 1
	`, since).Scan(&sdr).Error
	if err != nil {
		return nil, err
	}
	if sdr.UserID != "" {
		mvps["SDR"] = sdr
	}

	return mvps, nil
}
