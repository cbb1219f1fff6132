// services/ranking_service.go
package services

import (
	"fmt"
	"time"

	"hall-da-fama/utils"

	"gorm.io/gorm"
)

// EVRankingEntry is one row of the DB-backed EV ranking.
type EVRankingEntry struct {
	Position  int     `json:"position"`
	OwnerID   string  `json:"ownerId"`
	OwnerName string  `json:"ownerName"`
	Revenue   float64 `json:"revenue"`
	DealCount int     `json:"dealCount"`
}

// SDRRankingEntry is one row of the DB-backed SDR ranking.
type SDRRankingEntry struct {
	Position       int    `json:"position"`
	SDRID          string `json:"sdrId"`
	SDRName        string `json:"sdrName"`
	ScheduledCount int    `json:"scheduledCount"`
}

// LDRRankingEntry is one row of the notification-backed LDR ranking.
type LDRRankingEntry struct {
	Position      int     `json:"position"`
	LDRName       string  `json:"ldrName"`
	WonDealsCount int     `json:"wonDealsCount"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// RankingService computes the top-5 rankings from the local mirror tables.
// These back the dashboard's fallback views when the CRM is slow.
type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

func todayWindow() (time.Time, time.Time) {
	start := utils.TodayBrazilStartUTC()
	return start, start.Add(24 * time.Hour)
}

// TopEVsToday ranks EVs by revenue won today, reading the deals mirror.
func (s *RankingService) TopEVsToday() ([]EVRankingEntry, error) {
	start, end := todayWindow()

	var rows []struct {
		OwnerID      string
		TotalRevenue float64
		DealCount    int
	}
	err := s.DB.Raw(`
		SELECT
			COALESCE(NULLIF(d.analista_comercial, ''), d.hubspot_owner_id) AS owner_id,
			COALESCE(SUM(d.valor_ganho), 0) AS total_revenue,
			COUNT(*) AS deal_count
		FROM deals d
		LEFT JOIN deal_stages_pipelines p ON d.dealstage = p.stage_id
		WHERE COALESCE(d.tipo_de_receita, '') <> 'Pontual'
			AND COALESCE(d.tipo_de_negociacao, '') <> 'Variação Cambial'
			AND `+wonStageCondition+`
			AND d.closedate >= ? AND d.closedate < ?
			AND d.valor_ganho IS NOT NULL AND d.valor_ganho > 0
			AND COALESCE(NULLIF(d.analista_comercial, ''), d.hubspot_owner_id) <> ''
		GROUP BY COALESCE(NULLIF(d.analista_comercial, ''), d.hubspot_owner_id)
		ORDER BY total_revenue DESC
		LIMIT 5
	`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("EV ranking query failed: %w", err)
	}

	ranking := make([]EVRankingEntry, 0, len(rows))
	for i, row := range rows {
		ranking = append(ranking, EVRankingEntry{
			Position:  i + 1,
			OwnerID:   row.OwnerID,
			OwnerName: utils.GetAnalystName(row.OwnerID),
			Revenue:   row.TotalRevenue,
			DealCount: row.DealCount,
		})
	}
	return ranking, nil
}

// TopSDRsToday ranks SDRs by meetings scheduled today, optionally filtered
// by pipeline. Ties break toward whoever finished scheduling earliest.
func (s *RankingService) TopSDRsToday(pipeline string) ([]SDRRankingEntry, error) {
	start, end := todayWindow()

	query := `
		SELECT
			TRIM(d.pr_vendedor) AS sdr_id,
			COUNT(*) AS scheduled_count,
			MAX(d.data_de_agendamento) AS last_scheduled_time
		FROM deals d
		WHERE d.data_de_agendamento >= ? AND d.data_de_agendamento < ?
			AND d.pr_vendedor IS NOT NULL AND TRIM(d.pr_vendedor) <> ''`
	args := []interface{}{start, end}
	if pipeline != "" {
		query += ` AND d.pipeline = ?`
		args = append(args, pipeline)
	}
	query += `
		GROUP BY TRIM(d.pr_vendedor)
		ORDER BY scheduled_count DESC, last_scheduled_time ASC
		LIMIT 5`

	var rows []struct {
		SDRID          string
		ScheduledCount int
	}
	if err := s.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("SDR ranking query failed: %w", err)
	}

	ranking := make([]SDRRankingEntry, 0, len(rows))
	for i, row := range rows {
		ranking = append(ranking, SDRRankingEntry{
			Position:       i + 1,
			SDRID:          row.SDRID,
			SDRName:        utils.GetAnalystName(row.SDRID),
			ScheduledCount: row.ScheduledCount,
		})
	}
	return ranking, nil
}

// TopLDRsToday ranks LDRs by won deals announced today, reading the
// webhook notification table.
func (s *RankingService) TopLDRsToday() ([]LDRRankingEntry, error) {
	start, end := todayWindow()

	var rows []struct {
		LDRName       string
		WonDealsCount int
		TotalRevenue  float64
	}
	err := s.DB.Raw(`
		SELECT
			ldr_name,
			COUNT(*) AS won_deals_count,
			COALESCE(SUM(amount), 0) AS total_revenue
		FROM deal_notifications
		WHERE created_at >= ? AND created_at < ?
			AND ldr_name IS NOT NULL AND ldr_name <> ''
		GROUP BY ldr_name
		ORDER BY won_deals_count DESC
		LIMIT 5
	`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("LDR ranking query failed: %w", err)
	}

	ranking := make([]LDRRankingEntry, 0, len(rows))
	for i, row := range rows {
		ranking = append(ranking, LDRRankingEntry{
			Position:      i + 1,
			LDRName:       row.LDRName,
			WonDealsCount: row.WonDealsCount,
			TotalRevenue:  row.TotalRevenue,
		})
	}
	return ranking, nil
}
