// services/revenue_service.go
package services

import (
	"fmt"
	"time"

	"hall-da-fama/utils"

	"gorm.io/gorm"
)

// RenewalPipelineID is added separately when the toggle is on, never mixed
// into the base query (double counting).
const RenewalPipelineID = "7075777"

const defaultRevenueGoal = 1500000

// wonStageCondition matches the stage labels the org treats as won.
const wonStageCondition = `(
	LOWER(p.stage_label) LIKE '%ganho%'
	OR LOWER(p.stage_label) LIKE '%faturamento%'
	OR LOWER(p.stage_label) LIKE '%aguardando%'
)`

// RevenueData is the month/day revenue rollup the gauges render.
type RevenueData struct {
	Total                 float64 `json:"total"`
	Goal                  float64 `json:"goal"`
	HasData               bool    `json:"has_data"`
	HasManualAdjustment   bool    `json:"has_manual_adjustment"`
	ManualAdditionalValue float64 `json:"manual_additional_value,omitempty"`
	HasRenewalPipeline    bool    `json:"has_renewal_pipeline"`
	RenewalRevenue        float64 `json:"renewal_pipeline_revenue,omitempty"`
}

// PipelineToday summarizes open deals forecast to close today.
type PipelineToday struct {
	TotalDeals    int64   `json:"total_deals"`
	TotalPipeline float64 `json:"total_pipeline"`
	AvgDealValue  float64 `json:"avg_deal_value"`
	MinDealValue  float64 `json:"min_deal_value"`
	MaxDealValue  float64 `json:"max_deal_value"`
}

// RevenueService reads the deals mirror for revenue and pipeline rollups
// and applies the manual override config on top.
type RevenueService struct {
	DB     *gorm.DB
	Config *utils.ConfigStore
}

func NewRevenueService(db *gorm.DB, config *utils.ConfigStore) *RevenueService {
	return &RevenueService{DB: db, Config: config}
}

// sumWonRevenue totals valor_ganho of won deals closed in [start, end),
// excluding one-off revenue and FX-variation deals, optionally excluding
// the renewal pipeline.
func (s *RevenueService) sumWonRevenue(start, end time.Time, excludeRenewal bool, onlyRenewal bool) (float64, error) {
	query := `
		SELECT COALESCE(SUM(d.valor_ganho), 0) AS total
		FROM deals d
		LEFT JOIN deal_stages_pipelines p ON d.dealstage = p.stage_id
		WHERE COALESCE(d.tipo_de_receita, '') <> 'Pontual'
			AND COALESCE(d.tipo_de_negociacao, '') <> 'Variação Cambial'
			AND ` + wonStageCondition + `
			AND d.closedate >= ? AND d.closedate < ?
			AND d.valor_ganho IS NOT NULL AND d.valor_ganho > 0`
	args := []interface{}{start, end}

	if onlyRenewal {
		query += ` AND d.pipeline = ?`
		args = append(args, RenewalPipelineID)
	} else if excludeRenewal {
		query += ` AND d.pipeline <> ?`
		args = append(args, RenewalPipelineID)
	}

	var total float64
	if err := s.DB.Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("revenue query failed: %w", err)
	}
	return total, nil
}

// applyManualConfig layers the manual override and renewal toggle on top of
// a base total computed over [start, end).
func (s *RevenueService) applyManualConfig(base float64, start, end time.Time) *RevenueData {
	config := s.Config.ManualRevenue()

	data := &RevenueData{
		Total:   base,
		Goal:    s.Config.ManualGoal(defaultRevenueGoal),
		HasData: base > 0,
	}

	if config.Enabled {
		data.Total += config.AdditionalValue
		data.HasManualAdjustment = true
		data.ManualAdditionalValue = config.AdditionalValue
	}

	if config.IncludeRenewalPipeline {
		renewal, err := s.sumWonRevenue(start, end, false, true)
		if err == nil {
			data.Total += renewal
			data.HasRenewalPipeline = true
			data.RenewalRevenue = renewal
		}
	}

	data.HasData = data.Total > 0
	return data
}

// CurrentMonthRevenue returns month-to-date revenue with overrides applied.
// The renewal pipeline is always excluded from the base query; its value is
// added separately when the toggle is on.
func (s *RevenueService) CurrentMonthRevenue() (*RevenueData, error) {
	start := utils.MonthStartBrazilUTC()
	end := start.AddDate(0, 1, 0)
	base, err := s.sumWonRevenue(start, end, true, false)
	if err != nil {
		return nil, err
	}
	return s.applyManualConfig(base, start, end), nil
}

// TodayRevenue returns today's revenue with overrides applied.
func (s *RevenueService) TodayRevenue() (*RevenueData, error) {
	start := utils.TodayBrazilStartUTC()
	end := start.Add(24 * time.Hour)
	base, err := s.sumWonRevenue(start, end, true, false)
	if err != nil {
		return nil, err
	}
	return s.applyManualConfig(base, start, end), nil
}

// RevenueUntilYesterday returns month-to-date revenue excluding today.
func (s *RevenueService) RevenueUntilYesterday() (*RevenueData, error) {
	start := utils.MonthStartBrazilUTC()
	end := utils.TodayBrazilStartUTC()
	base, err := s.sumWonRevenue(start, end, true, false)
	if err != nil {
		return nil, err
	}
	return s.applyManualConfig(base, start, end), nil
}

// PipelineToday summarizes open (not won, not lost) deals whose forecast
// close date is today.
func (s *RevenueService) PipelineToday() (*PipelineToday, error) {
	start := utils.TodayBrazilStartUTC()
	end := start.Add(24 * time.Hour)

	var result PipelineToday
	err := s.DB.Raw(`
		SELECT
			COUNT(*) AS total_deals,
			COALESCE(SUM(d.amount), 0) AS total_pipeline,
			COALESCE(AVG(d.amount), 0) AS avg_deal_value,
			COALESCE(MIN(d.amount), 0) AS min_deal_value,
			COALESCE(MAX(d.amount), 0) AS max_deal_value
		FROM deals d
		LEFT JOIN deal_stages_pipelines p ON d.dealstage = p.stage_id
		WHERE COALESCE(d.tipo_de_receita, '') <> 'Pontual'
			AND COALESCE(d.tipo_de_negociacao, '') <> 'Variação Cambial'
			AND d.closedate >= ? AND d.closedate < ?
			AND (p.deal_isclosed = FALSE OR p.deal_isclosed IS NULL)
			AND LOWER(COALESCE(p.stage_label, '')) NOT LIKE '%ganho%'
			AND LOWER(COALESCE(p.stage_label, '')) NOT LIKE '%faturamento%'
			AND LOWER(COALESCE(p.stage_label, '')) NOT LIKE '%aguardando%'
			AND LOWER(COALESCE(p.stage_label, '')) NOT LIKE '%perdido%'
			AND d.amount IS NOT NULL AND d.amount > 0
	`, start, end).Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("pipeline query failed: %w", err)
	}
	return &result, nil
}
