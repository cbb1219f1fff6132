package services

import (
	"testing"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *utils.ConfigStore {
	t.Helper()
	t.Setenv("DATA_DIR", t.TempDir())
	return utils.NewConfigStore()
}

func TestTodayRevenueSumsWonDeals(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db)
	now := time.Now().UTC()

	deals := []models.DealMirror{
		wonDeal("1", "ana", 2000, now),
		wonDeal("2", "bia", 3000, now),
	}
	// renewal pipeline stays out of the base total
	renewal := wonDeal("3", "caio", 50000, now)
	renewal.Pipeline = RenewalPipelineID
	deals = append(deals, renewal)
	require.NoError(t, db.Create(&deals).Error)

	svc := NewRevenueService(db, newTestConfigStore(t))
	data, err := svc.TodayRevenue()
	require.NoError(t, err)

	assert.Equal(t, 5000.0, data.Total)
	assert.True(t, data.HasData)
	assert.False(t, data.HasManualAdjustment)
	assert.False(t, data.HasRenewalPipeline)
}

func TestCurrentMonthRevenueAppliesManualConfig(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db)
	now := time.Now().UTC()

	deals := []models.DealMirror{wonDeal("1", "ana", 10000, now)}
	renewal := wonDeal("2", "bia", 7000, now)
	renewal.Pipeline = RenewalPipelineID
	deals = append(deals, renewal)
	require.NoError(t, db.Create(&deals).Error)

	config := newTestConfigStore(t)
	require.NoError(t, config.SetManualRevenue(utils.ManualRevenueConfig{
		Enabled:                true,
		AdditionalValue:        2500,
		IncludeRenewalPipeline: true,
	}))
	require.NoError(t, config.SetManualGoal(utils.ManualGoalConfig{Enabled: true, Goal: 2000000}))

	data, err := NewRevenueService(db, config).CurrentMonthRevenue()
	require.NoError(t, err)

	assert.Equal(t, 10000.0+2500+7000, data.Total)
	assert.True(t, data.HasManualAdjustment)
	assert.Equal(t, 2500.0, data.ManualAdditionalValue)
	assert.True(t, data.HasRenewalPipeline)
	assert.Equal(t, 7000.0, data.RenewalRevenue)
	assert.Equal(t, 2000000.0, data.Goal)
}

func TestRevenueUntilYesterdayExcludesToday(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db)

	todayStart := utils.TodayBrazilStartUTC()
	monthStart := utils.MonthStartBrazilUTC()

	deals := []models.DealMirror{wonDeal("1", "ana", 4000, todayStart.Add(time.Hour))}
	if monthStart.Before(todayStart) {
		deals = append(deals, wonDeal("2", "bia", 1500, todayStart.Add(-time.Hour)))
	}
	require.NoError(t, db.Create(&deals).Error)

	data, err := NewRevenueService(db, newTestConfigStore(t)).RevenueUntilYesterday()
	require.NoError(t, err)

	if monthStart.Before(todayStart) {
		assert.Equal(t, 1500.0, data.Total)
	} else {
		// first day of the month has nothing before today
		assert.Equal(t, 0.0, data.Total)
	}
}

func TestPipelineTodayStats(t *testing.T) {
	db := newTestDB(t)
	seedStages(t, db)
	now := time.Now().UTC()

	amount1, amount2 := 1000.0, 3000.0
	deals := []models.DealMirror{
		{HSObjectID: "1", Pipeline: "6810518", DealStage: "100", Amount: &amount1, CloseDate: &now},
		{HSObjectID: "2", Pipeline: "6810518", DealStage: "100", Amount: &amount2, CloseDate: &now},
	}
	// already won deals closing today are not pipeline
	won := wonDeal("3", "ana", 9000, now)
	won.Amount = &amount2
	deals = append(deals, won)
	require.NoError(t, db.Create(&deals).Error)

	stats, err := NewRevenueService(db, newTestConfigStore(t)).PipelineToday()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalDeals)
	assert.Equal(t, 4000.0, stats.TotalPipeline)
	assert.Equal(t, 2000.0, stats.AvgDealValue)
	assert.Equal(t, 1000.0, stats.MinDealValue)
	assert.Equal(t, 3000.0, stats.MaxDealValue)
}
