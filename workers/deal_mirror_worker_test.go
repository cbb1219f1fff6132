package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DealMirror{}, &models.DealStagePipeline{}))
	return db
}

func newWorkerClient(baseURL string) *services.HubSpotClient {
	return &services.HubSpotClient{
		BaseURL:    baseURL,
		Token:      "test-token",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSyncSinceUpsertsDeals(t *testing.T) {
	responses := []string{
		`{"results":[{"id":"42","properties":{
			"dealname":"Deal A","pipeline":"6810518","dealstage":"6810524",
			"amount":"1500.50","valor_ganho":"1200","closedate":"2026-08-31T14:00:00Z",
			"analista_comercial":"ana","pr_vendedor":"bruno"}}]}`,
		`{"results":[{"id":"42","properties":{
			"dealname":"Deal A renamed","pipeline":"6810518","dealstage":"6810524",
			"amount":"1500.50","valor_ganho":"2000","closedate":"2026-08-31T14:00:00Z",
			"analista_comercial":"ana","pr_vendedor":"bruno"}}]}`,
	}
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responses[call]))
		call++
	}))
	defer server.Close()

	db := newWorkerTestDB(t)
	worker := NewDealMirrorWorker(newWorkerClient(server.URL), db)

	count, err := worker.SyncSince(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var row models.DealMirror
	require.NoError(t, db.First(&row, "hs_object_id = ?", "42").Error)
	assert.Equal(t, "Deal A", row.DealName)
	require.NotNil(t, row.ValorGanho)
	assert.Equal(t, 1200.0, *row.ValorGanho)
	require.NotNil(t, row.CloseDate)

	// second sync updates in place instead of duplicating
	count, err = worker.SyncSince(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var total int64
	require.NoError(t, db.Model(&models.DealMirror{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	require.NoError(t, db.First(&row, "hs_object_id = ?", "42").Error)
	assert.Equal(t, "Deal A renamed", row.DealName)
	assert.Equal(t, 2000.0, *row.ValorGanho)
}

func TestSyncSinceSendsModifiedFilter(t *testing.T) {
	since := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req services.SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.FilterGroups, 1)
		require.Len(t, req.FilterGroups[0].Filters, 1)

		filter := req.FilterGroups[0].Filters[0]
		assert.Equal(t, "hs_lastmodifieddate", filter.PropertyName)
		assert.Equal(t, "GTE", filter.Operator)
		assert.Equal(t, strconv.FormatInt(since.UnixMilli(), 10), filter.Value)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	worker := NewDealMirrorWorker(newWorkerClient(server.URL), newWorkerTestDB(t))
	count, err := worker.SyncSince(context.Background(), since)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSyncStagesLoadsPipelineLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/crm/v3/pipelines/deals", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":"6810518","label":"NEW","stages":[
				{"id":"6810524","label":"Ganho (Vendas NMRR)","metadata":{"isClosed":"true"}},
				{"id":"100","label":"Negociação","metadata":{"isClosed":"false"}}
			]}
		]}`))
	}))
	defer server.Close()

	db := newWorkerTestDB(t)
	worker := NewDealMirrorWorker(newWorkerClient(server.URL), db)
	require.NoError(t, worker.SyncStages(context.Background()))

	var rows []models.DealStagePipeline
	require.NoError(t, db.Order("stage_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "Negociação", rows[0].StageLabel)
	assert.False(t, rows[0].DealIsClosed)
	assert.Equal(t, "Ganho (Vendas NMRR)", rows[1].StageLabel)
	assert.True(t, rows[1].DealIsClosed)
}
