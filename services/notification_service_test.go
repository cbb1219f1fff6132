package services

import (
	"testing"

	"hall-da-fama/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDealWonPayloadAliases(t *testing.T) {
	payload := map[string]interface{}{
		"hs_object_id":      "987654",
		"dealname":          "Logcomex Premium",
		"valor_ganho":       float64(12500),
		"analista_comercial": "ana.souza",
		"pr_vendedor":       "bruno.lima",
		"criado_por_":       "carla.dias",
		"produto_principal": "Premium",
		"pipeline":          "6810518",
	}

	n, err := ParseDealWonPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "987654", n.ID)
	assert.Equal(t, "Logcomex Premium", n.DealName)
	assert.Equal(t, 12500.0, n.Amount)
	assert.Equal(t, "ana.souza", n.OwnerName)
	assert.Equal(t, "bruno.lima", n.SDRName)
	assert.Equal(t, "carla.dias", n.LDRName)
	assert.Equal(t, "6810518", n.Pipeline)
	assert.Equal(t, "[]", n.ViewedBy)
	assert.NotEmpty(t, n.Payload)
}

func TestParseDealWonPayloadDefaults(t *testing.T) {
	n, err := ParseDealWonPayload(map[string]interface{}{
		"dealId": "123",
		"amount": "oops",
	})
	require.NoError(t, err)
	assert.Equal(t, "Deal sem nome", n.DealName)
	assert.Equal(t, 0.0, n.Amount)
}

func TestParseDealWonPayloadMissingID(t *testing.T) {
	_, err := ParseDealWonPayload(map[string]interface{}{"dealName": "x"})
	assert.ErrorIs(t, err, ErrMissingDealID)
}

func TestInsertDeduplicatesByDealID(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	n := &models.DealNotification{ID: "deal-1", DealName: "First", Amount: 100, ViewedBy: "[]"}
	inserted, err := svc.Insert(n)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := &models.DealNotification{ID: "deal-1", DealName: "Second delivery", Amount: 100, ViewedBy: "[]"}
	inserted, err = svc.Insert(dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, db.Model(&models.DealNotification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// the first delivery wins
	var row models.DealNotification
	require.NoError(t, db.First(&row, "id = ?", "deal-1").Error)
	assert.Equal(t, "First", row.DealName)
}

func TestMarkViewedFiltersPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	_, err := svc.Insert(&models.DealNotification{ID: "deal-1", DealName: "A", ViewedBy: "[]"})
	require.NoError(t, err)
	_, err = svc.Insert(&models.DealNotification{ID: "deal-2", DealName: "B", ViewedBy: "[]"})
	require.NoError(t, err)

	updated, err := svc.MarkViewed("deal-1", "tv-recepcao")
	require.NoError(t, err)
	assert.True(t, updated)

	// marking twice is a no-op
	updated, err = svc.MarkViewed("deal-1", "tv-recepcao")
	require.NoError(t, err)
	assert.False(t, updated)

	pending, err := svc.FetchPending("tv-recepcao", nil, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "deal-2", pending[0].ID)

	// a different screen still sees both
	pending, err = svc.FetchPending("tv-vendas", nil, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestMarkViewedUnknownDeal(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	updated, err := svc.MarkViewed("nope", "tv-recepcao")
	require.NoError(t, err)
	assert.False(t, updated)
}
