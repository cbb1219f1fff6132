package services

import (
	"testing"
	"time"

	"hall-da-fama/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour, min int) time.Time {
	return time.Date(2026, 8, 31, hour, min, 0, 0, time.UTC)
}

func TestAggregateEventsGroupsByPerson(t *testing.T) {
	events := []models.Event{
		{PersonID: "ana", Timestamp: ts(12, 0), Amount: "1000", DealName: "Deal A"},
		{PersonID: "bia", Timestamp: ts(10, 0), Amount: "500", DealName: "Deal B"},
		{PersonID: "ana", Timestamp: ts(9, 0), Amount: "2500.50", DealName: "Deal C"},
	}

	set := AggregateEvents(events)

	require.Len(t, set.ByID, 2)
	assert.Equal(t, []string{"ana", "bia"}, set.Order)

	ana := set.ByID["ana"]
	assert.Equal(t, 2, ana.Count)
	assert.InDelta(t, 3500.50, ana.TotalAmount, 0.001)
	assert.Equal(t, []string{"Deal A", "Deal C"}, ana.DealNames)

	// timestamps come back sorted ascending regardless of input order
	require.Len(t, ana.Timestamps, 2)
	assert.True(t, ana.Timestamps[0].Before(ana.Timestamps[1]))
}

func TestAggregateEventsDropsEmptyPersonID(t *testing.T) {
	events := []models.Event{
		{PersonID: "", Timestamp: ts(12, 0), Amount: "1000"},
		{PersonID: "ana", Timestamp: ts(12, 0), Amount: "100"},
	}

	set := AggregateEvents(events)
	assert.Len(t, set.ByID, 1)
	assert.Equal(t, []string{"ana"}, set.Order)
}

func TestAggregateEventsUnparseableAmountCountsZero(t *testing.T) {
	events := []models.Event{
		{PersonID: "ana", Timestamp: ts(12, 0), Amount: "not-a-number"},
		{PersonID: "ana", Timestamp: ts(13, 0), Amount: "300"},
	}

	set := AggregateEvents(events)
	ana := set.ByID["ana"]
	assert.Equal(t, 2, ana.Count)
	assert.Equal(t, 300.0, ana.TotalAmount)
}
