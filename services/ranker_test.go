package services

import (
	"testing"
	"time"

	"hall-da-fama/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggSet(aggs ...*models.Aggregate) *AggregateSet {
	set := &AggregateSet{ByID: make(map[string]*models.Aggregate)}
	for _, agg := range aggs {
		set.ByID[agg.PersonID] = agg
		set.Order = append(set.Order, agg.PersonID)
	}
	return set
}

func TestRankAggregatesEVByRevenueThenCount(t *testing.T) {
	set := aggSet(
		&models.Aggregate{PersonID: "low", Count: 5, TotalAmount: 1000},
		&models.Aggregate{PersonID: "high", Count: 1, TotalAmount: 9000},
		&models.Aggregate{PersonID: "mid-few", Count: 1, TotalAmount: 5000},
		&models.Aggregate{PersonID: "mid-many", Count: 3, TotalAmount: 5000},
	)

	ranked := RankAggregates(set, models.UserTypeEV, 5)
	require.Len(t, ranked, 4)
	assert.Equal(t, "high", ranked[0].Aggregate.PersonID)
	assert.Equal(t, "mid-many", ranked[1].Aggregate.PersonID)
	assert.Equal(t, "mid-few", ranked[2].Aggregate.PersonID)
	assert.Equal(t, "low", ranked[3].Aggregate.PersonID)
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 4, ranked[3].Position)
}

func TestRankAggregatesEVTieKeepsInsertionOrder(t *testing.T) {
	set := aggSet(
		&models.Aggregate{PersonID: "first", Count: 2, TotalAmount: 5000},
		&models.Aggregate{PersonID: "second", Count: 2, TotalAmount: 5000},
	)

	ranked := RankAggregates(set, models.UserTypeEV, 5)
	assert.Equal(t, "first", ranked[0].Aggregate.PersonID)
	assert.Equal(t, "second", ranked[1].Aggregate.PersonID)
}

func TestRankAggregatesSDRByCountThenEarliestFinish(t *testing.T) {
	morning := []time.Time{ts(8, 0), ts(11, 0)}
	evening := []time.Time{ts(9, 0), ts(18, 0)}

	set := aggSet(
		&models.Aggregate{PersonID: "late", Count: 2, Timestamps: evening},
		&models.Aggregate{PersonID: "early", Count: 2, Timestamps: morning},
		&models.Aggregate{PersonID: "busy", Count: 4, Timestamps: evening},
	)

	ranked := RankAggregates(set, models.UserTypeSDR, 5)
	require.Len(t, ranked, 3)
	assert.Equal(t, "busy", ranked[0].Aggregate.PersonID)
	// same count: whoever finished scheduling earlier ranks higher
	assert.Equal(t, "early", ranked[1].Aggregate.PersonID)
	assert.Equal(t, "late", ranked[2].Aggregate.PersonID)
}

func TestRankAggregatesSDRNoTimestampsSortLast(t *testing.T) {
	set := aggSet(
		&models.Aggregate{PersonID: "ghost", Count: 2},
		&models.Aggregate{PersonID: "real", Count: 2, Timestamps: []time.Time{ts(10, 0)}},
	)

	ranked := RankAggregates(set, models.UserTypeSDR, 5)
	assert.Equal(t, "real", ranked[0].Aggregate.PersonID)
	assert.Equal(t, "ghost", ranked[1].Aggregate.PersonID)
}

func TestRankAggregatesTruncatesToTopN(t *testing.T) {
	set := aggSet(
		&models.Aggregate{PersonID: "a", TotalAmount: 3},
		&models.Aggregate{PersonID: "b", TotalAmount: 2},
		&models.Aggregate{PersonID: "c", TotalAmount: 1},
	)

	ranked := RankAggregates(set, models.UserTypeLDR, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Aggregate.PersonID)
}
