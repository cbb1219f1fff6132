// services/ranker.go
package services

import (
	"sort"
	"time"

	"hall-da-fama/models"
)

// RankAggregates orders an aggregate set by the role-specific key and
// truncates to topN (callers pass 3 or 5).
//
//   - EV/LDR: revenue desc, then count desc.
//   - SDR: count desc, then earliest last event wins (a person whose final
//     meeting landed earlier outranks one who needed the whole day).
//
// The sort is stable over first-seen aggregation order, which is the only
// tie-break beyond the keys above.
func RankAggregates(set *AggregateSet, userType models.UserType, topN int) []models.RankedEntry {
	ids := make([]string, len(set.Order))
	copy(ids, set.Order)

	switch userType {
	case models.UserTypeSDR:
		sort.SliceStable(ids, func(i, j int) bool {
			a, b := set.ByID[ids[i]], set.ByID[ids[j]]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return lastTimestamp(a).Before(lastTimestamp(b))
		})
	default: // EV and LDR rank by money first
		sort.SliceStable(ids, func(i, j int) bool {
			a, b := set.ByID[ids[i]], set.ByID[ids[j]]
			if a.TotalAmount != b.TotalAmount {
				return a.TotalAmount > b.TotalAmount
			}
			return a.Count > b.Count
		})
	}

	if topN > 0 && len(ids) > topN {
		ids = ids[:topN]
	}

	entries := make([]models.RankedEntry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, models.RankedEntry{
			Position:  i + 1,
			Aggregate: set.ByID[id],
		})
	}
	return entries
}

// lastTimestamp returns the latest event time, or a far-future sentinel for
// empty lists so they sort after everyone with real events.
func lastTimestamp(agg *models.Aggregate) time.Time {
	if len(agg.Timestamps) == 0 {
		return time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	}
	return agg.Timestamps[len(agg.Timestamps)-1]
}
