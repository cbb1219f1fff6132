// services/aggregator.go
package services

import (
	"sort"
	"strconv"

	"hall-da-fama/models"
)

// AggregateSet holds per-person rollups plus the order person ids were
// first seen in. Ranking ties fall back to that order, so it must be
// preserved through sorting (stable sort over this slice).
type AggregateSet struct {
	Order []string
	ByID  map[string]*models.Aggregate
}

// AggregateEvents groups events by person id, summing counts and amounts.
// Events without a person id are dropped; amounts that fail to parse count
// as zero. Pure function, no side effects.
func AggregateEvents(events []models.Event) *AggregateSet {
	set := &AggregateSet{ByID: make(map[string]*models.Aggregate)}

	for _, ev := range events {
		if ev.PersonID == "" {
			continue
		}

		agg, ok := set.ByID[ev.PersonID]
		if !ok {
			agg = &models.Aggregate{PersonID: ev.PersonID}
			set.ByID[ev.PersonID] = agg
			set.Order = append(set.Order, ev.PersonID)
		}

		agg.Count++
		if ev.Amount != "" {
			if v, err := strconv.ParseFloat(ev.Amount, 64); err == nil {
				agg.TotalAmount += v
			}
		}
		if !ev.Timestamp.IsZero() {
			agg.Timestamps = append(agg.Timestamps, ev.Timestamp)
		}
		if ev.DealName != "" {
			agg.DealNames = append(agg.DealNames, ev.DealName)
		}
	}

	// Timestamps sorted ascending per person; badge detection relies on it.
	for _, agg := range set.ByID {
		sort.Slice(agg.Timestamps, func(i, j int) bool {
			return agg.Timestamps[i].Before(agg.Timestamps[j])
		})
	}

	return set
}
