// services/hall_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hall-da-fama/models"
	"hall-da-fama/utils"
)

// CRM stage and pipeline ids the Hall da Fama cares about.
const (
	StageWonNMRR     = "6810524"  // Ganho (Vendas NMRR)
	StageWonExpansao = "13487286" // Ganho (Expansão)

	PipelineNew      = "6810518"
	PipelineExpansao = "4007305"

	// "v2 date entered" properties record when a deal reached a stage.
	datePropWonNMRR      = "hs_v2_date_entered_6810524"
	datePropWonExpansao  = "hs_v2_date_entered_13487286"
	datePropSchedNew     = "hs_v2_date_entered_7417230"
	datePropSchedExpansao = "hs_v2_date_entered_13487283"
)

// ErrInvalidPipeline is returned for pipeline ids the dashboard doesn't
// track; handlers map it to a 400.
var ErrInvalidPipeline = fmt.Errorf("invalid pipeline: use %s (NEW) or %s (Expansão)", PipelineNew, PipelineExpansao)

// HallEntry is one row of a realtime ranking response.
type HallEntry struct {
	Position       int            `json:"position"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	DealCount      int            `json:"dealCount,omitempty"`
	ScheduledCount int            `json:"scheduledCount,omitempty"`
	Revenue        float64        `json:"revenue,omitempty"`
	Badges         []models.Badge `json:"badges"`
	FirstEvent     string         `json:"firstDeal,omitempty"`
	LastEvent      string         `json:"lastDeal,omitempty"`
}

// HallResult is the full realtime ranking payload.
type HallResult struct {
	Status    string      `json:"status"`
	UserType  string      `json:"userType"`
	Pipeline  string      `json:"pipeline,omitempty"`
	Data      []HallEntry `json:"data"`
	Total     int         `json:"total"`
	Timestamp string      `json:"timestamp"`
}

// HallService builds the realtime Hall da Fama rankings straight from the
// CRM, detecting and persisting badges along the way.
type HallService struct {
	Hub    *HubSpotClient
	Badges *BadgeService
}

func NewHallService(hub *HubSpotClient, badges *BadgeService) *HallService {
	return &HallService{Hub: hub, Badges: badges}
}

// wonTodayRequests builds the two searches (NMRR + Expansão won stages) for
// deals that entered a won stage today, attributed via attributionProp.
func wonTodayRequests(attributionProp string) []SearchRequest {
	todayStart := utils.TodayBrazilStartUTC()
	tomorrowStart := todayStart.Add(24 * time.Hour)
	todayMs := strconv.FormatInt(todayStart.UnixMilli(), 10)
	tomorrowMs := strconv.FormatInt(tomorrowStart.UnixMilli(), 10)

	requests := make([]SearchRequest, 0, 2)
	for _, stage := range []struct{ id, dateProp string }{
		{StageWonNMRR, datePropWonNMRR},
		{StageWonExpansao, datePropWonExpansao},
	} {
		requests = append(requests, SearchRequest{
			FilterGroups: []SearchFilterGroup{{Filters: []SearchFilter{
				{PropertyName: stage.dateProp, Operator: "GTE", Value: todayMs},
				{PropertyName: stage.dateProp, Operator: "LT", Value: tomorrowMs},
				{PropertyName: "dealstage", Operator: "EQ", Value: stage.id},
				{PropertyName: "tipo_de_negociacao", Operator: "NEQ", Value: "Variação Cambial"},
			}}},
			Properties: []string{"dealname", attributionProp, "closedate", "amount", stage.dateProp, "tipo_de_negociacao"},
			Limit:      100,
		})
	}
	return requests
}

// dealsToEvents converts CRM property bags into engine events. Deals
// missing the attribution or timestamp property are skipped.
func dealsToEvents(deals []HubSpotDeal, personProp, timeProp string, withAmount bool) []models.Event {
	events := make([]models.Event, 0, len(deals))
	for _, deal := range deals {
		personID := deal.Properties[personProp]
		rawTime := deal.Properties[timeProp]
		if personID == "" || rawTime == "" {
			continue
		}
		ts, err := utils.ParseHubSpotTimestamp(rawTime)
		if err != nil {
			continue
		}
		ev := models.Event{
			PersonID:  personID,
			Timestamp: ts.In(utils.BrazilTZ),
			DealName:  deal.Properties["dealname"],
		}
		if withAmount {
			ev.Amount = deal.Properties["amount"]
		}
		events = append(events, ev)
	}
	return events
}

// TopEVsToday returns the top 5 EVs by revenue closed today.
func (s *HallService) TopEVsToday(ctx context.Context) (*HallResult, error) {
	return s.wonRankingToday(ctx, models.UserTypeEV, "analista_comercial")
}

// TopLDRsToday returns the top 5 LDRs by revenue of deals they created.
func (s *HallService) TopLDRsToday(ctx context.Context) (*HallResult, error) {
	return s.wonRankingToday(ctx, models.UserTypeLDR, "criado_por_")
}

func (s *HallService) wonRankingToday(ctx context.Context, userType models.UserType, attributionProp string) (*HallResult, error) {
	var deals []HubSpotDeal
	var lastErr error
	succeeded := 0

	for _, req := range wonTodayRequests(attributionProp) {
		results, err := s.Hub.SearchAllDeals(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		succeeded++
		deals = append(deals, results...)
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("all HubSpot queries failed: %w", lastErr)
	}

	events := dealsToEvents(deals, attributionProp, "closedate", true)
	set := AggregateEvents(events)
	ranked := RankAggregates(set, userType, 5)

	entries := make([]HallEntry, 0, len(ranked))
	for _, entry := range ranked {
		agg := entry.Aggregate
		badges := DetectBadges(agg.Timestamps, agg.Count, agg.TotalAmount, userType)
		userName := utils.GetAnalystName(agg.PersonID)

		s.Badges.PersistDetected(userType, agg.PersonID, userName, badges, agg.TotalAmount, "", &UnlockContext{
			Count:      agg.Count,
			Revenue:    agg.TotalAmount,
			Deals:      agg.DealNames,
			Timestamps: formatTimestamps(agg.Timestamps),
		})

		entries = append(entries, HallEntry{
			Position:   entry.Position,
			UserID:     agg.PersonID,
			UserName:   userName,
			DealCount:  agg.Count,
			Revenue:    agg.TotalAmount,
			Badges:     badges,
			FirstEvent: clockTime(agg.Timestamps, 0),
			LastEvent:  clockTime(agg.Timestamps, -1),
		})
	}

	return &HallResult{
		Status:    "success",
		UserType:  string(userType),
		Data:      entries,
		Total:     len(deals),
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

// TopSDRsToday returns the top 5 SDRs by meetings scheduled today in the
// given pipeline.
func (s *HallService) TopSDRsToday(ctx context.Context, pipeline string) (*HallResult, error) {
	var dateProp, pipelineName string
	switch pipeline {
	case PipelineNew:
		dateProp, pipelineName = datePropSchedNew, "NEW"
	case PipelineExpansao:
		dateProp, pipelineName = datePropSchedExpansao, "Expansão"
	default:
		return nil, ErrInvalidPipeline
	}

	todayStart := utils.TodayBrazilStartUTC()
	tomorrowStart := todayStart.Add(24 * time.Hour)

	deals, err := s.Hub.SearchAllDeals(ctx, SearchRequest{
		FilterGroups: []SearchFilterGroup{{Filters: []SearchFilter{
			{PropertyName: "pipeline", Operator: "EQ", Value: pipeline},
			{PropertyName: dateProp, Operator: "GTE", Value: strconv.FormatInt(todayStart.UnixMilli(), 10)},
			{PropertyName: dateProp, Operator: "LT", Value: strconv.FormatInt(tomorrowStart.UnixMilli(), 10)},
		}}},
		Properties: []string{"dealname", "pr_vendedor", dateProp},
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("HubSpot SDR query failed: %w", err)
	}

	events := dealsToEvents(deals, "pr_vendedor", dateProp, false)
	set := AggregateEvents(events)
	ranked := RankAggregates(set, models.UserTypeSDR, 5)

	entries := make([]HallEntry, 0, len(ranked))
	for _, entry := range ranked {
		agg := entry.Aggregate
		badges := DetectBadges(agg.Timestamps, agg.Count, 0, models.UserTypeSDR)
		userName := utils.GetAnalystName(agg.PersonID)

		s.Badges.PersistDetected(models.UserTypeSDR, agg.PersonID, userName, badges, float64(agg.Count), pipelineName, &UnlockContext{
			Count:      agg.Count,
			Pipeline:   pipelineName,
			Deals:      agg.DealNames,
			Timestamps: formatTimestamps(agg.Timestamps),
		})

		entries = append(entries, HallEntry{
			Position:       entry.Position,
			UserID:         agg.PersonID,
			UserName:       userName,
			ScheduledCount: agg.Count,
			Badges:         badges,
			FirstEvent:     clockTime(agg.Timestamps, 0),
			LastEvent:      clockTime(agg.Timestamps, -1),
		})
	}

	return &HallResult{
		Status:    "success",
		UserType:  string(models.UserTypeSDR),
		Pipeline:  pipelineName,
		Data:      entries,
		Total:     len(deals),
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}

func formatTimestamps(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format(time.RFC3339))
	}
	return out
}

// clockTime renders the first (idx 0) or last (idx -1) event as HH:MM:SS.
func clockTime(ts []time.Time, idx int) string {
	if len(ts) == 0 {
		return ""
	}
	if idx < 0 {
		idx = len(ts) + idx
	}
	return ts[idx].In(utils.BrazilTZ).Format("15:04:05")
}
