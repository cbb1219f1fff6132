// services/looker.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"hall-da-fama/utils"
)

const lookerCacheDuration = 5 * time.Minute

// GaugeData is the supply-logos gauge shown beside the revenue counter.
// Remaining is nil when the current value could not be read.
type GaugeData struct {
	GaugeValue  *int   `json:"gauge_value"`
	GaugeTarget int    `json:"gauge_target"`
	Remaining   *int   `json:"remaining"`
	Timestamp   string `json:"timestamp"`
}

// GaugeSource fetches the current gauge reading from the BI platform.
type GaugeSource interface {
	FetchGauge(ctx context.Context) (*GaugeData, error)
}

// LookerClient reads the gauge from a Looker query endpoint using a
// pre-authenticated session cookie. Sessions are provisioned out of band
// and expire; a 401/403 here means the cookie needs renewing.
type LookerClient struct {
	URL         string
	Cookie      string
	GaugeTarget int
	HTTPClient  *http.Client
}

func NewLookerClient() *LookerClient {
	target := 800
	if raw := os.Getenv("LOOKER_GAUGE_TARGET"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			target = v
		}
	}
	return &LookerClient{
		URL:         os.Getenv("LOOKER_GAUGE_URL"),
		Cookie:      os.Getenv("LOOKER_SESSION_COOKIE"),
		GaugeTarget: target,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchGauge queries Looker and normalizes the response. The query returns
// rows of numeric cells; the gauge value is the largest plausible reading,
// with the target value itself filtered out.
func (c *LookerClient) FetchGauge(ctx context.Context) (*GaugeData, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("LOOKER_GAUGE_URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Looker request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Cookie != "" {
		req.Header.Set("Cookie", c.Cookie)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Looker request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("Looker session expired (status %d), renew LOOKER_SESSION_COOKIE", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Looker returned status %d", resp.StatusCode)
	}

	var rows []map[string]json.Number
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode Looker response: %w", err)
	}

	var best *int
	for _, row := range rows {
		for _, cell := range row {
			v, err := cell.Int64()
			if err != nil {
				continue
			}
			n := int(v)
			if n < 0 || n > 1000 || n == c.GaugeTarget {
				continue
			}
			if best == nil || n > *best {
				value := n
				best = &value
			}
		}
	}

	data := &GaugeData{
		GaugeValue:  best,
		GaugeTarget: c.GaugeTarget,
		Timestamp:   time.Now().In(utils.BrazilTZ).Format("2006-01-02 15:04:05"),
	}
	if best != nil {
		remaining := c.GaugeTarget - *best
		data.Remaining = &remaining
	}
	return data, nil
}

// LookerService caches gauge readings so the dashboard can poll freely
// without hammering the BI platform.
type LookerService struct {
	Source GaugeSource

	mu        sync.Mutex
	cached    *GaugeData
	fetchedAt time.Time
}

func NewLookerService(source GaugeSource) *LookerService {
	return &LookerService{Source: source}
}

// GaugeValue returns the cached reading when fresh, otherwise fetches a new
// one. forceRefresh bypasses the cache.
func (s *LookerService) GaugeValue(ctx context.Context, forceRefresh bool) (*GaugeData, error) {
	s.mu.Lock()
	if !forceRefresh && s.cached != nil && time.Since(s.fetchedAt) < lookerCacheDuration {
		data := s.cached
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	data, err := s.Source.FetchGauge(ctx)
	if err != nil {
		s.mu.Lock()
		stale := s.cached
		s.mu.Unlock()
		if stale != nil {
			log.Printf("[AVISO] Looker fetch failed, serving stale gauge: %v", err)
			return stale, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cached = data
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return data, nil
}
