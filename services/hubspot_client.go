// services/hubspot_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultHubSpotBaseURL = "https://api.hubapi.com"

// HubSpotClient wraps the CRM deals search endpoint. Every call carries its
// own fixed timeout; pagination uses the cursor the API returns and a 429
// answer backs off one second before retrying the same page.
type HubSpotClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	// pageDelay spaces paginated requests; tests shrink it.
	pageDelay time.Duration
}

func NewHubSpotClient() *HubSpotClient {
	baseURL := os.Getenv("HUBSPOT_BASE_URL")
	if baseURL == "" {
		baseURL = defaultHubSpotBaseURL
	}
	token := os.Getenv("HUBSPOT_PRIVATE_APP_TOKEN")
	if token == "" {
		log.Println("[AVISO] HUBSPOT_PRIVATE_APP_TOKEN not set — CRM queries will fail")
	}

	return &HubSpotClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 25 * time.Second,
		},
		pageDelay: 300 * time.Millisecond,
	}
}

// SearchFilter is one property condition inside a HubSpot search.
type SearchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type SearchFilterGroup struct {
	Filters []SearchFilter `json:"filters"`
}

// SearchRequest is the body of POST /crm/v3/objects/deals/search.
type SearchRequest struct {
	FilterGroups []SearchFilterGroup `json:"filterGroups"`
	Properties   []string            `json:"properties"`
	Limit        int                 `json:"limit"`
	After        string              `json:"after,omitempty"`
}

// HubSpotDeal is one result row: an id plus a string property bag.
type HubSpotDeal struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type searchResponse struct {
	Results []HubSpotDeal `json:"results"`
	Paging  struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// SearchDeals runs one search page and returns its results plus the cursor
// for the next page ("" when exhausted).
func (c *HubSpotClient) SearchDeals(ctx context.Context, req SearchRequest) ([]HubSpotDeal, string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/crm/v3/objects/deals/search", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("HubSpot request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, "", errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("HubSpot returned status %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("failed to decode HubSpot response: %w", err)
	}
	return parsed.Results, parsed.Paging.Next.After, nil
}

var errRateLimited = fmt.Errorf("hubspot rate limited")

// PipelineStage is one stage of a CRM deal pipeline.
type PipelineStage struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Metadata struct {
		IsClosed string `json:"isClosed"`
	} `json:"metadata"`
}

// Pipeline is one CRM deal pipeline with its stages.
type Pipeline struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Stages []PipelineStage `json:"stages"`
}

// GetDealPipelines lists every deal pipeline and its stages, used to keep
// the local stage-label table fresh.
func (c *HubSpotClient) GetDealPipelines(ctx context.Context) ([]Pipeline, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/crm/v3/pipelines/deals", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HubSpot request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HubSpot returned status %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed struct {
		Results []Pipeline `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode pipelines response: %w", err)
	}
	return parsed.Results, nil
}

// SearchAllDeals walks every page of a search, retrying rate-limited pages
// after a one second pause.
func (c *HubSpotClient) SearchAllDeals(ctx context.Context, req SearchRequest) ([]HubSpotDeal, error) {
	var deals []HubSpotDeal
	after := ""

	for {
		page := req
		page.After = after

		results, next, err := c.SearchDeals(ctx, page)
		if err == errRateLimited {
			log.Println("[AVISO] HubSpot rate limit hit, waiting 1 second...")
			select {
			case <-time.After(1 * time.Second):
				continue
			case <-ctx.Done():
				return deals, ctx.Err()
			}
		}
		if err != nil {
			return deals, err
		}

		deals = append(deals, results...)
		if next == "" {
			return deals, nil
		}
		after = next

		select {
		case <-time.After(c.pageDelay):
		case <-ctx.Done():
			return deals, ctx.Err()
		}
	}
}
