package bayut

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"truevalue/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const apiURL = "https://bayut.p.rapidapi.com/properties/list"

// Client serves Dubai property listings: live Bayut RapidAPI when a key is
// configured, curated mock data otherwise (and on any API failure, so the
// analyst always gets something to work with).
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SearchRequest filters a listing search. Zero values mean "no filter".
type SearchRequest struct {
	Location     string
	Purpose      string
	MinPrice     float64
	MaxPrice     float64
	PropertyType string
}

type SearchResult struct {
	Source           string    `json:"source"`
	Note             string    `json:"note,omitempty"`
	Total            int       `json:"total"`
	LocationResolved string    `json:"location_resolved"`
	Properties       []Listing `json:"properties"`
}

// ResolveLocation normalises a location string to a canonical zone key.
func ResolveLocation(location string) string {
	key := strings.ToLower(strings.TrimSpace(location))
	if resolved, ok := locationAliases[key]; ok {
		return resolved
	}
	return key
}

func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if c.cfg.Bayut.APIKey != "" {
		result, err := c.searchLive(ctx, req)
		if err == nil {
			return result, nil
		}
		slog.Warn("Bayut API call failed, falling back to mock data", "error", err)
	}

	return c.searchMock(req), nil
}

func (c *Client) searchLive(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	params := url.Values{}
	params.Set("locationExternalIDs", req.Location)
	params.Set("purpose", req.Purpose)
	params.Set("hitsPerPage", "10")
	params.Set("page", "0")
	params.Set("lang", "en")
	params.Set("sort", "date-desc")
	if req.MinPrice > 0 {
		params.Set("priceMin", strconv.FormatFloat(req.MinPrice, 'f', 0, 64))
	}
	if req.MaxPrice > 0 {
		params.Set("priceMax", strconv.FormatFloat(req.MaxPrice, 'f', 0, 64))
	}
	if req.PropertyType != "" {
		typeMap := map[string]string{"apartment": "4", "villa": "3", "townhouse": "18"}
		category, ok := typeMap[strings.ToLower(req.PropertyType)]
		if !ok {
			category = "4"
		}
		params.Set("categoryExternalID", category)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("X-RapidAPI-Key", c.cfg.Bayut.APIKey)
	httpReq.Header.Set("X-RapidAPI-Host", "bayut.p.rapidapi.com")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		NbHits int       `json:"nbHits"`
		Hits   []Listing `json:"hits"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	hits := payload.Hits
	if len(hits) > 6 {
		hits = hits[:6]
	}

	return &SearchResult{
		Source:           "bayut_api",
		Total:            payload.NbHits,
		LocationResolved: ResolveLocation(req.Location),
		Properties:       hits,
	}, nil
}

func (c *Client) searchMock(req SearchRequest) *SearchResult {
	resolved := ResolveLocation(req.Location)
	pool := mockListings[resolved]

	filtered := pie.Filter(pool, func(l Listing) bool {
		if req.Purpose != "" && l.Purpose != req.Purpose {
			return false
		}
		if req.MinPrice > 0 && l.Price < req.MinPrice {
			return false
		}
		if req.MaxPrice > 0 && l.Price > req.MaxPrice {
			return false
		}
		if req.PropertyType != "" && !strings.EqualFold(l.PropertyType, req.PropertyType) {
			return false
		}
		return true
	})

	// Never return an empty set: fall back to the whole zone, then to Marina,
	// so the analyst always has material.
	if len(filtered) == 0 {
		filtered = pool
	}
	if len(filtered) == 0 {
		filtered = mockListings["dubai-marina"]
	}

	return &SearchResult{
		Source:           "mock_data",
		Note:             "Demo data — set a Bayut API key for live listings",
		Total:            len(filtered),
		LocationResolved: resolved,
		Properties:       filtered,
	}
}

// TrendsResult aggregates listing statistics for a zone.
type TrendsResult struct {
	Source            string        `json:"source"`
	Location          string        `json:"location"`
	LocationResolved  string        `json:"location_resolved"`
	Purpose           string        `json:"purpose"`
	SampleCount       int           `json:"sample_count"`
	AvgPriceAED       float64       `json:"avg_price_aed"`
	AvgAreaSqft       float64       `json:"avg_area_sqft"`
	AvgPricePerSqft   float64       `json:"avg_price_per_sqft_aed"`
	MinPriceAED       float64       `json:"min_price_aed"`
	MaxPriceAED       float64       `json:"max_price_aed"`
	GrossYieldEstPct  float64       `json:"gross_yield_estimate_pct,omitempty"`
	MarketActivity    string        `json:"market_activity"`
	SupplyPipeline    *PipelineZone `json:"supply_pipeline,omitempty"`
	SupplyPipelineNot string        `json:"supply_pipeline_note,omitempty"`
}

func (c *Client) MarketTrends(ctx context.Context, location, purpose string) (*TrendsResult, error) {
	listings, err := c.Search(ctx, SearchRequest{Location: location, Purpose: purpose})
	if err != nil {
		return nil, fmt.Errorf("listing search failed: %w", err)
	}

	resolved := ResolveLocation(location)

	prices := pie.Map(listings.Properties, func(l Listing) float64 { return l.Price })
	areas := pie.Map(listings.Properties, func(l Listing) float64 { return l.AreaSqft })
	prices = pie.Filter(prices, func(p float64) bool { return p > 0 })
	areas = pie.Filter(areas, func(a float64) bool { return a > 0 })

	result := &TrendsResult{
		Source:           listings.Source,
		Location:         location,
		LocationResolved: resolved,
		Purpose:          purpose,
		SampleCount:      len(listings.Properties),
		MarketActivity:   "Limited Listings",
	}
	if len(listings.Properties) >= 4 {
		result.MarketActivity = "Active"
	}

	if len(prices) > 0 && len(areas) > 0 {
		avgPrice := pie.Average(prices)
		avgArea := pie.Average(areas)
		result.AvgPriceAED = avgPrice
		result.AvgAreaSqft = avgArea
		if avgArea > 0 {
			result.AvgPricePerSqft = avgPrice / avgArea
		}
		result.MinPriceAED = pie.Min(prices)
		result.MaxPriceAED = pie.Max(prices)
	}

	if purpose == "for-sale" && result.AvgPriceAED > 0 {
		yield, ok := zoneGrossYield[resolved]
		if !ok {
			yield = 0.065
		}
		result.GrossYieldEstPct = yield * 100
	}

	if pipeline, ok := supplyPipeline[resolved]; ok {
		result.SupplyPipeline = &pipeline
	} else {
		result.SupplyPipelineNot = "No pipeline data for this zone"
	}

	return result, nil
}

// SupplyPipeline returns the oversupply research record for a zone.
func SupplyPipeline(zone string) (PipelineZone, bool) {
	p, ok := supplyPipeline[ResolveLocation(zone)]
	return p, ok
}

// ZoneAvgPsf returns the zone's average price per sqft, with a citywide
// default for unresearched zones.
func ZoneAvgPsf(zone string) float64 {
	if v, ok := zoneAvgPsf[ResolveLocation(zone)]; ok {
		return v
	}
	return 1500
}

// ZoneServiceCharge returns the estimated service charge in AED/sqft/year.
func ZoneServiceCharge(zone string) float64 {
	if v, ok := zoneServiceChargePsf[ResolveLocation(zone)]; ok {
		return v
	}
	return 16
}

// ZoneLiquidity returns the zone liquidity score out of 20.
func ZoneLiquidity(zone string) int {
	if v, ok := zoneLiquidityScore[ResolveLocation(zone)]; ok {
		return v
	}
	return 12
}
