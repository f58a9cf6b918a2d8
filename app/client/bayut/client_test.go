package bayut

import (
	"context"
	"math"
	"testing"

	"truevalue/app/config"
)

func newTestClient() *Client {
	return &Client{cfg: &config.Config{}}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"marina", "dubai-marina"},
		{"Dubai Marina", "dubai-marina"},
		{"  JBR  ", "jumeirah-beach-residence"},
		{"Business Bay", "business-bay"},
		{"jvc", "jumeirah-village-circle"},
		{"Palm", "palm-jumeirah"},
		{"Al Barsha", "al barsha"},
	}

	for _, tt := range tests {
		if got := ResolveLocation(tt.input); got != tt.want {
			t.Errorf("ResolveLocation(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSearchMockFiltersByPurpose(t *testing.T) {
	client := newTestClient()

	result, err := client.Search(context.Background(), SearchRequest{
		Location: "marina",
		Purpose:  "for-rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != "mock_data" {
		t.Errorf("source = %q, want mock_data", result.Source)
	}
	if len(result.Properties) != 1 || result.Properties[0].ID != "m004" {
		t.Errorf("properties = %+v, want the single rental listing", result.Properties)
	}
}

func TestSearchMockFiltersByPrice(t *testing.T) {
	client := newTestClient()

	result, err := client.Search(context.Background(), SearchRequest{
		Location: "dubai marina",
		Purpose:  "for-sale",
		MaxPrice: 1500000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Properties) != 1 || result.Properties[0].ID != "m003" {
		t.Errorf("properties = %+v, want only the 1BR under 1.5M", result.Properties)
	}
}

func TestSearchMockFallsBackToZone(t *testing.T) {
	client := newTestClient()

	result, err := client.Search(context.Background(), SearchRequest{
		Location: "jvc",
		MinPrice: 99000000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// nothing matches the filter, the whole zone comes back
	if len(result.Properties) != 2 {
		t.Errorf("got %d properties, want the full JVC pool", len(result.Properties))
	}
	if result.LocationResolved != "jumeirah-village-circle" {
		t.Errorf("resolved = %q", result.LocationResolved)
	}
}

func TestSearchMockUnknownZoneFallsBackToMarina(t *testing.T) {
	client := newTestClient()

	result, err := client.Search(context.Background(), SearchRequest{
		Location: "some beach",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Properties) != 4 {
		t.Errorf("got %d properties, want the Marina fallback pool", len(result.Properties))
	}
}

func TestMarketTrendsForSale(t *testing.T) {
	client := newTestClient()

	trends, err := client.MarketTrends(context.Background(), "marina", "for-sale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trends.SampleCount != 3 {
		t.Errorf("sample count = %d, want 3", trends.SampleCount)
	}
	if trends.MarketActivity != "Limited Listings" {
		t.Errorf("activity = %q", trends.MarketActivity)
	}
	if trends.MinPriceAED != 1450000 || trends.MaxPriceAED != 2600000 {
		t.Errorf("price range = %v..%v", trends.MinPriceAED, trends.MaxPriceAED)
	}
	if math.Abs(trends.GrossYieldEstPct-6.5) > 0.001 {
		t.Errorf("yield estimate = %v, want 6.5", trends.GrossYieldEstPct)
	}
	if trends.SupplyPipeline == nil || trends.SupplyPipeline.RiskLevel != "MODERATE" {
		t.Errorf("supply pipeline = %+v", trends.SupplyPipeline)
	}
}

func TestMarketTrendsAllPurposes(t *testing.T) {
	client := newTestClient()

	trends, err := client.MarketTrends(context.Background(), "marina", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trends.SampleCount != 4 {
		t.Errorf("sample count = %d, want 4", trends.SampleCount)
	}
	if trends.MarketActivity != "Active" {
		t.Errorf("activity = %q", trends.MarketActivity)
	}
	if trends.GrossYieldEstPct != 0 {
		t.Errorf("yield should only be estimated for sales, got %v", trends.GrossYieldEstPct)
	}
}

func TestZoneResearchDefaults(t *testing.T) {
	if got := ZoneAvgPsf("nowhere"); got != 1500 {
		t.Errorf("ZoneAvgPsf default = %v", got)
	}
	if got := ZoneServiceCharge("nowhere"); got != 16 {
		t.Errorf("ZoneServiceCharge default = %v", got)
	}
	if got := ZoneLiquidity("nowhere"); got != 12 {
		t.Errorf("ZoneLiquidity default = %v", got)
	}

	pipeline, ok := SupplyPipeline("jvc")
	if !ok || pipeline.RiskLevel != "HIGH" {
		t.Errorf("SupplyPipeline(jvc) = %+v, %v", pipeline, ok)
	}
}
