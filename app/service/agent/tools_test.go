package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNativeToolErrorsReturnedAsContent(t *testing.T) {
	tool := &nativeTool{
		name: "broken",
		fn: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("upstream unavailable")
		},
	}

	output, err := tool.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("tool errors should surface as content, got err: %v", err)
	}
	if !strings.Contains(output, `"success": false`) || !strings.Contains(output, "upstream unavailable") {
		t.Errorf("unexpected error content: %s", output)
	}
}

func TestNativeToolMarshalsResult(t *testing.T) {
	tool := &nativeTool{
		name: "ok",
		fn: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"value": 42}, nil
		},
	}

	output, err := tool.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != `{"value":42}` {
		t.Errorf("output = %s", output)
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"name":  "marina gate",
		"price": 2500000.0,
	}

	if got := argString(args, "name"); got != "marina gate" {
		t.Errorf("argString = %q", got)
	}
	if got := argString(args, "missing"); got != "" {
		t.Errorf("argString missing = %q", got)
	}
	if got := argFloat(args, "price"); got != 2500000 {
		t.Errorf("argFloat = %v", got)
	}
	if got := argFloat(args, "name"); got != 0 {
		t.Errorf("argFloat on string = %v", got)
	}
}

func TestBuildingIssues(t *testing.T) {
	tests := []struct {
		building string
		risk     string
	}{
		{"Executive Towers", "HIGH"},
		{"Sadaf 5", "MEDIUM"},
		{"Marina Gate Tower 1", "LOW"},
		{"Binghatti Canal", "MEDIUM"},
		{"Random Tower 99", "UNKNOWN"},
	}

	for _, tt := range tests {
		report := buildingIssues(tt.building)
		if report.RiskSignal != tt.risk {
			t.Errorf("buildingIssues(%q).RiskSignal = %q, want %q", tt.building, report.RiskSignal, tt.risk)
		}
		if report.IssuesFound != len(report.Issues) {
			t.Errorf("buildingIssues(%q) count mismatch", tt.building)
		}
	}
}

func TestComparePropertiesVerdict(t *testing.T) {
	result := compareProperties(
		map[string]any{"price": 1500000.0, "area": 1000.0, "annual_rent": 100000.0},
		map[string]any{"price": 2000000.0, "area": 1000.0},
	)

	verdict, _ := result["verdict"].(string)
	if !strings.Contains(verdict, "Property A is cheaper") {
		t.Errorf("verdict = %q", verdict)
	}

	metricsA, _ := result["property_a"].(map[string]float64)
	if metricsA["gross_yield_pct"] < 6.6 || metricsA["gross_yield_pct"] > 6.7 {
		t.Errorf("gross yield = %v", metricsA["gross_yield_pct"])
	}
}
