package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"truevalue/app/client/bayut"

	"github.com/elliotchance/pie/v2"
)

// Tool is a callable capability offered to the model. Parameters returns a
// JSON-schema object describing the tool's input.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, args map[string]any) (string, error)
}

type nativeTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

func (t *nativeTool) Name() string               { return t.name }
func (t *nativeTool) Description() string        { return t.description }
func (t *nativeTool) Parameters() map[string]any { return t.parameters }

func (t *nativeTool) Call(ctx context.Context, args map[string]any) (string, error) {
	result, err := t.fn(ctx, args)
	if err != nil {
		// Tool errors are returned to the model as content, not failures:
		// the analyst can recover or ask for clarification.
		return fmt.Sprintf(`{"success": false, "error": %q}`, err.Error()), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argFloat(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func objectSchema(required []string, props map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func strProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func numProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func (s *Service) nativeTools() []Tool {
	return []Tool{
		&nativeTool{
			name: "search_bayut_properties",
			description: "Search Dubai property listings on Bayut (UAE's largest portal). " +
				"Returns properties with price, area, building name, chiller provider and key stats.",
			parameters: objectSchema([]string{"location", "purpose"}, map[string]any{
				"location":      strProp("Location name, e.g. 'dubai-marina', 'jvc', 'business bay'"),
				"purpose":       map[string]any{"type": "string", "enum": []string{"for-sale", "for-rent"}},
				"min_price":     numProp("Minimum price in AED"),
				"max_price":     numProp("Maximum price in AED"),
				"property_type": strProp("apartment, villa or townhouse"),
			}),
			fn: func(ctx context.Context, args map[string]any) (any, error) {
				return s.bayutClient.Search(ctx, bayut.SearchRequest{
					Location:     argString(args, "location"),
					Purpose:      argString(args, "purpose"),
					MinPrice:     argFloat(args, "min_price"),
					MaxPrice:     argFloat(args, "max_price"),
					PropertyType: argString(args, "property_type"),
				})
			},
		},
		&nativeTool{
			name: "calculate_chiller_cost",
			description: "Calculate annual district cooling (chiller) costs for a unit. " +
				"Exposes the Empower fixed-capacity 'chiller trap'. Run this for every investment question.",
			parameters: objectSchema([]string{"provider", "area_sqft"}, map[string]any{
				"provider":  strProp("District cooling provider: empower or lootah"),
				"area_sqft": numProp("Unit area in square feet"),
			}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				return CalculateChillerCost(argString(args, "provider"), argFloat(args, "area_sqft"))
			},
		},
		&nativeTool{
			name: "get_market_trends",
			description: "Aggregate market trend data for a location: average prices, price per sqft, " +
				"yield estimate and supply pipeline risk.",
			parameters: objectSchema([]string{"location", "purpose"}, map[string]any{
				"location": strProp("Location name"),
				"purpose":  map[string]any{"type": "string", "enum": []string{"for-sale", "for-rent"}},
			}),
			fn: func(ctx context.Context, args map[string]any) (any, error) {
				return s.bayutClient.MarketTrends(ctx, argString(args, "location"), argString(args, "purpose"))
			},
		},
		&nativeTool{
			name: "analyze_investment",
			description: "Full 5-pillar investment scoring engine (0-100): price, yield, liquidity, " +
				"supply quality, chiller burden. Returns a scored recommendation with red flags.",
			parameters: objectSchema(
				[]string{"property_price", "area_sqft", "annual_rent", "location", "chiller_provider"},
				map[string]any{
					"property_price":   numProp("Purchase price in AED"),
					"area_sqft":        numProp("Unit area in square feet"),
					"annual_rent":      numProp("Expected annual rent in AED"),
					"location":         strProp("Location name"),
					"chiller_provider": strProp("empower or lootah"),
				}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				return AnalyzeInvestment(InvestmentRequest{
					PropertyPrice:   argFloat(args, "property_price"),
					AreaSqft:        argFloat(args, "area_sqft"),
					AnnualRent:      argFloat(args, "annual_rent"),
					Location:        argString(args, "location"),
					ChillerProvider: argString(args, "chiller_provider"),
				}), nil
			},
		},
		&nativeTool{
			name:        "get_supply_pipeline",
			description: "Oversupply risk research for a zone: pipeline units, risk level and year.",
			parameters: objectSchema([]string{"zone"}, map[string]any{
				"zone": strProp("Zone name, e.g. 'business bay'"),
			}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				zone := argString(args, "zone")
				if pipeline, ok := bayut.SupplyPipeline(zone); ok {
					return pipeline, nil
				}
				return map[string]any{
					"zone":       zone,
					"risk_level": "UNKNOWN",
					"notes": fmt.Sprintf("No detailed pipeline data available for %q. "+
						"Recommend checking DLD transaction reports for supply/demand indicators.", zone),
					"recommendation": "Insufficient data. Proceed with manual research before committing capital.",
				}, nil
			},
		},
		&nativeTool{
			name: "compare_properties",
			description: "Compare two properties head-to-head on price per sqft, yield and chiller burden. " +
				"Pass the two listings as returned by search or analysis tools.",
			parameters: objectSchema([]string{"property_a", "property_b"}, map[string]any{
				"property_a": map[string]any{"type": "object", "description": "First property (price, area, annual_rent, location, chiller_provider)"},
				"property_b": map[string]any{"type": "object", "description": "Second property"},
			}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				a, okA := args["property_a"].(map[string]any)
				b, okB := args["property_b"].(map[string]any)
				if !okA || !okB {
					return nil, fmt.Errorf("both property_a and property_b objects are required")
				}
				return compareProperties(a, b), nil
			},
		},
		&nativeTool{
			name: "verify_title_deed",
			description: "Verify a title deed number against Dubai Land Department records. " +
				"Demo environment returns a simulated verification.",
			parameters: objectSchema([]string{"title_deed_number"}, map[string]any{
				"title_deed_number": strProp("DLD title deed number"),
			}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				deed := strings.TrimSpace(argString(args, "title_deed_number"))
				if deed == "" {
					return nil, fmt.Errorf("title_deed_number is required")
				}
				return map[string]any{
					"success":           true,
					"source":            "mock_data",
					"title_deed_number": deed,
					"status":            "VALID",
					"note": "Simulated verification — integrate the Dubai REST API key for live DLD checks. " +
						"Always insist on seeing the original deed before transferring funds.",
				}, nil
			},
		},
		&nativeTool{
			name: "search_building_issues",
			description: "Search community reports for snagging, defect and maintenance issues in a building. " +
				"Run for due diligence on any specific tower.",
			parameters: objectSchema([]string{"building_name"}, map[string]any{
				"building_name": strProp("Building or tower name"),
			}),
			fn: func(_ context.Context, args map[string]any) (any, error) {
				return buildingIssues(argString(args, "building_name")), nil
			},
		},
	}
}

type buildingIssue struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
	Year     int    `json:"year"`
}

type buildingIssueReport struct {
	Source         string          `json:"source"`
	Building       string          `json:"building"`
	IssuesFound    int             `json:"issues_found"`
	RiskSignal     string          `json:"risk_signal"`
	Issues         []buildingIssue `json:"issues"`
	Recommendation string          `json:"recommendation"`
}

// buildingIssues returns curated snagging profiles keyed by building name
// fragments. A configured social-listener MCP server replaces this with live
// community search.
func buildingIssues(buildingName string) *buildingIssueReport {
	name := strings.ToLower(buildingName)

	containsAny := func(keys ...string) bool {
		return pie.Any(keys, func(k string) bool { return strings.Contains(name, k) })
	}

	var issues []buildingIssue
	var risk string
	switch {
	case containsAny("executive tower"):
		issues = []buildingIssue{
			{Issue: "Water ingress reported on upper floors", Severity: "HIGH", Year: 2023},
			{Issue: "Lift maintenance backlogs", Severity: "MEDIUM", Year: 2023},
			{Issue: "Chiller billing disputes — residents contest Empower invoices", Severity: "HIGH", Year: 2022},
		}
		risk = "HIGH"
	case containsAny("sadaf", "murjan", "rimal", "shams"):
		issues = []buildingIssue{
			{Issue: "Aging plumbing — reports of leaks in bathrooms", Severity: "MEDIUM", Year: 2023},
			{Issue: "Facade cracks noted — building 15+ years old", Severity: "MEDIUM", Year: 2022},
			{Issue: "Elevated service charges — RERA cap disputes", Severity: "LOW", Year: 2023},
		}
		risk = "MEDIUM"
	case containsAny("marina gate", "cayan"):
		issues = []buildingIssue{
			{Issue: "Minor snagging in handover units", Severity: "LOW", Year: 2022},
			{Issue: "Empower chiller billing disputes common", Severity: "MEDIUM", Year: 2023},
		}
		risk = "LOW"
	case containsAny("binghatti", "prime residency", "ghalia", "belgravia"):
		issues = []buildingIssue{
			{Issue: "Finishing quality complaints vs. brochure", Severity: "MEDIUM", Year: 2023},
			{Issue: "Delays in handover snagging rectification", Severity: "MEDIUM", Year: 2023},
		}
		risk = "MEDIUM"
	default:
		issues = []buildingIssue{
			{Issue: "No significant community reports found in curated dataset", Severity: "UNKNOWN", Year: 2024},
		}
		risk = "UNKNOWN"
	}

	return &buildingIssueReport{
		Source:      "mock_data",
		Building:    buildingName,
		IssuesFound: len(issues),
		RiskSignal:  risk,
		Issues:      issues,
		Recommendation: "Request RERA service charge history, developer snagging reports, " +
			"and building inspection records before completing purchase.",
	}
}

func compareProperties(a, b map[string]any) map[string]any {
	metric := func(p map[string]any) map[string]float64 {
		price := argFloat(p, "price")
		if price == 0 {
			price = argFloat(p, "property_price")
		}
		area := argFloat(p, "area")
		if area == 0 {
			area = argFloat(p, "area_sqft")
		}
		rent := argFloat(p, "annual_rent")

		m := map[string]float64{"price_aed": price, "area_sqft": area}
		if area > 0 {
			m["price_per_sqft"] = price / area
		}
		if price > 0 && rent > 0 {
			m["gross_yield_pct"] = rent / price * 100
		}
		return m
	}

	metricsA := metric(a)
	metricsB := metric(b)

	verdict := "Comparable on headline metrics — differentiate on zone liquidity and chiller provider."
	if psfA, psfB := metricsA["price_per_sqft"], metricsB["price_per_sqft"]; psfA > 0 && psfB > 0 {
		if psfA < psfB {
			verdict = "Property A is cheaper per sqft — verify the discount is not explained by building quality or chiller burden."
		} else if psfB < psfA {
			verdict = "Property B is cheaper per sqft — verify the discount is not explained by building quality or chiller burden."
		}
	}

	return map[string]any{
		"success":    true,
		"property_a": metricsA,
		"property_b": metricsB,
		"verdict":    verdict,
	}
}
