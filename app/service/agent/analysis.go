package agent

import (
	"fmt"
	"math"
	"strings"

	"truevalue/app/client/bayut"
)

// District cooling tariffs. Empower charges a fixed monthly capacity fee on
// top of consumption; Lootah bills consumption only. The fixed fee is the
// "chiller trap": it accrues whether or not the unit is occupied.
type chillerRate struct {
	ConsumptionFilsPerKwh float64
	CapacityAEDPerTRMonth float64
	HasFixedCharges       bool
}

var chillerRates = map[string]chillerRate{
	"empower": {ConsumptionFilsPerKwh: 0.58, CapacityAEDPerTRMonth: 85.0, HasFixedCharges: true},
	"lootah":  {ConsumptionFilsPerKwh: 0.52, CapacityAEDPerTRMonth: 0, HasFixedCharges: false},
}

const (
	sqftPerTR      = 286.0 // rule of thumb: 1 TR of cooling per ~286 sqft
	kwhPerSqftYear = 12.0
)

type ChillerCost struct {
	Provider              string  `json:"provider"`
	AreaSqft              float64 `json:"area_sqft"`
	EstimatedCapacityTR   float64 `json:"estimated_capacity_tr"`
	AnnualKwhEstimated    float64 `json:"annual_kwh_estimated"`
	AnnualConsumptionAED  float64 `json:"annual_consumption_cost_aed"`
	AnnualCapacityAED     float64 `json:"annual_capacity_cost_aed"`
	TotalAnnualAED        float64 `json:"total_annual_cost_aed"`
	MonthlyAED            float64 `json:"monthly_cost_aed"`
	CostPerSqftYearAED    float64 `json:"cost_per_sqft_per_year_aed"`
	WarningLevel          string  `json:"warning_level"`
	WarningNote           string  `json:"warning_note"`
	ChillerTrapDetected   bool    `json:"chiller_trap_detected"`
	ChillerTrapExplained  string  `json:"chiller_trap_explanation"`
}

// CalculateChillerCost is the pure-math annual district cooling estimate.
func CalculateChillerCost(provider string, areaSqft float64) (*ChillerCost, error) {
	rate, ok := chillerRates[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return nil, fmt.Errorf("unknown chiller provider %q, supported: empower, lootah", provider)
	}

	estimatedTR := areaSqft / sqftPerTR
	annualKwh := areaSqft * kwhPerSqftYear

	consumptionAED := annualKwh * (rate.ConsumptionFilsPerKwh / 100.0)
	capacityAED := estimatedTR * rate.CapacityAEDPerTRMonth * 12.0
	totalAED := consumptionAED + capacityAED

	var costPerSqft float64
	if areaSqft > 0 {
		costPerSqft = totalAED / areaSqft
	}

	result := &ChillerCost{
		Provider:             strings.ToLower(strings.TrimSpace(provider)),
		AreaSqft:             areaSqft,
		EstimatedCapacityTR:  round2(estimatedTR),
		AnnualKwhEstimated:   math.Round(annualKwh),
		AnnualConsumptionAED: round2(consumptionAED),
		AnnualCapacityAED:    round2(capacityAED),
		TotalAnnualAED:       round2(totalAED),
		MonthlyAED:           round2(totalAED / 12),
		CostPerSqftYearAED:   round2(costPerSqft),
		ChillerTrapDetected:  rate.HasFixedCharges,
	}

	switch {
	case costPerSqft > 15:
		result.WarningLevel = "HIGH"
		result.WarningNote = "CRITICAL: Chiller costs will significantly erode net yield. Model carefully before buying."
	case costPerSqft > 10:
		result.WarningLevel = "MEDIUM"
		result.WarningNote = "Moderate chiller burden. Factor into net yield calculation."
	default:
		result.WarningLevel = "LOW"
		result.WarningNote = "Acceptable chiller cost — no major concern."
	}

	if rate.HasFixedCharges {
		result.ChillerTrapExplained = "Empower charges a FIXED monthly capacity fee regardless of whether the unit " +
			"is occupied or the AC is used. This fee alone can destroy rental yields for landlords."
	} else {
		result.ChillerTrapExplained = "No fixed capacity charges — you only pay for what you consume."
	}

	return result, nil
}

type InvestmentRequest struct {
	PropertyPrice   float64
	AreaSqft        float64
	AnnualRent      float64
	Location        string
	ChillerProvider string
}

type PillarScore struct {
	Score int    `json:"score"`
	Max   int    `json:"max"`
	Note  string `json:"note"`
}

type InvestmentAnalysis struct {
	InvestmentScore int                    `json:"investment_score"`
	Recommendation  string                 `json:"recommendation"`
	Signal          string                 `json:"signal"`
	Summary         string                 `json:"summary"`
	RedFlags        []string               `json:"red_flags"`
	ScoreBreakdown  map[string]PillarScore `json:"score_breakdown"`
	Financials      map[string]float64     `json:"financial_summary"`
}

// AnalyzeInvestment runs the 5-pillar 0–100 scoring engine:
// price (30), yield (25), liquidity (20), supply quality (15), chiller (10).
func AnalyzeInvestment(req InvestmentRequest) *InvestmentAnalysis {
	resolved := bayut.ResolveLocation(req.Location)

	var annualChiller float64
	chillerWarning := "MEDIUM"
	chillerTrap := false
	if chiller, err := CalculateChillerCost(req.ChillerProvider, req.AreaSqft); err == nil {
		annualChiller = chiller.TotalAnnualAED
		chillerWarning = chiller.WarningLevel
		chillerTrap = chiller.ChillerTrapDetected
	}

	var pricePerSqft, grossYieldPct float64
	if req.AreaSqft > 0 {
		pricePerSqft = req.PropertyPrice / req.AreaSqft
	}
	if req.PropertyPrice > 0 {
		grossYieldPct = req.AnnualRent / req.PropertyPrice * 100
	}

	serviceChargePsf := bayut.ZoneServiceCharge(resolved)
	annualServiceCharge := serviceChargePsf * req.AreaSqft

	netIncome := req.AnnualRent - annualChiller - annualServiceCharge
	var netYieldPct float64
	if req.PropertyPrice > 0 {
		netYieldPct = netIncome / req.PropertyPrice * 100
	}

	// Pillar 1: price vs zone average
	zoneAvg := bayut.ZoneAvgPsf(resolved)
	psfRatio := 1.0
	if zoneAvg > 0 {
		psfRatio = pricePerSqft / zoneAvg
	}
	var priceScore int
	switch {
	case psfRatio <= 0.85:
		priceScore = 30 // deep value
	case psfRatio <= 0.95:
		priceScore = 25
	case psfRatio <= 1.05:
		priceScore = 20
	case psfRatio <= 1.15:
		priceScore = 12
	default:
		priceScore = 5 // overpriced
	}

	// Pillar 2: gross yield vs Dubai benchmarks
	var yieldScore int
	switch {
	case grossYieldPct >= 8.0:
		yieldScore = 25
	case grossYieldPct >= 7.0:
		yieldScore = 22
	case grossYieldPct >= 6.0:
		yieldScore = 18
	case grossYieldPct >= 5.0:
		yieldScore = 12
	case grossYieldPct >= 4.0:
		yieldScore = 7
	default:
		yieldScore = 2
	}

	// Pillar 3: zone liquidity
	liquidityScore := bayut.ZoneLiquidity(resolved)

	// Pillar 4: supply risk
	supplyRisk := "MODERATE"
	if pipeline, ok := bayut.SupplyPipeline(resolved); ok {
		supplyRisk = pipeline.RiskLevel
	}
	qualityMap := map[string]int{"LOW": 15, "MODERATE": 11, "HIGH": 6, "VERY HIGH": 2}
	qualityScore, ok := qualityMap[supplyRisk]
	if !ok {
		qualityScore = 8
	}

	// Pillar 5: chiller burden
	chillerScoreMap := map[string]int{"LOW": 10, "MEDIUM": 6, "HIGH": 2}
	chillerScore, ok := chillerScoreMap[chillerWarning]
	if !ok {
		chillerScore = 6
	}
	if chillerTrap {
		chillerScore = max(0, chillerScore-2)
	}

	total := priceScore + yieldScore + liquidityScore + qualityScore + chillerScore

	var recommendation, signal, summary string
	switch {
	case total >= 80:
		recommendation, signal = "STRONG BUY", "GREEN LIGHT"
		summary = "Exceptional opportunity. Strong fundamentals across all pillars. Act decisively."
	case total >= 60:
		recommendation, signal = "GOOD BUY", "GREEN LIGHT"
		summary = "Solid investment case. Minor concerns but fundamentals are positive."
	case total >= 40:
		recommendation, signal = "CAUTION", "YELLOW LIGHT"
		summary = "Mixed signals. Address red flags before proceeding. Negotiate on price."
	case total >= 20:
		recommendation, signal = "NEGOTIATE", "ORANGE LIGHT"
		summary = "Significant concerns. Only proceed at a meaningful price discount."
	default:
		recommendation, signal = "DO NOT BUY", "RED LIGHT"
		summary = "Too many red flags. Walk away unless fundamentals change dramatically."
	}

	var redFlags []string
	if chillerTrap {
		redFlags = append(redFlags, "Empower fixed capacity charges will erode net yield significantly")
	}
	if supplyRisk == "HIGH" || supplyRisk == "VERY HIGH" {
		redFlags = append(redFlags, fmt.Sprintf("High oversupply risk in %s — rental and capital values at risk", resolved))
	}
	if grossYieldPct < 5.0 {
		redFlags = append(redFlags, fmt.Sprintf("Gross yield of %.1f%% is below Dubai minimum threshold of 5%%", grossYieldPct))
	}
	if netYieldPct < 3.0 {
		redFlags = append(redFlags, fmt.Sprintf("Net yield of %.1f%% after costs is very weak", netYieldPct))
	}
	if psfRatio > 1.15 {
		redFlags = append(redFlags, fmt.Sprintf("Price per sqft (AED %.0f) is %.0f%% above zone average", pricePerSqft, (psfRatio-1)*100))
	}

	return &InvestmentAnalysis{
		InvestmentScore: total,
		Recommendation:  recommendation,
		Signal:          signal,
		Summary:         summary,
		RedFlags:        redFlags,
		ScoreBreakdown: map[string]PillarScore{
			"price_score":     {Score: priceScore, Max: 30, Note: fmt.Sprintf("AED %.0f/sqft vs zone avg AED %.0f/sqft", pricePerSqft, zoneAvg)},
			"yield_score":     {Score: yieldScore, Max: 25, Note: fmt.Sprintf("Gross yield %.1f%%", grossYieldPct)},
			"liquidity_score": {Score: liquidityScore, Max: 20, Note: "Zone: " + resolved},
			"quality_score":   {Score: qualityScore, Max: 15, Note: "Supply risk: " + supplyRisk},
			"chiller_score":   {Score: chillerScore, Max: 10, Note: fmt.Sprintf("%s — %s warning", req.ChillerProvider, chillerWarning)},
		},
		Financials: map[string]float64{
			"property_price_aed":             req.PropertyPrice,
			"area_sqft":                      req.AreaSqft,
			"price_per_sqft_aed":             math.Round(pricePerSqft),
			"zone_avg_psf_aed":               zoneAvg,
			"annual_gross_rent_aed":          req.AnnualRent,
			"annual_chiller_cost_aed":        math.Round(annualChiller),
			"annual_service_charge_aed":      math.Round(annualServiceCharge),
			"annual_net_income_aed":          math.Round(netIncome),
			"gross_yield_pct":                round2(grossYieldPct),
			"net_yield_pct":                  round2(netYieldPct),
			"estimated_service_charge_psf":   serviceChargePsf,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
