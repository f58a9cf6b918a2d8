package agent

import (
	"math"
	"strings"
	"testing"
)

func TestCalculateChillerCostEmpower(t *testing.T) {
	cost, err := CalculateChillerCost("empower", 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cost.ChillerTrapDetected {
		t.Error("expected chiller trap for empower")
	}
	if cost.AnnualConsumptionAED != 104.4 {
		t.Errorf("consumption = %v, want 104.4", cost.AnnualConsumptionAED)
	}
	if cost.AnnualCapacityAED != 5349.65 {
		t.Errorf("capacity = %v, want 5349.65", cost.AnnualCapacityAED)
	}
	if cost.TotalAnnualAED != 5454.05 {
		t.Errorf("total = %v, want 5454.05", cost.TotalAnnualAED)
	}
	if cost.CostPerSqftYearAED != 3.64 {
		t.Errorf("cost per sqft = %v, want 3.64", cost.CostPerSqftYearAED)
	}
	if cost.WarningLevel != "LOW" {
		t.Errorf("warning = %q, want LOW", cost.WarningLevel)
	}
}

func TestCalculateChillerCostLootah(t *testing.T) {
	cost, err := CalculateChillerCost("Lootah", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cost.ChillerTrapDetected {
		t.Error("lootah has no fixed charges, trap should not trigger")
	}
	if cost.AnnualCapacityAED != 0 {
		t.Errorf("capacity = %v, want 0", cost.AnnualCapacityAED)
	}
	if cost.TotalAnnualAED != 62.4 {
		t.Errorf("total = %v, want 62.4", cost.TotalAnnualAED)
	}
}

func TestCalculateChillerCostUnknownProvider(t *testing.T) {
	if _, err := CalculateChillerCost("emicool", 1000); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestAnalyzeInvestmentGoodBuy(t *testing.T) {
	analysis := AnalyzeInvestment(InvestmentRequest{
		PropertyPrice:   2400000,
		AreaSqft:        1500,
		AnnualRent:      168000,
		Location:        "marina",
		ChillerProvider: "empower",
	})

	// price 20 (at zone avg) + yield 22 (7%) + liquidity 18 + quality 11
	// (MODERATE) + chiller 8 (LOW minus trap penalty)
	if analysis.InvestmentScore != 79 {
		t.Errorf("score = %d, want 79", analysis.InvestmentScore)
	}
	if analysis.Recommendation != "GOOD BUY" {
		t.Errorf("recommendation = %q, want GOOD BUY", analysis.Recommendation)
	}
	if analysis.Signal != "GREEN LIGHT" {
		t.Errorf("signal = %q, want GREEN LIGHT", analysis.Signal)
	}
	if len(analysis.RedFlags) != 1 || !strings.Contains(analysis.RedFlags[0], "Empower") {
		t.Errorf("red flags = %v, want single chiller trap flag", analysis.RedFlags)
	}
}

func TestAnalyzeInvestmentStrongBuy(t *testing.T) {
	analysis := AnalyzeInvestment(InvestmentRequest{
		PropertyPrice:   2000000,
		AreaSqft:        1500,
		AnnualRent:      170000,
		Location:        "dubai marina",
		ChillerProvider: "empower",
	})

	if analysis.InvestmentScore != 92 {
		t.Errorf("score = %d, want 92", analysis.InvestmentScore)
	}
	if analysis.Recommendation != "STRONG BUY" {
		t.Errorf("recommendation = %q, want STRONG BUY", analysis.Recommendation)
	}
}

func TestAnalyzeInvestmentYieldTrap(t *testing.T) {
	analysis := AnalyzeInvestment(InvestmentRequest{
		PropertyPrice:   900000,
		AreaSqft:        700,
		AnnualRent:      30000,
		Location:        "jvc",
		ChillerProvider: "lootah",
	})

	if analysis.InvestmentScore != 31 {
		t.Errorf("score = %d, want 31", analysis.InvestmentScore)
	}
	if analysis.Recommendation != "NEGOTIATE" {
		t.Errorf("recommendation = %q, want NEGOTIATE", analysis.Recommendation)
	}
	// overpriced + weak gross yield + weak net yield + HIGH supply risk
	if len(analysis.RedFlags) != 4 {
		t.Errorf("red flags = %v, want 4 flags", analysis.RedFlags)
	}
}

func TestAnalyzeInvestmentScoreMatchesBreakdown(t *testing.T) {
	analysis := AnalyzeInvestment(InvestmentRequest{
		PropertyPrice:   1800000,
		AreaSqft:        1100,
		AnnualRent:      120000,
		Location:        "business bay",
		ChillerProvider: "empower",
	})

	sum := 0
	for _, pillar := range analysis.ScoreBreakdown {
		sum += pillar.Score
		if pillar.Score > pillar.Max {
			t.Errorf("pillar score %d exceeds max %d", pillar.Score, pillar.Max)
		}
	}
	if sum != analysis.InvestmentScore {
		t.Errorf("breakdown sums to %d, total is %d", sum, analysis.InvestmentScore)
	}
}

func TestAnalyzeInvestmentUnknownZoneUsesDefaults(t *testing.T) {
	analysis := AnalyzeInvestment(InvestmentRequest{
		PropertyPrice:   1500000,
		AreaSqft:        1000,
		AnnualRent:      90000,
		Location:        "al barsha",
		ChillerProvider: "lootah",
	})

	// psf 1500 == citywide default avg, 6% gross, default liquidity 12,
	// MODERATE quality, lootah LOW
	want := 20 + 18 + 12 + 11 + 10
	if analysis.InvestmentScore != want {
		t.Errorf("score = %d, want %d", analysis.InvestmentScore, want)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(3.14159); got != 3.14 {
		t.Errorf("round2(3.14159) = %v", got)
	}
	if got := round2(2.675); math.Abs(got-2.68) > 0.011 {
		t.Errorf("round2(2.675) = %v", got)
	}
}
