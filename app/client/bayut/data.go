package bayut

// Listing is a single property listing, live or mock.
type Listing struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Location        string  `json:"location"`
	Building        string  `json:"building"`
	Bedrooms        int     `json:"bedrooms"`
	Price           float64 `json:"price"`
	AreaSqft        float64 `json:"area"`
	PricePerSqft    float64 `json:"price_per_sqft"`
	Purpose         string  `json:"purpose"`
	PropertyType    string  `json:"property_type"`
	ChillerProvider string  `json:"chiller_provider"`
	Floor           int     `json:"floor"`
	View            string  `json:"view"`
	CompletionYear  int     `json:"completion_year"`
}

// PipelineZone is hardcoded supply-pipeline research for a zone.
type PipelineZone struct {
	Zone           string `json:"zone"`
	RiskLevel      string `json:"risk_level"`
	RiskYear       int    `json:"risk_year,omitempty"`
	UnitsPipeline  int    `json:"units_pipeline"`
	CurrentSupply  int    `json:"current_supply"`
	Notes          string `json:"notes"`
	Recommendation string `json:"recommendation"`
}

// locationAliases maps fuzzy user input to canonical zone keys.
var locationAliases = map[string]string{
	"marina":                   "dubai-marina",
	"dubai marina":             "dubai-marina",
	"dubai-marina":             "dubai-marina",
	"business bay":             "business-bay",
	"businessbay":              "business-bay",
	"business-bay":             "business-bay",
	"jbr":                      "jumeirah-beach-residence",
	"jumeirah beach":           "jumeirah-beach-residence",
	"jumeirah beach residence": "jumeirah-beach-residence",
	"downtown":                 "downtown-dubai",
	"downtown dubai":           "downtown-dubai",
	"downtown-dubai":           "downtown-dubai",
	"jvc":                      "jumeirah-village-circle",
	"jumeirah village circle":  "jumeirah-village-circle",
	"jumeirah-village-circle":  "jumeirah-village-circle",
	"palm":                     "palm-jumeirah",
	"palm jumeirah":            "palm-jumeirah",
	"palm-jumeirah":            "palm-jumeirah",
}

var mockListings = map[string][]Listing{
	"dubai-marina": {
		{
			ID: "m001", Title: "Marina Gate Tower 1 — 2BR", Location: "Dubai Marina",
			Building: "Marina Gate Tower 1", Bedrooms: 2, Price: 2500000, AreaSqft: 1500,
			PricePerSqft: 1667, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 28, View: "Marina", CompletionYear: 2018,
		},
		{
			ID: "m002", Title: "Princess Tower — 2BR", Location: "Dubai Marina",
			Building: "Princess Tower", Bedrooms: 2, Price: 2600000, AreaSqft: 1650,
			PricePerSqft: 1576, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 45, View: "Sea / Marina", CompletionYear: 2012,
		},
		{
			ID: "m003", Title: "Cayan Tower — 1BR", Location: "Dubai Marina",
			Building: "Cayan Tower", Bedrooms: 1, Price: 1450000, AreaSqft: 950,
			PricePerSqft: 1526, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 33, View: "Marina", CompletionYear: 2013,
		},
		{
			ID: "m004", Title: "Marina Diamond 5 — 1BR", Location: "Dubai Marina",
			Building: "Marina Diamond 5", Bedrooms: 1, Price: 95000, AreaSqft: 880,
			PricePerSqft: 108, Purpose: "for-rent", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 9, View: "Community", CompletionYear: 2008,
		},
	},
	"business-bay": {
		{
			ID: "bb001", Title: "Executive Towers — 2BR", Location: "Business Bay",
			Building: "Executive Towers", Bedrooms: 2, Price: 1950000, AreaSqft: 1400,
			PricePerSqft: 1393, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 18, View: "Canal", CompletionYear: 2010,
		},
		{
			ID: "bb002", Title: "Binghatti Canal — 1BR", Location: "Business Bay",
			Building: "Binghatti Canal", Bedrooms: 1, Price: 1150000, AreaSqft: 750,
			PricePerSqft: 1533, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 12, View: "Canal", CompletionYear: 2023,
		},
	},
	"downtown-dubai": {
		{
			ID: "dt001", Title: "Burj Vista Tower 2 — 2BR", Location: "Downtown Dubai",
			Building: "Burj Vista Tower 2", Bedrooms: 2, Price: 3400000, AreaSqft: 1450,
			PricePerSqft: 2345, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 40, View: "Burj Khalifa", CompletionYear: 2018,
		},
		{
			ID: "dt002", Title: "The Address Residences — 1BR", Location: "Downtown Dubai",
			Building: "The Address Residences", Bedrooms: 1, Price: 2300000, AreaSqft: 980,
			PricePerSqft: 2347, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 22, View: "Fountain", CompletionYear: 2017,
		},
	},
	"jumeirah-beach-residence": {
		{
			ID: "jbr001", Title: "Sadaf 5 — 2BR", Location: "JBR",
			Building: "Sadaf 5", Bedrooms: 2, Price: 1800000, AreaSqft: 1350,
			PricePerSqft: 1333, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 15, View: "Community", CompletionYear: 2007,
		},
		{
			ID: "jbr002", Title: "Murjan 1 — 3BR", Location: "JBR",
			Building: "Murjan 1", Bedrooms: 3, Price: 2900000, AreaSqft: 1900,
			PricePerSqft: 1526, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Empower", Floor: 8, View: "Sea", CompletionYear: 2006,
		},
	},
	"jumeirah-village-circle": {
		{
			ID: "jvc001", Title: "Binghatti Stars — Studio", Location: "JVC",
			Building: "Binghatti Stars", Bedrooms: 0, Price: 550000, AreaSqft: 380,
			PricePerSqft: 1447, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Lootah", Floor: 3, View: "Community", CompletionYear: 2021,
		},
		{
			ID: "jvc002", Title: "Belgravia — 1BR", Location: "JVC",
			Building: "Belgravia", Bedrooms: 1, Price: 620000, AreaSqft: 700,
			PricePerSqft: 886, Purpose: "for-sale", PropertyType: "apartment",
			ChillerProvider: "Lootah", Floor: 6, View: "Community", CompletionYear: 2018,
		},
	},
}

var supplyPipeline = map[string]PipelineZone{
	"business-bay": {
		Zone: "Business Bay", RiskLevel: "HIGH", RiskYear: 2026,
		UnitsPipeline: 12500, CurrentSupply: 45000,
		Notes: "Massive off-plan pipeline from Damac, Ellington, and other developers. " +
			"Oversupply risk is significant heading into 2026–2027. " +
			"Rental yields likely to compress under new supply pressure.",
		Recommendation: "Exercise caution. Prefer resale over off-plan. Negotiate hard.",
	},
	"dubai-marina": {
		Zone: "Dubai Marina", RiskLevel: "MODERATE", RiskYear: 2026,
		UnitsPipeline: 4200, CurrentSupply: 38000,
		Notes: "Established zone with limited land. New supply mainly at Emaar Beachfront. " +
			"Demand resilient due to lifestyle appeal and short-term rental market. " +
			"Empower chiller trap in most towers — factor this into net yield.",
		Recommendation: "Solid hold zone. Focus on mid-floor premium views for liquidity.",
	},
	"jumeirah-beach-residence": {
		Zone: "JBR", RiskLevel: "LOW",
		UnitsPipeline: 800, CurrentSupply: 6500,
		Notes: "Limited supply growth. Established beachfront. Strong short-term rental demand. " +
			"Older stock (2006–2008) — factor snagging and major maintenance into analysis. " +
			"Service charge and Empower chiller costs are above-average.",
		Recommendation: "Strong hold zone for rental income. Due diligence critical on old stock.",
	},
	"downtown-dubai": {
		Zone: "Downtown Dubai", RiskLevel: "LOW",
		UnitsPipeline: 1800, CurrentSupply: 22000,
		Notes: "Flagship district. Emaar dominates — maintains scarcity. " +
			"Burj Khalifa view premium very real. High service charges. " +
			"Liquidity is best in class for Dubai resale market.",
		Recommendation: "Safe haven asset. Accept lower yields for capital preservation.",
	},
	"jumeirah-village-circle": {
		Zone: "JVC", RiskLevel: "HIGH", RiskYear: 2026,
		UnitsPipeline: 28000, CurrentSupply: 52000,
		Notes: "One of the most oversupplied zones in Dubai. Hundreds of projects under construction. " +
			"Gross yields appear high (7–9%) but net yields shrink fast after service charges, " +
			"vacancy, and management fees. Exit liquidity is weak.",
		Recommendation: "High yield trap. Only buy if price is deeply discounted and rental demand confirmed.",
	},
	"palm-jumeirah": {
		Zone: "Palm Jumeirah", RiskLevel: "LOW",
		UnitsPipeline: 600, CurrentSupply: 10000,
		Notes: "Trophy asset. Ultra-low supply growth. Strong UHNW demand. " +
			"Signature villas command massive premiums. Apartments more liquid than villas. " +
			"Short-term rental performance is exceptional.",
		Recommendation: "Institutional-grade safe haven. Buy on dips.",
	},
	"dubai-south": {
		Zone: "Dubai South", RiskLevel: "VERY HIGH", RiskYear: 2027,
		UnitsPipeline: 45000, CurrentSupply: 18000,
		Notes: "Enormous pipeline ahead of Expo legacy development. " +
			"Infrastructure still maturing. Al Maktoum Airport expansion is a long-term positive " +
			"but near-term oversupply will suppress prices and yields.",
		Recommendation: "Speculative play only. Long hold period required (5+ years).",
	},
}

// Zone research tables used by the investment scorer.
var (
	zoneAvgPsf = map[string]float64{
		"dubai-marina":             1600,
		"business-bay":             1450,
		"jumeirah-beach-residence": 1750,
		"downtown-dubai":           2200,
		"jumeirah-village-circle":  950,
		"palm-jumeirah":            2800,
	}
	zoneServiceChargePsf = map[string]float64{
		"dubai-marina":             18,
		"business-bay":             16,
		"jumeirah-beach-residence": 22,
		"downtown-dubai":           25,
		"jumeirah-village-circle":  12,
		"palm-jumeirah":            30,
	}
	zoneLiquidityScore = map[string]int{
		"downtown-dubai":           20,
		"dubai-marina":             18,
		"palm-jumeirah":            17,
		"jumeirah-beach-residence": 16,
		"business-bay":             13,
		"jumeirah-village-circle":  8,
	}
	zoneGrossYield = map[string]float64{
		"dubai-marina":             0.065,
		"business-bay":             0.075,
		"jumeirah-beach-residence": 0.060,
		"downtown-dubai":           0.055,
		"jumeirah-village-circle":  0.080,
		"palm-jumeirah":            0.050,
	}
)
