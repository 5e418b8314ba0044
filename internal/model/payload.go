package model

// The extraction reply is a JSON object grouped into seven topic sections.
// Each section name is a required top-level key; a reply missing any of
// them is rejected before transformation.

// RequiredSections lists the seven top-level keys an extraction payload
// must carry, in canonical order.
var RequiredSections = []string{
	"report_metadata",
	"project_basics",
	"location",
	"resource_estimate",
	"economics",
	"risk_assessment",
	"investment_analysis",
}

// ExtractionPayload is the grouped payload parsed from the model reply.
type ExtractionPayload struct {
	ReportMetadata     ReportMetadataSection     `json:"report_metadata"`
	ProjectBasics      ProjectBasicsSection      `json:"project_basics"`
	Location           LocationSection           `json:"location"`
	ResourceEstimate   ResourceEstimateSection   `json:"resource_estimate"`
	Economics          EconomicsSection          `json:"economics"`
	RiskAssessment     RiskAssessmentSection     `json:"risk_assessment"`
	InvestmentAnalysis InvestmentAnalysisSection `json:"investment_analysis"`
}

// ReportMetadataSection covers the report itself.
type ReportMetadataSection struct {
	Issuer        *string      `json:"issuer"`
	EffectiveDate *string      `json:"effective_date"`
	Stage         *ReportStage `json:"report_stage"`
}

// ProjectBasicsSection covers the project and its commodities.
type ProjectBasicsSection struct {
	Project            *string `json:"project_name"`
	PrimaryCommodity   *string `json:"primary_commodity"`
	SecondaryCommodity *string `json:"secondary_commodity"`
}

// LocationSection covers where the project sits.
type LocationSection struct {
	Country *string `json:"country"`
	Region  *string `json:"region"`
}

// ResourceEstimateSection covers the mineral resource statement.
type ResourceEstimateSection struct {
	MeasuredTonnage  *float64 `json:"measured_tonnage_mt"`
	IndicatedTonnage *float64 `json:"indicated_tonnage_mt"`
	InferredTonnage  *float64 `json:"inferred_tonnage_mt"`
	MeasuredGrade    *string  `json:"measured_grade"`
	IndicatedGrade   *string  `json:"indicated_grade"`
	InferredGrade    *string  `json:"inferred_grade"`
	CutoffGrade      *string  `json:"cutoff_grade"`
	ResourceDate     *string  `json:"resource_date"`
}

// EconomicsSection covers the economic study, when one exists.
type EconomicsSection struct {
	HasEconomicStudy bool     `json:"has_economic_study"`
	AfterTaxNPV      *float64 `json:"after_tax_npv_musd"`
	DiscountRate     *float64 `json:"discount_rate_pct"`
	AfterTaxIRR      *float64 `json:"after_tax_irr_pct"`
	Capex            *float64 `json:"capex_musd"`
	Opex             *string  `json:"opex"`
	PaybackYears     *float64 `json:"payback_years"`
	MineLifeYears    *float64 `json:"mine_life_years"`
	PriceAssumption  *string  `json:"price_assumption"`
}

// RiskAssessmentSection grades four independent risk dimensions.
type RiskAssessmentSection struct {
	MetallurgyRisk     *RiskLevel `json:"metallurgy_risk"`
	PermittingRisk     *RiskLevel `json:"permitting_risk"`
	InfrastructureRisk *RiskLevel `json:"infrastructure_risk"`
	GeopoliticalRisk   *RiskLevel `json:"geopolitical_risk"`
	MetallurgyNotes    *string    `json:"metallurgy_notes"`
	PermittingNotes    *string    `json:"permitting_notes"`
}

// InvestmentAnalysisSection carries the model's investment call.
type InvestmentAnalysisSection struct {
	Priority         *Priority `json:"priority"`
	Rationale        *string   `json:"rationale"`
	NextCatalyst     *string   `json:"next_catalyst"`
	CatalystTimeline *string   `json:"catalyst_timeline"`
	RedFlags         []string  `json:"red_flags"`
	PositiveSignals  []string  `json:"positive_signals"`
	MagellanScore    *float64  `json:"magellan_score"`
}
