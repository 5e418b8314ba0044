package model

import "time"

// ReportStage is the disclosure stage of a technical report.
type ReportStage string

const (
	StagePreliminaryAssessment ReportStage = "Preliminary Assessment"
	StagePEA                   ReportStage = "PEA"
	StagePreFeasibility        ReportStage = "Pre-Feasibility"
	StagePFS                   ReportStage = "PFS"
	StageFeasibility           ReportStage = "Feasibility"
	StageFS                    ReportStage = "FS"
	StageResourceUpdate        ReportStage = "Resource Update"
	StageTechnicalReport       ReportStage = "Technical Report"
)

// IsEarlyStage reports whether the stage precedes any economic study.
func (s ReportStage) IsEarlyStage() bool {
	return s == StagePEA || s == StagePreliminaryAssessment
}

// RiskLevel grades a single risk dimension.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Priority is the model's investment priority call.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityPass   Priority = "pass"
)

// Confidence buckets the indicated/inferred ratio.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// Status is the three-way triage classification, computed locally and
// never supplied by the extraction call.
type Status string

const (
	StatusInvestigate Status = "investigate"
	StatusWatch       Status = "watch"
	StatusPass        Status = "pass"
)

// ExtractionRecord is one row per processed report. Pointer fields are
// nullable: the extraction call may leave any descriptive field empty.
type ExtractionRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`

	// Source reference.
	Filename    string `json:"filename"`
	StoragePath string `json:"storage_path"`
	FileURL     string `json:"file_url,omitempty"`

	// Report metadata.
	Issuer        *string      `json:"issuer,omitempty"`
	Project       *string      `json:"project,omitempty"`
	EffectiveDate *string      `json:"effective_date,omitempty"`
	Stage         *ReportStage `json:"report_stage,omitempty"`

	// Project basics and location.
	PrimaryCommodity   *string `json:"primary_commodity,omitempty"`
	SecondaryCommodity *string `json:"secondary_commodity,omitempty"`
	Country            *string `json:"country,omitempty"`
	Region             *string `json:"region,omitempty"`

	// Resource estimate (tonnages in million tonnes).
	MeasuredTonnage  *float64 `json:"measured_tonnage,omitempty"`
	IndicatedTonnage *float64 `json:"indicated_tonnage,omitempty"`
	InferredTonnage  *float64 `json:"inferred_tonnage,omitempty"`
	MeasuredGrade    *string  `json:"measured_grade,omitempty"`
	IndicatedGrade   *string  `json:"indicated_grade,omitempty"`
	InferredGrade    *string  `json:"inferred_grade,omitempty"`
	CutoffGrade      *string  `json:"cutoff_grade,omitempty"`
	ResourceDate     *string  `json:"resource_date,omitempty"`

	// Economics.
	HasEconomicStudy bool     `json:"has_economic_study"`
	AfterTaxNPV      *float64 `json:"after_tax_npv,omitempty"`
	DiscountRate     *float64 `json:"discount_rate,omitempty"`
	AfterTaxIRR      *float64 `json:"after_tax_irr,omitempty"`
	Capex            *float64 `json:"capex,omitempty"`
	Opex             *string  `json:"opex,omitempty"`
	PaybackYears     *float64 `json:"payback_years,omitempty"`
	MineLifeYears    *float64 `json:"mine_life_years,omitempty"`
	PriceAssumption  *string  `json:"price_assumption,omitempty"`

	// Risk assessment.
	MetallurgyRisk     *RiskLevel `json:"metallurgy_risk,omitempty"`
	PermittingRisk     *RiskLevel `json:"permitting_risk,omitempty"`
	InfrastructureRisk *RiskLevel `json:"infrastructure_risk,omitempty"`
	GeopoliticalRisk   *RiskLevel `json:"geopolitical_risk,omitempty"`
	MetallurgyNotes    *string    `json:"metallurgy_notes,omitempty"`
	PermittingNotes    *string    `json:"permitting_notes,omitempty"`

	// Investment analysis.
	Priority         *Priority `json:"priority,omitempty"`
	Rationale        *string   `json:"rationale,omitempty"`
	NextCatalyst     *string   `json:"next_catalyst,omitempty"`
	CatalystTimeline *string   `json:"catalyst_timeline,omitempty"`
	RedFlags         []string  `json:"red_flags,omitempty"`
	PositiveSignals  []string  `json:"positive_signals,omitempty"`
	MagellanScore    *float64  `json:"magellan_score,omitempty"`

	// Derived locally from the fields above.
	IndInfRatio        *float64   `json:"ind_inf_ratio,omitempty"`
	ResourceConfidence Confidence `json:"resource_confidence,omitempty"`
	Status             Status     `json:"status"`

	// Owner annotation, the only field mutable after insert.
	Notes *string `json:"notes,omitempty"`
}
