package extract

import (
	"time"

	"github.com/google/uuid"

	"github.com/magellan-group/report-triage/internal/model"
	"github.com/magellan-group/report-triage/internal/triage"
)

// Source identifies the uploaded document a record was extracted from.
type Source struct {
	OwnerID     string
	Filename    string
	StoragePath string
	FileURL     string
}

// Transform flattens a validated payload into an extraction record,
// attaching ownership and source reference and computing the derived
// fields. Derived fields are computed here and nowhere else; the payload
// never supplies them. Notes start nil.
func Transform(p *model.ExtractionPayload, src Source) *model.ExtractionRecord {
	rec := &model.ExtractionRecord{
		ID:        uuid.New().String(),
		OwnerID:   src.OwnerID,
		CreatedAt: time.Now().UTC(),

		Filename:    src.Filename,
		StoragePath: src.StoragePath,
		FileURL:     src.FileURL,

		Issuer:        p.ReportMetadata.Issuer,
		EffectiveDate: p.ReportMetadata.EffectiveDate,
		Stage:         p.ReportMetadata.Stage,

		Project:            p.ProjectBasics.Project,
		PrimaryCommodity:   p.ProjectBasics.PrimaryCommodity,
		SecondaryCommodity: p.ProjectBasics.SecondaryCommodity,
		Country:            p.Location.Country,
		Region:             p.Location.Region,

		MeasuredTonnage:  p.ResourceEstimate.MeasuredTonnage,
		IndicatedTonnage: p.ResourceEstimate.IndicatedTonnage,
		InferredTonnage:  p.ResourceEstimate.InferredTonnage,
		MeasuredGrade:    p.ResourceEstimate.MeasuredGrade,
		IndicatedGrade:   p.ResourceEstimate.IndicatedGrade,
		InferredGrade:    p.ResourceEstimate.InferredGrade,
		CutoffGrade:      p.ResourceEstimate.CutoffGrade,
		ResourceDate:     p.ResourceEstimate.ResourceDate,

		HasEconomicStudy: p.Economics.HasEconomicStudy,
		AfterTaxNPV:      p.Economics.AfterTaxNPV,
		DiscountRate:     p.Economics.DiscountRate,
		AfterTaxIRR:      p.Economics.AfterTaxIRR,
		Capex:            p.Economics.Capex,
		Opex:             p.Economics.Opex,
		PaybackYears:     p.Economics.PaybackYears,
		MineLifeYears:    p.Economics.MineLifeYears,
		PriceAssumption:  p.Economics.PriceAssumption,

		MetallurgyRisk:     p.RiskAssessment.MetallurgyRisk,
		PermittingRisk:     p.RiskAssessment.PermittingRisk,
		InfrastructureRisk: p.RiskAssessment.InfrastructureRisk,
		GeopoliticalRisk:   p.RiskAssessment.GeopoliticalRisk,
		MetallurgyNotes:    p.RiskAssessment.MetallurgyNotes,
		PermittingNotes:    p.RiskAssessment.PermittingNotes,

		Priority:         p.InvestmentAnalysis.Priority,
		Rationale:        p.InvestmentAnalysis.Rationale,
		NextCatalyst:     p.InvestmentAnalysis.NextCatalyst,
		CatalystTimeline: p.InvestmentAnalysis.CatalystTimeline,
		RedFlags:         p.InvestmentAnalysis.RedFlags,
		PositiveSignals:  p.InvestmentAnalysis.PositiveSignals,
		MagellanScore:    p.InvestmentAnalysis.MagellanScore,
	}

	rec.IndInfRatio = triage.ComputeRatio(rec.IndicatedTonnage, rec.InferredTonnage)
	rec.ResourceConfidence = triage.ComputeConfidence(rec.IndInfRatio)
	rec.Status = triage.ClassifyStatus(triage.StatusInput{
		Priority:         rec.Priority,
		Ratio:            rec.IndInfRatio,
		MetallurgyRisk:   rec.MetallurgyRisk,
		Stage:            rec.Stage,
		HasEconomicStudy: rec.HasEconomicStudy,
		PermittingRisk:   rec.PermittingRisk,
	})

	return rec
}
