package triage

import "github.com/magellan-group/report-triage/internal/model"

// StatusInput bundles the record fields the classifier reads.
type StatusInput struct {
	Priority         *model.Priority
	Ratio            *float64
	MetallurgyRisk   *model.RiskLevel
	Stage            *model.ReportStage
	HasEconomicStudy bool
	PermittingRisk   *model.RiskLevel
}

// ClassifyStatus maps a record to investigate, pass, or watch.
// Investigate rules are checked before pass rules: a record with
// priority=high and metallurgy_risk=high classifies investigate, not
// pass.
func ClassifyStatus(in StatusInput) model.Status {
	if isInvestigate(in) {
		return model.StatusInvestigate
	}
	if isPass(in) {
		return model.StatusPass
	}
	return model.StatusWatch
}

func isInvestigate(in StatusInput) bool {
	if in.Priority != nil && *in.Priority == model.PriorityHigh {
		return true
	}
	if in.Ratio != nil && *in.Ratio > 2 && !riskIs(in.MetallurgyRisk, model.RiskHigh) {
		return true
	}
	if in.Stage != nil && in.Stage.IsEarlyStage() && !in.HasEconomicStudy {
		return true
	}
	return false
}

func isPass(in StatusInput) bool {
	if in.Priority != nil && *in.Priority == model.PriorityPass {
		return true
	}
	return riskIs(in.MetallurgyRisk, model.RiskHigh) || riskIs(in.PermittingRisk, model.RiskHigh)
}

func riskIs(r *model.RiskLevel, level model.RiskLevel) bool {
	return r != nil && *r == level
}
