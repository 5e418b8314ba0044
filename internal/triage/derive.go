// Package triage computes the derived fields of an extraction record:
// the indicated/inferred ratio, its confidence bucket, and the three-way
// status classification. All functions are pure.
package triage

import (
	"math"

	"github.com/magellan-group/report-triage/internal/model"
)

// ComputeRatio returns indicated/inferred rounded to 2 decimal places.
// Returns nil when either input is absent or inferred is zero — a zero
// denominator yields nil, not infinity.
func ComputeRatio(indicated, inferred *float64) *float64 {
	if indicated == nil || inferred == nil || *inferred == 0 {
		return nil
	}
	r := math.Round(*indicated / *inferred * 100) / 100
	return &r
}

// ComputeConfidence buckets a ratio. The boundary values 2 and 0.5 are
// inclusive toward moderate. A nil ratio yields the empty bucket.
func ComputeConfidence(ratio *float64) model.Confidence {
	switch {
	case ratio == nil:
		return ""
	case *ratio > 2:
		return model.ConfidenceHigh
	case *ratio >= 0.5:
		return model.ConfidenceModerate
	default:
		return model.ConfidenceLow
	}
}
