package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magellan-group/report-triage/internal/model"
)

func f(v float64) *float64 { return &v }

func TestComputeRatio(t *testing.T) {
	tests := []struct {
		name      string
		indicated *float64
		inferred  *float64
		want      *float64
	}{
		{"both present", f(10), f(4), f(2.5)},
		{"rounds to two decimals", f(1), f(3), f(0.33)},
		{"rounds half up", f(1), f(8), f(0.13)},
		{"zero denominator", f(5), f(0), nil},
		{"nil indicated", nil, f(4), nil},
		{"nil inferred", f(10), nil, nil},
		{"both nil", nil, nil, nil},
		{"zero numerator", f(0), f(4), f(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRatio(tt.indicated, tt.inferred)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func TestComputeConfidence(t *testing.T) {
	tests := []struct {
		name  string
		ratio *float64
		want  model.Confidence
	}{
		{"nil ratio", nil, ""},
		{"above two is high", f(2.01), model.ConfidenceHigh},
		{"exactly two is moderate", f(2.0), model.ConfidenceModerate},
		{"exactly half is moderate", f(0.5), model.ConfidenceModerate},
		{"below half is low", f(0.49), model.ConfidenceLow},
		{"one is moderate", f(1.0), model.ConfidenceModerate},
		{"zero is low", f(0), model.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeConfidence(tt.ratio))
		})
	}
}
