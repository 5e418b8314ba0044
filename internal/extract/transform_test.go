package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magellan-group/report-triage/internal/model"
)

func TestTransform(t *testing.T) {
	payload, err := ParsePayload(validReply)
	require.NoError(t, err)

	src := Source{
		OwnerID:     "user-1",
		Filename:    "eagle-ridge-pea.pdf",
		StoragePath: "user-1/1700000000-000001.pdf",
		FileURL:     "/files/user-1/1700000000-000001.pdf",
	}
	rec := Transform(payload, src)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user-1", rec.OwnerID)
	assert.WithinDuration(t, time.Now().UTC(), rec.CreatedAt, 5*time.Second)
	assert.Equal(t, "eagle-ridge-pea.pdf", rec.Filename)
	assert.Equal(t, src.StoragePath, rec.StoragePath)

	assert.Equal(t, "Northern Gold Corp", *rec.Issuer)
	assert.Equal(t, "Eagle Ridge", *rec.Project)
	assert.Equal(t, model.StagePEA, *rec.Stage)
	assert.Equal(t, "Canada", *rec.Country)
	assert.Equal(t, 420.0, *rec.AfterTaxNPV)
	assert.True(t, rec.HasEconomicStudy)

	// Derived fields: 12.5 / 4.0 rounds to 3.13, which buckets high.
	require.NotNil(t, rec.IndInfRatio)
	assert.Equal(t, 3.13, *rec.IndInfRatio)
	assert.Equal(t, model.ConfidenceHigh, rec.ResourceConfidence)

	// Ratio above 2 with metallurgy risk below high classifies investigate.
	assert.Equal(t, model.StatusInvestigate, rec.Status)

	assert.Nil(t, rec.Notes)
}

func TestTransformSparsePayload(t *testing.T) {
	payload, err := ParsePayload(`{"report_metadata": {}, "project_basics": {}, "location": {},
		"resource_estimate": {}, "economics": {}, "risk_assessment": {}, "investment_analysis": {}}`)
	require.NoError(t, err)

	rec := Transform(payload, Source{OwnerID: "user-1", Filename: "empty.pdf"})

	assert.Nil(t, rec.Project)
	assert.Nil(t, rec.IndInfRatio)
	assert.Equal(t, model.Confidence(""), rec.ResourceConfidence)
	// Nothing triggers investigate or pass, so the default applies.
	assert.Equal(t, model.StatusWatch, rec.Status)
}
