package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/magellan-group/report-triage/internal/model"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func sampleRecords() []model.ExtractionRecord {
	stage := model.StagePEA
	prio := model.PriorityMedium
	return []model.ExtractionRecord{
		{
			ID:                 "rec-1",
			OwnerID:            "user-1",
			CreatedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Filename:           "eagle-ridge.pdf",
			EffectiveDate:      strPtr("2026-03-15"),
			Project:            strPtr("Eagle Ridge"),
			Issuer:             strPtr("Northern Gold Corp"),
			PrimaryCommodity:   strPtr("gold"),
			Country:            strPtr("Canada"),
			Stage:              &stage,
			IndInfRatio:        f64Ptr(3.13),
			ResourceConfidence: model.ConfidenceHigh,
			Priority:           &prio,
			Status:             model.StatusInvestigate,
			MagellanScore:      f64Ptr(7),
			AfterTaxNPV:        f64Ptr(420),
			RedFlags:           []string{"single-asset issuer", "unpermitted"},
			NextCatalyst:       strPtr("PFS"),
		},
		{
			ID:        "rec-2",
			OwnerID:   "user-1",
			CreatedAt: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
			Filename:  "sparse.pdf",
			Status:    model.StatusWatch,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "Eagle Ridge", rows[1][1])
	assert.Equal(t, "3.13", rows[1][6])
	assert.Equal(t, "investigate", rows[1][8])
	assert.Equal(t, "high", rows[1][10])
	assert.Equal(t, "single-asset issuer; unpermitted", rows[1][16])
	assert.Equal(t, "2026-08-01T12:00:00Z", rows[1][19])

	// Sparse record: empty strings, never "nil" or zeros.
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "watch", rows[2][8])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "Reports", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Project", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Eagle Ridge", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "watch", sheet.Rows[2].Cells[8].Value)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "report-triage-2026-08-29.csv", FormatCSV.Filename(now))
	assert.Equal(t, "report-triage-2026-08-29.xlsx", FormatXLSX.Filename(now))
}
