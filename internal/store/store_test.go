package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "triage.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string       { return &s }
func f64Ptr(f float64) *float64     { return &f }
func stagePtr(s model.ReportStage) *model.ReportStage { return &s }
func prioPtr(p model.Priority) *model.Priority        { return &p }

func testRecord(ownerID string, mutate func(*model.ExtractionRecord)) *model.ExtractionRecord {
	rec := &model.ExtractionRecord{
		ID:               uuid.New().String(),
		OwnerID:          ownerID,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
		Filename:         "report.pdf",
		StoragePath:      ownerID + "/1700000000-000001.pdf",
		Issuer:           strPtr("Northern Gold Corp"),
		Project:          strPtr("Eagle Ridge"),
		Stage:            stagePtr(model.StagePEA),
		PrimaryCommodity: strPtr("gold"),
		Country:          strPtr("Canada"),
		IndicatedTonnage: f64Ptr(12.5),
		InferredTonnage:  f64Ptr(4.0),
		Priority:         prioPtr(model.PriorityMedium),
		MagellanScore:    f64Ptr(6),
		IndInfRatio:      f64Ptr(3.13),
		ResourceConfidence: model.ConfidenceHigh,
		Status:           model.StatusWatch,
	}
	if mutate != nil {
		mutate(rec)
	}
	return rec
}

func TestSQLiteInsertGetRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec := testRecord("user-1", nil)
	require.NoError(t, s.InsertRecord(ctx, rec))

	got, err := s.GetRecord(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Eagle Ridge", *got.Project)
	assert.Equal(t, model.StagePEA, *got.Stage)
	assert.Equal(t, 3.13, *got.IndInfRatio)
	assert.Equal(t, model.StatusWatch, got.Status)
	assert.Nil(t, got.Notes)
	assert.Nil(t, got.AfterTaxNPV)
}

func TestSQLiteOwnerIsolation(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec := testRecord("user-1", nil)
	require.NoError(t, s.InsertRecord(ctx, rec))

	_, err := s.GetRecord(ctx, "user-2", rec.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = s.UpdateNotes(ctx, "user-2", rec.ID, "mine now")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	err = s.DeleteRecord(ctx, "user-2", rec.ID)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// The record is untouched for its real owner.
	got, err := s.GetRecord(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Notes)

	// Listing never leaks across owners.
	recs, err := s.ListRecords(ctx, "user-2", RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLiteNotFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetRecord(ctx, "user-1", uuid.New().String())
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.DeleteRecord(ctx, "user-1", uuid.New().String())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteListFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.InsertRecord(ctx, testRecord("user-1", func(r *model.ExtractionRecord) {
		r.Project = strPtr("Eagle Ridge")
		r.Country = strPtr("Canada")
		r.PrimaryCommodity = strPtr("gold")
		r.Status = model.StatusInvestigate
		r.CreatedAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	})))
	require.NoError(t, s.InsertRecord(ctx, testRecord("user-1", func(r *model.ExtractionRecord) {
		r.Project = strPtr("Cerro Blanco")
		r.Country = strPtr("Chile")
		r.PrimaryCommodity = strPtr("copper")
		r.SecondaryCommodity = strPtr("gold")
		r.Status = model.StatusWatch
		r.CreatedAt = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	})))
	require.NoError(t, s.InsertRecord(ctx, testRecord("user-1", func(r *model.ExtractionRecord) {
		r.Project = strPtr("Lakeview")
		r.Country = strPtr("Canada")
		r.PrimaryCommodity = strPtr("nickel")
		r.Status = model.StatusPass
		r.Priority = prioPtr(model.PriorityPass)
		r.CreatedAt = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	})))

	t.Run("country", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{Country: "Canada"})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("commodity matches secondary", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{Commodity: "gold"})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("status", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{Status: "investigate"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Eagle Ridge", *recs[0].Project)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{Search: "cerro"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Cerro Blanco", *recs[0].Project)
	})

	t.Run("default sort newest first", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "Lakeview", *recs[0].Project)
		assert.Equal(t, "Eagle Ridge", *recs[2].Project)
	})

	t.Run("sort by project ascending", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{SortBy: "project"})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "Cerro Blanco", *recs[0].Project)
	})

	t.Run("limit and offset", func(t *testing.T) {
		recs, err := s.ListRecords(ctx, "user-1", RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Cerro Blanco", *recs[0].Project)
	})
}

func TestSQLiteUpdateNotes(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec := testRecord("user-1", nil)
	require.NoError(t, s.InsertRecord(ctx, rec))

	got, err := s.UpdateNotes(ctx, "user-1", rec.ID, "call IR about drill results")
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "call IR about drill results", *got.Notes)

	// Notes survive a fresh read and the rest of the record is unchanged.
	got, err = s.GetRecord(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "call IR about drill results", *got.Notes)
	assert.Equal(t, "Eagle Ridge", *got.Project)
}

func TestSQLiteDeleteRecord(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec := testRecord("user-1", nil)
	require.NoError(t, s.InsertRecord(ctx, rec))
	require.NoError(t, s.DeleteRecord(ctx, "user-1", rec.ID))

	_, err := s.GetRecord(ctx, "user-1", rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordFilterSortColumn(t *testing.T) {
	tests := []struct {
		name   string
		filter RecordFilter
		want   string
	}{
		{"empty defaults to created_at", RecordFilter{}, "created_at"},
		{"whitelisted column", RecordFilter{SortBy: "magellan_score"}, "magellan_score"},
		{"unknown column falls back", RecordFilter{SortBy: "doc; DROP TABLE"}, "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.SortColumn())
		})
	}
}

func TestRecordFilterOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", RecordFilter{}.OrderClause())
	assert.Equal(t, "project ASC", RecordFilter{SortBy: "project"}.OrderClause())
	assert.Equal(t, "project DESC", RecordFilter{SortBy: "project", SortDesc: true}.OrderClause())
}
