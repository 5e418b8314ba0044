// Package store persists extraction records. Every operation is scoped to
// an owner: records belong to exactly one user, and a caller touching a
// record they do not own receives an authorization error, never a
// silently-empty result. The pipeline inserts once; only notes mutate.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/magellan-group/report-triage/internal/model"
)

// ErrNotFound is returned when no record exists under the given id.
var ErrNotFound = eris.New("store: record not found")

// RecordFilter specifies criteria for listing records.
type RecordFilter struct {
	Stage     string `json:"stage,omitempty"`
	Country   string `json:"country,omitempty"`
	Commodity string `json:"commodity,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Status    string `json:"status,omitempty"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortDesc  bool   `json:"sort_desc,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// sortColumns whitelists sortable columns; anything else falls back to
// creation time.
var sortColumns = map[string]bool{
	"created_at":     true,
	"project":        true,
	"issuer":         true,
	"report_stage":   true,
	"country":        true,
	"priority":       true,
	"status":         true,
	"ind_inf_ratio":  true,
	"magellan_score": true,
}

// SortColumn returns the validated sort column for a filter.
func (f RecordFilter) SortColumn() string {
	if sortColumns[f.SortBy] {
		return f.SortBy
	}
	return "created_at"
}

// OrderClause builds the ORDER BY expression. An unspecified sort lists
// newest records first.
func (f RecordFilter) OrderClause() string {
	dir := "ASC"
	if f.SortDesc || f.SortBy == "" {
		dir = "DESC"
	}
	return f.SortColumn() + " " + dir
}

// Store defines the persistence interface for extraction records.
type Store interface {
	InsertRecord(ctx context.Context, rec *model.ExtractionRecord) error
	ListRecords(ctx context.Context, ownerID string, filter RecordFilter) ([]model.ExtractionRecord, error)
	GetRecord(ctx context.Context, ownerID, id string) (*model.ExtractionRecord, error)
	UpdateNotes(ctx context.Context, ownerID, id, notes string) (*model.ExtractionRecord, error)
	DeleteRecord(ctx context.Context, ownerID, id string) error

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
