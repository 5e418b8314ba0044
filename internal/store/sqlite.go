package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local and
// single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS extraction_records (
	id                  TEXT PRIMARY KEY,
	owner_id            TEXT NOT NULL,
	created_at          DATETIME NOT NULL,
	filename            TEXT NOT NULL,
	project             TEXT,
	issuer              TEXT,
	report_stage        TEXT,
	primary_commodity   TEXT,
	secondary_commodity TEXT,
	country             TEXT,
	priority            TEXT,
	status              TEXT NOT NULL,
	ind_inf_ratio       REAL,
	magellan_score      REAL,
	notes               TEXT,
	doc                 TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_owner ON extraction_records(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_records_owner_status ON extraction_records(owner_id, status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertRecord(ctx context.Context, rec *model.ExtractionRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extraction_records
		 (id, owner_id, created_at, filename, project, issuer, report_stage,
		  primary_commodity, secondary_commodity, country, priority, status,
		  ind_inf_ratio, magellan_score, notes, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.CreatedAt, rec.Filename,
		rec.Project, rec.Issuer, stageStr(rec.Stage),
		rec.PrimaryCommodity, rec.SecondaryCommodity, rec.Country,
		priorityStr(rec.Priority), string(rec.Status),
		rec.IndInfRatio, rec.MagellanScore, rec.Notes, string(doc),
	)
	return eris.Wrap(err, "sqlite: insert record")
}

func (s *SQLiteStore) GetRecord(ctx context.Context, ownerID, id string) (*model.ExtractionRecord, error) {
	var recOwner string
	var docJSON string
	var notes sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, notes, doc FROM extraction_records WHERE id = ?`,
		id,
	).Scan(&recOwner, &notes, &docJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", id)
	}

	if recOwner != ownerID {
		return nil, apperr.New(apperr.KindUnauthorized, "record belongs to another user")
	}

	return decodeRecord([]byte(docJSON), nullStr(notes))
}

func (s *SQLiteStore) ListRecords(ctx context.Context, ownerID string, filter RecordFilter) ([]model.ExtractionRecord, error) {
	query := `SELECT notes, doc FROM extraction_records WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Stage != "" {
		query += ` AND report_stage = ?`
		args = append(args, filter.Stage)
	}
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.Commodity != "" {
		query += ` AND (primary_commodity = ? OR secondary_commodity = ?)`
		args = append(args, filter.Commodity, filter.Commodity)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += ` AND (LOWER(project) LIKE ? OR LOWER(issuer) LIKE ?)`
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY ` + filter.OrderClause()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.ExtractionRecord
	for rows.Next() {
		var notes sql.NullString
		var docJSON string
		if err := rows.Scan(&notes, &docJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		rec, err := decodeRecord([]byte(docJSON), nullStr(notes))
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) UpdateNotes(ctx context.Context, ownerID, id, notes string) (*model.ExtractionRecord, error) {
	if _, err := s.GetRecord(ctx, ownerID, id); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE extraction_records
		 SET notes = ?, doc = json_set(doc, '$.notes', ?)
		 WHERE id = ? AND owner_id = ?`,
		notes, notes, id, ownerID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update notes %s", id)
	}

	return s.GetRecord(ctx, ownerID, id)
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetRecord(ctx, ownerID, id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM extraction_records WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete record %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
