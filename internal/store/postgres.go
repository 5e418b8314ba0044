package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/db"
	"github.com/magellan-group/report-triage/internal/model"
)

// PostgresStore implements Store using pgxpool. The full record lives in
// a JSONB document column; filter and sort keys are promoted to real
// columns at insert time. Records are insert-only, so promoted columns
// never drift — except notes, which UpdateNotes keeps in sync.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS extraction_records (
	id                  TEXT PRIMARY KEY,
	owner_id            TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	filename            TEXT NOT NULL,
	project             TEXT,
	issuer              TEXT,
	report_stage        TEXT,
	primary_commodity   TEXT,
	secondary_commodity TEXT,
	country             TEXT,
	priority            TEXT,
	status              TEXT NOT NULL,
	ind_inf_ratio       DOUBLE PRECISION,
	magellan_score      DOUBLE PRECISION,
	notes               TEXT,
	doc                 JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_owner ON extraction_records(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_records_owner_status ON extraction_records(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_records_owner_priority ON extraction_records(owner_id, priority);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) InsertRecord(ctx context.Context, rec *model.ExtractionRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal record")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO extraction_records
		 (id, owner_id, created_at, filename, project, issuer, report_stage,
		  primary_commodity, secondary_commodity, country, priority, status,
		  ind_inf_ratio, magellan_score, notes, doc)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.OwnerID, rec.CreatedAt, rec.Filename,
		rec.Project, rec.Issuer, stageStr(rec.Stage),
		rec.PrimaryCommodity, rec.SecondaryCommodity, rec.Country,
		priorityStr(rec.Priority), string(rec.Status),
		rec.IndInfRatio, rec.MagellanScore, rec.Notes, doc,
	)
	return eris.Wrap(err, "postgres: insert record")
}

func (s *PostgresStore) GetRecord(ctx context.Context, ownerID, id string) (*model.ExtractionRecord, error) {
	var recOwner string
	var docJSON []byte
	var notes *string

	err := s.pool.QueryRow(ctx,
		`SELECT owner_id, notes, doc FROM extraction_records WHERE id = $1`,
		id,
	).Scan(&recOwner, &notes, &docJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get record %s", id)
	}

	if recOwner != ownerID {
		return nil, apperr.New(apperr.KindUnauthorized, "record belongs to another user")
	}

	return decodeRecord(docJSON, notes)
}

func (s *PostgresStore) ListRecords(ctx context.Context, ownerID string, filter RecordFilter) ([]model.ExtractionRecord, error) {
	query := `SELECT notes, doc FROM extraction_records WHERE owner_id = $1`
	args := []any{ownerID}
	argIdx := 2

	if filter.Stage != "" {
		query += fmt.Sprintf(` AND report_stage = $%d`, argIdx)
		args = append(args, filter.Stage)
		argIdx++
	}
	if filter.Country != "" {
		query += fmt.Sprintf(` AND country = $%d`, argIdx)
		args = append(args, filter.Country)
		argIdx++
	}
	if filter.Commodity != "" {
		query += fmt.Sprintf(` AND (primary_commodity = $%d OR secondary_commodity = $%d)`, argIdx, argIdx)
		args = append(args, filter.Commodity)
		argIdx++
	}
	if filter.Priority != "" {
		query += fmt.Sprintf(` AND priority = $%d`, argIdx)
		args = append(args, filter.Priority)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND (project ILIKE $%d OR issuer ILIKE $%d)`, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += ` ORDER BY ` + filter.OrderClause()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var records []model.ExtractionRecord
	for rows.Next() {
		var notes *string
		var docJSON []byte
		if err := rows.Scan(&notes, &docJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		rec, err := decodeRecord(docJSON, notes)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list records iterate")
}

func (s *PostgresStore) UpdateNotes(ctx context.Context, ownerID, id, notes string) (*model.ExtractionRecord, error) {
	// Ownership check first so a foreign record errors instead of
	// matching zero rows.
	if _, err := s.GetRecord(ctx, ownerID, id); err != nil {
		return nil, err
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE extraction_records
		 SET notes = $1, doc = jsonb_set(doc, '{notes}', to_jsonb($1::text))
		 WHERE id = $2 AND owner_id = $3`,
		notes, id, ownerID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: update notes %s", id)
	}

	return s.GetRecord(ctx, ownerID, id)
}

func (s *PostgresStore) DeleteRecord(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetRecord(ctx, ownerID, id); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM extraction_records WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete record %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeRecord unmarshals the document column, with the notes column
// taking precedence since it is the one mutable field.
func decodeRecord(docJSON []byte, notes *string) (*model.ExtractionRecord, error) {
	var rec model.ExtractionRecord
	if err := json.Unmarshal(docJSON, &rec); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal record")
	}
	rec.Notes = notes
	return &rec, nil
}

func stageStr(s *model.ReportStage) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func priorityStr(p *model.Priority) *string {
	if p == nil {
		return nil
	}
	v := string(*p)
	return &v
}
