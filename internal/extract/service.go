package extract

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/blob"
	"github.com/magellan-group/report-triage/internal/model"
	"github.com/magellan-group/report-triage/internal/store"
)

// Service ties upload, extraction, and persistence together. The record
// is inserted only after a fully validated payload; an extraction failure
// leaves the stored file behind for a later retry via ProcessStored but
// never a half-filled row.
type Service struct {
	blobs    blob.Store
	pipeline *Pipeline
	records  store.Store
}

func NewService(blobs blob.Store, pipeline *Pipeline, records store.Store) *Service {
	return &Service{
		blobs:    blobs,
		pipeline: pipeline,
		records:  records,
	}
}

// ProcessUpload stores the uploaded PDF, runs extraction, and persists
// the resulting record.
func (s *Service) ProcessUpload(ctx context.Context, ownerID, filename string, pdf []byte) (*model.ExtractionRecord, error) {
	storagePath, fileURL, err := s.blobs.Put(ctx, ownerID, filename, pdf)
	if err != nil {
		return nil, eris.Wrap(err, "extract: store upload")
	}

	return s.run(ctx, pdf, Source{
		OwnerID:     ownerID,
		Filename:    filename,
		StoragePath: storagePath,
		FileURL:     fileURL,
	})
}

// ProcessStored re-runs extraction against an already stored file. The
// storage path must belong to the caller.
func (s *Service) ProcessStored(ctx context.Context, ownerID, storagePath, filename string) (*model.ExtractionRecord, error) {
	pdf, err := s.blobs.Get(ctx, ownerID, storagePath)
	if err != nil {
		return nil, eris.Wrap(err, "extract: read stored file")
	}

	return s.run(ctx, pdf, Source{
		OwnerID:     ownerID,
		Filename:    filename,
		StoragePath: storagePath,
	})
}

func (s *Service) run(ctx context.Context, pdf []byte, src Source) (*model.ExtractionRecord, error) {
	payload, err := s.pipeline.Extract(ctx, pdf)
	if err != nil {
		return nil, err
	}

	rec := Transform(payload, src)
	if err := s.records.InsertRecord(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "extract: persist record")
	}

	zap.L().Info("extract: record created",
		zap.String("record_id", rec.ID),
		zap.String("owner_id", rec.OwnerID),
		zap.String("status", string(rec.Status)),
	)
	return rec, nil
}
