package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/magellan-group/report-triage/internal/blob"
	"github.com/magellan-group/report-triage/internal/extract"
	"github.com/magellan-group/report-triage/internal/ocr"
	"github.com/magellan-group/report-triage/internal/store"
	"github.com/magellan-group/report-triage/pkg/anthropic"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "data/triage.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initPipeline() (*extract.Pipeline, error) {
	client := anthropic.NewClient(cfg.Anthropic.Key)
	extractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return nil, err
	}
	return extract.NewPipeline(client, extractor, cfg.Anthropic.Model), nil
}

func initService(ctx context.Context, records store.Store) (*extract.Service, blob.Store, error) {
	blobs, err := blob.NewStore(ctx, cfg.Blob)
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := initPipeline()
	if err != nil {
		return nil, nil, err
	}
	return extract.NewService(blobs, pipeline, records), blobs, nil
}
