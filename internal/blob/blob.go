// Package blob stores uploaded report files. Objects are keyed
// {owner}/{timestamp}-{random}.{ext} and private by default: reads are
// refused unless the requested path sits under the caller's own prefix.
package blob

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/magellan-group/report-triage/internal/apperr"
)

// Store is the file storage boundary.
type Store interface {
	// Put stores data under a fresh key in the owner's prefix and
	// returns the storage path and a retrievable URL.
	Put(ctx context.Context, ownerID, filename string, data []byte) (storagePath, fileURL string, err error)
	// Get reads an object. The path must sit under the owner's prefix.
	Get(ctx context.Context, ownerID, storagePath string) ([]byte, error)
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// Config selects and tunes the storage backend.
type Config struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	LocalDir  string `yaml:"local_dir" mapstructure:"local_dir"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	URLPrefix string `yaml:"url_prefix" mapstructure:"url_prefix"`
}

// NewStore creates a Store based on config.
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocal(cfg.LocalDir, cfg.URLPrefix)
	case "gcs":
		return NewGCS(ctx, cfg.Bucket, cfg.URLPrefix)
	default:
		return nil, eris.Errorf("blob: unknown provider %q", cfg.Provider)
	}
}

// objectKey builds {owner}/{unix-ts}-{random}.{ext} from the original
// filename's extension.
func objectKey(ownerID, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "pdf"
	}
	return fmt.Sprintf("%s/%d-%06d.%s", ownerID, time.Now().Unix(), rand.IntN(1_000_000), ext)
}

// checkOwnerPrefix enforces the path-prefix ownership rule on reads.
func checkOwnerPrefix(ownerID, storagePath string) error {
	cleaned := path.Clean(storagePath)
	if strings.Contains(cleaned, "..") || !strings.HasPrefix(cleaned, ownerID+"/") {
		return apperr.New(apperr.KindUnauthorized, "file does not belong to the caller")
	}
	return nil
}
