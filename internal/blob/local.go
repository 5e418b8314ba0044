package blob

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Local stores objects on the local filesystem under a root directory.
// Intended for development and single-node deployments.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates a Local store rooted at dir, creating it if needed.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if dir == "" {
		dir = "data/reports"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, eris.Wrapf(err, "blob: create root %s", dir)
	}
	return &Local{root: dir, urlPrefix: urlPrefix}, nil
}

func (l *Local) Put(ctx context.Context, ownerID, filename string, data []byte) (string, string, error) {
	key := objectKey(ownerID, filename)

	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", "", eris.Wrapf(err, "blob: create owner dir for %s", key)
	}
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return "", "", eris.Wrapf(err, "blob: write %s", key)
	}

	return key, l.urlPrefix + "/" + key, nil
}

func (l *Local) Get(ctx context.Context, ownerID, storagePath string) ([]byte, error) {
	if err := checkOwnerPrefix(ownerID, storagePath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(storagePath)))
	if err != nil {
		return nil, eris.Wrapf(err, "blob: read %s", storagePath)
	}
	return data, nil
}

func (l *Local) Ping(ctx context.Context) error {
	_, err := os.Stat(l.root)
	return eris.Wrapf(err, "blob: stat root %s", l.root)
}
