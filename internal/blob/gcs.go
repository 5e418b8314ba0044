package blob

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
)

// GCS stores objects in a Google Cloud Storage bucket. Objects stay
// private; FileURL values are gs:// references resolved by the caller's
// platform credentials.
type GCS struct {
	client    *storage.Client
	bucket    string
	urlPrefix string
}

// NewGCS creates a GCS store using ambient application credentials.
func NewGCS(ctx context.Context, bucket, urlPrefix string) (*GCS, error) {
	if bucket == "" {
		return nil, eris.New("blob: gcs provider requires a bucket name")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "blob: create gcs client")
	}
	if urlPrefix == "" {
		urlPrefix = "gs://" + bucket
	}
	return &GCS{client: client, bucket: bucket, urlPrefix: urlPrefix}, nil
}

func (g *GCS) Put(ctx context.Context, ownerID, filename string, data []byte) (string, string, error) {
	key := objectKey(ownerID, filename)

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/pdf"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", "", eris.Wrapf(err, "blob: write gs://%s/%s", g.bucket, key)
	}
	if err := w.Close(); err != nil {
		return "", "", eris.Wrapf(err, "blob: close gs://%s/%s", g.bucket, key)
	}

	return key, g.urlPrefix + "/" + key, nil
}

func (g *GCS) Get(ctx context.Context, ownerID, storagePath string) ([]byte, error) {
	if err := checkOwnerPrefix(ownerID, storagePath); err != nil {
		return nil, err
	}
	r, err := g.client.Bucket(g.bucket).Object(storagePath).NewReader(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "blob: open gs://%s/%s", g.bucket, storagePath)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(err, "blob: read gs://%s/%s", g.bucket, storagePath)
	}
	return data, nil
}

func (g *GCS) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := g.client.Bucket(g.bucket).Attrs(ctx)
	return eris.Wrapf(err, "blob: bucket attrs %s", g.bucket)
}
