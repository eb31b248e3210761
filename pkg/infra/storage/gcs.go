// Package storage uploads rendered reports to Cloud Storage.
package storage

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
)

// GCS stores artifacts under gs://<bucket>/<prefix>/.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ArtifactStore = (*GCS)(nil)

// New creates a GCS store with application default credentials.
func New(ctx context.Context, bucket, prefix string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put writes data to the object prefix/name.
func (x *GCS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	objName := path.Join(x.prefix, name)
	w := x.client.Bucket(x.bucket).Object(objName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", x.bucket), goerr.V("object", objName))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", x.bucket), goerr.V("object", objName))
	}

	location := "gs://" + x.bucket + "/" + objName
	ctxlog.From(ctx).Info("Uploaded report artifact", "location", location, "size", len(data))
	return location, nil
}

// Close releases the underlying client.
func (x *GCS) Close() error {
	return x.client.Close()
}
