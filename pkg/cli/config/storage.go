package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/infra/storage"
)

// Storage holds artifact upload configuration
type Storage struct {
	Bucket string
	Prefix string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket receiving rendered reports",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("BUMPWATCH_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Value:       "reports/",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("BUMPWATCH_GCS_PREFIX"),
		},
	}
}

// New opens the bucket, or returns nil when no bucket is set
func (c *Storage) New(ctx context.Context) (*storage.GCS, error) {
	if c.Bucket == "" {
		return nil, nil
	}
	return storage.New(ctx, c.Bucket, c.Prefix)
}
