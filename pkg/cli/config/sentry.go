package config

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/types"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN         string `masq:"secret"`
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN, errors are reported when set",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("BUMPWATCH_SENTRY_DSN", "SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("BUMPWATCH_SENTRY_ENV", "SENTRY_ENVIRONMENT"),
		},
	}
}

// Enabled reports whether a DSN is configured
func (c *Sentry) Enabled() bool { return c.DSN != "" }

// Configure initializes the Sentry client when enabled
func (c *Sentry) Configure(ctx context.Context) error {
	if !c.Enabled() {
		ctxlog.From(ctx).Debug("Sentry is disabled")
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     types.ServiceName + "@" + types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry")
	}
	return nil
}

// Capture sends err to Sentry and waits for delivery
func (c *Sentry) Capture(ctx context.Context, err error) {
	if !c.Enabled() || err == nil {
		return
	}

	evID := sentry.CaptureException(err)
	if !sentry.Flush(2 * time.Second) {
		ctxlog.From(ctx).Warn("Failed to flush Sentry events")
		return
	}
	if evID != nil {
		ctxlog.From(ctx).Info("Error reported to Sentry", "event_id", *evID)
	}
}
