package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/render"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

func cmdReport() *cli.Command {
	var (
		src        source
		reportCfg  config.Report
		actionsCfg config.Actions
		storageCfg config.Storage
		slackCfg   config.Slack
	)

	flags := src.flags()
	flags = append(flags, reportCfg.Flags()...)
	flags = append(flags, actionsCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Build and render the dependency update report",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			formats, err := reportCfg.ParseFormats()
			if err != nil {
				return err
			}

			report, _, err := src.build(ctx, reportCfg.Meta(), reportCfg.FastSummary, nil)
			if err != nil {
				return err
			}

			var store interfaces.ArtifactStore
			gcs, err := storageCfg.New(ctx)
			if err != nil {
				return err
			}
			if gcs != nil {
				defer func() {
					if err := gcs.Close(); err != nil {
						logger.Warn("Failed to close storage client", "error", err)
					}
				}()
				store = gcs
			}

			publishUC := usecase.NewPublish(store, slackCfg.New(), nil)
			artifacts := publishUC.Render(ctx, report, formats, reportCfg.RenderOptions())

			out := actionsCfg.New()
			created := false
			var rendered []usecase.Artifact
			for _, a := range artifacts {
				if a.Err != nil {
					continue
				}
				rendered = append(rendered, a)

				switch a.Format {
				case render.FormatSummary:
					if err := out.WriteSummary(string(a.Data)); err != nil {
						return err
					}
				case render.FormatText:
					if _, err := os.Stdout.Write(a.Data); err != nil {
						return goerr.Wrap(err, "failed to write text report")
					}
				default:
					path := reportCfg.Path(a.Format)
					if err := os.WriteFile(path, a.Data, 0o644); err != nil {
						return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
					}
					logger.Info("Report written", "format", a.Format, "path", path, "bytes", len(a.Data))
					if a.Format == render.FormatPDF {
						created = true
					}
				}
			}

			if err := out.Set("created", strconv.FormatBool(created)); err != nil {
				return err
			}
			if err := out.Set("prs_count", strconv.Itoa(len(report.Rows))); err != nil {
				return err
			}

			locations, err := publishUC.Publish(ctx, report, rendered)
			if err != nil {
				return err
			}
			for _, loc := range locations {
				logger.Info("Report uploaded", "location", loc)
			}

			if len(rendered) < len(artifacts) {
				return goerr.New("some report formats failed to render",
					goerr.V("requested", len(artifacts)), goerr.V("rendered", len(rendered)))
			}
			return nil
		},
	}
}
