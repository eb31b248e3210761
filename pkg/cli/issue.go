package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

func cmdIssue() *cli.Command {
	var (
		src        source
		issueCfg   config.Issue
		actionsCfg config.Actions
		runID      string
	)

	flags := src.flags()
	flags = append(flags, issueCfg.Flags()...)
	flags = append(flags, actionsCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "run-id",
		Usage:       "GitHub Actions run ID linked for report downloads",
		Destination: &runID,
		Sources:     cli.EnvVars("GITHUB_RUN_ID"),
	})

	return &cli.Command{
		Name:  "issue",
		Usage: "Open or reuse the dependency update tracking issue",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			report, client, err := src.build(ctx, model.ReportMeta{RunID: runID}, true, nil)
			if err != nil {
				return err
			}
			if client == nil {
				return goerr.New("GitHub credentials are required to publish the issue")
			}

			url, err := usecase.NewIssue(client, issueCfg.Options(report.Repo)).Publish(ctx, report)
			if err != nil {
				return err
			}

			if err := actionsCfg.New().Set("issue_url", url); err != nil {
				return err
			}
			ctxlog.From(ctx).Info("Tracking issue published", "url", url)
			return nil
		},
	}
}
