package cli

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

func cmdDetect() *cli.Command {
	var (
		githubCfg  config.GitHub
		detectCfg  config.Detect
		actionsCfg config.Actions
		outPath    string
	)

	flags := append(githubCfg.Flags(), detectCfg.Flags()...)
	flags = append(flags, actionsCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "out",
		Aliases:     []string{"o"},
		Usage:       "Write the detected PRs as JSON to this file",
		Destination: &outPath,
		Sources:     cli.EnvVars("BUMPWATCH_PRS_FILE"),
	})

	return &cli.Command{
		Name:    "detect",
		Aliases: []string{"d"},
		Usage:   "Find dependency update pull requests",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := detectCfg.Validate(); err != nil {
				return err
			}
			repo, err := githubCfg.Repository()
			if err != nil {
				return err
			}
			client, err := githubCfg.NewClient()
			if err != nil {
				return err
			}

			prs, err := usecase.NewDetect(client, detectCfg.Options(repo)).Detect(ctx)
			if err != nil {
				return err
			}

			raw, err := json.Marshal(prs)
			if err != nil {
				return goerr.Wrap(err, "failed to encode PR list")
			}

			out := actionsCfg.New()
			if err := out.SetMultiline("prs_data", string(raw)); err != nil {
				return err
			}
			if err := out.Set("prs_count", strconv.Itoa(len(prs))); err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, raw, 0o644); err != nil {
					return goerr.Wrap(err, "failed to write PR list", goerr.V("path", outPath))
				}
			}
			if !out.Enabled() && outPath == "" {
				if _, err := os.Stdout.Write(append(raw, '\n')); err != nil {
					return goerr.Wrap(err, "failed to write PR list")
				}
			}

			logger.Info("Dependency PRs detected", "repo", repo.FullName(), "count", len(prs))
			return nil
		},
	}
}
