package config

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

// Input holds where PR and alert lists come from
type Input struct {
	PRsFile     string
	PRsData     string
	AlertsFile  string
	AlertsData  string
	FetchAlerts bool
}

// Flags returns CLI flags for input configuration
func (c *Input) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prs-file",
			Usage:       "JSON file of PRs written by the detect command",
			Destination: &c.PRsFile,
			Sources:     cli.EnvVars("BUMPWATCH_PRS_FILE"),
		},
		&cli.StringFlag{
			Name:        "prs-data",
			Usage:       "JSON array of PRs",
			Destination: &c.PRsData,
			Sources:     cli.EnvVars("PRS_DATA"),
		},
		&cli.StringFlag{
			Name:        "alerts-file",
			Usage:       "JSON file of Dependabot alerts",
			Destination: &c.AlertsFile,
			Sources:     cli.EnvVars("BUMPWATCH_ALERTS_FILE"),
		},
		&cli.StringFlag{
			Name:        "alerts-data",
			Usage:       "JSON array of Dependabot alerts",
			Destination: &c.AlertsData,
			Sources:     cli.EnvVars("ALERTS_JSON"),
		},
		&cli.BoolFlag{
			Name:        "fetch-alerts",
			Usage:       "Fetch open Dependabot alerts from the API",
			Destination: &c.FetchAlerts,
			Sources:     cli.EnvVars("BUMPWATCH_FETCH_ALERTS"),
		},
	}
}

// HasPRs reports whether a PR list is given instead of detecting it live
func (c *Input) HasPRs() bool {
	return c.PRsFile != "" || c.PRsData != ""
}

func readInput(file, data string) ([]byte, error) {
	if file == "" {
		return []byte(data), nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input file", goerr.V("path", file))
	}
	return raw, nil
}

// PullRequests loads the given PR list. Malformed JSON degrades to an empty list.
func (c *Input) PullRequests(ctx context.Context) ([]model.PullRequest, error) {
	raw, err := readInput(c.PRsFile, c.PRsData)
	if err != nil {
		return nil, err
	}
	prs, err := usecase.ParsePullRequests(raw)
	if err != nil {
		ctxlog.From(ctx).Warn("Ignoring malformed PR list", "error", err)
		return []model.PullRequest{}, nil
	}
	return prs, nil
}

// Alerts loads alerts from the given list or, when enabled, from the API.
// Fetch failures and malformed JSON degrade to an empty list.
func (c *Input) Alerts(ctx context.Context, client interfaces.GitHubClient, repo model.Repository) ([]model.Alert, error) {
	logger := ctxlog.From(ctx)

	if c.AlertsFile != "" || c.AlertsData != "" {
		raw, err := readInput(c.AlertsFile, c.AlertsData)
		if err != nil {
			return nil, err
		}
		alerts, err := usecase.ParseAlerts(raw)
		if err != nil {
			logger.Warn("Ignoring malformed alert list", "error", err)
			return []model.Alert{}, nil
		}
		return alerts, nil
	}

	if !c.FetchAlerts || client == nil {
		return []model.Alert{}, nil
	}

	alerts, err := client.ListAlerts(ctx, repo, "open")
	if err != nil {
		logger.Warn("Failed to fetch Dependabot alerts", "error", err)
		return []model.Alert{}, nil
	}
	return alerts, nil
}
