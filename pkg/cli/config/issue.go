package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

// Issue holds tracking issue configuration
type Issue struct {
	Title  string
	Labels []string
}

// Flags returns CLI flags for issue configuration
func (c *Issue) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "issue-title",
			Usage:       "Issue title, ${date} is replaced with the UTC date",
			Value:       usecase.DefaultIssueTitle,
			Destination: &c.Title,
			Sources:     cli.EnvVars("BUMPWATCH_ISSUE_TITLE", "ISSUE_TITLE_TPL"),
		},
		&cli.StringSliceFlag{
			Name:        "issue-label",
			Usage:       "Issue label, repeatable",
			Destination: &c.Labels,
			Sources:     cli.EnvVars("BUMPWATCH_ISSUE_LABELS", "ISSUE_LABELS"),
		},
	}
}

// Options builds the issue use case options
func (c *Issue) Options(repo model.Repository) usecase.IssueOptions {
	var labels []string
	for _, l := range c.Labels {
		if l != "" {
			labels = append(labels, l)
		}
	}
	return usecase.IssueOptions{
		Repo:          repo,
		TitleTemplate: c.Title,
		Labels:        labels,
	}
}
