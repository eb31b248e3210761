// Package slack posts report digests to an incoming webhook.
package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Notifier posts to a Slack incoming webhook.
type Notifier struct {
	webhookURL string
}

var _ interfaces.Notifier = (*Notifier)(nil)

// New creates a Notifier.
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// Notify posts the report digest.
func (x *Notifier) Notify(ctx context.Context, report *model.Report, artifacts []string) error {
	msg := &slack.WebhookMessage{
		Text:   fmt.Sprintf("Dependency update report for %s", report.Repo.FullName()),
		Blocks: &slack.Blocks{BlockSet: buildBlocks(report, artifacts)},
	}
	if err := slack.PostWebhookContext(ctx, x.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("repo", report.Repo.FullName()))
	}
	return nil
}

func buildBlocks(report *model.Report, artifacts []string) []slack.Block {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
		"Dependency updates: "+report.Repo.FullName(), false, false))

	t := report.Aggregation.Total
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Open*\n%d", len(report.Open)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Merged*\n%d", len(report.Merged)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Closed*\n%d", len(report.Closed)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*major / minor / patch / other*\n%d / %d / %d / %d", t.Major, t.Minor, t.Patch, t.Other), false, false),
	}
	if report.AlertAggregation.Total > 0 {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Open alerts*\n%d", report.AlertAggregation.Total), false, false))
	}
	blocks := []slack.Block{header, slack.NewSectionBlock(nil, fields, nil)}

	if len(report.Priority) > 0 {
		var b strings.Builder
		b.WriteString("*Prioritized PRs*\n")
		for i, row := range report.Priority {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "• <%s|#%d> %s `%s` risk: %s\n",
				row.PR.URL, row.PR.Number, row.Update.Package, row.Class, row.Risk.Level)
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, b.String(), false, false), nil, nil))
	}

	var links []string
	if run := report.RunURL(); run != "" {
		links = append(links, fmt.Sprintf("<%s|Actions run>", run))
	}
	if report.Meta.IssueURL != "" {
		links = append(links, fmt.Sprintf("<%s|Tracking issue>", report.Meta.IssueURL))
	}
	links = append(links, artifacts...)
	if len(links) > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(links, " | "), false, false)))
	}
	return blocks
}
