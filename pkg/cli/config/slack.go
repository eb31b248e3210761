package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/infra/slack"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL notified with each report",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("BUMPWATCH_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL"),
		},
	}
}

// New returns a notifier, or nil when no webhook URL is set
func (c *Slack) New() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.New(c.WebhookURL)
}
