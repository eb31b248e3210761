package config

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

// Detect holds PR detection configuration
type Detect struct {
	BotLogins     []string
	State         string
	FallbackLabel string
	Wait          bool
	WaitDuration  time.Duration
	WaitMinutes   int
	PollInterval  time.Duration
}

var prStates = []string{"open", "closed", "all"}

// Flags returns CLI flags for detection configuration
func (c *Detect) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "bot-login",
			Usage:       "Login of the dependency bot, repeatable",
			Value:       usecase.DefaultBotLogins,
			Destination: &c.BotLogins,
			Sources:     cli.EnvVars("BUMPWATCH_BOT_LOGINS", "DEP_LOGINS"),
		},
		&cli.StringFlag{
			Name:        "state",
			Usage:       "PR state to collect (open, closed, all)",
			Value:       "open",
			Destination: &c.State,
			Sources:     cli.EnvVars("BUMPWATCH_STATE", "PRS_STATE"),
		},
		&cli.StringFlag{
			Name:        "fallback-label",
			Usage:       "Label searched when no PR by a bot login is found",
			Value:       "dependencies",
			Destination: &c.FallbackLabel,
			Sources:     cli.EnvVars("BUMPWATCH_FALLBACK_LABEL"),
		},
		&cli.BoolFlag{
			Name:        "wait",
			Usage:       "Poll until a dependency PR shows up (open state only)",
			Destination: &c.Wait,
			Sources:     cli.EnvVars("BUMPWATCH_WAIT", "WAIT", "TRIGGER_DEPENDABOT_NOW"),
		},
		&cli.DurationFlag{
			Name:        "wait-duration",
			Usage:       "Maximum polling time",
			Value:       10 * time.Minute,
			Destination: &c.WaitDuration,
			Sources:     cli.EnvVars("BUMPWATCH_WAIT_DURATION"),
		},
		&cli.IntFlag{
			Name:        "wait-minutes",
			Usage:       "Maximum polling time in minutes, overrides --wait-duration",
			Destination: &c.WaitMinutes,
			Sources:     cli.EnvVars("WAIT_MINUTES"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Polling interval",
			Value:       30 * time.Second,
			Destination: &c.PollInterval,
			Sources:     cli.EnvVars("BUMPWATCH_POLL_INTERVAL", "POLL_INTERVAL"),
		},
	}
}

// Validate checks the detection settings
func (c *Detect) Validate() error {
	if !slices.Contains(prStates, c.State) {
		return goerr.New("invalid PR state", goerr.V("state", c.State), goerr.V("allowed", prStates))
	}
	if c.PollInterval <= 0 {
		return goerr.New("poll interval must be positive", goerr.V("poll_interval", c.PollInterval))
	}
	return nil
}

// Timeout returns the polling deadline
func (c *Detect) Timeout() time.Duration {
	if c.WaitMinutes > 0 {
		return time.Duration(c.WaitMinutes) * time.Minute
	}
	return c.WaitDuration
}

// WithoutWait returns a copy with polling disabled, for callers that must
// answer promptly
func (c *Detect) WithoutWait() Detect {
	d := *c
	d.Wait = false
	return d
}

// Options builds the detection use case options
func (c *Detect) Options(repo model.Repository) usecase.DetectOptions {
	return usecase.DetectOptions{
		Repo:          repo,
		State:         c.State,
		BotLogins:     c.BotLogins,
		FallbackLabel: c.FallbackLabel,
		Wait:          c.Wait,
		WaitDuration:  c.Timeout(),
		PollInterval:  c.PollInterval,
	}
}
