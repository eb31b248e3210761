package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/infra/actions"
)

// Actions holds GitHub Actions file command paths
type Actions struct {
	OutputPath  string
	SummaryPath string
}

// Flags returns CLI flags for Actions configuration
func (c *Actions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-path",
			Usage:       "Step output file",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "summary-path",
			Usage:       "Step summary file",
			Destination: &c.SummaryPath,
			Sources:     cli.EnvVars("GITHUB_STEP_SUMMARY"),
		},
	}
}

// New returns the output writer
func (c *Actions) New() *actions.Output {
	return actions.New(c.OutputPath, c.SummaryPath)
}
