package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/classifier"
)

// Policy holds classification policy configuration
type Policy struct {
	Path string
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "TOML or YAML policy overriding risk weights and directory rules",
			Destination: &c.Path,
			Sources:     cli.EnvVars("BUMPWATCH_POLICY"),
		},
	}
}

// Classifier builds a classifier from the policy file, or the default one
func (c *Policy) Classifier() (*classifier.Classifier, error) {
	if c.Path == "" {
		return classifier.Default(), nil
	}
	policy, err := classifier.LoadPolicy(c.Path)
	if err != nil {
		return nil, err
	}
	return classifier.New(policy), nil
}
