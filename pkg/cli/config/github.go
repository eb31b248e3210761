package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/domain/types"
	githubinfra "github.com/m-mizutani/bumpwatch/pkg/infra/github"
)

// GitHub holds GitHub configuration
type GitHub struct {
	Repo           string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	APIURL         string
	ServerURL      string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Target repository (owner/name)",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("BUMPWATCH_REPO", "GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM content or file path)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API URL",
			Value:       "https://api.github.com",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_API_URL", "GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-server-url",
			Usage:       "GitHub web URL used in report links",
			Value:       types.DefaultServerURL,
			Destination: &c.ServerURL,
			Sources:     cli.EnvVars("BUMPWATCH_GITHUB_SERVER_URL", "GITHUB_SERVER_URL"),
		},
	}
}

// Repository parses the target repository
func (c *GitHub) Repository() (model.Repository, error) {
	return model.ParseRepository(c.Repo)
}

// HasCredentials reports whether a token or App credentials are set
func (c *GitHub) HasCredentials() bool {
	return c.Token != "" || c.AppID != 0
}

// privateKey returns the PEM content. A value that is not PEM is read as a file path.
func (c *GitHub) privateKey() ([]byte, error) {
	if c.PrivateKey == "" || strings.Contains(c.PrivateKey, "-----BEGIN") {
		return []byte(c.PrivateKey), nil
	}
	raw, err := os.ReadFile(c.PrivateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKey))
	}
	return raw, nil
}

// NewClient creates the GitHub API client
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	key, err := c.privateKey()
	if err != nil {
		return nil, err
	}
	return githubinfra.NewClient(githubinfra.Config{
		Token:          c.Token,
		AppID:          c.AppID,
		InstallationID: c.InstallationID,
		PrivateKey:     key,
		APIURL:         c.APIURL,
	})
}
