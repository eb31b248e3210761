package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "debug", level: "debug", format: "console"},
		{name: "case insensitive level", level: "DEBUG", format: "console"},
		{name: "info json", level: "info", format: "json"},
		{name: "warn", level: "warn", format: "console"},
		{name: "error", level: "ERROR", format: "json"},
		{name: "empty format falls back to console", level: "info", format: ""},
		{name: "invalid level", level: "invalid", format: "console", wantErr: true},
		{name: "empty level", level: "", format: "console", wantErr: true},
		{name: "invalid format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{Level: tt.level, Format: tt.format, Output: "stderr"}
			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.V(t, result).NotNil()
		})
	}
}

func TestLogger_FileOutputRedactsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bumpwatch.log")
	logger, err := (&config.Logger{Level: "info", Format: "json", Output: path}).Configure()
	gt.NoError(t, err)

	logger.Info("configured", "github", config.GitHub{Repo: "acme/shop", Token: "ghp_very_secret"})

	raw, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.True(t, strings.Contains(string(raw), "acme/shop"))
	gt.False(t, strings.Contains(string(raw), "ghp_very_secret"))
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.Equal(t, len(flags), 3)

	var names []string
	for _, f := range flags {
		names = append(names, f.Names()[0])
	}
	gt.Equal(t, names, []string{"log-level", "log-format", "log-output"})
}

func TestLogger_FlagDefaults(t *testing.T) {
	var logger config.Logger
	cmd := &cli.Command{
		Name:   "test",
		Flags:  logger.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(t.Context(), []string{"test"}))
	gt.Equal(t, logger.Level, "info")
	gt.Equal(t, logger.Format, "console")
	gt.Equal(t, logger.Output, "stderr")
}
