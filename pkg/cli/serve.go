package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	githubcontroller "github.com/m-mizutani/bumpwatch/pkg/controller/github"
	controller "github.com/m-mizutani/bumpwatch/pkg/controller/http"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/infra/metrics"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		src       source
		reportCfg config.Report
	)

	flags := append(serverCfg.Flags(), src.flags()...)
	flags = append(flags, reportCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting bumpwatch server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("server", serverCfg),
			)

			cls, err := src.policy.Classifier()
			if err != nil {
				return err
			}
			client, err := src.client()
			if err != nil {
				return err
			}
			m := metrics.New()

			// Create use cases
			webhookOpts := []usecase.WebhookOption{
				usecase.WithRecorder(m),
				usecase.WithServerURL(src.github.ServerURL),
				usecase.WithBotLogins(src.detect.BotLogins),
			}
			if client != nil {
				webhookOpts = append(webhookOpts, usecase.WithGitHubClient(client))
			} else {
				logger.Warn("No GitHub credentials, webhook events are classified without commenting")
			}
			webhookUC := usecase.NewWebhook(cls, webhookOpts...)

			serverOpts := []controller.Option{
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
				controller.WithMetrics(m.Handler()),
			}
			if src.github.Repo != "" && (client != nil || src.input.HasPRs()) {
				live := src
				live.detect = src.detect.WithoutWait()
				serverOpts = append(serverOpts, controller.WithReportSource(
					func(ctx context.Context) (*model.Report, error) {
						report, _, err := live.build(ctx, reportCfg.Meta(), reportCfg.FastSummary, m)
						return report, err
					},
				))
			}

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				githubcontroller.NewEventProcessor(webhookUC),
				serverOpts...,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
