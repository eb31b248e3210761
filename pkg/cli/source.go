package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	"github.com/m-mizutani/bumpwatch/pkg/domain/classifier"
	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

// source gathers PRs and alerts for the report and issue commands
type source struct {
	github config.GitHub
	detect config.Detect
	input  config.Input
	policy config.Policy
}

func (s *source) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, s.github.Flags()...)
	flags = append(flags, s.detect.Flags()...)
	flags = append(flags, s.input.Flags()...)
	flags = append(flags, s.policy.Flags()...)
	return flags
}

// client returns nil without error when no credentials are set
func (s *source) client() (interfaces.GitHubClient, error) {
	if !s.github.HasCredentials() {
		return nil, nil
	}
	return s.github.NewClient()
}

func (s *source) pullRequests(ctx context.Context, client interfaces.GitHubClient, repo model.Repository) ([]model.PullRequest, error) {
	if s.input.HasPRs() {
		return s.input.PullRequests(ctx)
	}
	if client == nil {
		return nil, goerr.New("GitHub credentials or a PR list are required")
	}
	if err := s.detect.Validate(); err != nil {
		return nil, err
	}
	return usecase.NewDetect(client, s.detect.Options(repo)).Detect(ctx)
}

// build classifies the gathered records into a report
func (s *source) build(ctx context.Context, meta model.ReportMeta, fastSummary bool, recorder interfaces.Recorder) (*model.Report, interfaces.GitHubClient, error) {
	repo, err := s.github.Repository()
	if err != nil {
		return nil, nil, err
	}
	cls, err := s.policy.Classifier()
	if err != nil {
		return nil, nil, err
	}
	client, err := s.client()
	if err != nil {
		return nil, nil, err
	}

	prs, err := s.pullRequests(ctx, client, repo)
	if err != nil {
		return nil, nil, err
	}
	alerts, err := s.input.Alerts(ctx, client, repo)
	if err != nil {
		return nil, nil, err
	}
	ctxlog.From(ctx).Debug("Records gathered", "prs", len(prs), "alerts", len(alerts))

	uc := newReportUseCase(cls, client, recorder, repo, s.github.ServerURL, meta, fastSummary)
	report, err := uc.BuildReport(ctx, prs, alerts)
	if err != nil {
		return nil, nil, err
	}
	return report, client, nil
}

func newReportUseCase(cls *classifier.Classifier, client interfaces.GitHubClient, recorder interfaces.Recorder, repo model.Repository, serverURL string, meta model.ReportMeta, fastSummary bool) interfaces.ReportUseCase {
	return usecase.NewReport(cls, client, recorder, usecase.ReportOptions{
		Repo:        repo,
		ServerURL:   serverURL,
		Meta:        meta,
		FastSummary: fastSummary,
		Now:         time.Now,
	})
}
