package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"golang.org/x/time/rate"

	"github.com/m-mizutani/bumpwatch/pkg/domain/classifier"
	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/domain/types"
)

// PriorityLimit is the number of prioritized open PRs kept in a report.
const PriorityLimit = 10

// ReportOptions configures report assembly.
type ReportOptions struct {
	Repo      model.Repository
	ServerURL string
	Meta      model.ReportMeta

	// FastSummary skips refreshing closed PRs, so merged PRs that were
	// fetched as closed stay closed.
	FastSummary bool
	// RefreshRate limits GitHub calls of the state refresh per second.
	RefreshRate float64

	Now func() time.Time
}

type reportUseCase struct {
	classifier *classifier.Classifier
	client     interfaces.GitHubClient
	recorder   interfaces.Recorder
	opts       ReportOptions
}

var _ interfaces.ReportUseCase = (*reportUseCase)(nil)

// NewReport creates a new instance of the report use case. client may be nil
// when only offline input is used.
func NewReport(cls *classifier.Classifier, client interfaces.GitHubClient, recorder interfaces.Recorder, opts ReportOptions) *reportUseCase {
	if opts.ServerURL == "" {
		opts.ServerURL = types.DefaultServerURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefreshRate <= 0 {
		opts.RefreshRate = 5
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &reportUseCase{classifier: cls, client: client, recorder: recorder, opts: opts}
}

// BuildReport classifies prs and alerts. The input slices are not modified.
func (uc *reportUseCase) BuildReport(ctx context.Context, prs []model.PullRequest, alerts []model.Alert) (*model.Report, error) {
	now := uc.opts.Now()

	prs = append([]model.PullRequest(nil), prs...)
	if !uc.opts.FastSummary {
		if err := uc.refreshStates(ctx, prs); err != nil {
			return nil, err
		}
	}

	report := &model.Report{
		ID:          uuid.NewString(),
		Repo:        uc.opts.Repo,
		Links:       model.Links{ServerURL: uc.opts.ServerURL, Repo: uc.opts.Repo},
		Meta:        uc.opts.Meta,
		GeneratedAt: now,
		Rows:        make([]model.Row, 0, len(prs)),
		Alerts:      alerts,
	}
	if report.Alerts == nil {
		report.Alerts = []model.Alert{}
	}

	for _, pr := range prs {
		pr.State = pr.State.Normalize()
		report.Rows = append(report.Rows, uc.classifier.Classify(pr, now))
	}

	report.Sorted = SortRows(report.Rows)
	for _, row := range report.Sorted {
		switch row.PR.State {
		case model.PRStateOpen:
			report.Open = append(report.Open, row)
		case model.PRStateMerged:
			report.Merged = append(report.Merged, row)
		case model.PRStateClosed:
			report.Closed = append(report.Closed, row)
		}
	}

	report.Aggregation = classifier.Aggregate(report.Rows)
	report.AlertAggregation = uc.classifier.AggregateAlerts(report.Alerts)
	report.Coverage = classifier.Coverage(report.Aggregation.ByDirectory, report.AlertAggregation.ByDirectory)
	report.Priority = classifier.Prioritize(report.Rows, PriorityLimit)
	report.Recommendations = Recommendations(report.Aggregation.ByEcosystem.Keys())

	uc.recorder.ObserveReport(report)
	ctxlog.From(ctx).Info("Report built",
		"id", report.ID,
		"prs", len(report.Rows),
		"open", len(report.Open),
		"merged", len(report.Merged),
		"closed", len(report.Closed),
		"alerts", len(report.Alerts),
	)
	return report, nil
}

// refreshStates re-reads closed PRs to tell merged ones apart. Lookup
// failures keep the closed state.
func (uc *reportUseCase) refreshStates(ctx context.Context, prs []model.PullRequest) error {
	if uc.client == nil {
		return nil
	}
	limiter := rate.NewLimiter(rate.Limit(uc.opts.RefreshRate), 1)

	for i := range prs {
		if prs[i].State.Normalize() != model.PRStateClosed {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		detail, err := uc.client.GetPullRequest(ctx, uc.opts.Repo, prs[i].Number)
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to refresh PR state", "number", prs[i].Number, "error", err)
			continue
		}
		prs[i].State = detail.State
	}
	return nil
}

// SortRows orders rows open, merged, closed, then the rest, newest first
// within a state. Rows without creation time come last in their state.
func SortRows(rows []model.Row) []model.Row {
	sorted := append([]model.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].PR.State.Rank(), sorted[j].PR.State.Rank()
		if ri != rj {
			return ri < rj
		}
		ti, _ := sorted[i].PR.CreatedTime()
		tj, _ := sorted[j].PR.CreatedTime()
		return ti.After(tj)
	})
	return sorted
}

type nopRecorder struct{}

func (nopRecorder) ObserveReport(*model.Report)        {}
func (nopRecorder) ObserveRender(string, error)        {}
func (nopRecorder) ObserveWebhook(*model.WebhookEvent) {}
