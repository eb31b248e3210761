package interfaces

import (
	"context"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// ReportUseCase builds reports shared by every renderer
type ReportUseCase interface {
	// BuildReport classifies prs and alerts into a report
	BuildReport(ctx context.Context, prs []model.PullRequest, alerts []model.Alert) (*model.Report, error)
}
