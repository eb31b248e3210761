package interfaces

import (
	"context"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// ArtifactStore keeps rendered report files outside of the run
type ArtifactStore interface {
	// Put stores data under name and returns its location
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Notifier announces a finished report
type Notifier interface {
	Notify(ctx context.Context, report *model.Report, artifacts []string) error
}

// Recorder counts domain events for metrics
type Recorder interface {
	ObserveReport(report *model.Report)
	ObserveRender(format string, err error)
	ObserveWebhook(event *model.WebhookEvent)
}
