package github

import (
	"context"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// EventProcessor turns parsed GitHub webhook payloads into domain events
type EventProcessor struct {
	webhookUC interfaces.WebhookUseCase
	now       func() time.Time
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(webhookUC interfaces.WebhookUseCase) *EventProcessor {
	return &EventProcessor{
		webhookUC: webhookUC,
		now:       time.Now,
	}
}

// ProcessEvent converts payload, as returned by github.ParseWebHook, and
// hands it to the webhook use case
func (p *EventProcessor) ProcessEvent(ctx context.Context, deliveryID, eventType string, payload any) error {
	event := ToWebhookEvent(deliveryID, eventType, payload, p.now())
	ctxlog.From(ctx).Debug("Webhook event converted",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
	)
	return p.webhookUC.ProcessEvent(ctx, event)
}

// ToWebhookEvent extracts the fields used by the domain. Unsupported
// payloads yield an event of type unknown.
func ToWebhookEvent(deliveryID, eventType string, payload any, receivedAt time.Time) *model.WebhookEvent {
	event := &model.WebhookEvent{
		ID:         deliveryID,
		Type:       model.WebhookEventType(eventType),
		ReceivedAt: receivedAt,
	}

	// Use Get*() helper methods for nil-safe field access
	switch e := payload.(type) {
	case *github.PullRequestEvent:
		event.Action = e.GetAction()
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()
		if e.PullRequest != nil {
			pr := toPullRequest(e.PullRequest)
			event.PullRequest = &pr
		}
	case *github.PingEvent:
		event.Type = model.EventTypePing
	default:
		event.Type = model.EventTypeUnknown
	}

	return event
}

func toPullRequest(pr *github.PullRequest) model.PullRequest {
	state := model.PRState(pr.GetState())
	if state == model.PRStateClosed && pr.MergedAt != nil {
		state = model.PRStateMerged
	}

	labels := make([]model.Label, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, model.Label{Name: l.GetName(), Color: l.GetColor()})
	}

	var created string
	if ts := pr.GetCreatedAt(); !ts.IsZero() {
		created = ts.UTC().Format(time.RFC3339)
	}

	return model.PullRequest{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		URL:         pr.GetHTMLURL(),
		State:       state,
		Labels:      labels,
		CreatedAt:   created,
		HeadRefName: pr.GetHead().GetRef(),
		Author:      pr.GetUser().GetLogin(),
	}
}
