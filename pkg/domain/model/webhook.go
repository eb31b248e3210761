package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePullRequest WebhookEventType = "pull_request"
	EventTypePing        WebhookEventType = "ping"
	EventTypeUnknown     WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., opened, reopened)
	Repository string           // Repository full name
	Sender     string           // Sender login
	ReceivedAt time.Time

	// PullRequest is set for pull_request events.
	PullRequest *PullRequest
}

// IsSupportedEvent reports whether the event can carry a new dependency PR.
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypePullRequest:
		return e.PullRequest != nil && (e.Action == "opened" || e.Action == "reopened")
	default:
		return false
	}
}
