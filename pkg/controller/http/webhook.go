package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/utils/async"
)

// EventProcessor handles a parsed webhook payload
type EventProcessor interface {
	ProcessEvent(ctx context.Context, deliveryID, eventType string, payload any) error
}

// WebhookHandler handles GitHub webhooks
type WebhookHandler struct {
	secret    string
	processor EventProcessor
	dispatch  func(ctx context.Context, handler func(ctx context.Context) error)
}

// NewWebhookHandler creates a new WebhookHandler. Events are processed in
// the background after the request is acknowledged.
func NewWebhookHandler(secret string, processor EventProcessor) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		processor: processor,
		dispatch:  async.Dispatch,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature, rejecting every event when no secret is set
	if h.secret == "" {
		logger.Warn("Webhook secret is not configured, rejecting event")
		writeError(w, goerr.New("webhook secret is not configured"), http.StatusUnauthorized)
		return
	}
	signature := r.Header.Get("X-Hub-Signature-256")
	if err := github.ValidateSignature(signature, body, []byte(h.secret)); err != nil {
		logger.Warn("Invalid webhook signature", "error", err)
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	// Parse event using GitHub SDK
	eventType := r.Header.Get("X-GitHub-Event")
	deliveryID := r.Header.Get("X-GitHub-Delivery")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Warn("Failed to parse webhook payload", "error", err, "event_type", eventType)
		writeError(w, goerr.Wrap(err, "invalid webhook payload", goerr.V("event_type", eventType)), http.StatusBadRequest)
		return
	}

	if eventType == "ping" {
		writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "pong"})
		return
	}

	h.dispatch(ctx, func(ctx context.Context) error {
		return h.processor.ProcessEvent(ctx, deliveryID, eventType, payload)
	})

	writeJSON(ctx, w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"id":     deliveryID,
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
