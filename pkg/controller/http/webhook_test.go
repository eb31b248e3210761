package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/bumpwatch/pkg/controller/http"
)

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

type processedEvent struct {
	DeliveryID string
	EventType  string
	Payload    any
}

// MockEventProcessor reports processed events on a channel
type MockEventProcessor struct {
	events chan processedEvent
}

func newMockProcessor() *MockEventProcessor {
	return &MockEventProcessor{events: make(chan processedEvent, 4)}
}

func (m *MockEventProcessor) ProcessEvent(ctx context.Context, deliveryID, eventType string, payload any) error {
	m.events <- processedEvent{DeliveryID: deliveryID, EventType: eventType, Payload: payload}
	return nil
}

func (m *MockEventProcessor) wait(t *testing.T) processedEvent {
	t.Helper()
	select {
	case ev := <-m.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
		return processedEvent{}
	}
}

const prPayload = `{"action":"opened","number":1,"pull_request":{"number":1,"title":"Bump a from 1 to 2","user":{"login":"dependabot[bot]"}},"repository":{"full_name":"test/repo"},"sender":{"login":"dependabot[bot]"}}`

func newWebhookRequest(secret, eventType, payload, signature string) *http.Request {
	body := []byte(payload)
	if signature == "" && secret != "" {
		signature = generateSignature(secret, body)
	}
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", signature)
	return req
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name           string
		secret         string
		signature      string
		wantStatusCode int
	}{
		{name: "Valid signature", secret: secret, wantStatusCode: http.StatusAccepted},
		{name: "Invalid signature", signature: "sha256=invalid", wantStatusCode: http.StatusUnauthorized},
		{name: "Missing signature", wantStatusCode: http.StatusUnauthorized},
		{name: "Signed with another secret", secret: "other", wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := newMockProcessor()
			handler := controller.NewWebhookHandler(secret, processor)

			w := httptest.NewRecorder()
			handler.Handle(w, newWebhookRequest(tt.secret, "pull_request", prPayload, tt.signature))
			gt.Equal(t, w.Code, tt.wantStatusCode)

			if tt.wantStatusCode == http.StatusAccepted {
				ev := processor.wait(t)
				gt.Equal(t, ev.DeliveryID, "test-delivery")
				gt.Equal(t, ev.EventType, "pull_request")
			}
		})
	}
}

func TestWebhookHandler_Responses(t *testing.T) {
	secret := "test-secret"

	t.Run("accepted", func(t *testing.T) {
		processor := newMockProcessor()
		w := httptest.NewRecorder()
		controller.NewWebhookHandler(secret, processor).Handle(w, newWebhookRequest(secret, "pull_request", prPayload, ""))

		gt.Equal(t, w.Code, http.StatusAccepted)
		var resp map[string]string
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		gt.Equal(t, resp["status"], "accepted")
		gt.Equal(t, resp["id"], "test-delivery")
		processor.wait(t)
	})

	t.Run("ping", func(t *testing.T) {
		processor := newMockProcessor()
		w := httptest.NewRecorder()
		controller.NewWebhookHandler(secret, processor).Handle(w, newWebhookRequest(secret, "ping", `{"zen":"Keep it simple","hook_id":1}`, ""))

		gt.Equal(t, w.Code, http.StatusOK)
		gt.String(t, w.Body.String()).Contains("pong")
		gt.Equal(t, len(processor.events), 0)
	})

	t.Run("unknown event type", func(t *testing.T) {
		w := httptest.NewRecorder()
		controller.NewWebhookHandler(secret, newMockProcessor()).Handle(w, newWebhookRequest(secret, "no_such_event", `{}`, ""))
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("broken JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		controller.NewWebhookHandler(secret, newMockProcessor()).Handle(w, newWebhookRequest(secret, "pull_request", `{"action":`, ""))
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestWebhookHandler_EmptySecretRejectsEvents(t *testing.T) {
	body := []byte(prPayload)
	signedWithEmptyKey := generateSignature("", body)

	t.Run("handler", func(t *testing.T) {
		processor := newMockProcessor()
		w := httptest.NewRecorder()
		controller.NewWebhookHandler("", processor).Handle(w, newWebhookRequest("", "pull_request", prPayload, signedWithEmptyKey))

		gt.Equal(t, w.Code, http.StatusUnauthorized)
		select {
		case ev := <-processor.events:
			t.Fatalf("event must not be dispatched: %s", ev.EventType)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("server without secret", func(t *testing.T) {
		processor := newMockProcessor()
		server, err := controller.NewServer(context.Background(), processor)
		gt.NoError(t, err)

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, newWebhookRequest("", "pull_request", prPayload, signedWithEmptyKey))
		gt.Equal(t, w.Code, http.StatusUnauthorized)
		gt.Equal(t, len(processor.events), 0)
	})
}
