package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/classifier"
	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/domain/types"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

type webhookUseCase struct {
	classifier *classifier.Classifier
	client     interfaces.GitHubClient
	recorder   interfaces.Recorder
	botLogins  []string
	serverURL  string
	now        func() time.Time
}

var _ interfaces.WebhookUseCase = (*webhookUseCase)(nil)

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithGitHubClient enables posting triage comments
func WithGitHubClient(client interfaces.GitHubClient) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.client = client
	}
}

// WithBotLogins replaces DefaultBotLogins
func WithBotLogins(logins []string) WebhookOption {
	return func(uc *webhookUseCase) {
		if len(logins) > 0 {
			uc.botLogins = logins
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(recorder interfaces.Recorder) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.recorder = recorder
	}
}

// WithServerURL sets the GitHub web endpoint used in links
func WithServerURL(serverURL string) WebhookOption {
	return func(uc *webhookUseCase) {
		if serverURL != "" {
			uc.serverURL = serverURL
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.now = now
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(cls *classifier.Classifier, opts ...WebhookOption) *webhookUseCase {
	uc := &webhookUseCase{
		classifier: cls,
		recorder:   nopRecorder{},
		botLogins:  DefaultBotLogins,
		serverURL:  types.DefaultServerURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent classifies a newly opened dependency PR and comments the
// result on it. Other events are logged and ignored.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)
	uc.recorder.ObserveWebhook(event)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Debug("Unsupported event ignored",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	pr := event.PullRequest
	if !isBotLogin(uc.botLogins, pr.Author) {
		logger.Debug("PR is not authored by a dependency bot", "number", pr.Number, "author", pr.Author)
		return nil
	}

	repo, err := model.ParseRepository(event.Repository)
	if err != nil {
		return goerr.Wrap(err, "invalid repository in webhook event", goerr.V("event_id", event.ID))
	}

	row := uc.classifier.Classify(*pr, uc.now())
	logger.Info("Dependency PR classified",
		"number", pr.Number,
		"package", row.Update.Package,
		"class", row.Class,
		"directory", row.Directory,
		"ecosystem", row.Ecosystem,
		"risk", row.Risk.Level,
	)

	if uc.client == nil {
		return nil
	}

	body := render.Comment(row, model.Links{ServerURL: uc.serverURL, Repo: repo})
	if err := uc.client.CreateComment(ctx, repo, pr.Number, body); err != nil {
		return goerr.Wrap(err, "failed to comment on PR",
			goerr.V("repository", event.Repository),
			goerr.V("number", pr.Number),
		)
	}
	return nil
}
