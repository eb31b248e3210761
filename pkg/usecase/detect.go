package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// DefaultBotLogins are the logins dependency PRs are authored by.
var DefaultBotLogins = []string{"dependabot", "dependabot[bot]", "app/dependabot"}

// DetectOptions configures PR detection.
type DetectOptions struct {
	Repo model.Repository
	// State is open, closed or all.
	State     string
	BotLogins []string
	// FallbackLabel is searched for when no PR by a bot login is found.
	FallbackLabel string

	// Wait enables polling until a PR shows up. It only applies to the open state.
	Wait         bool
	WaitDuration time.Duration
	PollInterval time.Duration
}

type detectUseCase struct {
	client interfaces.GitHubClient
	opts   DetectOptions
}

// NewDetect creates a new instance of the detection use case
func NewDetect(client interfaces.GitHubClient, opts DetectOptions) *detectUseCase {
	if len(opts.BotLogins) == 0 {
		opts.BotLogins = DefaultBotLogins
	}
	if opts.State == "" {
		opts.State = "open"
	}
	if opts.FallbackLabel == "" {
		opts.FallbackLabel = "dependencies"
	}
	return &detectUseCase{client: client, opts: opts}
}

func (uc *detectUseCase) shouldWait() bool {
	return uc.opts.Wait && uc.opts.State == "open" && uc.opts.WaitDuration > 0
}

// Detect lists dependency PRs. Fetch failures degrade to fewer results and
// only a cancelled context is returned as an error.
func (uc *detectUseCase) Detect(ctx context.Context) ([]model.PullRequest, error) {
	logger := ctxlog.From(ctx).With("repo", uc.opts.Repo.FullName(), "state", uc.opts.State)

	prs := uc.listFromAPI(ctx)
	logger.Info("Listed dependency PRs", "count", len(prs))

	if len(prs) == 0 {
		prs = uc.search(ctx)
		logger.Info("Immediate fallback search done", "count", len(prs))
	}

	if len(prs) > 0 || !uc.shouldWait() {
		return prs, nil
	}

	deadline := time.NewTimer(uc.opts.WaitDuration)
	defer deadline.Stop()
	interval := uc.opts.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Waiting for dependency PRs", "wait", uc.opts.WaitDuration, "interval", interval)
poll:
	for len(prs) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			logger.Info("Wait deadline reached")
			break poll
		case <-ticker.C:
			prs = uc.listFromAPI(ctx)
			logger.Debug("Polled dependency PRs", "count", len(prs))
		}
	}

	if len(prs) == 0 {
		prs = uc.search(ctx)
		logger.Info("Fallback search done", "count", len(prs))
	}
	return prs, nil
}

func (uc *detectUseCase) listFromAPI(ctx context.Context) []model.PullRequest {
	prs, err := uc.client.ListPullRequests(ctx, uc.opts.Repo, uc.opts.State)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to list pull requests", "error", err)
		return nil
	}

	filtered := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		if isBotLogin(uc.opts.BotLogins, pr.Author) {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// search tries the author query first, then the label query.
func (uc *detectUseCase) search(ctx context.Context) []model.PullRequest {
	for _, q := range []string{uc.AuthorQuery(), uc.LabelQuery()} {
		prs, err := uc.client.SearchPullRequests(ctx, q)
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to search pull requests", "error", err, "query", q)
			continue
		}
		if len(prs) > 0 {
			return prs
		}
	}
	return nil
}

// AuthorQuery is the search query matching PRs by any bot login.
func (uc *detectUseCase) AuthorQuery() string {
	authors := make([]string, 0, len(uc.opts.BotLogins))
	for _, login := range uc.opts.BotLogins {
		authors = append(authors, "author:"+login)
	}
	return buildQuery("repo:"+uc.opts.Repo.FullName(), "is:pr",
		"("+strings.Join(authors, " OR ")+")", stateQualifier(uc.opts.State))
}

// LabelQuery is the search query matching PRs by the fallback label.
func (uc *detectUseCase) LabelQuery() string {
	return buildQuery("repo:"+uc.opts.Repo.FullName(), "is:pr",
		"label:"+uc.opts.FallbackLabel, stateQualifier(uc.opts.State))
}

func stateQualifier(state string) string {
	switch state {
	case "all":
		return "(is:open OR is:closed)"
	case "open", "closed":
		return "is:" + state
	default:
		return ""
	}
}

func buildQuery(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func isBotLogin(logins []string, login string) bool {
	for _, l := range logins {
		if strings.EqualFold(l, login) {
			return true
		}
	}
	return false
}
