package usecase

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

const (
	// DefaultIssueTitle is expanded with the UTC date of the run.
	DefaultIssueTitle = "Dependency update report: ${date}"
	// DefaultSnippetLimit is the length of PR body snippets in the issue.
	DefaultSnippetLimit = 1200

	issueFetchConcurrency = 4
)

// IssueOptions configures the tracking issue.
type IssueOptions struct {
	Repo model.Repository
	// TitleTemplate may contain ${date}.
	TitleTemplate string
	Labels        []string
	SnippetLimit  int
	Now           func() time.Time
}

type issueUseCase struct {
	client interfaces.GitHubClient
	opts   IssueOptions
}

// NewIssue creates a new instance of the tracking issue use case
func NewIssue(client interfaces.GitHubClient, opts IssueOptions) *issueUseCase {
	if opts.TitleTemplate == "" {
		opts.TitleTemplate = DefaultIssueTitle
	}
	if opts.SnippetLimit <= 0 {
		opts.SnippetLimit = DefaultSnippetLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &issueUseCase{client: client, opts: opts}
}

// Title expands the title template with the UTC date.
func (uc *issueUseCase) Title() string {
	return strings.ReplaceAll(uc.opts.TitleTemplate, "${date}", uc.date())
}

func (uc *issueUseCase) date() string {
	return uc.opts.Now().UTC().Format("2006-01-02")
}

// Publish returns the URL of the open issue titled Title, creating it when
// missing. When creation fails both with and without labels the URL is empty
// and no error is returned.
func (uc *issueUseCase) Publish(ctx context.Context, report *model.Report) (string, error) {
	title := uc.Title()
	logger := ctxlog.From(ctx).With("repo", uc.opts.Repo.FullName(), "title", title)

	existing, err := uc.client.FindOpenIssue(ctx, uc.opts.Repo, title)
	if err != nil {
		logger.Warn("Failed to look up existing issue", "error", err)
	} else if existing != nil {
		logger.Info("Reusing existing issue", "url", existing.URL)
		return existing.URL, nil
	}

	snippets, err := uc.snippets(ctx, report.Rows)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := render.IssueBody(&body, report, uc.date(), snippets); err != nil {
		return "", err
	}

	req := &model.IssueRequest{Title: title, Body: body.String(), Labels: uc.opts.Labels}
	issue, err := uc.client.CreateIssue(ctx, uc.opts.Repo, req)
	if err != nil && len(req.Labels) > 0 {
		logger.Warn("Failed to create issue with labels, retrying without them", "labels", req.Labels, "error", err)
		req.Labels = nil
		issue, err = uc.client.CreateIssue(ctx, uc.opts.Repo, req)
	}
	if err != nil {
		logger.Error("Failed to create issue", "error", err)
		return "", nil
	}

	logger.Info("Issue created", "url", issue.URL, "number", issue.Number)
	return issue.URL, nil
}

// snippets fetches PR bodies concurrently. A failed fetch leaves the PR
// without snippet.
func (uc *issueUseCase) snippets(ctx context.Context, rows []model.Row) (map[int]string, error) {
	var (
		mu     sync.Mutex
		result = make(map[int]string, len(rows))
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(issueFetchConcurrency)
	for _, row := range rows {
		number := row.PR.Number
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return goerr.Wrap(err, "issue snippet fetch cancelled")
			}
			detail, err := uc.client.GetPullRequest(ctx, uc.opts.Repo, number)
			if err != nil {
				ctxlog.From(ctx).Warn("Failed to fetch PR body", "number", number, "error", err)
				return nil
			}
			if snippet := render.Snippet(detail.Body, uc.opts.SnippetLimit); snippet != "" {
				mu.Lock()
				result[number] = snippet
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
