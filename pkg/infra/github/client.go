package github

import (
	"context"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

const (
	defaultAPIURL = "https://api.github.com"
	perPage       = 100
	// maxPages bounds list calls so that a huge repository cannot stall a report
	maxPages = 10
)

// Config holds credentials and endpoint of the GitHub API. Either Token or
// the App triple (AppID, InstallationID, PrivateKey) must be set.
type Config struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     []byte
	// APIURL is the REST endpoint, e.g. https://ghe.example.com/api/v3. Empty means github.com.
	APIURL string
	// Transport is the base round tripper. nil means http.DefaultTransport.
	Transport http.RoundTripper
}

type client struct {
	githubClient *github.Client
}

var _ interfaces.GitHubClient = (*client)(nil)

// NewClient creates a new GitHub client with token or App authentication
func NewClient(cfg Config) (interfaces.GitHubClient, error) {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	enterprise := apiURL != "" && apiURL != defaultAPIURL

	var githubClient *github.Client
	switch {
	case cfg.AppID != 0:
		if cfg.InstallationID == 0 || len(cfg.PrivateKey) == 0 {
			return nil, goerr.New("GitHub App auth requires installation ID and private key",
				goerr.V("app_id", cfg.AppID))
		}
		itr, err := ghinstallation.New(base, cfg.AppID, cfg.InstallationID, cfg.PrivateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport", goerr.V("app_id", cfg.AppID))
		}
		if enterprise {
			itr.BaseURL = apiURL
		}
		githubClient = github.NewClient(&http.Client{Transport: itr})

	case cfg.Token != "":
		githubClient = github.NewClient(&http.Client{Transport: base}).WithAuthToken(cfg.Token)

	default:
		return nil, goerr.New("GitHub token or App credentials are required")
	}

	if enterprise {
		var err error
		githubClient, err = githubClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to set GitHub API URL", goerr.V("api_url", apiURL))
		}
	}

	return &client{githubClient: githubClient}, nil
}

// ListPullRequests lists pull requests page by page
func (c *client) ListPullRequests(ctx context.Context, repo model.Repository, state string) ([]model.PullRequest, error) {
	opt := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var result []model.PullRequest
	for page := 0; page < maxPages; page++ {
		prs, resp, err := c.githubClient.PullRequests.List(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list pull requests",
				goerr.V("repo", repo.FullName()), goerr.V("state", state))
		}
		for _, pr := range prs {
			result = append(result, toPullRequest(pr))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return result, nil
}

// SearchPullRequests runs an issue search. Only the first page is used.
func (c *client) SearchPullRequests(ctx context.Context, query string) ([]model.PullRequest, error) {
	res, _, err := c.githubClient.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search pull requests", goerr.V("query", query))
	}

	result := make([]model.PullRequest, 0, len(res.Issues))
	for _, issue := range res.Issues {
		result = append(result, issueToPullRequest(issue))
	}
	return result, nil
}

// GetPullRequest fetches a pull request by number
func (c *client) GetPullRequest(ctx context.Context, repo model.Repository, number int) (*model.PullRequestDetail, error) {
	pr, _, err := c.githubClient.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get pull request",
			goerr.V("repo", repo.FullName()), goerr.V("number", number))
	}
	return &model.PullRequestDetail{
		PullRequest: toPullRequest(pr),
		Body:        pr.GetBody(),
	}, nil
}

// ListAlerts lists Dependabot alerts page by page
func (c *client) ListAlerts(ctx context.Context, repo model.Repository, state string) ([]model.Alert, error) {
	opt := &github.ListAlertsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	if state != "" {
		opt.State = github.Ptr(state)
	}

	var result []model.Alert
	for page := 0; page < maxPages; page++ {
		alerts, resp, err := c.githubClient.Dependabot.ListRepoAlerts(ctx, repo.Owner, repo.Name, opt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list Dependabot alerts",
				goerr.V("repo", repo.FullName()), goerr.V("state", state))
		}
		for _, alert := range alerts {
			result = append(result, toAlert(alert))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.ListOptions.Page = resp.NextPage
	}
	return result, nil
}

// FindOpenIssue looks for an open issue with exactly the given title in the
// first page of open issues.
func (c *client) FindOpenIssue(ctx context.Context, repo model.Repository, title string) (*model.Issue, error) {
	issues, _, err := c.githubClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues", goerr.V("repo", repo.FullName()))
	}

	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		if issue.GetTitle() == title {
			return toIssue(issue), nil
		}
	}
	return nil, nil
}

// CreateIssue creates an issue
func (c *client) CreateIssue(ctx context.Context, repo model.Repository, req *model.IssueRequest) (*model.Issue, error) {
	ghReq := &github.IssueRequest{
		Title: github.Ptr(req.Title),
		Body:  github.Ptr(req.Body),
	}
	if len(req.Labels) > 0 {
		labels := append([]string(nil), req.Labels...)
		ghReq.Labels = &labels
	}

	issue, _, err := c.githubClient.Issues.Create(ctx, repo.Owner, repo.Name, ghReq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue",
			goerr.V("repo", repo.FullName()), goerr.V("title", req.Title), goerr.V("labels", req.Labels))
	}
	return toIssue(issue), nil
}

// CreateComment creates a comment on a pull request or issue
func (c *client) CreateComment(ctx context.Context, repo model.Repository, number int, body string) error {
	_, _, err := c.githubClient.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create comment",
			goerr.V("repo", repo.FullName()), goerr.V("number", number))
	}
	return nil
}
