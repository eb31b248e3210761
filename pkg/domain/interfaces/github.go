package interfaces

import (
	"context"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ListPullRequests lists pull requests of the repository in the given state (open, closed or all)
	ListPullRequests(ctx context.Context, repo model.Repository, state string) ([]model.PullRequest, error)

	// SearchPullRequests runs an issue search query. Results carry no head branch name.
	SearchPullRequests(ctx context.Context, query string) ([]model.PullRequest, error)

	// GetPullRequest fetches one pull request with its body. A closed PR that was merged has state merged.
	GetPullRequest(ctx context.Context, repo model.Repository, number int) (*model.PullRequestDetail, error)

	// ListAlerts lists Dependabot alerts of the repository in the given state
	ListAlerts(ctx context.Context, repo model.Repository, state string) ([]model.Alert, error)

	// FindOpenIssue returns the open issue whose title equals title, or nil
	FindOpenIssue(ctx context.Context, repo model.Repository, title string) (*model.Issue, error)

	// CreateIssue creates an issue and returns it
	CreateIssue(ctx context.Context, repo model.Repository, req *model.IssueRequest) (*model.Issue, error)

	// CreateComment creates a comment on a pull request or issue
	CreateComment(ctx context.Context, repo model.Repository, number int, body string) error
}
