package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// MockGitHubClient is a mock implementation of GitHubClient. Unset funcs fail.
type MockGitHubClient struct {
	listPullRequestsFunc   func(ctx context.Context, repo model.Repository, state string) ([]model.PullRequest, error)
	searchPullRequestsFunc func(ctx context.Context, query string) ([]model.PullRequest, error)
	getPullRequestFunc     func(ctx context.Context, repo model.Repository, number int) (*model.PullRequestDetail, error)
	listAlertsFunc         func(ctx context.Context, repo model.Repository, state string) ([]model.Alert, error)
	findOpenIssueFunc      func(ctx context.Context, repo model.Repository, title string) (*model.Issue, error)
	createIssueFunc        func(ctx context.Context, repo model.Repository, req *model.IssueRequest) (*model.Issue, error)
	createCommentFunc      func(ctx context.Context, repo model.Repository, number int, body string) error

	mu            sync.Mutex
	listCalls     int
	searchQueries []string
	getCalls      []int
	issueRequests []model.IssueRequest
	comments      []MockComment
}

type MockComment struct {
	Repo   model.Repository
	Number int
	Body   string
}

var _ interfaces.GitHubClient = (*MockGitHubClient)(nil)

var errNotConfigured = errors.New("mock not configured")

func (m *MockGitHubClient) ListPullRequests(ctx context.Context, repo model.Repository, state string) ([]model.PullRequest, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listPullRequestsFunc != nil {
		return m.listPullRequestsFunc(ctx, repo, state)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) SearchPullRequests(ctx context.Context, query string) ([]model.PullRequest, error) {
	m.mu.Lock()
	m.searchQueries = append(m.searchQueries, query)
	m.mu.Unlock()
	if m.searchPullRequestsFunc != nil {
		return m.searchPullRequestsFunc(ctx, query)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) GetPullRequest(ctx context.Context, repo model.Repository, number int) (*model.PullRequestDetail, error) {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, number)
	m.mu.Unlock()
	if m.getPullRequestFunc != nil {
		return m.getPullRequestFunc(ctx, repo, number)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) ListAlerts(ctx context.Context, repo model.Repository, state string) ([]model.Alert, error) {
	if m.listAlertsFunc != nil {
		return m.listAlertsFunc(ctx, repo, state)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) FindOpenIssue(ctx context.Context, repo model.Repository, title string) (*model.Issue, error) {
	if m.findOpenIssueFunc != nil {
		return m.findOpenIssueFunc(ctx, repo, title)
	}
	return nil, nil
}

func (m *MockGitHubClient) CreateIssue(ctx context.Context, repo model.Repository, req *model.IssueRequest) (*model.Issue, error) {
	m.mu.Lock()
	m.issueRequests = append(m.issueRequests, *req)
	m.mu.Unlock()
	if m.createIssueFunc != nil {
		return m.createIssueFunc(ctx, repo, req)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) CreateComment(ctx context.Context, repo model.Repository, number int, body string) error {
	m.mu.Lock()
	m.comments = append(m.comments, MockComment{Repo: repo, Number: number, Body: body})
	m.mu.Unlock()
	if m.createCommentFunc != nil {
		return m.createCommentFunc(ctx, repo, number, body)
	}
	return nil
}
