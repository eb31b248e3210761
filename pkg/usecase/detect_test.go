package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/usecase"
)

var testRepo = model.Repository{Owner: "acme", Name: "shop"}

func botPR(number int) model.PullRequest {
	return model.PullRequest{Number: number, Title: "Bump lodash from 4.17.20 to 4.17.21", State: "open", Author: "dependabot[bot]"}
}

func TestDetect_ListFiltersByBotLogin(t *testing.T) {
	client := &MockGitHubClient{
		listPullRequestsFunc: func(ctx context.Context, repo model.Repository, state string) ([]model.PullRequest, error) {
			gt.Equal(t, repo, testRepo)
			gt.Equal(t, state, "open")
			return []model.PullRequest{
				botPR(1),
				{Number: 2, Title: "Fix typo", Author: "alice"},
				{Number: 3, Title: "Bump x from 1 to 2", Author: "Dependabot"},
			}, nil
		},
	}

	prs, err := usecase.NewDetect(client, usecase.DetectOptions{Repo: testRepo}).Detect(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, len(prs), 2)
	gt.Equal(t, prs[0].Number, 1)
	gt.Equal(t, prs[1].Number, 3)
	gt.Equal(t, len(client.searchQueries), 0)
}

func TestDetect_FallbackOrder(t *testing.T) {
	t.Run("author search", func(t *testing.T) {
		client := &MockGitHubClient{
			listPullRequestsFunc: func(context.Context, model.Repository, string) ([]model.PullRequest, error) {
				return nil, nil
			},
			searchPullRequestsFunc: func(ctx context.Context, query string) ([]model.PullRequest, error) {
				return []model.PullRequest{botPR(7)}, nil
			},
		}
		uc := usecase.NewDetect(client, usecase.DetectOptions{Repo: testRepo})
		prs, err := uc.Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 1)
		gt.Equal(t, client.searchQueries, []string{uc.AuthorQuery()})
	})

	t.Run("label search after failures", func(t *testing.T) {
		client := &MockGitHubClient{
			listPullRequestsFunc: func(context.Context, model.Repository, string) ([]model.PullRequest, error) {
				return nil, errors.New("boom")
			},
		}
		uc := usecase.NewDetect(client, usecase.DetectOptions{Repo: testRepo})
		client.searchPullRequestsFunc = func(ctx context.Context, query string) ([]model.PullRequest, error) {
			if query == uc.LabelQuery() {
				return []model.PullRequest{botPR(9)}, nil
			}
			return nil, nil
		}

		prs, err := uc.Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 1)
		gt.Equal(t, prs[0].Number, 9)
		gt.Equal(t, client.searchQueries, []string{uc.AuthorQuery(), uc.LabelQuery()})
	})

	t.Run("everything empty", func(t *testing.T) {
		client := &MockGitHubClient{}
		prs, err := usecase.NewDetect(client, usecase.DetectOptions{Repo: testRepo}).Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 0)
		gt.Equal(t, client.listCalls, 1)
	})
}

func TestDetect_Wait(t *testing.T) {
	t.Run("PR appears while polling", func(t *testing.T) {
		client := &MockGitHubClient{}
		client.listPullRequestsFunc = func(context.Context, model.Repository, string) ([]model.PullRequest, error) {
			if client.listCalls >= 3 {
				return []model.PullRequest{botPR(11)}, nil
			}
			return nil, nil
		}
		uc := usecase.NewDetect(client, usecase.DetectOptions{
			Repo:         testRepo,
			Wait:         true,
			WaitDuration: 5 * time.Second,
			PollInterval: 5 * time.Millisecond,
		})

		prs, err := uc.Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 1)
		gt.Equal(t, prs[0].Number, 11)
		gt.Equal(t, client.listCalls, 3)
		gt.Equal(t, len(client.searchQueries), 2)
	})

	t.Run("deadline reached", func(t *testing.T) {
		client := &MockGitHubClient{}
		uc := usecase.NewDetect(client, usecase.DetectOptions{
			Repo:         testRepo,
			Wait:         true,
			WaitDuration: 30 * time.Millisecond,
			PollInterval: 5 * time.Millisecond,
		})

		start := time.Now()
		prs, err := uc.Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 0)
		gt.True(t, time.Since(start) >= 30*time.Millisecond)
		gt.Number(t, client.listCalls).Greater(1)
		gt.Equal(t, len(client.searchQueries), 4)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		uc := usecase.NewDetect(&MockGitHubClient{}, usecase.DetectOptions{
			Repo:         testRepo,
			Wait:         true,
			WaitDuration: time.Minute,
			PollInterval: 5 * time.Millisecond,
		})
		_, err := uc.Detect(ctx)
		gt.Error(t, err)
	})

	t.Run("no wait for closed state", func(t *testing.T) {
		client := &MockGitHubClient{}
		uc := usecase.NewDetect(client, usecase.DetectOptions{
			Repo:         testRepo,
			State:        "closed",
			Wait:         true,
			WaitDuration: time.Minute,
			PollInterval: 5 * time.Millisecond,
		})
		prs, err := uc.Detect(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 0)
		gt.Equal(t, client.listCalls, 1)
	})
}

func TestDetect_Queries(t *testing.T) {
	uc := usecase.NewDetect(&MockGitHubClient{}, usecase.DetectOptions{Repo: testRepo})
	gt.Equal(t, uc.AuthorQuery(), "repo:acme/shop is:pr (author:dependabot OR author:dependabot[bot] OR author:app/dependabot) is:open")
	gt.Equal(t, uc.LabelQuery(), "repo:acme/shop is:pr label:dependencies is:open")

	all := usecase.NewDetect(&MockGitHubClient{}, usecase.DetectOptions{
		Repo:          testRepo,
		State:         "all",
		BotLogins:     []string{"renovate[bot]"},
		FallbackLabel: "deps",
	})
	gt.Equal(t, all.AuthorQuery(), "repo:acme/shop is:pr (author:renovate[bot]) (is:open OR is:closed)")
	gt.Equal(t, all.LabelQuery(), "repo:acme/shop is:pr label:deps (is:open OR is:closed)")
}
