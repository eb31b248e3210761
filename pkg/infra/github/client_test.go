package github_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	githubinfra "github.com/m-mizutani/bumpwatch/pkg/infra/github"
)

var testRepo = model.Repository{Owner: "octo", Name: "hello"}

func newTestClient(t *testing.T, mux *http.ServeMux) interfaces.GitHubClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := githubinfra.NewClient(githubinfra.Config{
		Token:  "test-token",
		APIURL: server.URL,
	})
	gt.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	gt.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := githubinfra.NewClient(githubinfra.Config{})
	gt.Error(t, err)

	_, err = githubinfra.NewClient(githubinfra.Config{AppID: 1})
	gt.Error(t, err)
}

func TestClient_ListPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/hello/pulls", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("state"), "all")
		gt.Equal(t, r.Header.Get("Authorization"), "Bearer test-token")
		writeJSON(t, w, []map[string]any{
			{
				"number":     1,
				"title":      "Bump lodash from 4.17.20 to 4.17.21",
				"html_url":   "https://github.com/octo/hello/pull/1",
				"state":      "open",
				"created_at": "2026-01-02T03:04:05Z",
				"labels":     []map[string]any{{"name": "dependencies", "color": "0366d6"}},
				"head":       map[string]any{"ref": "dependabot/npm_and_yarn/lodash-4.17.21"},
				"user":       map[string]any{"login": "dependabot[bot]"},
			},
			{
				"number":    2,
				"title":     "Bump react from 17 to 18",
				"state":     "closed",
				"merged_at": "2026-01-05T00:00:00Z",
				"user":      map[string]any{"login": "dependabot[bot]"},
			},
		})
	})
	client := newTestClient(t, mux)

	prs, err := client.ListPullRequests(context.Background(), testRepo, "all")
	gt.NoError(t, err)
	gt.Equal(t, len(prs), 2)

	gt.Equal(t, prs[0].Number, 1)
	gt.Equal(t, prs[0].State, model.PRStateOpen)
	gt.Equal(t, prs[0].CreatedAt, "2026-01-02T03:04:05Z")
	gt.Equal(t, prs[0].HeadRefName, "dependabot/npm_and_yarn/lodash-4.17.21")
	gt.Equal(t, prs[0].Author, "dependabot[bot]")
	gt.Equal(t, prs[0].Labels, []model.Label{{Name: "dependencies", Color: "0366d6"}})

	gt.Equal(t, prs[1].State, model.PRStateMerged)
	gt.Equal(t, prs[1].CreatedAt, "")
}

func TestClient_SearchPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/search/issues", func(w http.ResponseWriter, r *http.Request) {
		gt.String(t, r.URL.Query().Get("q")).Contains("label:dependencies")
		writeJSON(t, w, map[string]any{
			"total_count": 1,
			"items": []map[string]any{
				{"number": 7, "title": "Bump foo from 1 to 2", "state": "open", "html_url": "https://github.com/octo/hello/pull/7"},
			},
		})
	})
	client := newTestClient(t, mux)

	prs, err := client.SearchPullRequests(context.Background(), "repo:octo/hello is:pr label:dependencies is:open")
	gt.NoError(t, err)
	gt.Equal(t, len(prs), 1)
	gt.Equal(t, prs[0].Number, 7)
	gt.Equal(t, prs[0].HeadRefName, "")
}

func TestClient_GetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/hello/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"number":    5,
			"state":     "closed",
			"merged_at": "2026-02-01T00:00:00Z",
			"body":      "Bumps foo from 1 to 2.",
		})
	})
	client := newTestClient(t, mux)

	pr, err := client.GetPullRequest(context.Background(), testRepo, 5)
	gt.NoError(t, err)
	gt.Equal(t, pr.State, model.PRStateMerged)
	gt.Equal(t, pr.Body, "Bumps foo from 1 to 2.")
}

func TestClient_GetPullRequest_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/hello/pulls/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]any{"message": "Not Found"})
	})
	client := newTestClient(t, mux)

	_, err := client.GetPullRequest(context.Background(), testRepo, 404)
	gt.Error(t, err)
}

func TestClient_ListAlerts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/hello/dependabot/alerts", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Query().Get("state"), "open")
		writeJSON(t, w, []map[string]any{
			{
				"number": 1,
				"state":  "open",
				"dependency": map[string]any{
					"package":       map[string]any{"ecosystem": "npm", "name": "lodash"},
					"manifest_path": "apps/web/package-lock.json",
				},
				"security_advisory": map[string]any{
					"ghsa_id":  "GHSA-xxxx-yyyy-zzzz",
					"cve_id":   "CVE-2026-0001",
					"summary":  "Prototype pollution",
					"severity": "high",
					"cvss":     map[string]any{"score": 7.5},
				},
				"security_vulnerability": map[string]any{
					"severity":                 "high",
					"vulnerable_version_range": "< 4.17.21",
					"first_patched_version":    map[string]any{"identifier": "4.17.21"},
				},
			},
		})
	})
	client := newTestClient(t, mux)

	alerts, err := client.ListAlerts(context.Background(), testRepo, "open")
	gt.NoError(t, err)
	gt.Equal(t, len(alerts), 1)

	a := alerts[0]
	gt.Equal(t, a.Severity, "high")
	gt.Equal(t, a.PackageName(), "lodash")
	gt.Equal(t, a.Dependency.Package.Ecosystem, "npm")
	gt.Equal(t, a.ManifestPath, "apps/web/package-lock.json")
	gt.Equal(t, a.FixedVersion, "4.17.21")
	gt.Equal(t, a.VulnerableVersionRange, "< 4.17.21")
	gt.Equal(t, a.SecurityAdvisory.GHSAID, "GHSA-xxxx-yyyy-zzzz")
	gt.Value(t, a.SecurityAdvisory.CVSS.Score).NotNil()
	gt.Equal(t, *a.SecurityAdvisory.CVSS.Score, 7.5)
}

func TestClient_Issues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octo/hello/issues", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, []map[string]any{
				{"number": 3, "title": "Dependency report: 2026-10-16", "html_url": "https://github.com/octo/hello/pull/3",
					"pull_request": map[string]any{"url": "x"}},
				{"number": 4, "title": "Dependency report: 2026-10-16", "html_url": "https://github.com/octo/hello/issues/4"},
			})
		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			gt.NoError(t, err)
			var req map[string]any
			gt.NoError(t, json.Unmarshal(body, &req))
			gt.Equal(t, req["title"], any("new issue"))
			w.WriteHeader(http.StatusCreated)
			writeJSON(t, w, map[string]any{"number": 9, "title": "new issue", "html_url": "https://github.com/octo/hello/issues/9"})
		}
	})
	mux.HandleFunc("/api/v3/repos/octo/hello/issues/9/comments", func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{"id": 1})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	t.Run("find skips pull requests", func(t *testing.T) {
		issue, err := client.FindOpenIssue(ctx, testRepo, "Dependency report: 2026-10-16")
		gt.NoError(t, err)
		gt.Value(t, issue).NotNil()
		gt.Equal(t, issue.Number, 4)
	})

	t.Run("find returns nil when absent", func(t *testing.T) {
		issue, err := client.FindOpenIssue(ctx, testRepo, "other")
		gt.NoError(t, err)
		gt.Value(t, issue).Nil()
	})

	t.Run("create", func(t *testing.T) {
		issue, err := client.CreateIssue(ctx, testRepo, &model.IssueRequest{Title: "new issue", Body: "body", Labels: []string{"deps"}})
		gt.NoError(t, err)
		gt.Equal(t, issue.URL, "https://github.com/octo/hello/issues/9")
	})

	t.Run("comment", func(t *testing.T) {
		gt.NoError(t, client.CreateComment(ctx, testRepo, 9, "hello"))
	})
}
