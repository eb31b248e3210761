package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bumpwatch/pkg/cli/config"
	"github.com/m-mizutani/bumpwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

func TestDetect_Validate(t *testing.T) {
	t.Run("accepts known states", func(t *testing.T) {
		for _, state := range []string{"open", "closed", "all"} {
			cfg := config.Detect{State: state, PollInterval: time.Second}
			gt.NoError(t, cfg.Validate())
		}
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		cfg := config.Detect{State: "draft", PollInterval: time.Second}
		gt.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive poll interval", func(t *testing.T) {
		cfg := config.Detect{State: "open"}
		gt.Error(t, cfg.Validate())
	})
}

func TestDetect_Timeout(t *testing.T) {
	cfg := config.Detect{WaitDuration: 10 * time.Minute}
	gt.Equal(t, cfg.Timeout(), 10*time.Minute)

	cfg.WaitMinutes = 3
	gt.Equal(t, cfg.Timeout(), 3*time.Minute)

	opts := cfg.Options(model.Repository{Owner: "acme", Name: "shop"})
	gt.Equal(t, opts.WaitDuration, 3*time.Minute)
	gt.Equal(t, opts.Repo.FullName(), "acme/shop")
}

func TestDetect_WithoutWait(t *testing.T) {
	cfg := config.Detect{State: "open", Wait: true, WaitDuration: 10 * time.Minute, PollInterval: time.Second}
	repo := model.Repository{Owner: "acme", Name: "shop"}

	live := cfg.WithoutWait()
	gt.False(t, live.Options(repo).Wait)
	gt.Equal(t, live.State, "open")
	gt.Equal(t, live.PollInterval, time.Second)
	gt.True(t, cfg.Options(repo).Wait)
}

func TestGitHub_NewClient(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		cfg := config.GitHub{Token: "ghp_test"}
		gt.True(t, cfg.HasCredentials())
		client, err := cfg.NewClient()
		gt.NoError(t, err)
		gt.V(t, client).NotNil()
	})

	t.Run("no credentials", func(t *testing.T) {
		cfg := config.GitHub{}
		gt.False(t, cfg.HasCredentials())
		_, err := cfg.NewClient()
		gt.Error(t, err)
	})

	t.Run("missing private key file", func(t *testing.T) {
		cfg := config.GitHub{AppID: 1, InstallationID: 2, PrivateKey: filepath.Join(t.TempDir(), "missing.pem")}
		_, err := cfg.NewClient()
		gt.Error(t, err)
	})

	t.Run("repository", func(t *testing.T) {
		repo, err := (&config.GitHub{Repo: "acme/shop"}).Repository()
		gt.NoError(t, err)
		gt.Equal(t, repo.Owner, "acme")

		_, err = (&config.GitHub{Repo: "broken"}).Repository()
		gt.Error(t, err)
	})
}

func TestReport_ParseFormats(t *testing.T) {
	cfg := config.Report{Formats: []string{"HTML", "pdf", "html", "summary"}}
	formats, err := cfg.ParseFormats()
	gt.NoError(t, err)
	gt.Equal(t, formats, []render.Format{render.FormatHTML, render.FormatPDF, render.FormatSummary})

	cfg.Formats = []string{"docx"}
	_, err = cfg.ParseFormats()
	gt.Error(t, err)
}

func TestReport_Path(t *testing.T) {
	cfg := config.Report{HTMLPath: "r.html", PDFPath: "r.pdf", JSONPath: "r.json"}
	gt.Equal(t, cfg.Path(render.FormatHTML), "r.html")
	gt.Equal(t, cfg.Path(render.FormatPDF), "r.pdf")
	gt.Equal(t, cfg.Path(render.FormatJSON), "r.json")
	gt.Equal(t, cfg.Path(render.FormatSummary), "")
	gt.Equal(t, cfg.Path(render.FormatText), "")
}

type alertClient struct {
	interfaces.GitHubClient
	alerts []model.Alert
	err    error
	calls  int
}

func (x *alertClient) ListAlerts(ctx context.Context, repo model.Repository, state string) ([]model.Alert, error) {
	x.calls++
	return x.alerts, x.err
}

func TestInput_PullRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("inline data", func(t *testing.T) {
		in := config.Input{PRsData: `[{"number":1,"title":"Bump a from 1.0.0 to 2.0.0","state":"open"}]`}
		gt.True(t, in.HasPRs())
		prs, err := in.PullRequests(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 1)
		gt.Equal(t, prs[0].Number, 1)
	})

	t.Run("file wins over data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prs.json")
		gt.NoError(t, os.WriteFile(path, []byte(`[{"number":7},{"number":8}]`), 0o600))
		in := config.Input{PRsFile: path, PRsData: `[{"number":1}]`}
		prs, err := in.PullRequests(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 2)
	})

	t.Run("malformed data is empty", func(t *testing.T) {
		in := config.Input{PRsData: `{not json`}
		prs, err := in.PullRequests(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(prs), 0)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		in := config.Input{PRsFile: filepath.Join(t.TempDir(), "none.json")}
		_, err := in.PullRequests(ctx)
		gt.Error(t, err)
	})
}

func TestInput_Alerts(t *testing.T) {
	ctx := context.Background()
	repo := model.Repository{Owner: "acme", Name: "shop"}

	t.Run("given data skips the API", func(t *testing.T) {
		client := &alertClient{}
		in := config.Input{AlertsData: `[{"severity":"high"}]`, FetchAlerts: true}
		alerts, err := in.Alerts(ctx, client, repo)
		gt.NoError(t, err)
		gt.Equal(t, len(alerts), 1)
		gt.Equal(t, client.calls, 0)
	})

	t.Run("fetch", func(t *testing.T) {
		client := &alertClient{alerts: []model.Alert{{Severity: "high"}, {Severity: "low"}}}
		in := config.Input{FetchAlerts: true}
		alerts, err := in.Alerts(ctx, client, repo)
		gt.NoError(t, err)
		gt.Equal(t, len(alerts), 2)
		gt.Equal(t, client.calls, 1)
	})

	t.Run("fetch failure is empty", func(t *testing.T) {
		client := &alertClient{err: os.ErrPermission}
		in := config.Input{FetchAlerts: true}
		alerts, err := in.Alerts(ctx, client, repo)
		gt.NoError(t, err)
		gt.Equal(t, len(alerts), 0)
	})

	t.Run("disabled", func(t *testing.T) {
		client := &alertClient{alerts: []model.Alert{{Severity: "low"}}}
		alerts, err := (&config.Input{}).Alerts(ctx, client, repo)
		gt.NoError(t, err)
		gt.Equal(t, len(alerts), 0)
		gt.Equal(t, client.calls, 0)
	})
}

func TestIssue_Options(t *testing.T) {
	cfg := config.Issue{Title: "Deps ${date}", Labels: []string{"dependencies", "", "report"}}
	opts := cfg.Options(model.Repository{Owner: "acme", Name: "shop"})
	gt.Equal(t, opts.TitleTemplate, "Deps ${date}")
	gt.Equal(t, opts.Labels, []string{"dependencies", "report"})
}

func TestPolicy_Classifier(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		cls, err := (&config.Policy{}).Classifier()
		gt.NoError(t, err)
		gt.Equal(t, cls.Policy().BranchMarker, "dependabot")
	})

	t.Run("toml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.toml")
		gt.NoError(t, os.WriteFile(path, []byte("branch_marker = \"renovate\"\n"), 0o600))
		cls, err := (&config.Policy{Path: path}).Classifier()
		gt.NoError(t, err)
		gt.Equal(t, cls.Policy().BranchMarker, "renovate")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.json")
		gt.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		_, err := (&config.Policy{Path: path}).Classifier()
		gt.Error(t, err)
	})
}

func TestSlackAndStorage_Disabled(t *testing.T) {
	gt.V(t, (&config.Slack{}).New()).Nil()
	gt.V(t, (&config.Slack{WebhookURL: "https://hooks.slack.com/services/x"}).New()).NotNil()

	store, err := (&config.Storage{}).New(context.Background())
	gt.NoError(t, err)
	gt.True(t, store == nil)
}

func TestSentry_Disabled(t *testing.T) {
	cfg := config.Sentry{}
	gt.False(t, cfg.Enabled())
	gt.NoError(t, cfg.Configure(context.Background()))
	cfg.Capture(context.Background(), os.ErrClosed)
}
