package classifier_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/bumpwatch/pkg/domain/classifier"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

func samplePRs() []model.PullRequest {
	return []model.PullRequest{
		{Number: 1, Title: "Bump lodash from 4.17.20 to 4.17.21 in /apps/web", State: "open", CreatedAt: "2026-01-01T00:00:00Z", HeadRefName: "dependabot/npm_and_yarn/apps/web/lodash-4.17.21"},
		{Number: 2, Title: "Bump react from 17.0.2 to 18.2.0 in /apps/web", State: "open", CreatedAt: "2026-03-01T00:00:00Z", HeadRefName: "dependabot/npm_and_yarn/apps/web/react-18.2.0"},
		{Number: 3, Title: "Bump actions/checkout from 3 to 4", State: "merged", HeadRefName: "dependabot/github_actions/actions/checkout-4"},
		{Number: 4, Title: "Update docs", State: "closed"},
		{Number: 5, Title: "Bump golang.org/x/net from 0.17.0 to 0.18.0", State: "open", HeadRefName: "dependabot/go_modules/golang.org/x/net-0.18.0"},
	}
}

func aggregate(c *classifier.Classifier, prs []model.PullRequest) model.Aggregation {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := make([]model.Row, 0, len(prs))
	for _, pr := range prs {
		rows = append(rows, c.Classify(pr, now))
	}
	return classifier.Aggregate(rows)
}

func TestAggregate(t *testing.T) {
	c := classifier.Default()
	prs := samplePRs()
	agg := aggregate(c, prs)

	gt.Equal(t, agg.Total, model.ClassCounts{Major: 2, Minor: 1, Patch: 1, Other: 1})
	gt.Equal(t, agg.Total.Sum(), len(prs))

	dirSum := 0
	for _, k := range agg.ByDirectory.Keys() {
		dirSum += agg.ByDirectory.Get(k).Sum()
	}
	gt.Equal(t, dirSum, len(prs))

	ecoSum := 0
	for _, k := range agg.ByEcosystem.Keys() {
		ecoSum += agg.ByEcosystem.Get(k).Sum()
	}
	gt.Equal(t, ecoSum, len(prs))

	gt.Equal(t, agg.ByDirectory.Get("/apps/web"), model.ClassCounts{Major: 1, Patch: 1})
	gt.Equal(t, agg.ByDirectory.Get("/.github/workflows"), model.ClassCounts{Major: 1})
	gt.Equal(t, agg.ByEcosystem.Get("npm").Sum(), 2)
	gt.Equal(t, agg.ByEcosystem.Get(model.Unknown).Sum(), 1)
}

func TestAggregate_Empty(t *testing.T) {
	agg := classifier.Aggregate(nil)
	gt.Equal(t, agg.Total, model.ClassCounts{})
	gt.Equal(t, len(agg.ByDirectory), 0)
	gt.Equal(t, len(agg.ByEcosystem), 0)
}

func TestClassify(t *testing.T) {
	c := classifier.Default()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	row := c.Classify(samplePRs()[1], now)
	gt.Equal(t, row.Class, model.UpdateMajor)
	gt.Equal(t, row.Directory, "/apps/web")
	gt.Equal(t, row.Ecosystem, "npm")
	gt.Value(t, row.AgeDays).NotNil()
	gt.Equal(t, *row.AgeDays, 9)
	gt.Equal(t, row.Risk.Level, model.RiskMedium)

	row = c.Classify(samplePRs()[3], now)
	gt.False(t, row.Update.Matched)
	gt.Equal(t, row.Class, model.UpdateOther)
	gt.Equal(t, row.Directory, "/")
	gt.Value(t, row.AgeDays).Nil()
}

func TestAggregateAlerts(t *testing.T) {
	c := classifier.Default()
	alerts := []model.Alert{
		{Severity: "high", Dependency: model.AlertDependency{Package: model.AlertPackage{Name: "lodash", Ecosystem: "npm"}}, ManifestPath: "apps/web/package-lock.json", FixedVersion: "4.17.21"},
		{Severity: "critical", Dependency: model.AlertDependency{Package: model.AlertPackage{Name: "lodash", Ecosystem: "npm"}}, ManifestPath: "apps/web/package.json"},
		{Severity: "", Dependency: model.AlertDependency{Package: model.AlertPackage{Name: "requests", Ecosystem: "pip"}}, ManifestPath: "requirements.txt"},
		{Severity: "LOW"},
	}

	agg := c.AggregateAlerts(alerts)
	gt.Equal(t, agg.Total, 4)
	gt.Equal(t, agg.BySeverity["high"], 1)
	gt.Equal(t, agg.BySeverity["critical"], 1)
	gt.Equal(t, agg.BySeverity["low"], 1)
	gt.Equal(t, agg.BySeverity[model.Unknown], 1)
	gt.Equal(t, agg.ByDirectory["/apps/web"], 2)
	gt.Equal(t, agg.ByDirectory["/"], 2)

	gt.Equal(t, len(agg.Packages), 3)
	gt.Equal(t, agg.Packages[0], model.PackageAlerts{Name: "lodash", Count: 2, HasFix: true})
	gt.Equal(t, agg.Packages[1].Name, "requests")
	gt.Equal(t, agg.Packages[2].Name, model.Unknown)
}

func TestCoverage(t *testing.T) {
	c := classifier.Default()
	agg := aggregate(c, samplePRs())
	rows := classifier.Coverage(agg.ByDirectory, map[string]int{"/apps/web": 3, "/legacy": 1})

	gt.Equal(t, rows[0].Directory, "/")
	var legacy, web model.CoverageRow
	for _, r := range rows {
		switch r.Directory {
		case "/legacy":
			legacy = r
		case "/apps/web":
			web = r
		}
	}
	gt.Equal(t, legacy, model.CoverageRow{Directory: "/legacy", PRs: 0, Alerts: 1})
	gt.Equal(t, web, model.CoverageRow{Directory: "/apps/web", PRs: 2, Alerts: 3})
	gt.Equal(t, web.Density(), "1.50")
	gt.Equal(t, legacy.Density(), "∞")
}

func TestPrioritize(t *testing.T) {
	c := classifier.Default()
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	var rows []model.Row
	for _, pr := range samplePRs() {
		rows = append(rows, c.Classify(pr, now))
	}

	got := classifier.Prioritize(rows, 10)
	gt.Equal(t, len(got), 3)
	// #1 is 68 days old: patch 1 + aged 2 = 3 medium. #2 is 9 days: major 3 medium.
	gt.Equal(t, got[0].PR.Number, 1)
	gt.Equal(t, got[1].PR.Number, 2)
	gt.Equal(t, got[2].PR.Number, 5)

	gt.Equal(t, len(classifier.Prioritize(rows, 1)), 1)
}
