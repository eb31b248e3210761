package github

import (
	"time"

	"github.com/google/go-github/v75/github"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

func toLabels(labels []*github.Label) []model.Label {
	result := make([]model.Label, 0, len(labels))
	for _, l := range labels {
		result = append(result, model.Label{Name: l.GetName(), Color: l.GetColor()})
	}
	return result
}

func formatTime(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func toPullRequest(pr *github.PullRequest) model.PullRequest {
	state := model.PRState(pr.GetState())
	if state == model.PRStateClosed && pr.MergedAt != nil {
		state = model.PRStateMerged
	}

	return model.PullRequest{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		URL:         pr.GetHTMLURL(),
		State:       state,
		Labels:      toLabels(pr.Labels),
		CreatedAt:   formatTime(pr.GetCreatedAt()),
		HeadRefName: pr.GetHead().GetRef(),
		Author:      pr.GetUser().GetLogin(),
	}
}

func issueToPullRequest(issue *github.Issue) model.PullRequest {
	return model.PullRequest{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		URL:       issue.GetHTMLURL(),
		State:     model.PRState(issue.GetState()),
		Labels:    toLabels(issue.Labels),
		CreatedAt: formatTime(issue.GetCreatedAt()),
		Author:    issue.GetUser().GetLogin(),
	}
}

func toIssue(issue *github.Issue) *model.Issue {
	return &model.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		URL:    issue.GetHTMLURL(),
	}
}

func toAlert(alert *github.DependabotAlert) model.Alert {
	adv := alert.GetSecurityAdvisory()
	vuln := alert.GetSecurityVulnerability()
	dep := alert.GetDependency()

	severity := adv.GetSeverity()
	if severity == "" {
		severity = vuln.GetSeverity()
	}

	var score *float64
	if cvss := adv.GetCVSS(); cvss != nil {
		score = cvss.Score
	}

	return model.Alert{
		Severity: severity,
		Dependency: model.AlertDependency{
			Package: model.AlertPackage{
				Name:      dep.GetPackage().GetName(),
				Ecosystem: dep.GetPackage().GetEcosystem(),
			},
		},
		SecurityAdvisory: model.Advisory{
			Summary: adv.GetSummary(),
			GHSAID:  adv.GetGHSAID(),
			CVEID:   adv.GetCVEID(),
			CVSS:    model.CVSS{Score: score},
		},
		ManifestPath:           dep.GetManifestPath(),
		FixedVersion:           vuln.GetFirstPatchedVersion().GetIdentifier(),
		VulnerableVersionRange: vuln.GetVulnerableVersionRange(),
	}
}
