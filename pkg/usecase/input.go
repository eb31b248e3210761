package usecase

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// rawPullRequest accepts both the detect output and the REST API shape.
type rawPullRequest struct {
	model.PullRequest

	HTMLURL    string  `json:"html_url"`
	APICreated string  `json:"created_at"`
	MergedAt   *string `json:"merged_at"`
	Head       *struct {
		Ref string `json:"ref"`
	} `json:"head"`
	User *struct {
		Login string `json:"login"`
	} `json:"user"`
}

func (x *rawPullRequest) normalize() model.PullRequest {
	pr := x.PullRequest
	if x.HTMLURL != "" {
		pr.URL = x.HTMLURL
	}
	if pr.CreatedAt == "" {
		pr.CreatedAt = x.APICreated
	}
	if pr.HeadRefName == "" && x.Head != nil {
		pr.HeadRefName = x.Head.Ref
	}
	if x.User != nil {
		pr.Author = x.User.Login
	}
	if pr.State.Normalize() == model.PRStateClosed && x.MergedAt != nil && *x.MergedAt != "" {
		pr.State = model.PRStateMerged
	}
	return pr
}

// ParsePullRequests decodes a JSON array of PRs. Blank input is an empty list.
func ParsePullRequests(data []byte) ([]model.PullRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.PullRequest{}, nil
	}

	var raws []rawPullRequest
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pull request list")
	}

	prs := make([]model.PullRequest, 0, len(raws))
	for i := range raws {
		prs = append(prs, raws[i].normalize())
	}
	return prs, nil
}

// rawAlert accepts both the report input shape and the REST API shape, where
// severity lives in the advisory and the manifest path in the dependency.
type rawAlert struct {
	model.Alert

	Dependency struct {
		model.AlertDependency
		ManifestPath string `json:"manifest_path"`
	} `json:"dependency"`
	SecurityAdvisory struct {
		model.Advisory
		Severity string `json:"severity"`
	} `json:"security_advisory"`
	SecurityVulnerability *struct {
		Severity               string `json:"severity"`
		VulnerableVersionRange string `json:"vulnerable_version_range"`
		FirstPatchedVersion    *struct {
			Identifier string `json:"identifier"`
		} `json:"first_patched_version"`
	} `json:"security_vulnerability"`
}

func (x *rawAlert) normalize() model.Alert {
	a := x.Alert
	a.Dependency = x.Dependency.AlertDependency
	a.SecurityAdvisory = x.SecurityAdvisory.Advisory

	if a.ManifestPath == "" {
		a.ManifestPath = x.Dependency.ManifestPath
	}
	if a.Severity == "" {
		a.Severity = x.SecurityAdvisory.Severity
	}
	if v := x.SecurityVulnerability; v != nil {
		if a.Severity == "" {
			a.Severity = v.Severity
		}
		if a.VulnerableVersionRange == "" {
			a.VulnerableVersionRange = v.VulnerableVersionRange
		}
		if a.FixedVersion == "" && v.FirstPatchedVersion != nil {
			a.FixedVersion = v.FirstPatchedVersion.Identifier
		}
	}
	return a
}

// ParseAlerts decodes a JSON array of alerts. Blank input is an empty list.
func ParseAlerts(data []byte) ([]model.Alert, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Alert{}, nil
	}

	var raws []rawAlert
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, goerr.Wrap(err, "failed to parse alert list")
	}

	alerts := make([]model.Alert, 0, len(raws))
	for i := range raws {
		alerts = append(alerts, raws[i].normalize())
	}
	return alerts, nil
}
