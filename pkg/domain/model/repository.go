package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses "owner/name".
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, goerr.New("invalid repository, expected owner/name", goerr.V("repository", s))
	}
	return Repository{Owner: owner, Name: name}, nil
}

// FullName returns "owner/name", or empty when unset.
func (x Repository) FullName() string {
	if x.Owner == "" {
		return ""
	}
	return x.Owner + "/" + x.Name
}

// Links builds the web links of the repository under serverURL.
type Links struct {
	ServerURL string
	Repo      Repository
}

func (x Links) base() string {
	return strings.TrimRight(x.ServerURL, "/")
}

func (x Links) Repository() string { return x.base() + "/" + x.Repo.FullName() }
func (x Links) Owner() string { return x.base() + "/" + x.Repo.Owner }
func (x Links) PullRequest(n int) string {
	return x.Repository() + "/pull/" + strconv.Itoa(n)
}
func (x Links) Run(runID string) string {
	if runID == "" {
		return ""
	}
	return x.Repository() + "/actions/runs/" + runID
}

// Tree links a canonical directory on the default branch.
func (x Links) Tree(dir string) string {
	if dir == "/" || dir == "" {
		return x.Repository() + "/tree/main"
	}
	return x.Repository() + "/tree/main" + dir
}

// Blob links a repository-relative file on the default branch.
func (x Links) Blob(path string) string {
	return x.Repository() + "/blob/main/" + strings.TrimLeft(path, "/")
}

func (x Links) BotPullRequests() string {
	return x.Repository() + "/pulls?q=is%3Apr+author%3Aapp%2Fdependabot"
}
func (x Links) DependabotConfig() string { return x.Blob(".github/dependabot.yml") }
func (x Links) SecuritySettings() string { return x.Repository() + "/settings/security_analysis" }
func (x Links) DependencyGraph() string { return x.Repository() + "/network/dependencies" }
func (x Links) Labels() string { return x.Repository() + "/labels" }
func (x Links) DependabotAlerts() string { return x.Repository() + "/security/dependabot" }
func (x Links) Advisory(ghsa string) string { return x.base() + "/advisories/" + ghsa }

// UsefulLink is a named link shown at the end of reports.
type UsefulLink struct {
	Name string
	URL  string
}

// UsefulLinks lists the repository pages referenced by every report.
func (x Links) UsefulLinks() []UsefulLink {
	return []UsefulLink{
		{Name: "Dependabot configuration", URL: x.DependabotConfig()},
		{Name: "Security settings", URL: x.SecuritySettings()},
		{Name: "Dependency graph", URL: x.DependencyGraph()},
		{Name: "Labels", URL: x.Labels()},
		{Name: "Dependabot pull requests", URL: x.BotPullRequests()},
		{Name: "Security alerts", URL: x.DependabotAlerts()},
	}
}
