package model

import "time"

// Row is one classified pull request.
type Row struct {
	PR         PullRequest  `json:"pr"`
	Update     ParsedUpdate `json:"update"`
	Class      UpdateClass  `json:"class"`
	Directory  string       `json:"directory"`
	Ecosystem  string       `json:"ecosystem"`
	AgeDays    *int         `json:"age_days,omitempty"`
	Risk       Risk         `json:"risk"`
	Prerelease bool         `json:"prerelease,omitempty"`
}

// ReportMeta carries presentation context that is not derived from records.
type ReportMeta struct {
	Company   string `json:"company,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
	IssueURL  string `json:"issue_url,omitempty"`
	RunID     string `json:"run_id,omitempty"`
	Triggered bool   `json:"triggered,omitempty"`
}

// Report is the immutable input shared by every renderer.
type Report struct {
	ID          string     `json:"id"`
	Repo        Repository `json:"-"`
	Links       Links      `json:"-"`
	Meta        ReportMeta `json:"meta"`
	GeneratedAt time.Time  `json:"generated_at"`

	// Rows keeps input order. Sorted is Rows ordered by state then newest first.
	Rows   []Row `json:"rows"`
	Sorted []Row `json:"-"`
	Open   []Row `json:"-"`
	Merged []Row `json:"-"`
	Closed []Row `json:"-"`

	Aggregation      Aggregation      `json:"aggregation"`
	Alerts           []Alert          `json:"alerts"`
	AlertAggregation AlertAggregation `json:"alert_aggregation"`
	Coverage         []CoverageRow    `json:"coverage"`
	Priority         []Row            `json:"priority"`
	Recommendations  []string         `json:"recommendations"`
}

// Empty reports whether there is nothing to show.
func (x *Report) Empty() bool {
	return len(x.Rows) == 0 && len(x.Alerts) == 0
}

// RunURL returns the Actions run link, empty when the run is unknown.
func (x *Report) RunURL() string {
	return x.Links.Run(x.Meta.RunID)
}
