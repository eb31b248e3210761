package model

import (
	"math"
	"strings"
	"time"
)

// PRState is the lifecycle state of a pull request.
type PRState string

const (
	PRStateOpen    PRState = "open"
	PRStateClosed  PRState = "closed"
	PRStateMerged  PRState = "merged"
	PRStateUnknown PRState = "unknown"
)

// Normalize lowercases the state and maps anything unrecognized to PRStateUnknown.
func (x PRState) Normalize() PRState {
	switch s := PRState(strings.ToLower(strings.TrimSpace(string(x)))); s {
	case PRStateOpen, PRStateClosed, PRStateMerged:
		return s
	default:
		return PRStateUnknown
	}
}

// Rank orders states for display: open, merged, closed, then the rest.
func (x PRState) Rank() int {
	switch x.Normalize() {
	case PRStateOpen:
		return 0
	case PRStateMerged:
		return 1
	case PRStateClosed:
		return 2
	default:
		return 3
	}
}

// Label is a PR label as returned by GitHub.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PullRequest is a dependency update PR record. It mirrors the JSON exchanged
// between the detect step and the report steps.
type PullRequest struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	State       PRState `json:"state"`
	Labels      []Label `json:"labels"`
	CreatedAt   string  `json:"createdAt"`
	HeadRefName string  `json:"headRefName"`

	// Author is the login of the PR author. It is not part of the exchanged JSON.
	Author string `json:"-"`
}

// CreatedTime parses CreatedAt as RFC 3339. ok is false when the timestamp is
// missing or malformed.
func (x *PullRequest) CreatedTime() (time.Time, bool) {
	if x.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(x.CreatedAt))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeDays returns the number of whole days between creation and now, or nil
// when the creation time is unknown.
func (x *PullRequest) AgeDays(now time.Time) *int {
	created, ok := x.CreatedTime()
	if !ok {
		return nil
	}
	days := int(math.Floor(now.Sub(created).Hours() / 24))
	return &days
}

// LabelNames returns label names in order, skipping empty ones.
func (x *PullRequest) LabelNames() []string {
	names := make([]string, 0, len(x.Labels))
	for _, l := range x.Labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

// PullRequestDetail is a single PR fetched by number.
type PullRequestDetail struct {
	PullRequest
	Body string
}
