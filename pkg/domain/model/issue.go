package model

// IssueRequest is a tracking issue to be created.
type IssueRequest struct {
	Title  string
	Body   string
	Labels []string
}

// Issue is an existing issue found by title.
type Issue struct {
	Number int
	Title  string
	URL    string
}
