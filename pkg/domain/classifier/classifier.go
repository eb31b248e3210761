// Package classifier turns dependency update PRs and security alerts into
// classified rows and aggregates. Every function is total: malformed input
// yields sentinel values, never an error.
package classifier

import (
	"time"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Classifier applies a Policy. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	policy Policy
}

// New creates a Classifier with the given policy.
func New(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

// Default creates a Classifier with DefaultPolicy.
func Default() *Classifier {
	return New(DefaultPolicy())
}

// Policy returns the policy in use.
func (c *Classifier) Policy() Policy {
	return c.policy
}

// Classify derives every per-PR field.
func (c *Classifier) Classify(pr model.PullRequest, now time.Time) model.Row {
	update := ParseTitle(pr.Title)
	class := ClassifyUpdate(update.From, update.To)
	eco := c.Ecosystem(&pr)
	age := pr.AgeDays(now)

	return model.Row{
		PR:         pr,
		Update:     update,
		Class:      class,
		Directory:  c.Directory(&pr, update, eco),
		Ecosystem:  eco,
		AgeDays:    age,
		Risk:       c.Risk(class, age, pr.Labels),
		Prerelease: IsPrerelease(update.To),
	}
}
