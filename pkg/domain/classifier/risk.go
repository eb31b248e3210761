package classifier

import (
	"strings"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Risk scores a PR for triage. The base comes from the update class, stale
// PRs get an age penalty (the larger one replaces the smaller one) and labels
// containing the security token add a bonus. ageDays nil means the creation
// time is unknown and carries no penalty.
func (c *Classifier) Risk(class model.UpdateClass, ageDays *int, labels []model.Label) model.Risk {
	p := c.policy.Risk

	score := p.DefaultBase
	switch class {
	case model.UpdateMajor:
		score = p.MajorBase
	case model.UpdateMinor:
		score = p.MinorBase
	}

	if ageDays != nil {
		switch {
		case *ageDays >= p.AgedDays:
			score += p.AgedPenalty
		case *ageDays >= p.StaleDays:
			score += p.StalePenalty
		}
	}

	if c.hasSecurityLabel(labels) {
		score += p.SecurityBonus
	}

	return model.Risk{Score: score, Level: c.riskLevel(score)}
}

func (c *Classifier) riskLevel(score int) model.RiskLevel {
	p := c.policy.Risk
	switch {
	case score >= p.Critical:
		return model.RiskCritical
	case score >= p.High:
		return model.RiskHigh
	case score >= p.Medium:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func (c *Classifier) hasSecurityLabel(labels []model.Label) bool {
	token := strings.ToLower(c.policy.Risk.SecurityToken)
	if token == "" {
		return false
	}
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l.Name), token) {
			return true
		}
	}
	return false
}
