package model

// RiskLevel is an ordinal triage signal. It is a heuristic, not a CVSS score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Weight orders levels, higher is riskier.
func (x RiskLevel) Weight() int {
	switch x {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// Risk is the computed score and its level.
type Risk struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}
