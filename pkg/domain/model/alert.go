package model

import (
	"strconv"
	"strings"
)

// Alert is a Dependabot security alert in the shape used by report inputs.
type Alert struct {
	Severity               string          `json:"severity"`
	Dependency             AlertDependency `json:"dependency"`
	SecurityAdvisory       Advisory        `json:"security_advisory"`
	ManifestPath           string          `json:"manifest_path"`
	FixedVersion           string          `json:"fixed_version"`
	VulnerableVersionRange string          `json:"vulnerable_version_range"`
}

type AlertDependency struct {
	Package AlertPackage `json:"package"`
}

type AlertPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type Advisory struct {
	Summary string `json:"summary"`
	GHSAID  string `json:"ghsa_id"`
	CVEID   string `json:"cve_id"`
	CVSS    CVSS   `json:"cvss"`
}

type CVSS struct {
	Score *float64 `json:"score"`
}

// Severities lists alert severities in display order.
var Severities = []string{"critical", "high", "moderate", "medium", "low", "unknown"}

// NormalizedSeverity lowercases the severity, "unknown" when empty.
func (x Alert) NormalizedSeverity() string {
	s := strings.ToLower(strings.TrimSpace(x.Severity))
	if s == "" {
		return Unknown
	}
	return s
}

// PackageName returns the affected package or Unknown.
func (x Alert) PackageName() string {
	if x.Dependency.Package.Name == "" {
		return Unknown
	}
	return x.Dependency.Package.Name
}

// PackageAlerts is the per-package alert summary.
type PackageAlerts struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	HasFix bool   `json:"has_fix"`
}

// AlertAggregation summarizes a list of alerts.
type AlertAggregation struct {
	Total       int             `json:"total"`
	BySeverity  map[string]int  `json:"by_severity"`
	Packages    []PackageAlerts `json:"packages"`
	ByDirectory map[string]int  `json:"by_directory"`
}

// CoverageRow joins PR and alert counts of one directory.
type CoverageRow struct {
	Directory string `json:"directory"`
	PRs       int    `json:"prs"`
	Alerts    int    `json:"alerts"`
}

// Density is alerts per PR with two decimals, "∞" when alerts have no PR at all.
func (x CoverageRow) Density() string {
	switch {
	case x.PRs > 0:
		return strconv.FormatFloat(float64(x.Alerts)/float64(x.PRs), 'f', 2, 64)
	case x.Alerts > 0:
		return "∞"
	default:
		return "0"
	}
}
