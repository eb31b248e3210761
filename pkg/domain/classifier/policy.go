package classifier

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Policy holds the heuristic constants of the classifier. They are tuned to
// Dependabot naming conventions and can be overridden by a policy file.
type Policy struct {
	// BranchMarker is the branch segment preceding the ecosystem.
	BranchMarker string `toml:"branch_marker" yaml:"branch_marker"`
	// EcosystemAliases maps raw branch ecosystems to canonical keys.
	EcosystemAliases map[string]string `toml:"ecosystem_aliases" yaml:"ecosystem_aliases"`
	// CIEcosystems are ecosystems whose updates live in the workflow directory.
	CIEcosystems []string `toml:"ci_ecosystems" yaml:"ci_ecosystems"`
	// CINamespaces are action publishers that appear as a bogus first directory segment.
	CINamespaces []string `toml:"ci_namespaces" yaml:"ci_namespaces"`
	// WorkflowDirectory is where CI updates are attributed.
	WorkflowDirectory string `toml:"workflow_directory" yaml:"workflow_directory"`

	Risk RiskPolicy `toml:"risk" yaml:"risk"`
}

// RiskPolicy holds risk scoring weights and thresholds.
type RiskPolicy struct {
	MajorBase     int    `toml:"major_base" yaml:"major_base"`
	MinorBase     int    `toml:"minor_base" yaml:"minor_base"`
	DefaultBase   int    `toml:"default_base" yaml:"default_base"`
	StaleDays     int    `toml:"stale_days" yaml:"stale_days"`
	StalePenalty  int    `toml:"stale_penalty" yaml:"stale_penalty"`
	AgedDays      int    `toml:"aged_days" yaml:"aged_days"`
	AgedPenalty   int    `toml:"aged_penalty" yaml:"aged_penalty"`
	SecurityToken string `toml:"security_token" yaml:"security_token"`
	SecurityBonus int    `toml:"security_bonus" yaml:"security_bonus"`
	Critical      int    `toml:"critical" yaml:"critical"`
	High          int    `toml:"high" yaml:"high"`
	Medium        int    `toml:"medium" yaml:"medium"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		BranchMarker: "dependabot",
		EcosystemAliases: map[string]string{
			"npm_and_yarn": "npm",
		},
		CIEcosystems:      []string{"github_actions", "github-actions"},
		CINamespaces:      []string{"actions", "appleboy"},
		WorkflowDirectory: "/.github/workflows",
		Risk: RiskPolicy{
			MajorBase:     3,
			MinorBase:     2,
			DefaultBase:   1,
			StaleDays:     30,
			StalePenalty:  1,
			AgedDays:      60,
			AgedPenalty:   2,
			SecurityToken: "sec",
			SecurityBonus: 1,
			Critical:      5,
			High:          4,
			Medium:        3,
		},
	}
}

// LoadPolicy reads a TOML or YAML policy file on top of DefaultPolicy.
// Keys absent from the file keep their default values.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(raw, &policy); err != nil {
			return policy, goerr.Wrap(err, "failed to parse TOML policy", goerr.V("path", path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &policy); err != nil {
			return policy, goerr.Wrap(err, "failed to parse YAML policy", goerr.V("path", path))
		}
	default:
		return policy, goerr.New("unsupported policy file extension", goerr.V("path", path), goerr.V("ext", ext))
	}

	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// Validate checks the invariants the classifier relies on.
func (x Policy) Validate() error {
	if x.BranchMarker == "" || strings.Contains(x.BranchMarker, "/") {
		return goerr.New("branch_marker must be a single non-empty segment", goerr.V("branch_marker", x.BranchMarker))
	}
	if !strings.HasPrefix(x.WorkflowDirectory, "/") || strings.HasSuffix(x.WorkflowDirectory, "/") {
		return goerr.New("workflow_directory must start with / and have no trailing slash",
			goerr.V("workflow_directory", x.WorkflowDirectory))
	}
	for _, seg := range strings.Split(strings.TrimPrefix(x.WorkflowDirectory, "/"), "/") {
		if seg == "" || seg == "main" || strings.Contains(seg, " ") {
			return goerr.New("workflow_directory must be a canonical directory",
				goerr.V("workflow_directory", x.WorkflowDirectory))
		}
		for _, ns := range x.CINamespaces {
			if seg == ns {
				return goerr.New("workflow_directory must not contain a CI namespace segment",
					goerr.V("workflow_directory", x.WorkflowDirectory), goerr.V("namespace", ns))
			}
		}
	}

	r := x.Risk
	if !(r.Critical >= r.High && r.High >= r.Medium) {
		return goerr.New("risk thresholds must satisfy critical >= high >= medium",
			goerr.V("critical", r.Critical), goerr.V("high", r.High), goerr.V("medium", r.Medium))
	}
	if r.AgedDays < r.StaleDays {
		return goerr.New("aged_days must not be lower than stale_days",
			goerr.V("stale_days", r.StaleDays), goerr.V("aged_days", r.AgedDays))
	}
	return nil
}
