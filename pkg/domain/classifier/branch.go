package classifier

import (
	"strings"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// BranchRef is the result of tokenizing a bot branch name such as
// "dependabot/npm_and_yarn/apps/web/lodash-4.17.21".
type BranchRef struct {
	// MarkerFound is false when the branch does not contain the marker segment.
	MarkerFound bool
	// Ecosystem is the normalized ecosystem key, model.Unknown when absent.
	Ecosystem string
	// DirSegments are the segments between the ecosystem and the final suffix.
	DirSegments []string
	// Suffix is the unique last segment, usually "<package>-<version>".
	// HasSuffix is false when the branch ends right after the ecosystem.
	Suffix    string
	HasSuffix bool
}

// Directory returns the slash-joined directory carried by the branch, or
// empty when the branch has no directory part.
func (x BranchRef) Directory() string {
	if !x.MarkerFound || !x.HasSuffix {
		return ""
	}
	return "/" + strings.Join(x.DirSegments, "/")
}

// ParseBranch tokenizes ref around the policy's branch marker.
func (c *Classifier) ParseBranch(ref string) BranchRef {
	unknown := BranchRef{Ecosystem: model.Unknown}

	if !strings.Contains(ref, "/") {
		return unknown
	}
	segments := strings.Split(ref, "/")

	idx := -1
	for i, seg := range segments {
		if seg == c.policy.BranchMarker {
			idx = i
			break
		}
	}
	if idx < 0 {
		return unknown
	}

	result := BranchRef{MarkerFound: true, Ecosystem: model.Unknown}
	rest := segments[idx+1:]
	if len(rest) == 0 {
		return result
	}
	result.Ecosystem = c.NormalizeEcosystem(rest[0])

	if len(rest) >= 2 {
		result.DirSegments = rest[1 : len(rest)-1]
		result.Suffix = rest[len(rest)-1]
		result.HasSuffix = true
	}
	return result
}

// NormalizeEcosystem lowercases an ecosystem identifier and applies aliases.
// Empty identifiers become model.Unknown.
func (c *Classifier) NormalizeEcosystem(eco string) string {
	eco = strings.ToLower(strings.TrimSpace(eco))
	if eco == "" {
		return model.Unknown
	}
	if alias, ok := c.policy.EcosystemAliases[eco]; ok {
		return alias
	}
	return eco
}

// IsCIEcosystem reports whether eco is a CI action ecosystem.
func (c *Classifier) IsCIEcosystem(eco string) bool {
	eco = strings.ToLower(strings.TrimSpace(eco))
	for _, ci := range c.policy.CIEcosystems {
		if eco == strings.ToLower(ci) {
			return true
		}
	}
	return false
}
