package classifier

import (
	"strings"
	"unicode"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// ResolveDirectory canonicalizes a raw manifest directory. The result is
// either "/" or a "/"-prefixed path without trailing slash and without any
// "main" segment. Branch artifacts and action publisher namespaces of CI
// ecosystems map to the workflow directory. Applying it twice gives the same
// result as applying it once.
func (c *Classifier) ResolveDirectory(raw, ecosystem string) string {
	d := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	if d == "" || d == "/" {
		return "/"
	}

	isCI := c.IsCIEcosystem(ecosystem)
	fallback := "/"
	if isCI {
		fallback = c.policy.WorkflowDirectory
	}

	if d == "/main" || strings.HasPrefix(d, "/main/") {
		return fallback
	}
	// whitespace never appears in a real manifest directory
	if strings.ContainsFunc(d, unicode.IsSpace) {
		return fallback
	}

	segments := splitSegments(d)
	if isCI && len(segments) > 0 && (segments[0] == "main" || c.isCINamespace(segments[0])) {
		return c.policy.WorkflowDirectory
	}

	kept := segments[:0]
	for _, seg := range segments {
		if seg != "main" {
			kept = append(kept, seg)
		}
	}
	if len(kept) == 0 {
		return "/"
	}
	return "/" + strings.Join(kept, "/")
}

func splitSegments(d string) []string {
	raw := strings.Split(d, "/")
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func (c *Classifier) isCINamespace(seg string) bool {
	for _, ns := range c.policy.CINamespaces {
		if seg == ns {
			return true
		}
	}
	return false
}

// Ecosystem returns the ecosystem key of a pull request.
func (c *Classifier) Ecosystem(pr *model.PullRequest) string {
	return c.ParseBranch(pr.HeadRefName).Ecosystem
}

// Directory returns the canonical directory of a pull request. The title's
// "in <dir>" hint wins over the branch name.
func (c *Classifier) Directory(pr *model.PullRequest, update model.ParsedUpdate, ecosystem string) string {
	raw := update.Directory
	if raw == "" {
		raw = c.ParseBranch(pr.HeadRefName).Directory()
	}
	return c.ResolveDirectory(raw, ecosystem)
}
