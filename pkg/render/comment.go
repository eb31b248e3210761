package render

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Comment returns the markdown posted on a newly opened dependency PR.
func Comment(row model.Row, links model.Links) string {
	var b strings.Builder
	b.WriteString("### 🔎 Dependency update triage\n\n")
	b.WriteString("| | |\n|:--|:--|\n")
	fmt.Fprintf(&b, "| Package | `%s` |\n", mdCell(orDash(row.Update.Package)))
	fmt.Fprintf(&b, "| Versions | %s → %s |\n", mdCell(orDash(row.Update.From)), mdCell(orDash(row.Update.To)))
	fmt.Fprintf(&b, "| Update | **%s** |\n", row.Class)
	if row.Prerelease {
		b.WriteString("| Pre-release | yes |\n")
	}
	fmt.Fprintf(&b, "| Directory | [`%s`](%s) |\n", mdCell(row.Directory), links.Tree(row.Directory))
	fmt.Fprintf(&b, "| Ecosystem | %s |\n", mdCell(row.Ecosystem))
	fmt.Fprintf(&b, "| Risk | **%s** (score %d) |\n", row.Risk.Level, row.Risk.Score)
	fmt.Fprintf(&b, "\n<sub>%s</sub>\n", riskNote)
	return b.String()
}
