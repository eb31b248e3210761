package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

var mdCellReplacer = strings.NewReplacer("|", "\\|", "\r\n", " ", "\n", " ")

func mdCell(s string) string {
	return mdCellReplacer.Replace(s)
}

// IssueBody writes the markdown body of the tracking issue. snippets holds
// PR bodies by number, already shortened.
func IssueBody(w io.Writer, report *model.Report, date string, snippets map[int]string) error {
	var b strings.Builder

	if run := report.RunURL(); run != "" {
		fmt.Fprintf(&b, "**Download reports (PDF/HTML):** %s\n\n", run)
	}
	fmt.Fprintf(&b, "### Dependency update report (%s)\n", date)

	if len(report.Rows) == 0 {
		b.WriteString("\nNo dependency update pull requests were found.\n")
	} else {
		b.WriteString("\n| PR | Package | From | To | Dir | Labels | Risk |\n")
		b.WriteString("|:--:|:-------|:-----:|:-----:|:---:|:------:|:----:|\n")
		for _, row := range report.Rows {
			fmt.Fprintf(&b, "| [#%d](%s) | %s | %s | %s | %s | %s | %s |\n",
				row.PR.Number, prURL(report, row.PR),
				mdCell(orDash(row.Update.Package)), mdCell(orDash(row.Update.From)), mdCell(orDash(row.Update.To)),
				mdCell(row.Directory), mdCell(labelText(row.PR)), row.Risk.Level)
		}

		total := report.Aggregation.Total
		b.WriteString("\n#### Summary by type\n")
		fmt.Fprintf(&b, "- Major: %d\n- Minor: %d\n- Patch: %d\n- Other: %d\n", total.Major, total.Minor, total.Patch, total.Other)

		b.WriteString("\n#### Details\n")
		for _, row := range report.Rows {
			fmt.Fprintf(&b, "- [#%d](%s) %s\n", row.PR.Number, prURL(report, row.PR), row.PR.Title)
			if snippet := strings.TrimSpace(snippets[row.PR.Number]); snippet != "" {
				fmt.Fprintf(&b, "  \n  %s\n", snippet)
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write issue body")
	}
	return nil
}

// Snippet trims body and cuts it to limit runes, appending an ellipsis when cut.
func Snippet(body string, limit int) string {
	body = strings.TrimSpace(body)
	if limit <= 0 {
		return body
	}
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "…"
}
