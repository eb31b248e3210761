package render

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// DefaultMaxSummary is the number of rows listed when no limit is given.
const DefaultMaxSummary = 30

var stateBadgeColor = map[model.PRState]string{
	model.PRStateOpen:    "brightgreen",
	model.PRStateClosed:  "lightgrey",
	model.PRStateMerged:  "purple",
	model.PRStateUnknown: "blue",
}

// shieldsText escapes a badge segment for img.shields.io.
func shieldsText(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	return url.PathEscape(s)
}

func stateBadge(state model.PRState) string {
	state = state.Normalize()
	return fmt.Sprintf("<img src='https://img.shields.io/badge/status-%s-%s?style=flat-square' alt='%s'/>",
		shieldsText(string(state)), stateBadgeColor[state], state)
}

func labelBadges(labels []model.Label) string {
	var parts []string
	for _, l := range labels {
		if l.Name == "" {
			continue
		}
		color := l.Color
		if color == "" {
			color = "0366d6"
		}
		parts = append(parts, fmt.Sprintf("<img src='https://img.shields.io/badge/%s-%s?style=flat-square' alt='%s' style='margin:2px'>",
			shieldsText(l.Name), url.PathEscape(color), html.EscapeString(l.Name)))
	}
	if len(parts) == 0 {
		return "➖"
	}
	return strings.Join(parts, " ")
}

func classBadge(cls model.UpdateClass) string {
	return fmt.Sprintf("<img src='https://img.shields.io/badge/update-%s-informational?style=flat-square' alt='%s'/>", cls, cls)
}

type summaryWriter struct {
	b strings.Builder
}

func (x *summaryWriter) printf(format string, args ...any) {
	fmt.Fprintf(&x.b, format, args...)
}

func (x *summaryWriter) line(s string) {
	x.b.WriteString(s)
	x.b.WriteString("\n")
}

// Summary writes the CI step summary. At most maxSummary rows are listed,
// open first, then merged and closed, newest first within each state.
func Summary(w io.Writer, report *model.Report, maxSummary int) error {
	if maxSummary <= 0 {
		maxSummary = DefaultMaxSummary
	}
	esc := html.EscapeString
	s := &summaryWriter{}

	s.line("# 🔄 Dependency update pull requests\n")
	if report.Meta.IssueURL != "" {
		s.printf("> 🧾 <b>Consolidated report:</b> <a href='%s'>%s</a>\n\n", esc(report.Meta.IssueURL), esc(report.Meta.IssueURL))
	}
	if report.Meta.Company != "" {
		s.printf("> 🏢 <b>Company:</b> %s\n\n", esc(report.Meta.Company))
	}
	if report.Meta.Triggered {
		s.printf("> ⚡ <b>Trigger sent</b>: <a href='%s'>dependabot.yml</a> was edited to force an update job.\n\n", report.Links.DependabotConfig())
	}

	total := len(report.Sorted)
	if total == 0 {
		s.line("> ℹ️ There are no dependency update pull requests right now.\n")
	} else {
		shown := report.Sorted[:min(total, maxSummary)]
		s.printf("Showing %d of %d PRs\n\n", len(shown), total)

		var open, merged, closed []model.Row
		for _, row := range shown {
			switch row.PR.State.Normalize() {
			case model.PRStateOpen:
				open = append(open, row)
			case model.PRStateMerged:
				merged = append(merged, row)
			case model.PRStateClosed:
				closed = append(closed, row)
			}
		}
		writeSummaryTable(s, report, open, "Open", true)
		writeSummaryTable(s, report, merged, "Merged", false)
		writeSummaryTable(s, report, closed, "Closed", false)

		if total > len(shown) {
			s.printf("> <a href='%s'>📋 <b>See all PRs (%d)</b></a>\n\n", report.Links.BotPullRequests(), total)
		}

		writeSummaryDirectories(s, report, shown)
	}

	s.line("<details>")
	s.line("<summary><h2>⚙️ How to trigger manually</h2></summary>\n")
	s.line("1) Open <b>Insights → Dependency graph → Dependabot</b>")
	s.printf("2) In <b>Recent update jobs</b>, click <b>Check for updates</b> • <a href='%s'>Open</a>\n", report.Links.DependencyGraph())
	s.printf("3) Review new PRs: <a href='%s'>Dependabot pull requests</a>\n\n", report.Links.BotPullRequests())
	s.line("</details>\n")

	s.line("<details>")
	s.line("<summary><h2>📄 Exported reports</h2></summary>\n")
	if run := report.RunURL(); run != "" {
		s.printf("- PDF/HTML: <a href='%s'>Download from the run</a>\n\n", run)
	}
	s.line("</details>\n")

	s.line("<details>")
	s.line("<summary><h2>🔗 Useful links</h2></summary>\n")
	for _, l := range report.Links.UsefulLinks() {
		s.printf("- <a href='%s'><b>%s</b></a>\n", l.URL, esc(l.Name))
	}
	s.line("\n</details>\n")

	s.line("<details>")
	s.line("<summary><h2>ℹ️ About</h2></summary>\n")
	s.line("- 🔍 Detection and summary of dependency PRs")
	s.line("- 🏷️ State and label badges")
	s.line("- ⏱️ PR age and ordering")
	s.line("- 📁 Per-directory section")
	s.printf("- ⚠️ %s\n\n", riskNote)
	s.line("</details>\n")

	s.printf("<sub>🤖 Generated by <b>bumpwatch</b> • %s</sub>\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	if _, err := io.WriteString(w, s.b.String()); err != nil {
		return goerr.Wrap(err, "failed to write step summary")
	}
	return nil
}

func writeSummaryTable(s *summaryWriter, report *model.Report, rows []model.Row, title string, opened bool) {
	if opened {
		s.line("<details open>")
	} else {
		s.line("<details>")
	}
	s.printf("<summary><h2>🔄 %s (%d)</h2></summary>\n\n", title, len(rows))
	s.line("<table>")
	s.line("<thead>")
	s.line("<tr>")
	s.line("<th>PR</th><th>Package</th><th>From</th><th>To</th><th>Dir</th><th>State</th><th>Labels</th><th>Age</th><th>Risk</th>")
	s.line("</tr>")
	s.line("</thead>")
	s.line("<tbody>")
	for _, row := range rows {
		s.line("<tr>")
		s.printf("<td><a href='%s'><b>#%d</b></a></td>\n", html.EscapeString(prURL(report, row.PR)), row.PR.Number)
		s.printf("<td>%s</td>\n", html.EscapeString(orDash(row.Update.Package)))
		s.printf("<td>%s</td>\n", html.EscapeString(orDash(row.Update.From)))
		s.printf("<td>%s</td>\n", html.EscapeString(orDash(row.Update.To)))
		s.printf("<td><code>%s</code></td>\n", html.EscapeString(row.Directory))
		s.printf("<td>%s</td>\n", stateBadge(row.PR.State))
		s.printf("<td>%s</td>\n", labelBadges(row.PR.Labels))
		s.printf("<td>%s</td>\n", ageText(row.AgeDays))
		s.printf("<td>%s</td>\n", row.Risk.Level)
		s.line("</tr>")
	}
	s.line("</tbody>")
	s.line("</table>\n")
	s.line("</details>\n")
}

func writeSummaryDirectories(s *summaryWriter, report *model.Report, rows []model.Row) {
	groups := map[string][]model.Row{}
	for _, row := range rows {
		groups[row.Directory] = append(groups[row.Directory], row)
	}
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	s.line("<details>")
	s.line("<summary><h2>📁 Details by directory</h2></summary>\n")
	for _, dir := range dirs {
		items := groups[dir]
		s.printf("<h3><a href='%s'><code>%s</code></a> (%d)</h3>\n", report.Links.Tree(dir), html.EscapeString(dir), len(items))
		s.line("<table>\n<thead>\n<tr>\n<th>PR</th><th>Package</th><th>Type</th><th>Age</th>\n</tr>\n</thead>\n<tbody>")
		for _, row := range items {
			s.line("<tr>")
			s.printf("<td><a href='%s'>#%d</a></td>\n", html.EscapeString(prURL(report, row.PR)), row.PR.Number)
			s.printf("<td>%s</td>\n", html.EscapeString(orDash(row.Update.Package)))
			s.printf("<td>%s</td>\n", classBadge(row.Class))
			s.printf("<td>%s</td>\n", ageText(row.AgeDays))
			s.line("</tr>")
		}
		s.line("</tbody>\n</table>\n")
	}
	s.line("</details>\n")
}
