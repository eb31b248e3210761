// Package render turns a model.Report into HTML, PDF, Markdown and terminal
// output. Every renderer accepts an empty report and produces a valid
// no-data document.
package render

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Format is an output format.
type Format string

const (
	FormatHTML    Format = "html"
	FormatPDF     Format = "pdf"
	FormatSummary Format = "summary"
	FormatText    Format = "text"
	FormatJSON    Format = "json"
)

// Formats lists every format.
var Formats = []Format{FormatHTML, FormatPDF, FormatSummary, FormatText, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", goerr.New("unknown output format", goerr.V("format", s))
}

// ContentType returns the MIME type of the format.
func (x Format) ContentType() string {
	switch x {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatSummary:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Ext returns the file extension of the format without dot.
func (x Format) Ext() string {
	switch x {
	case FormatSummary:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(x)
	}
}

// Options tunes renderers that need more than the report.
type Options struct {
	// MaxSummary caps the rows listed in the step summary.
	MaxSummary int
	// NoColor disables ANSI colors of the text output.
	NoColor bool
}

// Render writes report in format.
func Render(w io.Writer, format Format, report *model.Report, opts Options) error {
	switch format {
	case FormatHTML:
		return HTML(w, report)
	case FormatPDF:
		return PDF(w, report)
	case FormatSummary:
		return Summary(w, report, opts.MaxSummary)
	case FormatText:
		return Text(w, report, opts.NoColor)
	case FormatJSON:
		return JSON(w, report)
	default:
		return goerr.New("unknown output format", goerr.V("format", format))
	}
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return goerr.Wrap(err, "failed to encode report")
	}
	return nil
}

func ageText(age *int) string {
	if age == nil {
		return "N/A"
	}
	return strconv.Itoa(*age) + " d"
}

func cvssText(score *float64) string {
	if score == nil {
		return "—"
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

func orDash(s string) string {
	if s == "" || s == model.Unknown {
		return "—"
	}
	return s
}

func prURL(report *model.Report, pr model.PullRequest) string {
	if pr.URL != "" {
		return pr.URL
	}
	return report.Links.PullRequest(pr.Number)
}

func labelText(pr model.PullRequest) string {
	names := pr.LabelNames()
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}

// riskNote is shown next to every risk column.
const riskNote = "Risk is a triage heuristic from update class, PR age and security labels. It is not a CVSS score."

type bucketRow struct {
	Key    string
	URL    string
	Counts model.ClassCounts
}

func directoryRows(report *model.Report) []bucketRow {
	rows := make([]bucketRow, 0, len(report.Aggregation.ByDirectory))
	for _, k := range report.Aggregation.ByDirectory.Keys() {
		rows = append(rows, bucketRow{Key: k, URL: report.Links.Tree(k), Counts: report.Aggregation.ByDirectory.Get(k)})
	}
	return rows
}

func ecosystemRows(report *model.Report) []bucketRow {
	rows := make([]bucketRow, 0, len(report.Aggregation.ByEcosystem))
	for _, k := range report.Aggregation.ByEcosystem.Keys() {
		rows = append(rows, bucketRow{Key: k, Counts: report.Aggregation.ByEcosystem.Get(k)})
	}
	return rows
}

// severityRows returns severities in display order, skipping absent ones,
// followed by any unexpected severity sorted by name.
func severityRows(agg model.AlertAggregation) []bucketCount {
	var rows []bucketCount
	seen := map[string]bool{}
	for _, s := range model.Severities {
		seen[s] = true
		if n, ok := agg.BySeverity[s]; ok {
			rows = append(rows, bucketCount{Key: s, Count: n})
		}
	}
	var extra []string
	for s := range agg.BySeverity {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	for _, s := range extra {
		rows = append(rows, bucketCount{Key: s, Count: agg.BySeverity[s]})
	}
	return rows
}

type bucketCount struct {
	Key   string
	Count int
}

func topPackages(agg model.AlertAggregation, n int) []model.PackageAlerts {
	if len(agg.Packages) <= n {
		return agg.Packages
	}
	return agg.Packages[:n]
}

func firstAlerts(alerts []model.Alert, n int) []model.Alert {
	if len(alerts) <= n {
		return alerts
	}
	return alerts[:n]
}
