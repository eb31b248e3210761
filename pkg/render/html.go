package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

const htmlAlertLimit = 50

var htmlTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"age":    ageText,
	"dash":   orDash,
	"labels": labelText,
	"cvss":   cvssText,
}).ParseFS(templateFS, "templates/report.html.tmpl"))

type htmlSection struct {
	ID    string
	Title string
	Rows  []htmlRow
}

type htmlRow struct {
	model.Row
	URL string
}

type chartData struct {
	Classes    []string                     `json:"classes"`
	Totals     []int                        `json:"totals"`
	Ecosystems map[string]model.ClassCounts `json:"ecosystems"`
	Severities map[string]int               `json:"severities"`
}

type htmlView struct {
	Report          *model.Report
	Sections        []htmlSection
	Priority        []htmlRow
	Directories     []bucketRow
	Ecosystems      []bucketRow
	Severities      []bucketCount
	Alerts          []model.Alert
	AlertsTruncated bool
	Coverage        []model.CoverageRow
	Links           []model.UsefulLink
	Chart           chartData
	RiskNote        string
	GeneratedAt     string
}

func toHTMLRows(report *model.Report, rows []model.Row) []htmlRow {
	result := make([]htmlRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, htmlRow{Row: r, URL: prURL(report, r.PR)})
	}
	return result
}

// HTML writes a standalone HTML report with sortable tables.
func HTML(w io.Writer, report *model.Report) error {
	view := htmlView{
		Report: report,
		Sections: []htmlSection{
			{ID: "open", Title: "Open", Rows: toHTMLRows(report, report.Open)},
			{ID: "merged", Title: "Merged", Rows: toHTMLRows(report, report.Merged)},
			{ID: "closed", Title: "Closed", Rows: toHTMLRows(report, report.Closed)},
		},
		Priority:        toHTMLRows(report, report.Priority),
		Directories:     directoryRows(report),
		Ecosystems:      ecosystemRows(report),
		Severities:      severityRows(report.AlertAggregation),
		Alerts:          firstAlerts(report.Alerts, htmlAlertLimit),
		AlertsTruncated: len(report.Alerts) > htmlAlertLimit,
		Coverage:        report.Coverage,
		Links:           report.Links.UsefulLinks(),
		RiskNote:        riskNote,
		GeneratedAt:     report.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Chart: chartData{
			Ecosystems: map[string]model.ClassCounts{},
			Severities: report.AlertAggregation.BySeverity,
		},
	}
	for _, cls := range model.UpdateClasses {
		view.Chart.Classes = append(view.Chart.Classes, string(cls))
		view.Chart.Totals = append(view.Chart.Totals, report.Aggregation.Total.Get(cls))
	}
	for _, k := range report.Aggregation.ByEcosystem.Keys() {
		view.Chart.Ecosystems[k] = report.Aggregation.ByEcosystem.Get(k)
	}
	if view.Chart.Severities == nil {
		view.Chart.Severities = map[string]int{}
	}

	if err := htmlTemplate.Execute(w, view); err != nil {
		return goerr.Wrap(err, "failed to render HTML report")
	}
	return nil
}
