package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
	"github.com/m-mizutani/bumpwatch/pkg/render"
)

// Report holds report rendering configuration
type Report struct {
	Formats     []string
	MaxSummary  int
	FastSummary bool
	HTMLPath    string
	PDFPath     string
	JSONPath    string
	Company     string
	IssueURL    string
	RunID       string
	Triggered   bool
	NoColor     bool
}

// Flags returns CLI flags for report configuration
func (c *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "format",
			Usage:       "Output formats (html, pdf, summary, text, json)",
			Value:       []string{"html", "pdf", "summary"},
			Destination: &c.Formats,
			Sources:     cli.EnvVars("BUMPWATCH_FORMATS"),
		},
		&cli.IntFlag{
			Name:        "max-summary",
			Usage:       "Maximum PRs listed in the step summary",
			Value:       render.DefaultMaxSummary,
			Destination: &c.MaxSummary,
			Sources:     cli.EnvVars("BUMPWATCH_MAX_SUMMARY", "MAX_SUMMARY"),
		},
		&cli.BoolFlag{
			Name:        "fast-summary",
			Usage:       "Skip refreshing closed PRs to tell merged ones apart",
			Value:       true,
			Destination: &c.FastSummary,
			Sources:     cli.EnvVars("BUMPWATCH_FAST_SUMMARY", "FAST_SUMMARY"),
		},
		&cli.StringFlag{
			Name:        "html-path",
			Usage:       "HTML report output path",
			Value:       "dependabot-report.html",
			Destination: &c.HTMLPath,
			Sources:     cli.EnvVars("BUMPWATCH_HTML_PATH"),
		},
		&cli.StringFlag{
			Name:        "pdf-path",
			Usage:       "PDF report output path",
			Value:       "dependabot-report.pdf",
			Destination: &c.PDFPath,
			Sources:     cli.EnvVars("BUMPWATCH_PDF_PATH"),
		},
		&cli.StringFlag{
			Name:        "json-path",
			Usage:       "JSON report output path",
			Value:       "dependabot-report.json",
			Destination: &c.JSONPath,
			Sources:     cli.EnvVars("BUMPWATCH_JSON_PATH"),
		},
		&cli.StringFlag{
			Name:        "company",
			Usage:       "Company name shown in report headers",
			Destination: &c.Company,
			Sources:     cli.EnvVars("BUMPWATCH_COMPANY", "COMPANY_NAME"),
		},
		&cli.StringFlag{
			Name:        "issue-url",
			Usage:       "Tracking issue linked from the step summary",
			Destination: &c.IssueURL,
			Sources:     cli.EnvVars("BUMPWATCH_ISSUE_URL", "ISSUE_URL"),
		},
		&cli.StringFlag{
			Name:        "run-id",
			Usage:       "GitHub Actions run ID used for download links",
			Destination: &c.RunID,
			Sources:     cli.EnvVars("GITHUB_RUN_ID"),
		},
		&cli.BoolFlag{
			Name:        "triggered",
			Usage:       "Mention in the summary that an update job was triggered",
			Destination: &c.Triggered,
			Sources:     cli.EnvVars("BUMPWATCH_TRIGGERED", "TRIGGER_DEPENDABOT_NOW"),
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colors of the text output",
			Destination: &c.NoColor,
			Sources:     cli.EnvVars("NO_COLOR"),
		},
	}
}

// ParseFormats validates the requested formats, dropping duplicates
func (c *Report) ParseFormats() ([]render.Format, error) {
	var formats []render.Format
	seen := map[render.Format]bool{}
	for _, s := range c.Formats {
		f, err := render.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// Meta returns the presentation context of reports
func (c *Report) Meta() model.ReportMeta {
	return model.ReportMeta{
		Company:   c.Company,
		IssueURL:  c.IssueURL,
		RunID:     c.RunID,
		Triggered: c.Triggered,
	}
}

// RenderOptions returns renderer options
func (c *Report) RenderOptions() render.Options {
	return render.Options{MaxSummary: c.MaxSummary, NoColor: c.NoColor}
}

// Path returns the local output path of format, empty when the format is
// not written to a file.
func (c *Report) Path(format render.Format) string {
	switch format {
	case render.FormatHTML:
		return c.HTMLPath
	case render.FormatPDF:
		return c.PDFPath
	case render.FormatJSON:
		return c.JSONPath
	default:
		return ""
	}
}
