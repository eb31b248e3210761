package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

type palette struct {
	title *color.Color
	muted *color.Color
	risk  map[model.RiskLevel]*color.Color
}

func newPalette(noColor bool) *palette {
	p := &palette{
		title: color.New(color.Bold, color.FgCyan),
		muted: color.New(color.Faint),
		risk: map[model.RiskLevel]*color.Color{
			model.RiskCritical: color.New(color.Bold, color.FgRed),
			model.RiskHigh:     color.New(color.FgRed),
			model.RiskMedium:   color.New(color.FgYellow),
			model.RiskLow:      color.New(color.FgGreen),
		},
	}
	if noColor {
		p.title.DisableColor()
		p.muted.DisableColor()
		for _, c := range p.risk {
			c.DisableColor()
		}
	}
	return p
}

func (x *palette) level(l model.RiskLevel) string {
	if c, ok := x.risk[l]; ok {
		return c.Sprint(string(l))
	}
	return string(l)
}

// Text writes a terminal report. Colored cells are kept in the last column
// so escape sequences do not break the alignment.
func Text(w io.Writer, report *model.Report, noColor bool) error {
	p := newPalette(noColor)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, p.title.Sprint("Dependency update report"))
	if name := report.Repo.FullName(); name != "" {
		fmt.Fprintf(tw, "repository:\t%s\n", name)
	}
	fmt.Fprintf(tw, "generated:\t%s\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(tw, "pull requests:\t%d (open %d, merged %d, closed %d)\n",
		len(report.Rows), len(report.Open), len(report.Merged), len(report.Closed))
	total := report.Aggregation.Total
	fmt.Fprintf(tw, "updates:\tmajor %d, minor %d, patch %d, other %d\n", total.Major, total.Minor, total.Patch, total.Other)
	fmt.Fprintf(tw, "alerts:\t%d\n", report.AlertAggregation.Total)

	if report.Empty() {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.muted.Sprint("No dependency update pull requests or alerts found."))
		return flushText(tw)
	}

	if len(report.Sorted) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.title.Sprint("Pull requests"))
		fmt.Fprintln(tw, "PR\tPACKAGE\tFROM\tTO\tCLASS\tDIRECTORY\tECOSYSTEM\tSTATE\tAGE\tRISK")
		for _, row := range report.Sorted {
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.PR.Number,
				orDash(row.Update.Package), orDash(row.Update.From), orDash(row.Update.To),
				row.Class, row.Directory, row.Ecosystem, row.PR.State, ageText(row.AgeDays),
				p.level(row.Risk.Level))
		}
	}

	if dirs := directoryRows(report); len(dirs) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.title.Sprint("By directory"))
		writeTextBuckets(tw, "DIRECTORY", dirs)
	}
	if ecos := ecosystemRows(report); len(ecos) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.title.Sprint("By ecosystem"))
		writeTextBuckets(tw, "ECOSYSTEM", ecos)
	}

	if len(report.Alerts) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.title.Sprint("Alerts by severity"))
		for _, s := range severityRows(report.AlertAggregation) {
			fmt.Fprintf(tw, "%s\t%d\n", s.Key, s.Count)
		}
	}

	if len(report.Priority) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, p.title.Sprint("Priority"))
		for i, row := range report.Priority {
			fmt.Fprintf(tw, "%d.\t#%d\t%s\t%s\t%s\n", i+1, row.PR.Number, orDash(row.Update.Package), ageText(row.AgeDays), p.level(row.Risk.Level))
		}
		fmt.Fprintln(tw, p.muted.Sprint(riskNote))
	}

	return flushText(tw)
}

func writeTextBuckets(w io.Writer, key string, rows []bucketRow) {
	fmt.Fprintf(w, "%s\tMAJOR\tMINOR\tPATCH\tOTHER\n", key)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Key,
			strconv.Itoa(r.Counts.Major), strconv.Itoa(r.Counts.Minor),
			strconv.Itoa(r.Counts.Patch), strconv.Itoa(r.Counts.Other))
	}
}

func flushText(tw *tabwriter.Writer) error {
	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to write text report")
	}
	return nil
}
