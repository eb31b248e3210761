package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

const (
	pdfAlertLimit   = 20
	pdfPackageLimit = 10
	pdfLineHeight   = 6.0
)

type pdfCell struct {
	text string
	link string
}

type pdfDoc struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	width     float64
	indexNo   int
	linkColor [3]int
}

// core fonts only cover cp1252
var pdfReplacer = strings.NewReplacer("→", "->", "∞", "inf", "▲", "^", "▼", "v")

func newPDFDoc(report *model.Report) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Dependency update report", true)
	pdf.SetAuthor(report.Meta.Company, true)
	pdf.SetCreator("bumpwatch", true)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetModificationDate(report.GeneratedAt)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()

	d := &pdfDoc{
		pdf:       pdf,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		width:     pageW - left - right,
		linkColor: [3]int{9, 105, 218},
	}
	generated := report.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, d.text(fmt.Sprintf("Generated %s - page %d/{nb}", generated, pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return d
}

func (d *pdfDoc) text(s string) string {
	return d.tr(pdfReplacer.Replace(s))
}

func (d *pdfDoc) heading(title string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(0, 8, d.text(title), "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
}

func (d *pdfDoc) paragraph(s string) {
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.MultiCell(0, 5, d.text(s), "", "L", false)
}

func (d *pdfDoc) note(s string) {
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.MultiCell(0, 4.5, d.text(s), "", "L", false)
	d.pdf.SetFont("Helvetica", "", 9)
}

func (d *pdfDoc) link(label, url string) {
	if url == "" {
		return
	}
	d.pdf.SetTextColor(d.linkColor[0], d.linkColor[1], d.linkColor[2])
	d.pdf.CellFormat(0, 5, d.text(label), "", 1, "L", false, 0, url)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *pdfDoc) bullets(items []string) {
	d.pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		d.pdf.CellFormat(5, 5, d.text("-"), "", 0, "L", false, 0, "")
		d.pdf.MultiCell(0, 5, d.text(item), "", "L", false)
	}
}

// fit shortens s until it fits into w millimeters.
func (d *pdfDoc) fit(s string, w float64) string {
	s = d.text(s)
	limit := w - 2
	if d.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && d.pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// table draws a grid. ratios are fractions of the usable width.
func (d *pdfDoc) table(headers []string, ratios []float64, rows [][]pdfCell) {
	widths := make([]float64, len(ratios))
	for i, r := range ratios {
		widths[i] = d.width * r
	}

	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], pdfLineHeight, d.fit(h, widths[i]), "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, c := range row {
			if c.link != "" {
				d.pdf.SetTextColor(d.linkColor[0], d.linkColor[1], d.linkColor[2])
			}
			d.pdf.CellFormat(widths[i], pdfLineHeight, d.fit(c.text, widths[i]), "1", 0, "L", false, 0, c.link)
			d.pdf.SetTextColor(0, 0, 0)
		}
		d.pdf.Ln(-1)
	}
	d.pdf.SetFont("Helvetica", "", 9)
}

func plain(values ...string) []pdfCell {
	cells := make([]pdfCell, 0, len(values))
	for _, v := range values {
		cells = append(cells, pdfCell{text: v})
	}
	return cells
}

func countCells(c model.ClassCounts) []pdfCell {
	return plain(strconv.Itoa(c.Major), strconv.Itoa(c.Minor), strconv.Itoa(c.Patch), strconv.Itoa(c.Other))
}

var pdfRiskText = map[model.RiskLevel]string{
	model.RiskCritical: "Critical",
	model.RiskHigh:     "High",
	model.RiskMedium:   "Medium",
	model.RiskLow:      "Low",
}

// PDF writes a printable report.
func PDF(w io.Writer, report *model.Report) error {
	d := newPDFDoc(report)
	pdf := d.pdf
	pdf.AddPage()

	if report.Meta.Company != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, d.text(report.Meta.Company), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, d.text("Dependency update report"), "", 1, "C", false, 0, "")
	if name := report.Repo.FullName(); name != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, d.text(name), "", 1, "C", false, 0, report.Links.Repository())
	}

	d.heading("Contents")
	d.bullets([]string{
		"1. Pull requests by state",
		"2. Totals by update type",
		"3. By directory",
		"4. By ecosystem",
		"5. Security alerts",
		"6. Remediation recommendations",
		"7. Pull requests",
		"8. Prioritized pull requests",
	})

	if report.Empty() {
		d.heading("No data")
		d.paragraph("No dependency update pull requests or security alerts were found.")
	}

	d.heading("1. Pull requests by state")
	d.table([]string{"Metric", "Count"}, []float64{0.5, 0.5}, [][]pdfCell{
		plain("Total PRs", strconv.Itoa(len(report.Rows))),
		plain("Open", strconv.Itoa(len(report.Open))),
		plain("Merged", strconv.Itoa(len(report.Merged))),
		plain("Closed", strconv.Itoa(len(report.Closed))),
	})

	d.heading("2. Totals by update type")
	total := report.Aggregation.Total
	d.table([]string{"Type", "Count"}, []float64{0.5, 0.5}, [][]pdfCell{
		plain("major", strconv.Itoa(total.Major)),
		plain("minor", strconv.Itoa(total.Minor)),
		plain("patch", strconv.Itoa(total.Patch)),
		plain("other", strconv.Itoa(total.Other)),
	})
	d.note("Types follow SemVer (https://semver.org/): major, minor, patch, other.")

	d.heading("3. By directory")
	var dirRows [][]pdfCell
	for _, r := range directoryRows(report) {
		dirRows = append(dirRows, append([]pdfCell{{text: r.Key, link: r.URL}}, countCells(r.Counts)...))
	}
	d.table([]string{"Directory", "major", "minor", "patch", "other"}, []float64{0.4, 0.15, 0.15, 0.15, 0.15}, dirRows)

	d.heading("4. By ecosystem")
	var ecoRows [][]pdfCell
	for _, r := range ecosystemRows(report) {
		ecoRows = append(ecoRows, append(plain(r.Key), countCells(r.Counts)...))
	}
	d.table([]string{"Ecosystem", "major", "minor", "patch", "other"}, []float64{0.4, 0.15, 0.15, 0.15, 0.15}, ecoRows)

	d.heading("5. Security alerts")
	if len(report.Alerts) == 0 {
		d.paragraph("No open security alerts.")
	} else {
		writePDFAlerts(d, report)
	}

	d.heading("6. Remediation recommendations")
	d.bullets(report.Recommendations)

	d.heading("7. Pull requests")
	var prRows [][]pdfCell
	for _, row := range report.Sorted {
		created := "N/A"
		if t, ok := row.PR.CreatedTime(); ok {
			created = t.UTC().Format("2006-01-02")
		}
		prRows = append(prRows, []pdfCell{
			{text: "#" + strconv.Itoa(row.PR.Number), link: prURL(report, row.PR)},
			{text: orDash(row.Update.Package)},
			{text: orDash(row.Update.From) + " → " + orDash(row.Update.To)},
			{text: string(row.PR.State)},
			{text: pdfRiskText[row.Risk.Level]},
			{text: created},
		})
	}
	d.table([]string{"PR", "Package", "Versions", "State", "Risk", "Created"},
		[]float64{0.10, 0.32, 0.24, 0.12, 0.10, 0.12}, prRows)

	d.heading("8. Prioritized pull requests")
	if len(report.Priority) == 0 {
		d.paragraph("No open pull requests.")
	} else {
		var prioRows [][]pdfCell
		for _, row := range report.Priority {
			prioRows = append(prioRows, []pdfCell{
				{text: "#" + strconv.Itoa(row.PR.Number), link: prURL(report, row.PR)},
				{text: orDash(row.Update.Package)},
				{text: string(row.Class)},
				{text: pdfRiskText[row.Risk.Level]},
				{text: ageText(row.AgeDays)},
				{text: row.Directory, link: report.Links.Tree(row.Directory)},
			})
		}
		d.table([]string{"PR", "Package", "Type", "Risk", "Age", "Directory"},
			[]float64{1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6}, prioRows)
	}
	d.note(riskNote)

	d.heading("Repository")
	runCell := pdfCell{text: "—"}
	if run := report.RunURL(); run != "" {
		runCell = pdfCell{text: "GitHub Actions run", link: run}
	}
	d.table([]string{"Field", "Value"}, []float64{1.0 / 3, 2.0 / 3}, [][]pdfCell{
		{{text: "Repository"}, {text: orDash(report.Repo.FullName()), link: report.Links.Repository()}},
		{{text: "Owner"}, {text: orDash(report.Repo.Owner), link: report.Links.Owner()}},
		{{text: "Latest run"}, runCell},
	})

	d.heading("Useful links")
	var linkRows [][]pdfCell
	for _, l := range report.Links.UsefulLinks() {
		linkRows = append(linkRows, []pdfCell{{text: l.Name}, {text: l.URL, link: l.URL}})
	}
	d.table([]string{"Name", "Link"}, []float64{1.0 / 3, 2.0 / 3}, linkRows)

	d.heading("Interactive report")
	d.note("The HTML report attached to the GitHub Actions run is easier to browse and sort.")
	d.link("Download the HTML report", report.RunURL())

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to render PDF report")
	}
	return nil
}

func writePDFAlerts(d *pdfDoc, report *model.Report) {
	agg := report.AlertAggregation

	var sevRows [][]pdfCell
	for _, s := range severityRows(agg) {
		sevRows = append(sevRows, plain(s.Key, strconv.Itoa(s.Count)))
	}
	d.table([]string{"Severity", "Count"}, []float64{0.5, 0.5}, sevRows)

	d.heading("Most affected packages")
	var pkgRows [][]pdfCell
	for _, p := range topPackages(agg, pdfPackageLimit) {
		fix := "—"
		if p.HasFix {
			fix = "Yes"
		}
		pkgRows = append(pkgRows, plain(p.Name, strconv.Itoa(p.Count), fix))
	}
	d.table([]string{"Package", "Alerts", "Fix"}, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, pkgRows)

	d.heading("Coverage by directory")
	var covRows [][]pdfCell
	for _, c := range report.Coverage {
		covRows = append(covRows, []pdfCell{
			{text: c.Directory, link: report.Links.Tree(c.Directory)},
			{text: strconv.Itoa(c.PRs)},
			{text: strconv.Itoa(c.Alerts)},
			{text: c.Density()},
		})
	}
	d.table([]string{"Directory", "PRs", "Alerts", "Alerts per PR"}, []float64{0.25, 0.25, 0.25, 0.25}, covRows)

	d.heading("Alert details")
	var alertRows [][]pdfCell
	for _, a := range firstAlerts(report.Alerts, pdfAlertLimit) {
		manifest := pdfCell{text: "—"}
		if a.ManifestPath != "" {
			manifest = pdfCell{text: a.ManifestPath, link: report.Links.Blob(a.ManifestPath)}
		}
		ghsa := pdfCell{text: "—"}
		if id := a.SecurityAdvisory.GHSAID; id != "" {
			ghsa = pdfCell{text: id, link: report.Links.Advisory(id)}
		}
		cve := pdfCell{text: "—"}
		if id := a.SecurityAdvisory.CVEID; id != "" {
			cve = pdfCell{text: id, link: "https://nvd.nist.gov/vuln/detail/" + id}
		}
		alertRows = append(alertRows, []pdfCell{
			{text: a.PackageName()},
			{text: a.NormalizedSeverity()},
			{text: cvssText(a.SecurityAdvisory.CVSS.Score)},
			{text: orDash(a.Dependency.Package.Ecosystem)},
			manifest, ghsa, cve,
			{text: orDash(a.SecurityAdvisory.Summary)},
			{text: orDash(a.VulnerableVersionRange)},
			{text: orDash(a.FixedVersion)},
		})
	}
	d.table([]string{"Package", "Severity", "CVSS", "Ecosystem", "Manifest", "GHSA", "CVE", "Summary", "Range", "Fix"},
		[]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, alertRows)
}
