package classifier

import (
	"sort"
	"strings"

	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// Aggregate counts rows per update class in total, per directory and per
// ecosystem in a single pass.
func Aggregate(rows []model.Row) model.Aggregation {
	agg := model.NewAggregation()
	for _, row := range rows {
		agg.Total.Add(row.Class)
		agg.ByDirectory.Add(row.Directory, row.Class)
		agg.ByEcosystem.Add(row.Ecosystem, row.Class)
	}
	return agg
}

// AlertDirectory returns the canonical directory of an alert's manifest.
func (c *Classifier) AlertDirectory(alert *model.Alert) string {
	mp := strings.TrimSpace(alert.ManifestPath)
	eco := strings.ToLower(alert.Dependency.Package.Ecosystem)
	if idx := strings.LastIndex(mp, "/"); idx >= 0 {
		return c.ResolveDirectory("/"+mp[:idx], eco)
	}
	return "/"
}

// AggregateAlerts summarizes alerts by severity, package and directory.
// Packages are sorted by alert count descending, then name.
func (c *Classifier) AggregateAlerts(alerts []model.Alert) model.AlertAggregation {
	agg := model.AlertAggregation{
		Total:       len(alerts),
		BySeverity:  map[string]int{},
		ByDirectory: map[string]int{},
	}

	pkgIndex := map[string]int{}
	for i := range alerts {
		a := &alerts[i]
		agg.BySeverity[a.NormalizedSeverity()]++
		agg.ByDirectory[c.AlertDirectory(a)]++

		name := a.PackageName()
		idx, ok := pkgIndex[name]
		if !ok {
			idx = len(agg.Packages)
			pkgIndex[name] = idx
			agg.Packages = append(agg.Packages, model.PackageAlerts{Name: name})
		}
		agg.Packages[idx].Count++
		if a.FixedVersion != "" {
			agg.Packages[idx].HasFix = true
		}
	}

	sort.SliceStable(agg.Packages, func(i, j int) bool {
		if agg.Packages[i].Count != agg.Packages[j].Count {
			return agg.Packages[i].Count > agg.Packages[j].Count
		}
		return agg.Packages[i].Name < agg.Packages[j].Name
	})
	return agg
}

// Coverage joins per-directory PR counts with per-directory alert counts,
// sorted by directory.
func Coverage(prs model.Buckets, alertsByDir map[string]int) []model.CoverageRow {
	dirs := map[string]struct{}{}
	for d := range prs {
		dirs[d] = struct{}{}
	}
	for d := range alertsByDir {
		dirs[d] = struct{}{}
	}

	rows := make([]model.CoverageRow, 0, len(dirs))
	for d := range dirs {
		rows = append(rows, model.CoverageRow{
			Directory: d,
			PRs:       prs.Get(d).Sum(),
			Alerts:    alertsByDir[d],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Directory < rows[j].Directory })
	return rows
}

// Prioritize returns up to limit open rows ordered by risk level, then age,
// both descending. Rows with unknown age count as zero days old.
func Prioritize(rows []model.Row, limit int) []model.Row {
	open := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if r.PR.State.Normalize() == model.PRStateOpen {
			open = append(open, r)
		}
	}

	ageOf := func(r model.Row) int {
		if r.AgeDays == nil {
			return 0
		}
		return *r.AgeDays
	}
	sort.SliceStable(open, func(i, j int) bool {
		wi, wj := open[i].Risk.Level.Weight(), open[j].Risk.Level.Weight()
		if wi != wj {
			return wi > wj
		}
		return ageOf(open[i]) > ageOf(open[j])
	})

	if limit >= 0 && len(open) > limit {
		open = open[:limit]
	}
	return open
}
