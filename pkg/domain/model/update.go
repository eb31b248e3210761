package model

import "sort"

// Unknown is the sentinel used for every field the classifier could not recover.
const Unknown = "unknown"

// UpdateClass is the magnitude of a version change.
type UpdateClass string

const (
	UpdateMajor UpdateClass = "major"
	UpdateMinor UpdateClass = "minor"
	UpdatePatch UpdateClass = "patch"
	UpdateOther UpdateClass = "other"
)

// UpdateClasses lists every class in display order.
var UpdateClasses = []UpdateClass{UpdateMajor, UpdateMinor, UpdatePatch, UpdateOther}

// ParsedUpdate is what could be recovered from a dependency PR title.
// When Matched is false every text field holds Unknown and Directory is empty.
type ParsedUpdate struct {
	Matched   bool   `json:"matched"`
	Package   string `json:"package"`
	From      string `json:"from"`
	To        string `json:"to"`
	Directory string `json:"directory,omitempty"`
}

// UnmatchedUpdate returns the all-unknown result.
func UnmatchedUpdate() ParsedUpdate {
	return ParsedUpdate{
		Package: Unknown,
		From:    Unknown,
		To:      Unknown,
	}
}

// ClassCounts holds one counter per UpdateClass. All four classes are always present.
type ClassCounts struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
	Other int `json:"other"`
}

// Add increments the counter of cls. Unrecognized classes count as other.
func (x *ClassCounts) Add(cls UpdateClass) {
	switch cls {
	case UpdateMajor:
		x.Major++
	case UpdateMinor:
		x.Minor++
	case UpdatePatch:
		x.Patch++
	default:
		x.Other++
	}
}

// Get returns the counter of cls.
func (x ClassCounts) Get(cls UpdateClass) int {
	switch cls {
	case UpdateMajor:
		return x.Major
	case UpdateMinor:
		return x.Minor
	case UpdatePatch:
		return x.Patch
	default:
		return x.Other
	}
}

// Sum returns the number of records counted.
func (x ClassCounts) Sum() int {
	return x.Major + x.Minor + x.Patch + x.Other
}

// Buckets maps a directory or ecosystem key to its class counters.
type Buckets map[string]*ClassCounts

// Add creates the bucket of key on first sight and increments cls.
func (x Buckets) Add(key string, cls UpdateClass) {
	b, ok := x[key]
	if !ok {
		b = &ClassCounts{}
		x[key] = b
	}
	b.Add(cls)
}

// Get returns the counters of key, zero when the key was never seen.
func (x Buckets) Get(key string) ClassCounts {
	if b, ok := x[key]; ok {
		return *b
	}
	return ClassCounts{}
}

// Keys returns bucket keys sorted ascending.
func (x Buckets) Keys() []string {
	keys := make([]string, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aggregation is the three counting views over a PR list.
type Aggregation struct {
	Total       ClassCounts `json:"total"`
	ByDirectory Buckets     `json:"by_directory"`
	ByEcosystem Buckets     `json:"by_ecosystem"`
}

// NewAggregation returns an empty aggregation with initialized maps.
func NewAggregation() Aggregation {
	return Aggregation{
		ByDirectory: Buckets{},
		ByEcosystem: Buckets{},
	}
}
