package classifier

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/bumpwatch/pkg/domain/model"
)

// versionParts is the (major, minor, patch) triple of a version string. Each
// component is a decimal digit run without leading zeros, "0" when absent.
type versionParts [3]string

// splitVersion takes the first three digit runs of s, left to right, and
// right-pads with zeros. Strings without digits become 0.0.0.
func splitVersion(s string) versionParts {
	parts := versionParts{"0", "0", "0"}
	n := 0
	for i := 0; i < len(s) && n < len(parts); {
		if !isDigit(s[i]) {
			i++
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		parts[n] = trimZeros(s[i:j])
		n++
		i = j
	}
	return parts
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func trimZeros(digits string) string {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0"
	}
	return digits
}

// ClassifyUpdate compares two version-like strings by their leading numeric
// components. The first differing component decides major, minor or patch;
// identical triples, empty inputs and unknown inputs are other. Pre-release
// and build suffixes only matter through their digits.
func ClassifyUpdate(from, to string) model.UpdateClass {
	if isUnknownVersion(from) || isUnknownVersion(to) {
		return model.UpdateOther
	}

	a, b := splitVersion(from), splitVersion(to)
	classes := [3]model.UpdateClass{model.UpdateMajor, model.UpdateMinor, model.UpdatePatch}
	for i := range a {
		if a[i] != b[i] {
			return classes[i]
		}
	}
	return model.UpdateOther
}

func isUnknownVersion(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == model.Unknown
}

// IsPrerelease reports whether v parses as a semantic version carrying a
// pre-release tag. It only annotates rows and never affects the class.
func IsPrerelease(v string) bool {
	if isUnknownVersion(v) {
		return false
	}
	ver, err := semver.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return ver.Prerelease() != ""
}
