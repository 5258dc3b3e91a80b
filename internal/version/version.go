// Package version implements the semantic-version rules used to name releases
// and to pick the release the latest pointer refers to.
//
// Parsing is strict: MAJOR.MINOR.PATCH with optional prerelease and build
// metadata, after an optional leading "v" or "=". Partial versions such as
// "1.2" are not versions here, which keeps ordinary branch names like
// "release-1" out of the version namespace.
package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parse returns the semantic version represented by s.
func Parse(s string) (*semver.Version, error) {
	return semver.StrictNewVersion(trimPrefix(s))
}

// IsValid reports whether s parses as a semantic version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Normalize returns the canonical form of s: the leading "v" is removed and
// build metadata is dropped. Normalize is idempotent.
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return canonical(v), nil
}

// IsPrerelease reports whether s is a valid semantic version with a
// prerelease component.
func IsPrerelease(s string) bool {
	v, err := Parse(s)
	return err == nil && v.Prerelease() != ""
}

// Latest returns the highest non-prerelease version among names, as it was
// spelled in names. Names that are not versions are ignored. The boolean is
// false when no name qualifies.
func Latest(names []string) (string, bool) {
	type candidate struct {
		name string
		v    *semver.Version
	}

	candidates := make([]candidate, 0, len(names))
	for _, name := range names {
		v, err := Parse(name)
		if err != nil || v.Prerelease() != "" {
			continue
		}
		candidates = append(candidates, candidate{name: name, v: v})
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].v.LessThan(candidates[j].v)
	})
	return candidates[len(candidates)-1].name, true
}

func canonical(v *semver.Version) string {
	s := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	return s
}

func trimPrefix(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	if strings.HasPrefix(s, "v") || strings.HasPrefix(s, "V") {
		s = s[1:]
	}
	return s
}
