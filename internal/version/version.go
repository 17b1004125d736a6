// Package version owns semantic-version state for the release workflow.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
)

var versionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)

// Version is a semantic version triple
type Version struct {
	Major int
	Minor int
	Patch int
}

// IncrementKind selects which component an increment bumps
type IncrementKind string

const (
	IncrementMajor IncrementKind = "major"
	IncrementMinor IncrementKind = "minor"
	IncrementPatch IncrementKind = "patch"
)

// Parse parses a semver string, with or without the display prefix
func Parse(value string) (Version, error) {
	matches := versionRegex.FindStringSubmatch(value)
	if matches == nil {
		return Version{}, errs.InvalidVersion(value)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	patch, _ := strconv.Atoi(matches[3])

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String renders the bare triple without prefix
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 following semver precedence
func Compare(a, b Version) int {
	if a.Major != b.Major {
		return sign(a.Major - b.Major)
	}
	if a.Minor != b.Minor {
		return sign(a.Minor - b.Minor)
	}
	return sign(a.Patch - b.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Increment returns the next version for the given kind
func (v Version) Increment(kind IncrementKind) (Version, error) {
	switch kind {
	case IncrementMajor:
		return Version{Major: v.Major + 1}, nil
	case IncrementMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case IncrementPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return Version{}, errs.New(errs.KindValidation, fmt.Sprintf("unknown increment kind '%s'", kind))
	}
}

// Manager owns the current version and its display prefix.
// The current value only moves forward: SetCurrent rejects regressions.
type Manager struct {
	current Version
	prefix  string
}

// NewManager creates a version manager with the default "v" prefix
func NewManager() *Manager {
	return &Manager{prefix: constants.DefaultVersionPrefix}
}

// Current returns the current version
func (m *Manager) Current() Version {
	return m.current
}

// Tag renders a version as a tag name with the display prefix
func (m *Manager) Tag(v Version) string {
	return m.prefix + v.String()
}

// SetCurrent validates and records a new current version. The new value must
// not be smaller than the previous one under semver ordering.
func (m *Manager) SetCurrent(value string) (Version, error) {
	parsed, err := Parse(value)
	if err != nil {
		return Version{}, err
	}

	if Compare(parsed, m.current) < 0 {
		return Version{}, errs.VersionNotIncreased(m.current.String(), parsed.String())
	}

	m.current = parsed
	return parsed, nil
}

// Increment bumps the current version and records the result
func (m *Manager) Increment(kind IncrementKind) (Version, error) {
	next, err := m.current.Increment(kind)
	if err != nil {
		return Version{}, err
	}

	m.current = next
	return next, nil
}

// LatestFromTags returns the maximum valid semver among the tags, ignoring
// anything that does not parse. The second return is false when no tag is a
// valid version.
func LatestFromTags(tags []string) (Version, bool) {
	var latest Version
	found := false

	for _, tag := range tags {
		parsed, err := Parse(tag)
		if err != nil {
			continue
		}
		if !found || Compare(parsed, latest) > 0 {
			latest = parsed
			found = true
		}
	}

	return latest, found
}

// SuggestNext returns major, minor and patch candidates for the next release,
// derived from the latest valid tag (or 0.0.0 when none exists).
func SuggestNext(tags []string) [3]Version {
	latest, _ := LatestFromTags(tags)

	major, _ := latest.Increment(IncrementMajor)
	minor, _ := latest.Increment(IncrementMinor)
	patch, _ := latest.Increment(IncrementPatch)

	return [3]Version{major, minor, patch}
}
