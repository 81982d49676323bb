// Package versioning implements API version selection for the /api routes.
package versioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned when a version string cannot be parsed
var ErrInvalidVersion = errors.New("invalid API version")

// DefaultVersion is the API version used when none is configured
var DefaultVersion = MustParse("1.0")

// Version is a major.minor API version
type Version struct {
	Major uint64
	Minor uint64
}

// Parse parses "1", "1.0" or "v1.0". Patch, pre-release and build
// components are rejected.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	// semver coerces "1.0" to 1.0.0; count the dots ourselves to reject "1.0.1"
	if strings.Count(s, ".") > 1 {
		return Version{}, fmt.Errorf("%w: %q has a patch component", ErrInvalidVersion, s)
	}

	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("%w: %q has pre-release or build metadata", ErrInvalidVersion, s)
	}

	return Version{Major: sv.Major(), Minor: sv.Minor()}, nil
}

// MustParse is like Parse but panics on error
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 depending on whether v is lower, equal or greater than o
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor != o.Minor:
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}
