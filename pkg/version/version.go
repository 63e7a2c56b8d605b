// Package version exposes the govlist build version.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// version is set at build time with -ldflags "-X github.com/rshade/govlist/pkg/version.version=...".
var version = "0.1.0-dev" //nolint:gochecknoglobals // Overridden by the linker.

// ErrInvalidConstraint is returned for a constraint string that does not parse.
var ErrInvalidConstraint = errors.New("invalid version constraint")

// GetVersion returns the build version without a leading "v".
func GetVersion() string {
	return strings.TrimPrefix(version, "v")
}

// Satisfies reports whether the running version meets constraint
// (e.g. ">= 0.1.0", "^1.2"). Pre-release builds are compared on their
// major.minor.patch core so development builds satisfy plain ranges.
func Satisfies(constraint string) (bool, error) {
	return Check(GetVersion(), constraint)
}

// Check reports whether ver meets constraint.
func Check(ver, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrInvalidConstraint, constraint, err)
	}

	v, err := semver.NewVersion(ver)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", ver, err)
	}
	if v.Prerelease() != "" {
		core, _ := v.SetPrerelease("")
		v = &core
	}
	return c.Check(v), nil
}
