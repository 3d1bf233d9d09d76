package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckSchemaCompatibility checks whether the schema version found in an
// existing database can be used by this build.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckSchemaCompatibility(buildVersion, storedVersion string) error {
	// Strip 'v' prefix if present for consistency
	buildVersion = strings.TrimPrefix(buildVersion, "v")
	storedVersion = strings.TrimPrefix(storedVersion, "v")

	// Skip version check for "main" (development builds)
	if buildVersion == "main" || storedVersion == "main" {
		return nil
	}

	buildSemver, err := semver.NewVersion(buildVersion)
	if err != nil {
		return fmt.Errorf("invalid build schema version '%s': %w", buildVersion, err)
	}

	storedSemver, err := semver.NewVersion(storedVersion)
	if err != nil {
		return fmt.Errorf("invalid stored schema version '%s': %w", storedVersion, err)
	}

	if buildSemver.Major() != storedSemver.Major() {
		return fmt.Errorf("schema major version mismatch: build expects %d.x.x but database has %d.x.x",
			buildSemver.Major(), storedSemver.Major())
	}

	if buildSemver.Minor() != storedSemver.Minor() {
		return fmt.Errorf("schema minor version mismatch: build expects %d.%d.x but database has %d.%d.x",
			buildSemver.Major(), buildSemver.Minor(),
			storedSemver.Major(), storedSemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}
