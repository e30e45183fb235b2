// Package version carries build identification, stamped via -ldflags at
// release time.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the one-line build identifier used by -version flags.
func String() string {
	return fmt.Sprintf("canopy.report %s (%s, built %s)", Version, GitSHA, BuildTime)
}
