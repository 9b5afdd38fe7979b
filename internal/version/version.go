// Package version carries build metadata stamped in with -ldflags.
package version

import "fmt"

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/alexiusacademia/gomoscap/internal/version.Version=1.0.0"
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// Author of the application
	Author = "Alexius Academia"

	// Year of release
	Year = "2025"
)

// String formats the version line printed by the CLI and the health endpoint
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}
