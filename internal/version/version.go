// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X sketch-tracer/internal/version.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// String identifies the build, e.g. "sketch-tracer 0.1.0 (abc1234)".
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return "sketch-tracer " + Version
	}
	return fmt.Sprintf("sketch-tracer %s (%s)", Version, GitCommit)
}
