package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Platform returns the toolchain and target the binary was built with, e.g. "go1.25.0 linux/amd64".
func Platform() string {
	return fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Full returns the version line printed by the version subcommand.
func Full() string {
	return fmt.Sprintf("rgskin-pkgfix %s (commit %s, built %s, %s)", Version, Commit, BuildTime, Platform())
}
