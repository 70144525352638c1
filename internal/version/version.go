// Package version exposes the build metadata stamped into the gadvisor binary.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/younsl/gadvisor/internal/version.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// BuildInfo contains version and build details.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build information of the running binary
func Get() BuildInfo {
	return BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
	}
}

// String renders the one-line form printed by --version
func (b BuildInfo) String() string {
	return fmt.Sprintf("gadvisor version %s (built: %s, commit: %s, %s)",
		b.Version, b.BuildDate, shortCommit(b.GitCommit), b.GoVersion)
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
