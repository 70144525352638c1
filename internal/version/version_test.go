package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestBuildInfo_String(t *testing.T) {
	info := BuildInfo{
		Version:   "v0.1.0",
		BuildDate: "2025-04-15T09:30:00Z",
		GitCommit: "3f2a9c1d8e7b6a5",
		GoVersion: "go1.24.2",
	}
	assert.Equal(t, "gadvisor version v0.1.0 (built: 2025-04-15T09:30:00Z, commit: 3f2a9c1, go1.24.2)", info.String())

	info.GitCommit = "unknown"
	assert.Contains(t, info.String(), "commit: unknown")
}
