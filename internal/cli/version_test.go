package cli

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aidanlsb/planvault/internal/buildinfo"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo, ok bool) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, ok }
}

func stubLdflags(t *testing.T, version, commit, date string) {
	t.Helper()
	prevVersion, prevCommit, prevDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = prevVersion, prevCommit, prevDate
	})
	buildinfo.Version, buildinfo.Commit, buildinfo.Date = version, commit, date
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	stubLdflags(t, "", "", "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/aidanlsb/planvault", Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc1234def5678"},
			{Key: "vcs.time", Value: "2025-01-08T09:00:00Z"},
		},
	}, true)

	assert.Equal(t, versionInfo{
		Version:   "v0.3.0",
		Commit:    "abc1234",
		Built:     "2025-01-08T09:00:00Z",
		GoVersion: runtime.Version(),
	}, currentVersionInfo())
}

func TestCurrentVersionInfoPrefersLdflags(t *testing.T) {
	stubLdflags(t, "v1.0.0", "feed", "2025-02-01")
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc1234def"}},
	}, true)

	info := currentVersionInfo()
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "feed", info.Commit)
	assert.Equal(t, "2025-02-01", info.Built)
}

func TestCurrentVersionInfoDevelBuild(t *testing.T) {
	stubLdflags(t, "", "", "")
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	assert.Equal(t, "devel", currentVersionInfo().Version)

	stubBuildInfo(t, nil, false)
	info := currentVersionInfo()
	assert.Equal(t, "devel", info.Version)
	assert.Empty(t, info.Commit)
}

func TestVersionInfoString(t *testing.T) {
	assert.Equal(t, "v0.3.0 (abc1234, 2025-01-08, go1.24.6)",
		versionInfo{Version: "v0.3.0", Commit: "abc1234", Built: "2025-01-08", GoVersion: "go1.24.6"}.String())
	assert.Equal(t, "devel (go1.24.6)", versionInfo{Version: "devel", GoVersion: "go1.24.6"}.String())
}
