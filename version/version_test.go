package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origBuildTime, origRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readBuildInfo = origVersion, origCommit, origBuildTime, origRead
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet_Defaults(t *testing.T) {
	stub(t, nil)
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" || info.IsRelease {
		t.Errorf("unexpected info %+v", info)
	}
	if got := info.String(); got != "starpipe dev" {
		t.Errorf("expected 'starpipe dev', got %q", got)
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	stub(t, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffffffff"},
			{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
		},
	})
	Version, GitCommit, BuildTime = "1.2.0", "abc1234", "2026-03-01T10:30:00Z"

	info := Get()
	if !info.IsRelease {
		t.Error("1.2.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected ldflags commit, got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected ldflags build time, got %v", info.BuildDate)
	}
}

func TestGet_BuildInfoFallback(t *testing.T) {
	stub(t, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Deps: []*debug.Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.1"},
			{Path: "go.starlark.net", Version: "v0.0.0-20230525235612-a134d8f9ddca"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-02-03T04:05:06Z"},
		},
	})
	Version, GitCommit, BuildTime = "1.2.0-dirty", "", ""

	info := Get()
	if info.GitCommit != "0123456" {
		t.Errorf("expected truncated VCS commit, got %q", info.GitCommit)
	}
	if !info.IsDirty || info.IsRelease {
		t.Errorf("expected dirty non-release, got %+v", info)
	}
	if info.Starlark != "v0.0.0-20230525235612-a134d8f9ddca" {
		t.Errorf("expected starlark version, got %q", info.Starlark)
	}
	if got := info.Short(); got != "1.2.0-dirty-0123456-dirty" {
		t.Errorf("unexpected short version %q", got)
	}
	s := info.String()
	for _, want := range []string{"built 2026-02-03T04:05:06Z", "go1.26.0", "starlark@v0.0.0-"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}
