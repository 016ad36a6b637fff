package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// starlarkModule is the module whose grammar starpipe targets.
const starlarkModule = "go.starlark.net"

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	BuildDate time.Time `json:"build_date,omitempty"`
	GoVersion string    `json:"go_version,omitempty"`
	Starlark  string    `json:"starlark,omitempty"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get collects the build metadata.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, dep := range bi.Deps {
		if dep.Path == starlarkModule {
			info.Starlark = dep.Version
			if dep.Replace != nil {
				info.Starlark = dep.Replace.Version
			}
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns version[-commit][-dirty].
func (i *Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String returns the short version with build date and toolchain details.
func (i *Info) String() string {
	var sb strings.Builder
	sb.WriteString("starpipe " + i.Short())
	if !i.BuildDate.IsZero() {
		fmt.Fprintf(&sb, " (built %s)", i.BuildDate.UTC().Format(time.RFC3339))
	}
	if i.GoVersion != "" {
		sb.WriteString(" " + i.GoVersion)
	}
	if i.Starlark != "" {
		sb.WriteString(" starlark@" + i.Starlark)
	}
	return sb.String()
}
