// Package version reports build metadata injected with -ldflags, falling back
// to the module build info for `go install` builds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	ProjectName = "lynva-tui"
	Repository  = "github.com/lynva/lynva-tui"
	unknown     = "unknown"
	devVersion  = "dev"
)

// BuildInfo contains build-time information.
type BuildInfo struct {
	Version   string
	BuildDate string
	Commit    string
	GoVersion string
	OS        string
	Arch      string
}

// Set at build time via -ldflags "-X github.com/lynva/lynva-tui/internal/version.version=...".
var (
	version   = devVersion
	buildDate = unknown
	commit    = unknown
)

// GetBuildInfo returns the current build information.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if info.Version != devVersion {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = strings.TrimPrefix(v, "v")
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown && len(s.Value) >= 7 {
				info.Commit = s.Value[:7]
			}
		case "vcs.time":
			if info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		}
	}

	return info
}

// GetVersionString returns "v<version>".
func GetVersionString() string {
	return "v" + GetBuildInfo().Version
}

// GetFullVersionString returns "v<version> (<commit>)".
func GetFullVersionString() string {
	info := GetBuildInfo()

	return fmt.Sprintf("v%s (%s)", info.Version, info.Commit)
}

// GetBuildDate parses the build date.
func GetBuildDate() (time.Time, error) {
	info := GetBuildInfo()
	if info.BuildDate == unknown {
		return time.Time{}, fmt.Errorf("build date not available")
	}

	return time.Parse(time.RFC3339, info.BuildDate)
}

// IsDevBuild reports whether no version was injected at build time.
func IsDevBuild() bool {
	return version == devVersion
}

// Summary renders the multi-line output of the version command.
func Summary() string {
	info := GetBuildInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "%s version %s\n", ProjectName, info.Version)
	fmt.Fprintf(&b, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(&b, "Commit: %s\n", info.Commit)
	fmt.Fprintf(&b, "Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&b, "OS/Arch: %s/%s\n", info.OS, info.Arch)

	return b.String()
}
