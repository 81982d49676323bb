// Package versions reports build information for the bookstore API binary.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const unknown = "unknown"

// Set at build time with -ldflags "-X ...versions.Version=..."
var (
	Version   = "dev"
	Commit    = unknown
	BuildDate = unknown
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string `json:"version" xml:"version"`
	Commit    string `json:"commit" xml:"commit"`
	BuildDate string `json:"build_date" xml:"buildDate"`
	GoVersion string `json:"go_version" xml:"goVersion"`
	Platform  string `json:"platform" xml:"platform"`
}

// GetVersionInfo returns the build information, filling commit and date
// from the embedded VCS settings for development builds.
func GetVersionInfo() VersionInfo {
	var settings []debug.BuildSetting
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = info.Settings
	}
	return buildVersionInfo(Version, Commit, BuildDate, settings)
}

func buildVersionInfo(version, commit, buildDate string, settings []debug.BuildSetting) VersionInfo {
	if version == "dev" {
		for _, s := range settings {
			switch {
			case s.Key == "vcs.revision" && commit == unknown:
				commit = s.Value
			case s.Key == "vcs.time" && buildDate == unknown:
				buildDate = s.Value
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 MST")
	}

	if version == "dev" {
		version = fmt.Sprintf("build-%.8s", commit)
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
