// Package version reports the build version of the treebrowse binaries.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/treebrowse/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/treebrowse/internal/version.Commit=abc1234"
//
// Unset values are filled from the VCS stamp in the build info, then from
// a "dev" fallback.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = "dev-" + t.Format("20060102")
		}
	}
}

// Full returns the version with its commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the User-Agent sent by the listing client
func UserAgent() string {
	return "treebrowse/" + Version
}
