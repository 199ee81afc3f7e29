package app

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit and BuildTime are set with -ldflags at build time, e.g.
// -X github.com/heartmarshall/casedata-runtime/internal/app.Version=1.0.0.
// When Commit is not set, the VCS revision recorded by the Go toolchain is
// used instead.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns the version string reported in logs and by /health.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit(), BuildTime)
}

func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return Commit
}
