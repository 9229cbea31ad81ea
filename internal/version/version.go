// Package version reports the build version of forescout-tools.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/opabravo/forescout-tools/internal/version.Version=v1.0.0 \
//	                   -X github.com/opabravo/forescout-tools/internal/version.Commit=abc1234"
var (
	Version = ""
	Commit  = ""
)

// Info describes the running binary
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
}

var (
	once sync.Once
	info Info
)

// Get returns the build info, filling unset fields from the VCS stamp
// embedded by the Go toolchain
func Get() Info {
	once.Do(func() {
		info = Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
		if bi, ok := debug.ReadBuildInfo(); ok {
			fillFromSettings(&info, bi.Settings)
		}
		if info.Version == "" {
			info.Version = "dev"
		}
		if info.Commit == "" {
			info.Commit = "unknown"
		}
	})
	return info
}

func fillFromSettings(i *Info, settings []debug.BuildSetting) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if i.Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		i.Commit = revision
		if modified == "true" {
			i.Commit += "-dirty"
		}
	}

	if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		i.BuildTime = t.UTC().Format(time.RFC3339)
		if i.Version == "" {
			i.Version = "dev-" + t.Format("20060102")
		}
	}
}

// Short returns the version alone
func Short() string {
	return Get().Version
}

// Full returns the version with commit and toolchain
func Full() string {
	i := Get()
	s := fmt.Sprintf("%s (commit: %s, %s)", i.Version, i.Commit, i.GoVersion)
	if i.BuildTime != "" {
		s += " built " + i.BuildTime
	}
	return s
}
