// Package version reports the build identity of the binaries
package version

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X adwarden/internal/core/version.version=v0.1.0"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo identifies a running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   bool   `json:"dirty,omitempty"`
	Go      string `json:"go"`
}

var vcs = sync.OnceValue(func() BuildInfo {
	var b BuildInfo
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.Go = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value
		case "vcs.time":
			b.Date = s.Value
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}
	return b
})

// Info returns the build identity for service. Linker flags win over the
// vcs stamp the go tool embeds
func Info(service string) BuildInfo {
	b := vcs()
	b.Service, b.Version = service, version
	if commit != "" {
		b.Commit, b.Dirty = commit, false
	}
	if date != "" {
		b.Date = date
	}
	if b.Commit == "" {
		b.Commit = "none"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	return b
}
