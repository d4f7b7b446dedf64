package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags -X.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes one build.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	GoVersion string    `json:"go_version"`
	BuiltAt   time.Time `json:"built_at,omitzero"`
	Dirty     bool      `json:"dirty,omitempty"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the build information, completing link-time values with the
// VCS settings recorded by the toolchain.
func Get() Info {
	info := Info{Version: Version, Commit: Commit}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuiltAt = t.UTC()
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuiltAt.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuiltAt = t.UTC()
				}
			}
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// IsRelease reports whether the build carries a real version.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty
}

// Short returns "version" or "version-commit[-dirty]".
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.Commit != "" {
		parts = append(parts, i.Commit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// BuildDate returns the build time formatted for display, or "" when unknown.
func (i Info) BuildDate() string {
	if i.BuiltAt.IsZero() {
		return ""
	}
	return i.BuiltAt.Format(time.RFC3339)
}

// String returns the short version with the Go toolchain and build date.
func (i Info) String() string {
	s := i.Short()
	var extra []string
	if i.GoVersion != "" {
		extra = append(extra, i.GoVersion)
	}
	if d := i.BuildDate(); d != "" {
		extra = append(extra, "built "+d)
	}
	if len(extra) > 0 {
		s += fmt.Sprintf(" (%s)", strings.Join(extra, ", "))
	}
	return s
}
