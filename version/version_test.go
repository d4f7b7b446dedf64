package version

import (
	"runtime/debug"
	"testing"
	"time"
)

func stub(t *testing.T, version, commit, buildTime string, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origBuildTime, origRead := Version, Commit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, BuildTime, readBuildInfo = origVersion, origCommit, origBuildTime, origRead
	})
	Version, Commit, BuildTime = version, commit, buildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet(t *testing.T) {
	vcs := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name      string
		version   string
		commit    string
		buildTime string
		bi        *debug.BuildInfo
		short     string
		date      string
		release   bool
	}{
		{"no build info", "dev", "", "", nil, "dev", "", false},
		{"link-time values", "1.2.0", "abc1234", "2026-01-02T15:04:05Z", &debug.BuildInfo{GoVersion: "go1.26.0"}, "1.2.0-abc1234", "2026-01-02T15:04:05Z", true},
		{"vcs fallback", "1.2.0", "", "", vcs, "1.2.0-0123456-dirty", "2026-03-01T08:00:00Z", false},
		{"link-time wins over vcs", "1.2.0", "feedbee", "2026-01-02T15:04:05Z", vcs, "1.2.0-feedbee-dirty", "2026-01-02T15:04:05Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.version, tt.commit, tt.buildTime, tt.bi)
			info := Get()
			if got := info.Short(); got != tt.short {
				t.Errorf("Short() = %q, want %q", got, tt.short)
			}
			if got := info.BuildDate(); got != tt.date {
				t.Errorf("BuildDate() = %q, want %q", got, tt.date)
			}
			if got := info.IsRelease(); got != tt.release {
				t.Errorf("IsRelease() = %v, want %v", got, tt.release)
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GoVersion: "go1.26.0"}, "1.0.0 (go1.26.0)"},
		{Info{Version: "1.0.0", Commit: "abc1234", GoVersion: "go1.26.0", BuiltAt: mustTime(t, "2026-01-02T15:04:05Z")}, "1.0.0-abc1234 (go1.26.0, built 2026-01-02T15:04:05Z)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
