package version

import (
	"runtime/debug"
	"testing"
)

func restore(t *testing.T) {
	t.Helper()
	v, c := Version, Commit
	t.Cleanup(func() { Version, Commit = v, c })
}

func TestFromBuildInfo(t *testing.T) {
	restore(t)
	Version, Commit = "dev", ""

	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	info := fromBuildInfo(bi, true)

	if info.Version != "v1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "0123456" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if !info.Modified {
		t.Error("expected Modified")
	}
	if got, want := info.String(), "v1.2.0 (0123456-dirty, go1.26.0)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFromBuildInfo_LinkerValuesWin(t *testing.T) {
	restore(t)
	Version, Commit = "1.0.0", "feedbee"

	info := fromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0000000000"}},
	}, true)
	if info.Version != "1.0.0" || info.Commit != "feedbee" {
		t.Errorf("got %+v", info)
	}
}

func TestFromBuildInfo_Unavailable(t *testing.T) {
	restore(t)
	Version, Commit = "dev", ""

	info := fromBuildInfo(nil, false)
	if info.String() != "dev" {
		t.Errorf("String() = %q", info.String())
	}
}

func TestFromBuildInfo_DevelModule(t *testing.T) {
	restore(t)
	Version, Commit = "dev", ""

	info := fromBuildInfo(&debug.BuildInfo{GoVersion: "go1.26.0", Main: debug.Module{Version: "(devel)"}}, true)
	if info.Version != "dev" {
		t.Errorf("Version = %q", info.Version)
	}
	if got := info.String(); got != "dev (unknown, go1.26.0)" {
		t.Errorf("String() = %q", got)
	}
}

func TestGet(t *testing.T) {
	if Get().Version == "" {
		t.Error("expected a version")
	}
}
