package cmd

import (
	"runtime"
	"testing"
)

func TestInfo_PrefersInjectedValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = origVersion, origCommit, origDate })

	Version, Commit, Date = "1.2.3", "abc123", "2026-01-02"

	info := Info()
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.Date != "2026-01-02" {
		t.Errorf("Info() = %+v, want injected values", info)
	}
	if info.Go != runtime.Version() {
		t.Errorf("Info().Go = %q, want %q", info.Go, runtime.Version())
	}
}

func TestInfo_Defaults(t *testing.T) {
	info := Info()
	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("Info() = %+v, want no empty fields", info)
	}
}
