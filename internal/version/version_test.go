package version

import (
	"strings"
	"testing"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestDefaultVersionIsPlain(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Fatalf("Version must not carry escapes: %q", Version)
	}
}

func TestColored(t *testing.T) {
	withVersion(t, "1.2.3-rc.1", "", "")

	if got := Colored(false); got != "1.2.3-rc.1" {
		t.Errorf("Colored(false) = %q", got)
	}
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored(true) = %q", got)
	}
}

func TestColoredNonSemver(t *testing.T) {
	withVersion(t, "nightly", "", "")
	if got := Colored(true); got != "nightly" {
		t.Errorf("Colored = %q", got)
	}
}

func TestInfo(t *testing.T) {
	tests := []struct {
		commit, date string
		want         string
	}{
		{"", "", "bgql 0.3.0"},
		{"abc123", "", "bgql 0.3.0 (commit abc123)"},
		{"abc123", "2026-01-15", "bgql 0.3.0 (commit abc123, built 2026-01-15)"},
		{"", "2026-01-15", "bgql 0.3.0 (built 2026-01-15)"},
	}
	for _, tt := range tests {
		withVersion(t, "0.3.0", tt.commit, tt.date)
		if got := Info(false); got != tt.want {
			t.Errorf("Info() = %q, want %q", got, tt.want)
		}
	}
}
