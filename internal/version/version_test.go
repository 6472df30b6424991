package version

import (
	"strings"
	"testing"
)

func TestDefaultsPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version) || !strings.Contains(full, Commit) {
		t.Errorf("Full() = %q, want version and commit", full)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "treebrowse/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
