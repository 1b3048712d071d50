package version

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Fatalf("Version should have a default value")
	}
}

func TestOverridesShowInOutput(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	data, err := JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" {
		t.Fatalf("unexpected info: %+v", info)
	}

	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	pretty := Pretty()
	for _, want := range []string{"highrust 1.2.3", "commit: abc123def456", "built:  2024-01-15T10:30:00Z"} {
		if !strings.Contains(pretty, want) {
			t.Fatalf("missing %q in:\n%s", want, pretty)
		}
	}
}

func TestColoredKeepsSuffix(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	Version = "0.4.1-rc1"
	if got := Colored(); got != "0.4.1-rc1" {
		t.Fatalf("Colored() = %q", got)
	}
	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Fatalf("Colored() = %q", got)
	}
}
