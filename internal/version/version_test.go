package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesVersion(t *testing.T) {
	if !strings.Contains(Info(), Version) {
		t.Errorf("Info() = %q, expected it to contain %q", Info(), Version)
	}
}

func TestMapFields(t *testing.T) {
	m := Map()
	for _, key := range []string{"version", "commit", "build_date"} {
		if m[key] == "" {
			t.Errorf("Map() missing %q", key)
		}
	}
}
