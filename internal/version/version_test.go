package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestParts(t *testing.T) {
	cases := []struct {
		in                          string
		major, minor, patch, suffix string
	}{
		{"0.1.0-dev", "0", "1", "0", "-dev"},
		{"v1.2.3", "1", "2", "3", ""},
		{"1.2.3-rc.1+build.123", "1", "2", "3", "-rc.1+build.123"},
		{"2", "2", "0", "0", ""},
		{"1.4+meta", "1", "4", "0", "+meta"},
	}
	for _, tc := range cases {
		major, minor, patch, suffix := Parts(tc.in)
		if major != tc.major || minor != tc.minor || patch != tc.patch || suffix != tc.suffix {
			t.Errorf("Parts(%q) = %q %q %q %q", tc.in, major, minor, patch, suffix)
		}
	}
}

func TestPrettyWithoutColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	Version = "v1.2.3-beta"
	if got := Pretty(); got != "1.2.3-beta" {
		t.Fatalf("Pretty() = %q", got)
	}
}

func TestPrettyWithColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = false
	Version = "1.2.3"
	got := Pretty()
	if got == "1.2.3" {
		t.Fatalf("expected escape sequences in %q", got)
	}
	if want := majorColor.Sprint("1"); got[:len(want)] != want {
		t.Fatalf("Pretty() = %q, want prefix %q", got, want)
	}
}
