package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the cha CLI. Override at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Parts splits a version into its numeric core and the pre-release/build
// suffix. The core is padded to three components.
func Parts(v string) (major, minor, patch, suffix string) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	core := v
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	fields := strings.SplitN(core, ".", 3)
	for len(fields) < 3 {
		fields = append(fields, "0")
	}
	return fields[0], fields[1], fields[2], suffix
}

// Pretty renders Version with each component colored. Colors follow
// color.NoColor, so the output is plain when stdout is not a terminal.
func Pretty() string {
	major, minor, patch, suffix := Parts(Version)
	return majorColor.Sprint(major) + "." + minorColor.Sprint(minor) + "." + patchColor.Sprint(patch) + suffix
}
