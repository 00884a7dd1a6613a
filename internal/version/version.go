package version

import "github.com/fatih/color"

// Version information for the mf2 CLI.
// GitCommit and BuildDate can be set at build time via -ldflags -X; Version
// is computed from the constants below.

const (
	major = "0"
	minor = "1"
	patch = "0"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI, colorized for terminals.
	Version = versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch)

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Plain returns the version without color escapes, for protocol responses.
func Plain() string {
	return major + "." + minor + "." + patch
}
