package pocsag

import (
	"fmt"
	"strings"
)

// Build metadata, overridable at build time via -ldflags.
var (
	Version   = "2.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// componentVersions lists the layer-2 pieces this build exercises, used by
// GetFullVersionInfo to report which parts of the decoder were compiled in
// rather than a generic one-line tagline.
var componentVersions = []string{
	"sync detector + frame state machine",
	"BCH(31,21) bit-sliced repair",
	"numeric / alphanumeric / binary payload formatters",
	"US/DE/SE/FR/SI charset translation",
}

// GetVersionString returns a short "name vX.Y.Z" string, suitable for a
// single-line banner.
func GetVersionString() string {
	return fmt.Sprintf("pocsag v%s", Version)
}

// GetFullVersionInfo returns a multi-line build report: version, commit,
// build time, and the layer-2 components compiled into this binary.
func GetFullVersionInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pocsag v%s (%s, built %s)\n", Version, GitCommit, BuildTime)
	b.WriteString("components:\n")
	for _, c := range componentVersions {
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	return b.String()
}
