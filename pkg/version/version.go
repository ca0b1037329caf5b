// Package version reports build information for the lintcfg binary.
package version

import (
	"log/slog"
	"runtime"
	"runtime/debug"
)

const shortRevision = 7

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = getRevision()
	GoVersion = runtime.Version()
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// LogValue groups the build information for structured logs.
func LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("version", GetVersion()),
		slog.String("revision", Revision),
		slog.String("go", GoVersion),
	}
	if BuildDate != "" {
		attrs = append(attrs, slog.String("date", BuildDate))
	}

	return slog.GroupValue(attrs...)
}

func getRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revision("unknown", info.Settings)
}

// revision derives a short revision from VCS build settings, marking builds
// from a modified tree with "-dirty".
func revision(fallback string, settings []debug.BuildSetting) string {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	rev, ok := vcs["vcs.revision"]
	if !ok {
		rev = fallback
	}

	if len(rev) > shortRevision {
		rev = rev[:shortRevision]
	}

	if vcs["vcs.modified"] == "true" {
		rev += "-dirty"
	}

	return rev
}
