// Package version reports build information for the server and the CLI.
package version

import "runtime/debug"

// Set at build time via -ldflags "-X github.com/icemedialab/varta/internal/version.version=...".
var (
	version = ""
	commit  = ""
	date    = ""
)

// Version returns the release version. Priority: ldflags, module build
// info, "(devel)".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// Commit returns the short VCS revision or "unknown".
func Commit() string {
	if commit != "" {
		return commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// Date returns the build (VCS commit) time or "unknown".
func Date() string {
	if date != "" {
		return date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
