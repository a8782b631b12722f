// Package buildinfo reports the version the binaries were built from.
package buildinfo

import "runtime/debug"

// Version is set with -ldflags "-X hostnamed/internal/buildinfo.Version=...".
// When unset it falls back to the main module version, then "dev".
var Version = ""

func init() {
	if Version != "" {
		return
	}
	Version = "dev"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
