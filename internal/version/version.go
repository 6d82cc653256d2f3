package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Name of the application
	AppName = "syftperm"

	// Version of the application
	Version = "0.1.0-dev"

	// Git commit hash of the application
	Revision = "HEAD"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}

	// Prefer module version when set by release builds.
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = strings.TrimPrefix(v, "v")
	}

	// Prefer VCS revision for local/dev builds.
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			rev := s.Value
			if len(rev) > 8 {
				rev = rev[:8]
			}
			Revision = rev
		}
	}
}

// Detailed returns the full version string for --version output.
func Detailed() string {
	return fmt.Sprintf("%s (%s) %s/%s %s", Version, Revision, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
