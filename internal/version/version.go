// Package version reports how the running binary was built.
package version

import (
	"runtime/debug"
	"strings"
)

// Set via -ldflags "-X finplan/internal/version.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Info is returned by the health endpoint
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Revision  string `json:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get collects version details from the linker flags and the embedded build info
func Get() Info {
	info := Info{Version: Version, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders e.g. "finplan dev (go1.24.0, 1a2b3c4d+dirty)"
func (i Info) String() string {
	var details []string
	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		if i.Modified {
			rev += "+dirty"
		}
		details = append(details, rev)
	}
	if i.BuildTime != "unknown" && i.BuildTime != "" {
		details = append(details, "built "+i.BuildTime)
	}

	s := "finplan " + i.Version
	if len(details) > 0 {
		s += " (" + strings.Join(details, ", ") + ")"
	}
	return s
}
