package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set during build time
var (
	// Version is the current version
	Version = "0.0.0"

	// Branch is current branch name the code is built off.
	Branch = "unknown"

	// Revision is the short commit hash of source tree
	Revision = "unknown"

	// BuiltAt is the build time
	BuiltAt = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	Branch    string `json:"branch"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

var (
	info     Info
	infoOnce sync.Once
)

// GetVersionInfo returns the version information. Values left unset by
// ldflags are filled from the build info embedded by the go tool.
func GetVersionInfo() Info {
	infoOnce.Do(func() {
		info = fromBuildInfo(Info{
			Version:   Version,
			Branch:    Branch,
			Revision:  Revision,
			BuiltAt:   BuiltAt,
			GoVersion: runtime.Version(),
		})
	})
	return info
}

func fromBuildInfo(i Info) Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}

	if i.Version == "0.0.0" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Revision == "unknown" && s.Value != "" {
				i.Revision = shortRevision(s.Value)
			}
		case "vcs.time":
			if i.BuiltAt == "unknown" && s.Value != "" {
				i.BuiltAt = s.Value
			}
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		}
	}
	return i
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String returns a string representation of version information
func (i Info) String() string {
	return fmt.Sprintf("Version: %s\nBranch: %s\nRevision: %s\nBuilt At: %s\nGo Version: %s",
		i.Version, i.Branch, i.Revision, i.BuiltAt, i.GoVersion)
}

// JSON returns a JSON representation of version information
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Print prints version information to stdout
func Print() {
	fmt.Println(GetVersionInfo().String())
}
