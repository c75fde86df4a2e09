// Package version holds build metadata injected via ldflags, e.g.
//
//	-X github.com/GHutch55/anagrams/version.Version=v1.2.0
package version

import (
	"fmt"
	"io"
	"os"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildInfo is the JSON form of the build metadata.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func Info() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}

// Print writes the build metadata to w in a human-readable format.
func Print(w io.Writer) {
	fmt.Fprintf(w, `file:     %s
version:  %s
commit:   %s
built:    %s
`, os.Args[0], Version, Commit, BuildTime)
}
