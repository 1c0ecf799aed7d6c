package version

import (
	"runtime/debug"
	"sync"
)

// Version is the release tag, set at build time with
// -ldflags "-X golang-pingcompare/internal/pkg/version.Version=v1.2.3".
var Version = "dev"

// GitInfo holds the VCS metadata stamped into the binary by the go toolchain.
type GitInfo struct {
	Tag       string
	Commit    string
	Time      string
	Dirty     bool
	GoVersion string
}

var (
	once sync.Once
	info GitInfo
)

// GetGitInfo returns the build's version and git metadata.
func GetGitInfo() GitInfo {
	once.Do(func() {
		info = fromBuildInfo(Version, debug.ReadBuildInfo)
	})
	return info
}

func fromBuildInfo(tag string, read func() (*debug.BuildInfo, bool)) GitInfo {
	gi := GitInfo{Tag: tag, Commit: "unknown"}

	bi, ok := read()
	if !ok {
		return gi
	}
	gi.GoVersion = bi.GoVersion
	if gi.Tag == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		gi.Tag = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			gi.Commit = s.Value
		case "vcs.time":
			gi.Time = s.Value
		case "vcs.modified":
			gi.Dirty = s.Value == "true"
		}
	}
	return gi
}
