// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/longkey1/gemchat/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// BuildInfo is the build metadata of the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    CommitSHA,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the version number only
func Short() string {
	return Version
}

// Info returns a multi-line description of the build
func Info() string {
	b := Get()
	return fmt.Sprintf("gemchat %s\nCommit:     %s\nBuild time: %s\nGo version: %s\nPlatform:   %s",
		b.Version, b.Commit, b.BuildTime, b.GoVersion, b.Platform)
}
