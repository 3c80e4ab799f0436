/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides version information for the filing-cabinet CLI.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Version information, set at build time via ldflags
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
	Dirty     bool   `json:"dirty"`
}

// Info returns detailed build information. Values not set through ldflags
// are taken from the VCS stamp the go command embeds, when there is one.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Get(),
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
		Dirty:     GitDirty == "dirty",
	}

	settings := vcsSettings()
	if info.GitCommit == "unknown" && settings["vcs.revision"] != "" {
		info.GitCommit = settings["vcs.revision"]
	}
	if info.BuildTime == "unknown" && settings["vcs.time"] != "" {
		info.BuildTime = settings["vcs.time"]
	}
	if GitDirty == "" && settings["vcs.modified"] == "true" {
		info.Dirty = true
	}
	return info
}

// Get returns the version string for the application.
func Get() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	if GitTag != "unknown" && GitCommit != "unknown" {
		return tagged(GitTag, GitCommit, GitDirty == "dirty")
	}

	return "dev"
}

// tagged joins a tag and commit as tag-abcdef0, unless the tag already ends
// with the commit, as git describe output does.
func tagged(tag, commit string, dirty bool) string {
	v := tag
	if commit != "" && !strings.HasSuffix(tag, short(commit)) {
		v = fmt.Sprintf("%s-%s", tag, short(commit))
	}
	if dirty {
		v += "-dirty"
	}
	return v
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

func vcsSettings() map[string]string {
	settings := make(map[string]string)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			settings[s.Key] = s.Value
		}
	}
	return settings
}
