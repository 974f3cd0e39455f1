// SPDX-FileCopyrightText:  © 2025 Siemens Healthineers AG
// SPDX-License-Identifier:   MIT

package version

import (
	"runtime"
	"runtime/debug"

	"github.com/samber/lo"
)

// Set by link flags, e.g. -X github.com/lago-morph/ai-k8s-sub000/internal/version.version=v1.2.0
var (
	version   = ""
	commit    = ""
	buildDate = ""
)

const (
	develVersion      = "v0.0.0-dev"
	develModuleMarker = "(devel)"
	shortCommitLength = 7

	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
	settingModified = "vcs.modified"
)

// Info identifies the mk8 build, e.g. in reports about a kubeconfig.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func (i Info) String() string {
	return i.Version
}

// Get combines the link flags with the VCS stamp the Go toolchain embeds into the binary.
// Link flags take precedence.
func Get() Info {
	return fromBuild(debug.ReadBuildInfo())
}

func fromBuild(build *debug.BuildInfo, ok bool) Info {
	info := Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if ok {
		settings := lo.SliceToMap(build.Settings, func(s debug.BuildSetting) (string, string) {
			return s.Key, s.Value
		})
		if info.Commit == "" {
			info.Commit = settings[settingRevision]
		}
		if info.BuildDate == "" {
			info.BuildDate = settings[settingTime]
		}
		info.Modified = settings[settingModified] == "true"

		// set by 'go install module@version'
		if info.Version == "" && build.Main.Version != develModuleMarker {
			info.Version = build.Main.Version
		}
	}

	if info.Version == "" {
		info.Version = develVersion
		if len(info.Commit) >= shortCommitLength {
			info.Version += "+" + info.Commit[:shortCommitLength]
		}
		if info.Modified {
			info.Version += ".dirty"
		}
	}
	return info
}
