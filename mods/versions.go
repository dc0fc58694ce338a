package mods

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// set by -ldflags at build time
var (
	versionString   = ""
	versionGitSHA   = ""
	buildTimestamp  = ""
	goVersionString = ""
)

type Version struct {
	Major  int    `json:"major"`
	Minor  int    `json:"minor"`
	Patch  int    `json:"patch"`
	Pre    string `json:"pre,omitempty"`
	GitSHA string `json:"git"`
}

// GetVersion parses the build version, a zero Version is returned for
// development builds.
func GetVersion() *Version {
	v, err := semver.NewVersion(versionString)
	if err != nil {
		return &Version{GitSHA: versionGitSHA}
	}
	return &Version{
		Major:  int(v.Major()),
		Minor:  int(v.Minor()),
		Patch:  int(v.Patch()),
		Pre:    v.Prerelease(),
		GitSHA: versionGitSHA,
	}
}

func (v *Version) String() string {
	ret := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		ret = ret + "-" + v.Pre
	}
	return ret
}

func DisplayVersion() string {
	if versionString == "" {
		return "DEVEL"
	}
	return strings.ToUpper(versionString)
}

func VersionString() string {
	return fmt.Sprintf("%s (%v %v)", DisplayVersion(), versionGitSHA, buildTimestamp)
}

func BuildCompiler() string {
	return goVersionString
}

func BuildTimestamp() string {
	return buildTimestamp
}
