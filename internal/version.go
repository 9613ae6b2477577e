// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

import (
	"fmt"
	"strings"

	"github.com/blang/semver/v4"
)

// Version is the version string reported by the version command and embedded
// in the user agent. It is stamped by release builds using ldflags:
//
//	go build -ldflags="-X 'github.com/azure/dotenv-azure/internal.Version=0.3.0 (commit abc1234)'"
var Version = "0.0.0-dev.0 (commit 0000000000000000000000000000000000000000)"

// VersionSpec is the structured form of Version.
type VersionSpec struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// GetVersionSpec parses Version into its parts. Unparsable values come back
// as "unknown".
func GetVersionSpec() VersionSpec {
	version, commit, err := parseVersion(Version)
	if err != nil {
		return VersionSpec{Version: "unknown", Commit: "unknown"}
	}

	return VersionSpec{Version: version.String(), Commit: commit}
}

// GetVersionNumber returns the semantic version part of Version, or "unknown"
// when Version does not start with a valid semantic version.
func GetVersionNumber() string {
	version, _, err := parseVersion(Version)
	if err != nil {
		return "unknown"
	}

	return version.String()
}

func parseVersion(raw string) (semver.Version, string, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return semver.Version{}, "", fmt.Errorf("empty version string")
	}

	version, err := semver.Parse(fields[0])
	if err != nil {
		return semver.Version{}, "", fmt.Errorf("parsing version %q: %w", fields[0], err)
	}

	commit := ""
	if len(fields) >= 3 && fields[1] == "(commit" {
		commit = strings.TrimSuffix(fields[2], ")")
	}

	return version, commit, nil
}
