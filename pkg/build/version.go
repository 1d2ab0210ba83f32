//
// Copyright (c) 2025 Snipper contributors.
//
// All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// This file is part of Snipper.
//
// Snipper is free software: you can redistribute it and/or modify it under the terms of
// the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// Snipper is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR
// PURPOSE.  See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License along with
// snipper.  If not, see <http://www.gnu.org/licenses/>.

// Package build exposes the version of the running binary.
package build

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/snipper-dev/snipper/pkg/build.Describe=..."
var (
	// Describe is the output of `git describe` at build time.
	Describe string

	CommitHash string

	// RawTags holds the build tags separated by commas.
	RawTags string

	GoVersion string

	// PackageVersion is the module version when installed with go install.
	PackageVersion = "devel"
)

// Version returns the release name of the binary.
func Version() string {
	if Describe == "" {
		return PackageVersion
	}
	if commit := shortCommit(); commit != "" {
		return fmt.Sprintf("%s commit=%s", Describe, commit)
	}
	return Describe
}

func shortCommit() string {
	if len(CommitHash) > 8 {
		return CommitHash[:8]
	}
	return CommitHash
}

// Tags returns the build tags compiled into the binary.
func Tags() []string {
	if RawTags == "" {
		return []string{}
	}
	return strings.Split(RawTags, ",")
}

// Info is a one line summary used by the version command.
func Info() string {
	parts := []string{"snipper " + Version()}
	if GoVersion != "" {
		parts = append(parts, GoVersion)
	}
	if tags := Tags(); len(tags) > 0 {
		parts = append(parts, "tags="+strings.Join(tags, ","))
	}
	return strings.Join(parts, " ")
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			CommitHash = setting.Value
		case "-tags":
			RawTags = setting.Value
		}
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		PackageVersion = v
	}
}
