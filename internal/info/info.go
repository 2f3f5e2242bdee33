// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package info holds application version information.
package info

import "runtime"

var (
	// AppName is the name of the application.
	AppName = "greeter"
	// Version is dynamically set by the ci or overridden by the Makefile with
	// -ldflags "-X github.com/mia-platform/greeter/internal/info.Version=...".
	Version = "DEV"
	// BuildDate is dynamically set at build time by the cli or overridden in the Makefile.
	BuildDate = "" // YYYY-MM-DD
)

// VersionString formats the version metadata for display.
func VersionString(version, buildDate string) string {
	outputString := version
	if buildDate != "" {
		outputString += " (" + buildDate + ")"
	}

	return outputString + ", Go Version: " + runtime.Version()
}
