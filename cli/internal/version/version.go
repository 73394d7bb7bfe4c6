// Package version provides version information for the bootforge CLI tool.
//
// Overview:
//   - Responsibility: CLI version metadata (version, commit, build time, template set)
//   - Key Types: Info
//   - Concurrency Model: Values are set at link time and read-only afterwards
//   - Error Semantics: No errors
//   - Performance Notes: Zero-cost variables
//
// Usage:
//
//	import "go.eggybyte.com/bootforge/cli/internal/version"
//	version.GetVersionString()
package version

import (
	"fmt"
	"runtime"
)

// Version is the CLI version. Set with -ldflags during release builds.
var Version = "v0.1.0-dev"

// Commit is the git commit hash. Set with -ldflags during release builds.
var Commit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// TemplateSetVersion identifies the embedded Spring Boot template set.
// Generated projects carry it so regenerations can be compared.
var TemplateSetVersion = "springboot-2.7/1"

// Info is the machine-readable form of the version data.
type Info struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"buildTime"`
	TemplateSet string `json:"templateSet"`
	GoVersion   string `json:"goVersion"`
	Platform    string `json:"platform"`
}

// Get returns the version data of this binary.
func Get() Info {
	return Info{
		Version:     Version,
		Commit:      Commit,
		BuildTime:   BuildTime,
		TemplateSet: TemplateSetVersion,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionString returns the full version string in the format:
// bootforge version v0.1.0 (commit 4a9b2c1, built 2026-01-31T12:10:00Z)
//
// Concurrency:
//   - Safe for concurrent use
func GetVersionString() string {
	return fmt.Sprintf("bootforge version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// GetFullVersionInfo returns detailed version information including the
// template set.
func GetFullVersionInfo() string {
	i := Get()
	return fmt.Sprintf(`%s
bootforge templates %s
go version %s (%s)`,
		GetVersionString(), i.TemplateSet, i.GoVersion, i.Platform)
}
