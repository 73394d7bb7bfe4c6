// Package configx provides layered settings loading and struct validation
// for bootforge.
//
// # Overview
//
// configx merges settings from struct defaults, prefixed environment
// variables and explicit overrides (command-line flags), in that order of
// precedence, using koanf. The merged map is decoded into a struct with
// weak typing so that environment strings become ints, bools, durations and
// slices. The result is validated with go-playground/validator.
//
// # Features
//
//   - Last-wins merge: defaults, then environment, then overrides
//   - Per-key source tracking (Metadata)
//   - Validator construction with tag-named field paths and custom rules
//
// # Usage
//
//	loader := configx.NewLoader(configx.Options{EnvPrefix: "BOOTFORGE_"})
//	var s Settings
//	meta, err := loader.Load(DefaultSettings(), &s, overrides)
//	if err != nil { return err }
//
// # Layer
//
// configx depends on no other bootforge package.
package configx
