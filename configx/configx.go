// Package configx provides layered tool settings: struct defaults, then
// environment variables, then explicit overrides.
//
// Overview:
//   - Responsibility: Merge settings sources deterministically and bind them into a validated struct
//   - Key Types: Loader, Options, Metadata (which source set each key)
//   - Concurrency Model: A Loader may be reused; each Load builds a fresh koanf instance
//   - Error Semantics: Load returns errors for source, decode and validation failures
//   - Performance Notes: One pass per source; intended for process start-up
//
// Usage:
//
//	loader := configx.NewLoader(configx.Options{EnvPrefix: "BOOTFORGE_"})
//	var s Settings
//	meta, err := loader.Load(DefaultSettings(), &s, map[string]any{"workers": 8})
package configx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Tag is the struct tag that names settings keys.
const Tag = "koanf"

const delimiter = "."

// SourceType identifies where a settings value came from.
type SourceType string

const (
	SourceDefault  SourceType = "default"
	SourceEnv      SourceType = "env"
	SourceOverride SourceType = "override"
)

// Metadata records the winning source of every key.
type Metadata struct {
	Sources map[string]SourceType
}

// Keys returns the known keys in ascending order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m.Sources))
	for k := range m.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options holds configuration for the loader.
type Options struct {
	EnvPrefix string              // Only variables with this prefix are read, e.g. "BOOTFORGE_"
	Validator *validator.Validate // Validator for the bound struct (default: NewValidator())
}

// Loader merges defaults, environment and overrides into a struct.
type Loader struct {
	opts Options
}

// NewLoader creates a settings loader.
func NewLoader(opts Options) *Loader {
	if opts.Validator == nil {
		opts.Validator = NewValidator(WithFieldNamesFrom(Tag))
	}
	return &Loader{opts: opts}
}

// Load binds settings into target.
//
// Parameters:
//   - defaults: Struct value carrying koanf tags and default values
//   - target: Pointer to a struct of the same shape
//   - overrides: Keys set explicitly (typically from command-line flags); nil for none
//
// Returns:
//   - Metadata: Source of every key
//   - error: Source, decode or validation error
//
// Concurrency:
//   - Safe to call concurrently; no shared mutable state
func (l *Loader) Load(defaults, target any, overrides map[string]any) (Metadata, error) {
	k := koanf.New(delimiter)
	meta := Metadata{Sources: map[string]SourceType{}}

	if err := k.Load(structs.Provider(defaults, Tag), nil); err != nil {
		return meta, fmt.Errorf("failed to load defaults: %w", err)
	}
	track(k, meta, nil, SourceDefault)

	if l.opts.EnvPrefix != "" {
		before := k.All()
		prefix := l.opts.EnvPrefix
		err := k.Load(env.Provider(delimiter, env.Opt{
			Prefix: prefix,
			TransformFunc: func(key, value string) (string, any) {
				return strings.ToLower(strings.TrimPrefix(key, prefix)), value
			},
		}), nil)
		if err != nil {
			return meta, fmt.Errorf("failed to load environment variables: %w", err)
		}
		track(k, meta, before, SourceEnv)
	}

	overrideKeys := make([]string, 0, len(overrides))
	for key := range overrides {
		overrideKeys = append(overrideKeys, key)
	}
	sort.Strings(overrideKeys)
	for _, key := range overrideKeys {
		if err := k.Set(key, overrides[key]); err != nil {
			return meta, fmt.Errorf("failed to set override %s: %w", key, err)
		}
		meta.Sources[key] = SourceOverride
	}

	if err := k.UnmarshalWithConf("", target, koanf.UnmarshalConf{
		Tag: Tag,
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           target,
			TagName:          Tag,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return meta, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := ValidateStruct(l.opts.Validator, target); err != nil {
		return meta, err
	}
	return meta, nil
}

// track marks keys that are new or changed since before.
func track(k *koanf.Koanf, meta Metadata, before map[string]any, src SourceType) {
	for _, key := range k.Keys() {
		old, existed := before[key]
		if before == nil || !existed || fmt.Sprint(old) != fmt.Sprint(k.Get(key)) {
			meta.Sources[key] = src
		}
	}
}
