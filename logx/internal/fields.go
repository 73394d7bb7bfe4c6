// Package internal provides internal implementation details for logx.
package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Redacted replaces the value of a sensitive field.
const Redacted = "***REDACTED***"

// Options controls field post-processing.
type Options struct {
	PayloadMaxBytes int      // Maximum bytes of a string value (0 = unlimited)
	SensitiveFields []string // Field names to mask, case-insensitive
	Sort            bool     // Sort fields by key
}

type pair struct {
	key   string
	value any
}

// Flatten expands nested two-element []any pairs (as built by core/log.Str
// and friends) into one flat key, value sequence. A trailing key without a
// value is dropped.
func Flatten(kv []any) []any {
	flat := make([]any, 0, len(kv))
	for _, item := range kv {
		if v, ok := item.([]any); ok && len(v) == 2 {
			flat = append(flat, v[0], v[1])
			continue
		}
		flat = append(flat, item)
	}
	if len(flat)%2 != 0 {
		flat = flat[:len(flat)-1]
	}
	return flat
}

// Fields flattens kv, masks sensitive values, truncates long strings and
// optionally sorts by key.
func Fields(kv []any, opts Options) []any {
	flat := Flatten(kv)
	pairs := make([]pair, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		key := fmt.Sprintf("%v", flat[i])
		pairs = append(pairs, pair{key: key, value: FormatValue(key, flat[i+1], opts)})
	}

	if opts.Sort {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	}

	out := make([]any, 0, len(pairs)*2)
	for _, p := range pairs {
		out = append(out, p.key, p.value)
	}
	return out
}

// FormatValue applies masking and the payload limit to one value.
func FormatValue(key string, v any, opts Options) any {
	for _, field := range opts.SensitiveFields {
		if strings.EqualFold(key, field) {
			return Redacted
		}
	}

	s, ok := v.(string)
	if !ok || opts.PayloadMaxBytes <= 0 || len(s) <= opts.PayloadMaxBytes {
		return v
	}
	return fmt.Sprintf("%s...(truncated, %d bytes)", s[:opts.PayloadMaxBytes], len(s))
}
