package log

import (
	"errors"
	"testing"
	"time"
)

func TestPairs(t *testing.T) {
	tests := []struct {
		name  string
		pair  any
		key   string
		value any
	}{
		{"Str", Str("path", "pom.xml"), "path", "pom.xml"},
		{"Int", Int("files", 14), "files", 14},
		{"Bool", Bool("cached", true), "cached", true},
		{"Dur", Dur("elapsed", 5*time.Millisecond), "elapsed", 5 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slice, ok := tt.pair.([]any)
			if !ok {
				t.Fatalf("%s should return []any", tt.name)
			}
			if len(slice) != 2 {
				t.Fatalf("%s should return 2 elements, got %d", tt.name, len(slice))
			}
			if slice[0] != tt.key || slice[1] != tt.value {
				t.Fatalf("%s = %v, want [%v %v]", tt.name, slice, tt.key, tt.value)
			}
		})
	}
}

func TestNop(t *testing.T) {
	var l Logger = Nop()
	l = l.With("run_id", "abc")
	l.Debug("debug")
	l.Info("info", Str("k", "v"))
	l.Warn("warn")
	l.Error(errors.New("boom"), "error")
	if l == nil {
		t.Fatal("Nop().With should return a logger")
	}
}
