package testingx

import (
	"fmt"
	"sync"
	"testing"

	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/identity"
)

func TestNewMockLogger(t *testing.T) {
	logger := NewMockLogger(t)
	if logger == nil {
		t.Fatal("NewMockLogger returned nil")
	}
	if len(logger.Entries()) != 0 {
		t.Errorf("expected no entries, got %d", len(logger.Entries()))
	}
}

func TestMockLogger_Levels(t *testing.T) {
	logger := NewMockLogger(t)
	cause := errors.New(errors.CodeInternal, "boom")

	logger.Debug("d", "k", 1)
	logger.Info("i")
	logger.Warn("w")
	logger.Error(cause, "e")

	entries := logger.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	levels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, e := range entries {
		if e.Level != levels[i] {
			t.Errorf("entry %d level = %s, want %s", i, e.Level, levels[i])
		}
	}
	if entries[0].Fields[1] != 1 {
		t.Errorf("expected field value 1, got %v", entries[0].Fields)
	}
	if entries[3].Error != cause {
		t.Errorf("expected error to be recorded")
	}
}

func TestMockLogger_With(t *testing.T) {
	logger := NewMockLogger(t)
	child := logger.With("run_id", "r-1")
	child.Info("planned", "files", 3)

	entries := logger.Entries()
	if len(entries) != 1 {
		t.Fatalf("child entries should reach the parent, got %d", len(entries))
	}
	want := []any{"run_id", "r-1", "files", 3}
	if fmt.Sprint(entries[0].Fields) != fmt.Sprint(want) {
		t.Errorf("fields = %v, want %v", entries[0].Fields, want)
	}
}

func TestMockLogger_AssertLoggedAndCount(t *testing.T) {
	logger := NewMockLogger(t)
	logger.Info("generated")
	logger.Info("generated")
	logger.AssertLogged("INFO", "generated")

	if got := logger.Count("INFO", "generated"); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := len(logger.Entries()); got != 2 {
		t.Errorf("Entries() = %d, want 2", got)
	}
}

func TestMockLogger_Concurrency(t *testing.T) {
	logger := NewMockLogger(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				logger.Info("msg", "goroutine", id)
			}
		}(i)
	}
	wg.Wait()

	if got := len(logger.Entries()); got != 100 {
		t.Errorf("expected 100 entries, got %d", got)
	}
}

func TestNewRunContext(t *testing.T) {
	ctx := NewRunContext(t, "shop")
	run, ok := identity.RunFrom(ctx)
	if !ok {
		t.Fatal("expected run in context")
	}
	if run.Project != "shop" || run.RunID == "" {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestAssertError(t *testing.T) {
	err := errors.Wrap(errors.CodeFailedPrecondition, "plan", fmt.Errorf("no filler"))
	AssertError(t, err, errors.CodeFailedPrecondition)
	AssertNoError(t, nil)
}

func TestContentAssertions(t *testing.T) {
	content := "package a;\n@Api\nclass A {}\n"
	AssertContainsAll(t, content, "package a;", "@Api")
	AssertContainsNone(t, content, "@Cacheable")

	AssertLineSubsequence(t, "package a;\nclass A {}\n", content)
	AssertLineSubsequence(t, "", content)
}
