package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionStrings(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })

	if got := GetVersionString(); !strings.HasPrefix(got, "bootforge version v9.9.9 (commit ") {
		t.Errorf("GetVersionString() = %q", got)
	}

	full := GetFullVersionInfo()
	for _, want := range []string{"v9.9.9", TemplateSetVersion, runtime.Version()} {
		if !strings.Contains(full, want) {
			t.Errorf("GetFullVersionInfo() missing %q:\n%s", want, full)
		}
	}

	if i := Get(); i.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", i.Platform)
	}
}
