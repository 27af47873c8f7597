package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	for _, want := range []string{"gemchat " + Version, CommitSHA, BuildTime, runtime.Version()} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() = %q, missing %q", info, want)
		}
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}

func TestGet(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	b := Get()
	if b.Version != "v1.2.3" {
		t.Errorf("Get().Version = %q, want v1.2.3", b.Version)
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; b.Platform != want {
		t.Errorf("Get().Platform = %q, want %q", b.Platform, want)
	}
}
