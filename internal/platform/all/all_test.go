package all

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mbrock/venvrun/internal/platform"
)

func TestOpen_RegisteredKinds(t *testing.T) {
	tests := []struct {
		kind    platform.Kind
		binName string
	}{
		{platform.KindPosix, "bin"},
		{platform.KindWindows, "Scripts"},
	}
	for _, tt := range tests {
		p, err := platform.Open(tt.kind)
		if err != nil {
			t.Fatalf("Open(%s): %v", tt.kind, err)
		}
		if p.Kind() != tt.kind {
			t.Errorf("Open(%s) returned kind %s", tt.kind, p.Kind())
		}
		if got := p.BinDir("env"); got != filepath.Join("env", tt.binName) {
			t.Errorf("Open(%s).BinDir: got %q", tt.kind, got)
		}
	}
}

func TestOpen_Unknown(t *testing.T) {
	if _, err := platform.Open("plan9"); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestDefault_MatchesGOOS(t *testing.T) {
	p, err := platform.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	want := platform.KindPosix
	if runtime.GOOS == "windows" {
		want = platform.KindWindows
	}
	if p.Kind() != want {
		t.Fatalf("expected %s, got %s", want, p.Kind())
	}
}

func TestKinds(t *testing.T) {
	kinds := platform.Kinds()
	if len(kinds) != 2 || kinds[0] != platform.KindPosix || kinds[1] != platform.KindWindows {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}
