package runtimepath

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDirPrefersXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDirFallsBackWithoutXDG(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	uid := os.Getuid()
	switch got {
	case fmt.Sprintf("/run/user/%d", uid):
	case fmt.Sprintf("/tmp/ultratile-runtime-%d", uid):
		if !isDir(got) {
			t.Fatalf("Dir() = %q but the directory was not created", got)
		}
	default:
		t.Fatalf("Dir() = %q, not a known fallback", got)
	}
}

func TestSocketPathUsesRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasPrefix(socket, td) || !strings.HasSuffix(socket, "ultratile.sock") {
		t.Fatalf("SocketPath() = %q, want %s/ultratile.sock", socket, td)
	}
}
