package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Dir returns the directory holding daemon runtime state. XDG_RUNTIME_DIR
// wins when set; otherwise /run/user/<uid> when it exists, else a private
// directory under /tmp is created.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := filepath.Join("/run/user", strconv.Itoa(uid)); isDir(dir) {
		return dir, nil
	}

	dir := fmt.Sprintf("/tmp/ultratile-runtime-%d", uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ultratile.sock"), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
