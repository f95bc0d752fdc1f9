// Package filesystem resolves the per-user locations vibe reads and writes.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// VibeDirName is the directory under $HOME holding config.json and rule files.
const VibeDirName = ".vibe"

// UserHomeDir returns the current user's home directory, or "." when unknown.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// VibeDir returns ~/.vibe.
func VibeDir() string {
	return filepath.Join(UserHomeDir(), VibeDirName)
}

// ExpandHome replaces a leading "~" or "~/" with the home directory. The
// second result reports whether path was absolute or home-relative.
func ExpandHome(path string) (string, bool) {
	switch {
	case path == "~":
		return UserHomeDir(), true
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:]), true
	case filepath.IsAbs(path):
		return path, true
	default:
		return path, false
	}
}
