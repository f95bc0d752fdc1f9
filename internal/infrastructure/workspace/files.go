package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

// Files implements ports.Workspace on the local filesystem. Relative paths
// resolve against Root.
type Files struct {
	Root string
}

// NewFiles creates a workspace rooted at dir (the working directory when empty).
func NewFiles(dir string) *Files {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Files{Root: dir}
}

// ReadFile returns the file content and whether it exists.
func (f *Files) ReadFile(path string) (string, bool, error) {
	data, err := os.ReadFile(f.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// WriteFile creates missing parents and keeps the mode of an existing file.
func (f *Files) WriteFile(path, content string) error {
	target := f.resolve(path)
	mode := fs.FileMode(domain.DefaultFilePermissions)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(target), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), mode)
}

// Backup writes content to <path>.vibe-backup and returns that path.
func (f *Files) Backup(path, content string) (string, error) {
	backup := path + domain.BackupSuffix
	mode := fs.FileMode(domain.DefaultFilePermissions)
	if info, err := os.Stat(f.resolve(path)); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.resolve(backup), []byte(content), mode); err != nil {
		return "", err
	}
	return backup, nil
}

func (f *Files) resolve(path string) string {
	if filepath.IsAbs(path) || f.Root == "" {
		return path
	}
	return filepath.Join(f.Root, path)
}

var _ ports.Workspace = (*Files)(nil)
