package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/pkg/filesystem"
	"github.com/doeshing/vibe-go/internal/ports"
)

// BackupSuffix is appended to the config path when the previous file is kept.
const BackupSuffix = ".bak"

// FileLoader loads JSON configuration from ~/.vibe/config.json (overridable via VIBE_CONFIG).
type FileLoader struct {
	overridePath string
	logger       ports.Logger
}

// NewFileLoader builds a new loader. An empty path selects the default location.
func NewFileLoader(path string, logger ports.Logger) *FileLoader {
	return &FileLoader{overridePath: path, logger: logger}
}

// Load implements ports.ConfigProvider. A missing, unreadable or malformed
// file yields the defaults; the latter two are logged. Nothing is written.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.warn("ignoring unreadable config", err)
		}
		return domain.Config{}.WithDefaults(), nil
	}
	return cfg.WithDefaults(), nil
}

// Raw returns the file content as stored, without defaults, and whether the
// file exists and parses.
func (l *FileLoader) Raw() (domain.Config, error) {
	return l.read()
}

func (l *FileLoader) read() (domain.Config, error) {
	data, err := os.ReadFile(l.resolvePath())
	if err != nil {
		return domain.Config{}, err
	}
	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", l.resolvePath(), err)
	}
	return cfg, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	return filepath.Join(filesystem.VibeDir(), "config.json")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the config as indented JSON, keeping the previous file as a backup.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := l.Backup(); err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
	}
	return os.WriteFile(path, append(raw, '\n'), domain.SecureFilePermissions)
}

// Reset overwrites the config with defaults and returns the default snapshot.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg := DefaultConfig()
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Backup copies the current config file to config.json.bak.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := path + BackupSuffix
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func (l *FileLoader) warn(msg string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Warn(msg, map[string]interface{}{"path": l.resolvePath(), "error": err.Error()})
}

func expandPath(path string) string {
	if expanded, ok := filesystem.ExpandHome(path); ok {
		return expanded
	}
	return filepath.Clean(path)
}

// DefaultConfig exposes the bootstrap configuration.
func DefaultConfig() domain.Config {
	return domain.Config{}.WithDefaults()
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
