// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"path/filepath"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/spf13/afero"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	fs            afero.Fs
	localPath     string // Path to the local config file
	globalConfDir string // Path to global config directory (e.g., ~/.config/msp2ifc)
}

// NewManager creates a new Manager.
func NewManager(fs afero.Fs, localPath string) *Manager {
	return &Manager{
		fs:            fs,
		localPath:     localPath,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(fs afero.Fs, localPath, globalConfDir string) *Manager {
	return &Manager{
		fs:            fs,
		localPath:     localPath,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about the local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(m.localPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{
			Path:   "",
			Exists: false,
		}
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return m.getConfigInfo(path)
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig creates the local config file from the template.
func (m *Manager) InitLocalConfig(cfg *domain.Config) error {
	if dir := filepath.Dir(m.localPath); dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return m.initConfig(m.localPath, cfg)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)

	// Create parent directory if it doesn't exist
	if err := m.fs.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}

	return m.initConfig(path, cfg)
}

// initConfig creates a config file with default template.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	// Check if file already exists
	exists, err := afero.Exists(m.fs, path)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrConfigExists
	}

	content := domain.RenderConfigTemplate(cfg)

	return afero.WriteFile(m.fs, path, []byte(content), 0o600)
}
