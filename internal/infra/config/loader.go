// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	fs            afero.Fs
	localPath     string // Path to the local config file (e.g., ./msp2ifc.toml)
	globalConfDir string // Path to global config directory (e.g., ~/.config/msp2ifc)
}

// NewLoader creates a new Loader reading localPath and the default global config.
func NewLoader(fs afero.Fs, localPath string) *Loader {
	return &Loader{
		fs:            fs,
		localPath:     localPath,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(fs afero.Fs, localPath, globalConfDir string) *Loader {
	return &Loader{
		fs:            fs,
		localPath:     localPath,
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration (defaults <- global <- local).
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	// Merge: default <- global <- local (later takes precedence)
	if !opts.IgnoreGlobal && l.globalConfDir != "" {
		if err := l.applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if !opts.IgnoreLocal && l.localPath != "" {
		if err := l.applyFile(cfg, l.localPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays the values of one file onto cfg. A missing file is not an error.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	warnings := applyRaw(cfg, raw)
	for i, w := range warnings {
		warnings[i] = fmt.Sprintf("%s: %s", path, w)
	}
	cfg.Warnings = append(cfg.Warnings, warnings...)
	return nil
}

// applyRaw sets the known keys of raw on cfg and returns sorted warnings for the rest.
func applyRaw(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string

	section := func(name string, value any, apply func(k string, v any) bool) {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[%s] is not a table", name))
			return
		}
		for k, v := range m {
			if !apply(k, v) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", name, k))
			}
		}
	}
	str := func(name, key string, v any, dst *string) {
		if s, ok := v.(string); ok {
			*dst = s
			return
		}
		warnings = append(warnings, fmt.Sprintf("[%s].%s must be a string", name, key))
	}
	flag := func(name, key string, v any, dst *bool) {
		if b, ok := v.(bool); ok {
			*dst = b
			return
		}
		warnings = append(warnings, fmt.Sprintf("[%s].%s must be a boolean", name, key))
	}

	for name, value := range raw {
		switch name {
		case "log":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "level":
					str(name, k, v, &cfg.Log.Level)
				case "file":
					str(name, k, v, &cfg.Log.File)
				default:
					return false
				}
				return true
			})
		case "schedule":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "work_plan":
					str(name, k, v, &cfg.Schedule.WorkPlan)
				case "purpose":
					str(name, k, v, &cfg.Schedule.Purpose)
				default:
					return false
				}
				return true
			})
		case "tasks":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "nest_by_outline":
					flag(name, k, v, &cfg.Tasks.NestByOutline)
				case "assign_calendars":
					flag(name, k, v, &cfg.Tasks.AssignCalendars)
				default:
					return false
				}
				return true
			})
		case "sequence":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "apply_link_type":
					flag(name, k, v, &cfg.Sequence.ApplyLinkType)
				case "on_unresolved":
					var s string
					str(name, k, v, &s)
					if s != "" {
						cfg.Sequence.OnUnresolved = domain.UnresolvedPolicy(s)
					}
				default:
					return false
				}
				return true
			})
		case "output":
			section(name, value, func(k string, v any) bool {
				switch k {
				case "application":
					str(name, k, v, &cfg.Output.Application)
				case "author":
					str(name, k, v, &cfg.Output.Author)
				case "organization":
					str(name, k, v, &cfg.Output.Organization)
				default:
					return false
				}
				return true
			})
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", name))
		}
	}

	sort.Strings(warnings)
	return warnings
}
