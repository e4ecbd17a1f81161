package domain

import (
	"path/filepath"
	"strings"
)

// AppName is the application name used in file headers and paths.
const AppName = "msp2ifc"

// ConfigFileName is the global configuration file name.
const ConfigFileName = "config.toml"

// LocalConfigFileName is the configuration file name looked up in the working directory.
const LocalConfigFileName = "msp2ifc.toml"

// ModelFileExt is the extension of emitted model files.
const ModelFileExt = ".ifc"

// GlobalConfigDir returns the global configuration directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// LocalConfigPath returns the local configuration file path in dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, LocalConfigFileName)
}

// DefaultOutputPath derives the model path from the input path: plan.xml -> plan.ifc.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ModelFileExt
}
