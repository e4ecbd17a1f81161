// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"os"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/ifcp6/msp2ifc/internal/infra/config"
	"github.com/ifcp6/msp2ifc/internal/infra/ifc"
	"github.com/ifcp6/msp2ifc/internal/infra/ifcfile"
	"github.com/ifcp6/msp2ifc/internal/infra/logging"
	"github.com/ifcp6/msp2ifc/internal/infra/mspdi"
	"github.com/ifcp6/msp2ifc/internal/infra/watch"
	"github.com/ifcp6/msp2ifc/internal/usecase"
	"github.com/spf13/afero"
)

// Config holds the application paths.
type Config struct {
	WorkDir         string // Working directory
	LocalConfigPath string // Path to the local config file (or --config)
	GlobalConfigDir string // Path to global config directory (e.g., ~/.config/msp2ifc)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Reader        domain.ScheduleReader
	Models        domain.ModelFactory
	Writer        domain.ModelWriter
	Watcher       domain.FileWatcher
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Logger        domain.Logger

	// Infrastructure
	Fs     afero.Fs
	Stderr io.Writer
	closer io.Closer

	// Configuration
	Config Config
}

// New creates a new Container rooted at dir using the OS filesystem.
func New(dir string) *Container {
	cfg := Config{
		WorkDir:         dir,
		LocalConfigPath: domain.LocalConfigPath(dir),
		GlobalConfigDir: config.DefaultGlobalConfigDir(),
	}
	return NewWithDeps(cfg, afero.NewOsFs(), domain.RealClock{}, os.Stderr)
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, fs afero.Fs, clock domain.Clock, stderr io.Writer) *Container {
	c := &Container{
		Fs:     fs,
		Clock:  clock,
		Stderr: stderr,
		Config: cfg,
		Models: ifc.Factory{},
		Reader: mspdi.NewReader(fs),
		Writer: ifcfile.NewWriter(fs),
	}
	c.bindConfig()
	c.setLogger(logging.New(stderr, fs, "", logging.ParseLevel("info")))
	return c
}

// ConfigureOptions carries command-line overrides applied before a command runs.
type ConfigureOptions struct {
	ConfigPath string // Overrides the local config file path
	LogLevel   string // Overrides [log].level
}

// Configure applies command-line overrides, loads the configuration and rebuilds the
// logger from it. The loaded configuration is returned so callers can report warnings.
func (c *Container) Configure(opts ConfigureOptions) (*domain.Config, error) {
	if opts.ConfigPath != "" {
		c.Config.LocalConfigPath = opts.ConfigPath
		c.bindConfig()
	}

	cfg, err := c.ConfigLoader.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	_ = c.Close()
	c.setLogger(logging.New(c.Stderr, c.Fs, cfg.Log.File, logging.ParseLevel(level)))
	return cfg, nil
}

// Close releases the log file, if any.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

func (c *Container) bindConfig() {
	c.ConfigLoader = config.NewLoaderWithGlobalDir(c.Fs, c.Config.LocalConfigPath, c.Config.GlobalConfigDir)
	c.ConfigManager = config.NewManagerWithGlobalDir(c.Fs, c.Config.LocalConfigPath, c.Config.GlobalConfigDir)
}

func (c *Container) setLogger(l *logging.Logger) {
	c.Logger = l
	c.closer = l
	c.Watcher = watch.New(l, watch.DefaultDebounce)
}

// UseCase factory methods

// ConvertFileUseCase returns a new ConvertFile use case.
func (c *Container) ConvertFileUseCase() *usecase.ConvertFile {
	return usecase.NewConvertFile(c.Reader, c.Models, c.Writer, c.Watcher, c.ConfigLoader, c.Clock, c.Logger)
}

// InspectScheduleUseCase returns a new InspectSchedule use case.
func (c *Container) InspectScheduleUseCase() *usecase.InspectSchedule {
	return usecase.NewInspectSchedule(c.Reader)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
