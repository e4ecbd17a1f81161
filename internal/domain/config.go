package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Log      LogConfig      `toml:"log"`
	Schedule ScheduleConfig `toml:"schedule"`
	Sequence SequenceConfig `toml:"sequence"`
	Output   OutputConfig   `toml:"output"`
	Tasks    TasksConfig    `toml:"tasks"`
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"` // Log level
	File  string `toml:"file,omitempty"`                                                  // Optional log file path
}

// ScheduleConfig holds work schedule settings from [schedule] section.
type ScheduleConfig struct {
	WorkPlan string `toml:"work_plan,omitempty"` // Work plan name; empty = no work plan
	Purpose  string `toml:"purpose,omitempty"`   // Work schedule purpose
}

// TasksConfig holds task emission settings from [tasks] section.
type TasksConfig struct {
	NestByOutline   bool `toml:"nest_by_outline"`  // Nest tasks under their outline parent
	AssignCalendars bool `toml:"assign_calendars"` // Assign tasks to their calendars
}

// SequenceConfig holds sequence relationship settings from [sequence] section.
type SequenceConfig struct {
	OnUnresolved  UnresolvedPolicy `toml:"on_unresolved,omitempty" validate:"omitempty,oneof=abort warn skip"`
	ApplyLinkType bool             `toml:"apply_link_type"` // Map document link types to sequence kinds
}

// OutputConfig holds output file settings from [output] section.
type OutputConfig struct {
	Application  string `toml:"application,omitempty"`
	Author       string `toml:"author,omitempty"`
	Organization string `toml:"organization,omitempty"`
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Tasks: TasksConfig{
			AssignCalendars: true,
		},
		Sequence: SequenceConfig{
			OnUnresolved: UnresolvedAbort,
		},
		Output: OutputConfig{
			Application: AppName,
		},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s: %q is not one of [%s]", e.Namespace(), e.Value(), e.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// RenderConfigTemplate renders the commented config template with cfg's values.
func RenderConfigTemplate(cfg *Config) string {
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return configTemplateContent
	}
	return buf.String()
}
