// Package cli provides the command-line interface for msp2ifc.
package cli

import (
	"fmt"
	"slices"

	"github.com/ifcp6/msp2ifc/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupConvert = "convert"
	groupSetup   = "setup"
)

// tolerantConfig marks commands that must run even when the config files are broken.
const tolerantConfig = "tolerant-config"

var logLevels = []string{"debug", "info", "warn", "error"}

// NewRootCommand creates the root command for msp2ifc.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string
	var logLevel string

	root := &cobra.Command{
		Use:   "msp2ifc",
		Short: "Convert Microsoft Project XML schedules to IFC4 work schedules",
		Long: `msp2ifc reads a Microsoft Project XML (MSPDI) export and writes an IFC4
STEP file holding the equivalent work schedule: tasks with their times,
work calendars grouped by identical working hours, calendar exceptions,
task-to-calendar assignments and predecessor sequences.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			if logLevel != "" && !slices.Contains(logLevels, logLevel) {
				return fmt.Errorf("invalid --log-level %q (allowed: debug, info, warn, error)", logLevel)
			}

			cfg, err := c.Configure(app.ConfigureOptions{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})
			if err != nil {
				if cmd.Annotations[tolerantConfig] != "" {
					return nil
				}
				return err
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c != nil {
				_ = c.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Use this config file instead of ./msp2ifc.toml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")

	root.AddGroup(
		&cobra.Group{ID: groupConvert, Title: "Conversion Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	root.AddCommand(
		newConvertCommand(c),
		newInspectCommand(c),
		newConfigCommand(c),
	)

	return root
}
