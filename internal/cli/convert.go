package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ifcp6/msp2ifc/internal/app"
	"github.com/ifcp6/msp2ifc/internal/usecase"
	"github.com/spf13/cobra"
)

// newConvertCommand creates the convert command.
func newConvertCommand(c *app.Container) *cobra.Command {
	var opts struct {
		output string
		dryRun bool
		watch  bool
		stats  bool
	}

	cmd := &cobra.Command{
		Use:     "convert <schedule.xml>",
		Short:   "Convert a schedule to an IFC file",
		GroupID: groupConvert,
		Long: `Convert a Microsoft Project XML schedule to an IFC4 STEP file.

The output defaults to the input path with an .ifc extension.
With --watch, the file is converted again after every change until
interrupted. A failed reconversion is logged and watching continues.

Examples:
  # Convert next to the input
  msp2ifc convert schedule.xml

  # Choose the output file
  msp2ifc convert schedule.xml -o model/schedule.ifc

  # Check what would be emitted without writing
  msp2ifc convert schedule.xml --dry-run --stats

  # Reconvert on every save
  msp2ifc convert schedule.xml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.watch {
				var stop func()
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
			}

			w := cmd.OutOrStdout()
			uc := c.ConvertFileUseCase()
			out, err := uc.Execute(ctx, usecase.ConvertFileInput{
				InputPath:  args[0],
				OutputPath: opts.output,
				DryRun:     opts.dryRun,
				Watch:      opts.watch,
				OnWatching: func(out *usecase.ConvertFileOutput) {
					printConvertSummary(w, out, opts.stats)
					_, _ = fmt.Fprintln(w, Styles.Muted.Render("Watching for changes (Ctrl+C to stop)"))
				},
				OnRerun: func(out *usecase.ConvertFileOutput) {
					printConvertSummary(w, out, opts.stats)
				},
			})
			if err != nil {
				return err
			}

			if !opts.watch {
				printConvertSummary(w, out, opts.stats)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output IFC file (default: input with .ifc extension)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Build the model without writing the file")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Convert again whenever the input changes")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print emitted entity counts")

	return cmd
}

// printConvertSummary prints what one conversion produced.
func printConvertSummary(w io.Writer, out *usecase.ConvertFileOutput, stats bool) {
	if out.DryRun {
		_, _ = fmt.Fprintf(w, "%s %q (dry run, %s not written)\n",
			Styles.Warning.Render("Converted"), out.ScheduleName, out.OutputPath)
	} else {
		_, _ = fmt.Fprintf(w, "%s %q to %s\n",
			Styles.Success.Render("Converted"), out.ScheduleName, out.OutputPath)
	}

	imp := out.Import
	if imp != nil {
		groups := 0
		for _, cal := range imp.Calendars {
			groups += len(cal.Groups)
		}
		printField(w, "Tasks", fmt.Sprintf("%d", imp.Tasks))
		printField(w, "Calendars", fmt.Sprintf("%d (%d work times, %d exceptions)",
			len(imp.Calendars), groups, imp.Exceptions))
		printField(w, "Assignments", fmt.Sprintf("%d", imp.Assignments))
		sequences := fmt.Sprintf("%d", imp.Sequences)
		if imp.SkippedSequences > 0 {
			sequences += Styles.Warning.Render(fmt.Sprintf(" (%d skipped)", imp.SkippedSequences))
		}
		printField(w, "Sequences", sequences)
	}

	if !stats || len(out.Stats) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, Styles.Heading.Render("Entities"))
	names := make([]string, 0, len(out.Stats))
	for name := range out.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printField(w, name, fmt.Sprintf("%d", out.Stats[name]))
	}
}

func printField(w io.Writer, label, value string) {
	_, _ = fmt.Fprintf(w, "  %s %s\n", Styles.Label.Render(fmt.Sprintf("%-22s", label+":")), value)
}
