package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ifcp6/msp2ifc/internal/app"
	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/ifcp6/msp2ifc/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the inspect command.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// newInspectCommand creates the inspect command.
func newInspectCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "inspect <schedule.xml>",
		Short:   "Show the parsed schedule and work-week groups",
		GroupID: groupConvert,
		Long: `Parse a Microsoft Project XML schedule and print its tasks, calendars
and the work-time groups each calendar would be emitted as. Nothing is written.

Formats: text (default), yaml, json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatYAML, formatJSON:
			default:
				return fmt.Errorf("%w: %q (allowed: text, yaml, json)", domain.ErrUnsupportedOutputFormat, format)
			}

			uc := c.InspectScheduleUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InspectScheduleInput{
				InputPath: args[0],
			})
			if err != nil {
				return err
			}

			view := newScheduleView(out)
			w := cmd.OutOrStdout()
			switch format {
			case formatYAML:
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(view); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			case formatJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			default:
				printScheduleView(w, view)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, yaml, json)")

	return cmd
}

// scheduleView is the serializable form of an inspected schedule.
type scheduleView struct {
	Name      string         `yaml:"name" json:"name"`
	GUID      string         `yaml:"guid,omitempty" json:"guid,omitempty"`
	Created   string         `yaml:"created,omitempty" json:"created,omitempty"`
	Tasks     []taskView     `yaml:"tasks" json:"tasks"`
	Calendars []calendarView `yaml:"calendars" json:"calendars"`
}

type taskView struct {
	UID          string `yaml:"uid" json:"uid"`
	Name         string `yaml:"name" json:"name"`
	WBS          string `yaml:"wbs" json:"wbs"`
	Start        string `yaml:"start" json:"start"`
	Finish       string `yaml:"finish" json:"finish"`
	Duration     string `yaml:"duration" json:"duration"`
	Calendar     string `yaml:"calendar" json:"calendar"`
	Predecessor  string `yaml:"predecessor,omitempty" json:"predecessor,omitempty"`
	LinkType     string `yaml:"link_type,omitempty" json:"link_type,omitempty"`
	OutlineLevel int    `yaml:"outline_level" json:"outline_level"`
	Priority     int    `yaml:"priority" json:"priority"`
	Milestone    bool   `yaml:"milestone,omitempty" json:"milestone,omitempty"`
}

type calendarView struct {
	UID        string          `yaml:"uid" json:"uid"`
	Name       string          `yaml:"name" json:"name"`
	WorkTimes  []workTimeView  `yaml:"work_times" json:"work_times"`
	Exceptions []exceptionView `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
}

type workTimeView struct {
	Label        string   `yaml:"label" json:"label"`
	Weekdays     []int    `yaml:"weekdays" json:"weekdays"`
	WorkingTimes []string `yaml:"working_times" json:"working_times"`
}

type exceptionView struct {
	Name         string   `yaml:"name,omitempty" json:"name,omitempty"`
	From         string   `yaml:"from" json:"from"`
	To           string   `yaml:"to" json:"to"`
	WorkingTimes []string `yaml:"working_times,omitempty" json:"working_times,omitempty"`
	Working      bool     `yaml:"working" json:"working"`
}

const (
	viewDateTime = "2006-01-02T15:04:05"
	viewDate     = "2006-01-02"
)

func newScheduleView(out *usecase.InspectScheduleOutput) scheduleView {
	s := out.Schedule
	view := scheduleView{
		Name:      s.Name,
		GUID:      s.GUID,
		Tasks:     make([]taskView, 0, len(s.Tasks)),
		Calendars: make([]calendarView, 0, len(s.Calendars)),
	}
	if !s.Created.IsZero() {
		view.Created = s.Created.Format(viewDateTime)
	}

	for _, t := range s.Tasks {
		tv := taskView{
			UID:          t.UID,
			Name:         t.Name,
			WBS:          t.WBS,
			Start:        t.Start.Format(viewDateTime),
			Finish:       t.Finish.Format(viewDateTime),
			Duration:     formatDuration(t.Duration),
			Calendar:     t.CalendarUID,
			OutlineLevel: t.OutlineLevel,
			Priority:     t.Priority,
			Milestone:    t.IsMilestone(),
		}
		if t.HasPredecessor() {
			tv.Predecessor = t.Predecessor.UID
			if st, err := t.Predecessor.Type.SequenceType(); err == nil {
				tv.LinkType = string(st)
			} else {
				tv.LinkType = string(t.Predecessor.Type)
			}
		}
		view.Tasks = append(view.Tasks, tv)
	}

	for i, cal := range s.Calendars {
		cv := calendarView{
			UID:  cal.UID,
			Name: cal.Name,
		}
		if i < len(out.Calendars) {
			for _, g := range out.Calendars[i].Groups {
				cv.WorkTimes = append(cv.WorkTimes, workTimeView{
					Label:        g.Label,
					Weekdays:     g.Weekdays,
					WorkingTimes: formatWorkingTimes(g.WorkingTimes),
				})
			}
		}
		for _, ex := range cal.Exceptions {
			cv.Exceptions = append(cv.Exceptions, exceptionView{
				Name:         ex.Name,
				From:         ex.From.Format(viewDate),
				To:           ex.To.Format(viewDate),
				WorkingTimes: formatWorkingTimes(ex.WorkingTimes),
				Working:      ex.Working,
			})
		}
		view.Calendars = append(view.Calendars, cv)
	}
	return view
}

func formatWorkingTimes(wts []domain.WorkingTime) []string {
	out := make([]string, 0, len(wts))
	for _, wt := range wts {
		out = append(out, wt.From.String()+"-"+wt.To.String())
	}
	return out
}

// formatDuration renders whole hours as "8h", otherwise time.Duration's form.
func formatDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	return d.String()
}

func printScheduleView(w io.Writer, v scheduleView) {
	_, _ = fmt.Fprintln(w, Styles.Heading.Render(v.Name))
	if v.GUID != "" {
		printField(w, "GUID", v.GUID)
	}
	if v.Created != "" {
		printField(w, "Created", v.Created)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, Styles.Heading.Render(fmt.Sprintf("Tasks (%d)", len(v.Tasks))))
	for _, t := range v.Tasks {
		indent := strings.Repeat("  ", max(t.OutlineLevel-1, 0))
		line := fmt.Sprintf("  %s#%s %s [%s] %s -> %s (%s)",
			indent, t.UID, t.Name, t.WBS, t.Start, t.Finish, t.Duration)
		if t.Milestone {
			line += Styles.Warning.Render(" milestone")
		}
		if t.Predecessor != "" {
			line += Styles.Muted.Render(fmt.Sprintf(" after #%s", t.Predecessor))
		}
		_, _ = fmt.Fprintln(w, line)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, Styles.Heading.Render(fmt.Sprintf("Calendars (%d)", len(v.Calendars))))
	for _, cal := range v.Calendars {
		_, _ = fmt.Fprintf(w, "  #%s %s\n", cal.UID, Styles.Label.Render(cal.Name))
		for _, wt := range cal.WorkTimes {
			times := strings.Join(wt.WorkingTimes, ", ")
			if times == "" {
				times = Styles.Muted.Render("non-working")
			}
			_, _ = fmt.Fprintf(w, "    %s: %s\n", wt.Label, times)
		}
		for _, ex := range cal.Exceptions {
			state := "non-working"
			if ex.Working {
				state = strings.Join(ex.WorkingTimes, ", ")
			}
			_, _ = fmt.Fprintf(w, "    %s %s..%s: %s\n", Styles.Muted.Render("exception"), ex.From, ex.To, state)
		}
	}
}
