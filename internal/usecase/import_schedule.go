// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// ImportOptions controls how a schedule is emitted.
// Fields are ordered to minimize memory padding.
type ImportOptions struct {
	WorkPlan        string                  // Work plan name; empty = no work plan
	Purpose         string                  // Work schedule purpose
	OnUnresolved    domain.UnresolvedPolicy // Handling of predecessor UIDs that name no task
	NestByOutline   bool                    // Nest tasks under their outline parent
	AssignCalendars bool                    // Assign tasks to their work calendars
	ApplyLinkType   bool                    // Map link types to sequence kinds
}

// NewImportOptions derives import options from the configuration.
func NewImportOptions(cfg *domain.Config) ImportOptions {
	return ImportOptions{
		WorkPlan:        cfg.Schedule.WorkPlan,
		Purpose:         cfg.Schedule.Purpose,
		OnUnresolved:    cfg.Sequence.OnUnresolved,
		NestByOutline:   cfg.Tasks.NestByOutline,
		AssignCalendars: cfg.Tasks.AssignCalendars,
		ApplyLinkType:   cfg.Sequence.ApplyLinkType,
	}
}

// ImportScheduleInput contains the input for the ImportSchedule use case.
type ImportScheduleInput struct {
	Schedule *domain.Schedule      // Parsed schedule; handles are written back into it
	Author   domain.ScheduleAuthor // Open model session receiving the objects
	Options  ImportOptions
}

// CalendarGroups lists the work-week groups emitted for one calendar.
type CalendarGroups struct {
	Calendar string
	Groups   []domain.WorkWeekGroup
}

// ImportScheduleOutput contains the result of the ImportSchedule use case.
// Fields are ordered to minimize memory padding.
type ImportScheduleOutput struct {
	Calendars        []CalendarGroups // Groups per calendar, in document order
	WorkSchedule     domain.EntityRef
	WorkPlan         domain.EntityRef // Zero when no work plan was requested
	Tasks            int              // Tasks emitted
	Exceptions       int              // Calendar exceptions emitted
	Assignments      int              // Task to calendar assignments
	Sequences        int              // Sequence relationships emitted
	SkippedSequences int              // Predecessor links skipped as unresolved
}

// ImportSchedule emits a parsed schedule into an open model.
type ImportSchedule struct {
	clock  domain.Clock
	logger domain.Logger
}

// NewImportSchedule creates a new ImportSchedule use case.
func NewImportSchedule(clock domain.Clock, logger domain.Logger) *ImportSchedule {
	return &ImportSchedule{
		clock:  clock,
		logger: logger,
	}
}

// Execute emits the work schedule, tasks, calendars and sequences, in that order.
// The first error aborts the import; objects already emitted stay in the model.
func (uc *ImportSchedule) Execute(ctx context.Context, in ImportScheduleInput) (*ImportScheduleOutput, error) {
	if in.Schedule == nil || in.Author == nil {
		return nil, domain.ErrEmptyDocument
	}
	out := &ImportScheduleOutput{}

	if err := uc.emitWorkSchedule(in, out); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uc.emitTasks(in, out); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uc.emitCalendars(in, out); err != nil {
		return nil, err
	}
	if in.Options.AssignCalendars {
		if err := uc.assignCalendars(in, out); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := uc.emitSequences(in, out); err != nil {
		return nil, err
	}

	uc.logger.Info("import", fmt.Sprintf("emitted %d tasks, %d calendars, %d sequences",
		out.Tasks, len(out.Calendars), out.Sequences))
	return out, nil
}

func (uc *ImportSchedule) emitWorkSchedule(in ImportScheduleInput, out *ImportScheduleOutput) error {
	s := in.Schedule
	created := s.Created
	if created.IsZero() {
		created = uc.clock.Now()
	}

	attrs := domain.WorkScheduleAttributes{
		Name:         s.Name,
		Purpose:      in.Options.Purpose,
		CreationDate: created,
		StartTime:    created,
	}
	for i, t := range s.Tasks {
		if i == 0 || t.Start.Before(attrs.StartTime) {
			attrs.StartTime = t.Start
		}
		if t.Finish.After(attrs.FinishTime) {
			attrs.FinishTime = t.Finish
		}
	}

	if in.Options.WorkPlan != "" {
		plan, err := in.Author.AddWorkPlan(in.Options.WorkPlan, created)
		if err != nil {
			return fmt.Errorf("add work plan: %w", err)
		}
		out.WorkPlan = plan
	}

	ref, err := in.Author.AddWorkSchedule(attrs, out.WorkPlan)
	if err != nil {
		return fmt.Errorf("add work schedule: %w", err)
	}
	out.WorkSchedule = ref
	return nil
}

func (uc *ImportSchedule) emitTasks(in ImportScheduleInput, out *ImportScheduleOutput) error {
	tasks := in.Schedule.Tasks
	for i, t := range tasks {
		schedule, parent := out.WorkSchedule, domain.EntityRef(0)
		if in.Options.NestByOutline {
			if p := domain.OutlineParent(tasks, i); p != nil && !p.Ref.IsZero() {
				schedule, parent = 0, p.Ref
			}
		}

		ref, err := in.Author.AddTask(schedule, parent)
		if err != nil {
			return fmt.Errorf("task %s: add task: %w", t.UID, err)
		}
		t.Ref = ref

		priority := t.Priority
		if err := in.Author.EditTask(ref, domain.TaskAttributes{
			Name:           t.Name,
			Identification: t.UID,
			IsMilestone:    t.IsMilestone(),
			Priority:       &priority,
		}); err != nil {
			return fmt.Errorf("task %s: edit task: %w", t.UID, err)
		}

		taskTime, err := in.Author.AddTaskTime(ref)
		if err != nil {
			return fmt.Errorf("task %s: add task time: %w", t.UID, err)
		}
		timeAttrs := domain.TaskTimeAttributes{
			ScheduleStart:  t.Start,
			ScheduleFinish: t.Finish,
		}
		if t.HasDuration() {
			timeAttrs.DurationType = domain.DurationWorkTime
			timeAttrs.ScheduleDuration = t.Duration
		}
		if err := in.Author.EditTaskTime(taskTime, timeAttrs); err != nil {
			return fmt.Errorf("task %s: edit task time: %w", t.UID, err)
		}
		out.Tasks++
	}
	return nil
}

func (uc *ImportSchedule) emitCalendars(in ImportScheduleInput, out *ImportScheduleOutput) error {
	for _, cal := range in.Schedule.Calendars {
		ref, err := in.Author.AddWorkCalendar(cal.Name)
		if err != nil {
			return fmt.Errorf("calendar %s: add work calendar: %w", cal.UID, err)
		}
		cal.Ref = ref

		groups, err := domain.GroupWorkWeek(cal.WeekDays)
		if err != nil {
			return fmt.Errorf("calendar %s: %w", cal.UID, err)
		}
		for _, g := range groups {
			if err := uc.emitWorkWeekGroup(in.Author, cal, g); err != nil {
				return fmt.Errorf("calendar %s: %s: %w", cal.UID, g.Label, err)
			}
		}
		for i := range cal.Exceptions {
			if err := uc.emitException(in.Author, cal.Ref, &cal.Exceptions[i]); err != nil {
				return fmt.Errorf("calendar %s: exception %d: %w", cal.UID, i+1, err)
			}
			out.Exceptions++
		}

		uc.logger.Debug("calendar", fmt.Sprintf("%q: %d work-week groups, %d exceptions",
			cal.Name, len(groups), len(cal.Exceptions)))
		out.Calendars = append(out.Calendars, CalendarGroups{Calendar: cal.Name, Groups: groups})
	}
	return nil
}

func (uc *ImportSchedule) emitWorkWeekGroup(author domain.ScheduleAuthor, cal *domain.Calendar, g domain.WorkWeekGroup) error {
	workTime, err := author.AddWorkTime(cal.Ref, domain.WorkTimeWorking)
	if err != nil {
		return fmt.Errorf("add work time: %w", err)
	}
	g.AssignWorkTime(cal.WeekDays, workTime)

	if err := author.EditWorkTime(workTime, domain.WorkTimeAttributes{Name: g.Label}); err != nil {
		return fmt.Errorf("edit work time: %w", err)
	}
	pattern, err := author.AssignRecurrencePattern(workTime, domain.RecurrenceWeekly)
	if err != nil {
		return fmt.Errorf("assign recurrence pattern: %w", err)
	}
	if err := author.EditRecurrencePattern(pattern, domain.RecurrenceAttributes{WeekdayComponent: g.Weekdays}); err != nil {
		return fmt.Errorf("edit recurrence pattern: %w", err)
	}
	for _, wt := range g.WorkingTimes {
		if _, err := author.AddTimePeriod(pattern, wt.From, wt.To); err != nil {
			return fmt.Errorf("add time period %s-%s: %w", wt.From, wt.To, err)
		}
	}
	return nil
}

func (uc *ImportSchedule) emitException(author domain.ScheduleAuthor, calendar domain.EntityRef, exc *domain.CalendarException) error {
	workTime, err := author.AddWorkTime(calendar, domain.WorkTimeException)
	if err != nil {
		return fmt.Errorf("add work time: %w", err)
	}
	if err := author.EditWorkTime(workTime, domain.WorkTimeAttributes{
		Name:   exc.Name,
		Start:  exc.From,
		Finish: exc.To,
	}); err != nil {
		return fmt.Errorf("edit work time: %w", err)
	}
	if !exc.Working || len(exc.WorkingTimes) == 0 {
		return nil
	}

	pattern, err := author.AssignRecurrencePattern(workTime, domain.RecurrenceDaily)
	if err != nil {
		return fmt.Errorf("assign recurrence pattern: %w", err)
	}
	for _, wt := range exc.WorkingTimes {
		if _, err := author.AddTimePeriod(pattern, wt.From, wt.To); err != nil {
			return fmt.Errorf("add time period %s-%s: %w", wt.From, wt.To, err)
		}
	}
	return nil
}

func (uc *ImportSchedule) assignCalendars(in ImportScheduleInput, out *ImportScheduleOutput) error {
	calendars := make(map[string]*domain.Calendar, len(in.Schedule.Calendars))
	for _, cal := range in.Schedule.Calendars {
		calendars[cal.UID] = cal
	}

	for _, t := range in.Schedule.Tasks {
		if t.CalendarUID == domain.DefaultCalendarUID {
			continue
		}
		cal, ok := calendars[t.CalendarUID]
		if !ok {
			uc.logger.Debug("calendar", fmt.Sprintf("task %s: calendar %s not found, not assigned", t.UID, t.CalendarUID))
			continue
		}
		if cal.Ref.IsZero() || t.Ref.IsZero() {
			return fmt.Errorf("task %s: calendar %s: %w", t.UID, cal.UID, domain.ErrNotEmitted)
		}
		if _, err := in.Author.AssignControl(cal.Ref, t.Ref); err != nil {
			return fmt.Errorf("task %s: assign calendar %s: %w", t.UID, cal.UID, err)
		}
		out.Assignments++
	}
	return nil
}

func (uc *ImportSchedule) emitSequences(in ImportScheduleInput, out *ImportScheduleOutput) error {
	index := domain.IndexTasks(in.Schedule.Tasks)

	for _, t := range in.Schedule.Tasks {
		if !t.HasPredecessor() {
			continue
		}
		link := t.Predecessor
		pred, ok := index[link.UID]
		if !ok {
			msg := fmt.Sprintf("task %s: predecessor %s not found, sequence skipped", t.UID, link.UID)
			switch in.Options.OnUnresolved {
			case domain.UnresolvedWarn:
				uc.logger.Warn("sequence", msg)
			case domain.UnresolvedSkip:
				uc.logger.Debug("sequence", msg)
			default:
				return fmt.Errorf("task %s: predecessor %s: %w", t.UID, link.UID, domain.ErrUnresolvedPredecessor)
			}
			out.SkippedSequences++
			continue
		}
		if pred.Ref.IsZero() || t.Ref.IsZero() {
			return fmt.Errorf("task %s: predecessor %s: %w", t.UID, link.UID, domain.ErrNotEmitted)
		}

		kind := domain.DefaultSequenceType
		if in.Options.ApplyLinkType {
			st, err := link.Type.SequenceType()
			if err != nil {
				return fmt.Errorf("task %s: %w", t.UID, err)
			}
			kind = st
		}

		seq, err := in.Author.AssignSequence(pred.Ref, t.Ref)
		if err != nil {
			return fmt.Errorf("task %s: assign sequence: %w", t.UID, err)
		}
		if err := in.Author.EditSequence(seq, domain.SequenceAttributes{SequenceType: kind}); err != nil {
			return fmt.Errorf("task %s: edit sequence: %w", t.UID, err)
		}
		out.Sequences++
	}
	return nil
}
