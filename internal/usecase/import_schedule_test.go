package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/ifcp6/msp2ifc/internal/testutil"
	"github.com/ifcp6/msp2ifc/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportSchedule() (*usecase.ImportSchedule, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	clock := &testutil.MockClock{NowTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return usecase.NewImportSchedule(clock, logger), logger
}

func defaultOptions() usecase.ImportOptions {
	return usecase.NewImportOptions(domain.NewDefaultConfig())
}

func runImport(t *testing.T, s *domain.Schedule, opts usecase.ImportOptions) (*testutil.RecordingAuthor, *usecase.ImportScheduleOutput) {
	t.Helper()
	uc, _ := newImportSchedule()
	author := testutil.NewRecordingAuthor()
	out, err := uc.Execute(context.Background(), usecase.ImportScheduleInput{
		Schedule: s,
		Author:   author,
		Options:  opts,
	})
	require.NoError(t, err)
	return author, out
}

func TestImportSchedule_WorkSchedule(t *testing.T) {
	// Setup
	s := testutil.SampleSchedule()

	// Execute
	author, out := runImport(t, s, defaultOptions())

	// Assert
	schedules := author.OfKind(testutil.KindWorkSchedule)
	require.Len(t, schedules, 1)
	assert.Equal(t, out.WorkSchedule, schedules[0].Ref)
	attrs := schedules[0].Attrs.(domain.WorkScheduleAttributes)
	assert.Equal(t, "Office Fit-Out", attrs.Name)
	assert.Equal(t, testutil.ProjectCreated, attrs.CreationDate)
	assert.Equal(t, s.Tasks[0].Start, attrs.StartTime)
	assert.Equal(t, s.Tasks[2].Finish, attrs.FinishTime)
	assert.Empty(t, author.OfKind(testutil.KindWorkPlan))
	assert.Equal(t, "AddWorkSchedule", author.Calls[0])
}

func TestImportSchedule_WorkPlan(t *testing.T) {
	opts := defaultOptions()
	opts.WorkPlan = "Master plan"
	opts.Purpose = "Construction"

	author, out := runImport(t, testutil.SampleSchedule(), opts)

	plans := author.OfKind(testutil.KindWorkPlan)
	require.Len(t, plans, 1)
	assert.Equal(t, "Master plan", plans[0].Detail)
	assert.Equal(t, plans[0].Ref, out.WorkPlan)

	ws := author.Get(out.WorkSchedule)
	assert.Equal(t, []domain.EntityRef{out.WorkPlan}, ws.Links)
	assert.Equal(t, "Construction", ws.Attrs.(domain.WorkScheduleAttributes).Purpose)
}

func TestImportSchedule_CreationDateFallsBackToClock(t *testing.T) {
	s := testutil.SampleSchedule()
	s.Created = time.Time{}

	author, _ := runImport(t, s, defaultOptions())

	attrs := author.OfKind(testutil.KindWorkSchedule)[0].Attrs.(domain.WorkScheduleAttributes)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), attrs.CreationDate)
}

func TestImportSchedule_Tasks(t *testing.T) {
	s := testutil.SampleSchedule()

	author, out := runImport(t, s, defaultOptions())

	tasks := author.OfKind(testutil.KindTask)
	require.Len(t, tasks, 3)
	assert.Equal(t, 3, out.Tasks)

	for i, task := range tasks {
		assert.Equal(t, s.Tasks[i].Ref, task.Ref, "handle written back")
		assert.Equal(t, []domain.EntityRef{out.WorkSchedule, 0}, task.Links)

		attrs := task.Attrs.(domain.TaskAttributes)
		assert.Equal(t, s.Tasks[i].Name, attrs.Name)
		assert.Equal(t, s.Tasks[i].UID, attrs.Identification)
		require.NotNil(t, attrs.Priority)
		assert.Equal(t, s.Tasks[i].Priority, *attrs.Priority)
	}
}

func TestImportSchedule_MilestoneIffStartEqualsFinish(t *testing.T) {
	author, _ := runImport(t, testutil.SampleSchedule(), defaultOptions())

	tasks := author.OfKind(testutil.KindTask)
	assert.False(t, tasks[0].Attrs.(domain.TaskAttributes).IsMilestone)
	assert.False(t, tasks[1].Attrs.(domain.TaskAttributes).IsMilestone)
	assert.True(t, tasks[2].Attrs.(domain.TaskAttributes).IsMilestone)
}

func TestImportSchedule_DurationTypeOnlyWhenDurationPositive(t *testing.T) {
	s := testutil.SampleSchedule()

	author, _ := runImport(t, s, defaultOptions())

	times := author.OfKind(testutil.KindTaskTime)
	require.Len(t, times, 3)

	design := times[0].Attrs.(domain.TaskTimeAttributes)
	assert.Equal(t, domain.DurationWorkTime, design.DurationType)
	assert.Equal(t, 8*time.Hour, design.ScheduleDuration)
	assert.Equal(t, s.Tasks[0].Start, design.ScheduleStart)
	assert.Equal(t, s.Tasks[0].Finish, design.ScheduleFinish)

	handover := times[2].Attrs.(domain.TaskTimeAttributes)
	assert.Empty(t, handover.DurationType)
	assert.Zero(t, handover.ScheduleDuration)
	assert.Equal(t, s.Tasks[2].Start, handover.ScheduleStart)
}

func TestImportSchedule_OfficeWeekProducesTwoGroups(t *testing.T) {
	s := testutil.SampleSchedule()

	author, out := runImport(t, s, defaultOptions())

	calendars := author.OfKind(testutil.KindWorkCalendar)
	require.Len(t, calendars, 1)
	assert.Equal(t, "Standard", calendars[0].Detail)

	workTimes := author.LinkedTo(testutil.KindWorkTime, calendars[0].Ref)
	require.Len(t, workTimes, 2)

	// Sunday comes first in the document, so the weekend group is emitted first.
	weekend := workTimes[0]
	assert.Equal(t, "Weekdays: 6, 7", weekend.Attrs.(domain.WorkTimeAttributes).Name)
	patterns := author.LinkedTo(testutil.KindRecurrencePattern, weekend.Ref)
	require.Len(t, patterns, 1)
	assert.Equal(t, []int{6, 7}, patterns[0].Attrs.(domain.RecurrenceAttributes).WeekdayComponent)
	assert.Empty(t, author.LinkedTo(testutil.KindTimePeriod, patterns[0].Ref))

	weekdays := workTimes[1]
	assert.Equal(t, string(domain.WorkTimeWorking), weekdays.Detail)
	assert.Equal(t, "Weekdays: 1, 2, 3, 4, 5", weekdays.Attrs.(domain.WorkTimeAttributes).Name)
	patterns = author.LinkedTo(testutil.KindRecurrencePattern, weekdays.Ref)
	require.Len(t, patterns, 1)
	assert.Equal(t, string(domain.RecurrenceWeekly), patterns[0].Detail)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, patterns[0].Attrs.(domain.RecurrenceAttributes).WeekdayComponent)
	periods := author.LinkedTo(testutil.KindTimePeriod, patterns[0].Ref)
	require.Len(t, periods, 2)
	assert.Equal(t, domain.TimeOfDay{Hour: 8}, periods[0].Start)
	assert.Equal(t, domain.TimeOfDay{Hour: 12}, periods[0].End)
	assert.Equal(t, domain.TimeOfDay{Hour: 13}, periods[1].Start)
	assert.Equal(t, domain.TimeOfDay{Hour: 17}, periods[1].End)

	require.Len(t, out.Calendars, 1)
	assert.Len(t, out.Calendars[0].Groups, 2)
}

func TestImportSchedule_DaysShareWorkTimeHandle(t *testing.T) {
	s := testutil.SampleSchedule()

	runImport(t, s, defaultOptions())

	days := s.Calendars[0].WeekDays
	for _, d := range days {
		assert.False(t, d.WorkTime.IsZero(), "day %s has a handle", d.DayType)
	}
	// Sunday and Saturday share one handle, Monday to Friday share another.
	assert.Equal(t, days[0].WorkTime, days[6].WorkTime)
	for _, d := range days[2:6] {
		assert.Equal(t, days[1].WorkTime, d.WorkTime)
	}
	assert.NotEqual(t, days[0].WorkTime, days[1].WorkTime)
}

func TestImportSchedule_AlternateDays(t *testing.T) {
	s := testutil.SampleSchedule()
	s.Calendars[0].WeekDays = []*domain.WeekDay{
		{DayType: "2", WorkingTimes: []domain.WorkingTime{testutil.Hours(9, 17)}},
		{DayType: "3"},
		{DayType: "4", WorkingTimes: []domain.WorkingTime{testutil.Hours(9, 17)}},
		{DayType: "6", WorkingTimes: []domain.WorkingTime{testutil.Hours(9, 17)}},
	}

	author, _ := runImport(t, s, defaultOptions())

	workTimes := author.OfKind(testutil.KindWorkTime)
	require.Len(t, workTimes, 2)
	assert.Equal(t, "Weekdays: 1, 3, 5", workTimes[0].Attrs.(domain.WorkTimeAttributes).Name)
	assert.Equal(t, "Weekdays: 2", workTimes[1].Attrs.(domain.WorkTimeAttributes).Name)
}

func TestImportSchedule_Exceptions(t *testing.T) {
	s := testutil.SampleSchedule()
	holiday := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	shift := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	s.Calendars[0].Exceptions = []domain.CalendarException{
		{Name: "Christmas", From: holiday, To: holiday.AddDate(0, 0, 1)},
		{Name: "Saturday shift", From: shift, To: shift, Working: true, WorkingTimes: []domain.WorkingTime{testutil.Hours(9, 13)}},
	}

	author, out := runImport(t, s, defaultOptions())

	assert.Equal(t, 2, out.Exceptions)
	var exceptions []*testutil.RecordedObject
	for _, wt := range author.OfKind(testutil.KindWorkTime) {
		if wt.Detail == string(domain.WorkTimeException) {
			exceptions = append(exceptions, wt)
		}
	}
	require.Len(t, exceptions, 2)

	christmas := exceptions[0].Attrs.(domain.WorkTimeAttributes)
	assert.Equal(t, "Christmas", christmas.Name)
	assert.Equal(t, holiday, christmas.Start)
	assert.Equal(t, holiday.AddDate(0, 0, 1), christmas.Finish)
	assert.Empty(t, author.LinkedTo(testutil.KindRecurrencePattern, exceptions[0].Ref))

	patterns := author.LinkedTo(testutil.KindRecurrencePattern, exceptions[1].Ref)
	require.Len(t, patterns, 1)
	assert.Equal(t, string(domain.RecurrenceDaily), patterns[0].Detail)
	periods := author.LinkedTo(testutil.KindTimePeriod, patterns[0].Ref)
	require.Len(t, periods, 1)
	assert.Equal(t, domain.TimeOfDay{Hour: 9}, periods[0].Start)
}

func TestImportSchedule_AssignCalendars(t *testing.T) {
	s := testutil.SampleSchedule()

	author, out := runImport(t, s, defaultOptions())

	controls := author.OfKind(testutil.KindControl)
	require.Len(t, controls, 2, "task 1 uses the project calendar")
	cal := s.Calendars[0].Ref
	assert.Equal(t, []domain.EntityRef{cal, s.Tasks[1].Ref}, controls[0].Links)
	assert.Equal(t, []domain.EntityRef{cal, s.Tasks[2].Ref}, controls[1].Links)
	assert.Equal(t, 2, out.Assignments)
}

func TestImportSchedule_AssignCalendarsDisabled(t *testing.T) {
	opts := defaultOptions()
	opts.AssignCalendars = false

	author, out := runImport(t, testutil.SampleSchedule(), opts)

	assert.Empty(t, author.OfKind(testutil.KindControl))
	assert.Zero(t, out.Assignments)
}

func TestImportSchedule_UnknownCalendarNotAssigned(t *testing.T) {
	s := testutil.SampleSchedule()
	s.Tasks[1].CalendarUID = "42"

	author, out := runImport(t, s, defaultOptions())

	assert.Len(t, author.OfKind(testutil.KindControl), 1)
	assert.Equal(t, 1, out.Assignments)
}

func TestImportSchedule_SequencesDefaultToFinishStart(t *testing.T) {
	s := testutil.SampleSchedule()

	author, out := runImport(t, s, defaultOptions())

	seqs := author.OfKind(testutil.KindSequence)
	require.Len(t, seqs, 2)
	assert.Equal(t, 2, out.Sequences)
	assert.Equal(t, []domain.EntityRef{s.Tasks[0].Ref, s.Tasks[1].Ref}, seqs[0].Links)
	assert.Equal(t, []domain.EntityRef{s.Tasks[1].Ref, s.Tasks[2].Ref}, seqs[1].Links)
	for _, seq := range seqs {
		assert.Equal(t, domain.SequenceFinishStart, seq.Attrs.(domain.SequenceAttributes).SequenceType)
	}
}

func TestImportSchedule_ApplyLinkType(t *testing.T) {
	opts := defaultOptions()
	opts.ApplyLinkType = true

	author, _ := runImport(t, testutil.SampleSchedule(), opts)

	seqs := author.OfKind(testutil.KindSequence)
	require.Len(t, seqs, 2)
	assert.Equal(t, domain.SequenceFinishStart, seqs[0].Attrs.(domain.SequenceAttributes).SequenceType)
	assert.Equal(t, domain.SequenceStartStart, seqs[1].Attrs.(domain.SequenceAttributes).SequenceType)
}

func TestImportSchedule_ApplyLinkTypeInvalid(t *testing.T) {
	s := testutil.SampleSchedule()
	s.Tasks[1].Predecessor.Type = "9"
	opts := defaultOptions()
	opts.ApplyLinkType = true
	uc, _ := newImportSchedule()

	_, err := uc.Execute(context.Background(), usecase.ImportScheduleInput{
		Schedule: s,
		Author:   testutil.NewRecordingAuthor(),
		Options:  opts,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidLinkType)
}

func TestImportSchedule_SequenceFollowsAllTasks(t *testing.T) {
	// A predecessor later in the document is still resolved.
	s := testutil.SampleSchedule()
	s.Tasks[0].Predecessor = &domain.PredecessorLink{UID: "3"}

	author, _ := runImport(t, s, defaultOptions())

	seqs := author.OfKind(testutil.KindSequence)
	require.Len(t, seqs, 3)
	assert.Equal(t, []domain.EntityRef{s.Tasks[2].Ref, s.Tasks[0].Ref}, seqs[0].Links)
}

func TestImportSchedule_UnresolvedPredecessor(t *testing.T) {
	tests := []struct {
		name      string
		policy    domain.UnresolvedPolicy
		wantErr   error
		wantLevel string
	}{
		{"abort", domain.UnresolvedAbort, domain.ErrUnresolvedPredecessor, ""},
		{"default aborts", "", domain.ErrUnresolvedPredecessor, ""},
		{"warn", domain.UnresolvedWarn, nil, "warn"},
		{"skip", domain.UnresolvedSkip, nil, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.SampleSchedule()
			s.Tasks[2].Predecessor.UID = "99"
			opts := defaultOptions()
			opts.OnUnresolved = tt.policy
			uc, logger := newImportSchedule()
			author := testutil.NewRecordingAuthor()

			out, err := uc.Execute(context.Background(), usecase.ImportScheduleInput{
				Schedule: s,
				Author:   author,
				Options:  opts,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, out.Sequences)
			assert.Equal(t, 1, out.SkippedSequences)
			found := false
			for _, e := range logger.ByLevel(tt.wantLevel) {
				if e.Category == "sequence" {
					found = true
					assert.Contains(t, e.Msg, "99")
				}
			}
			assert.True(t, found)
		})
	}
}

func TestImportSchedule_NestByOutline(t *testing.T) {
	s := testutil.SampleSchedule()
	s.Tasks[0].OutlineLevel = 1
	s.Tasks[1].OutlineLevel = 2
	s.Tasks[2].OutlineLevel = 2
	opts := defaultOptions()
	opts.NestByOutline = true

	author, out := runImport(t, s, opts)

	tasks := author.OfKind(testutil.KindTask)
	require.Len(t, tasks, 3)
	assert.Equal(t, []domain.EntityRef{out.WorkSchedule, 0}, tasks[0].Links)
	assert.Equal(t, []domain.EntityRef{0, s.Tasks[0].Ref}, tasks[1].Links)
	assert.Equal(t, []domain.EntityRef{0, s.Tasks[0].Ref}, tasks[2].Links)
}

func TestImportSchedule_OrderOfEmission(t *testing.T) {
	author, _ := runImport(t, testutil.SampleSchedule(), defaultOptions())

	firstIndex := func(op string) int {
		for i, c := range author.Calls {
			if c == op {
				return i
			}
		}
		return -1
	}
	assert.Less(t, firstIndex("AddWorkSchedule"), firstIndex("AddTask"))
	assert.Less(t, firstIndex("AddTask"), firstIndex("AddWorkCalendar"))
	assert.Less(t, firstIndex("AddWorkCalendar"), firstIndex("AssignControl"))
	assert.Less(t, firstIndex("AssignControl"), firstIndex("AssignSequence"))
}

func TestImportSchedule_AuthorErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	for _, op := range []string{"AddWorkSchedule", "AddTask", "EditTaskTime", "AddWorkTime", "AddTimePeriod", "AssignControl", "EditSequence"} {
		t.Run(op, func(t *testing.T) {
			uc, _ := newImportSchedule()
			author := testutil.NewRecordingAuthor()
			author.Errs[op] = boom

			_, err := uc.Execute(context.Background(), usecase.ImportScheduleInput{
				Schedule: testutil.SampleSchedule(),
				Author:   author,
				Options:  defaultOptions(),
			})

			assert.ErrorIs(t, err, boom)
			assert.Equal(t, op, author.Calls[len(author.Calls)-1], "nothing runs after the failing call")
		})
	}
}

func TestImportSchedule_CanceledContext(t *testing.T) {
	uc, _ := newImportSchedule()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, usecase.ImportScheduleInput{
		Schedule: testutil.SampleSchedule(),
		Author:   testutil.NewRecordingAuthor(),
		Options:  defaultOptions(),
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportSchedule_NilInput(t *testing.T) {
	uc, _ := newImportSchedule()

	_, err := uc.Execute(context.Background(), usecase.ImportScheduleInput{})

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
