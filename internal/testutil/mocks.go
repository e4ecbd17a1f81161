// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// LogEntry is one line recorded by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every line.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug line.
func (m *MockLogger) Debug(category, msg string) { m.record("debug", category, msg) }

// Info records an info line.
func (m *MockLogger) Info(category, msg string) { m.record("info", category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(category, msg string) { m.record("warn", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(category, msg string) { m.record("error", category, msg) }

// ByLevel returns the recorded lines of one level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Recorded object kinds.
const (
	KindWorkPlan          = "WorkPlan"
	KindWorkSchedule      = "WorkSchedule"
	KindTask              = "Task"
	KindTaskTime          = "TaskTime"
	KindWorkCalendar      = "WorkCalendar"
	KindWorkTime          = "WorkTime"
	KindRecurrencePattern = "RecurrencePattern"
	KindTimePeriod        = "TimePeriod"
	KindSequence          = "Sequence"
	KindControl           = "Control"
)

// RecordedObject is an object created through RecordingAuthor.
// Fields are ordered to minimize memory padding.
type RecordedObject struct {
	Attrs  any                // Last attributes set by an Edit call (or creation attributes)
	Kind   string             // One of the Kind constants
	Detail string             // Work time type, recurrence type or name given at creation
	Links  []domain.EntityRef // Objects referenced at creation, in argument order
	Start  domain.TimeOfDay   // Time periods only
	End    domain.TimeOfDay   // Time periods only
	Ref    domain.EntityRef
}

// RecordingAuthor is a test double for domain.Model that records every call.
// Refs are assigned sequentially from 1.
type RecordingAuthor struct {
	Errs    map[string]error // Errors returned by operation name, e.g. "AddTask"
	Objects []*RecordedObject
	Calls   []string
}

// NewRecordingAuthor creates a new RecordingAuthor.
func NewRecordingAuthor() *RecordingAuthor {
	return &RecordingAuthor{Errs: make(map[string]error)}
}

// Ensure RecordingAuthor implements domain.Model interface.
var _ domain.Model = (*RecordingAuthor)(nil)

// Get returns the object with the given ref, or nil.
func (a *RecordingAuthor) Get(ref domain.EntityRef) *RecordedObject {
	if ref < 1 || int(ref) > len(a.Objects) {
		return nil
	}
	return a.Objects[ref-1]
}

// OfKind returns the objects of one kind, in creation order.
func (a *RecordingAuthor) OfKind(kind string) []*RecordedObject {
	var out []*RecordedObject
	for _, o := range a.Objects {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// LinkedTo returns the objects of one kind whose first link is ref.
func (a *RecordingAuthor) LinkedTo(kind string, ref domain.EntityRef) []*RecordedObject {
	var out []*RecordedObject
	for _, o := range a.OfKind(kind) {
		if len(o.Links) > 0 && o.Links[0] == ref {
			out = append(out, o)
		}
	}
	return out
}

func (a *RecordingAuthor) call(op string) error {
	a.Calls = append(a.Calls, op)
	return a.Errs[op]
}

func (a *RecordingAuthor) add(kind, detail string, attrs any, links ...domain.EntityRef) *RecordedObject {
	o := &RecordedObject{
		Kind:   kind,
		Detail: detail,
		Attrs:  attrs,
		Links:  links,
		Ref:    domain.EntityRef(len(a.Objects) + 1),
	}
	a.Objects = append(a.Objects, o)
	return o
}

func (a *RecordingAuthor) edit(ref domain.EntityRef, kind string, attrs any) error {
	o := a.Get(ref)
	if o == nil || o.Kind != kind {
		return fmt.Errorf("%w: %s #%d", domain.ErrNotEmitted, kind, ref)
	}
	o.Attrs = attrs
	return nil
}

func (a *RecordingAuthor) require(ref domain.EntityRef, kinds ...string) error {
	o := a.Get(ref)
	if o == nil {
		return fmt.Errorf("%w: #%d", domain.ErrNotEmitted, ref)
	}
	for _, k := range kinds {
		if o.Kind == k {
			return nil
		}
	}
	return fmt.Errorf("#%d is %s, want %s", ref, o.Kind, strings.Join(kinds, " or "))
}

// AddWorkPlan records a work plan.
func (a *RecordingAuthor) AddWorkPlan(name string, created time.Time) (domain.EntityRef, error) {
	if err := a.call("AddWorkPlan"); err != nil {
		return 0, err
	}
	return a.add(KindWorkPlan, name, created).Ref, nil
}

// AddWorkSchedule records a work schedule.
func (a *RecordingAuthor) AddWorkSchedule(attrs domain.WorkScheduleAttributes, workPlan domain.EntityRef) (domain.EntityRef, error) {
	if err := a.call("AddWorkSchedule"); err != nil {
		return 0, err
	}
	if !workPlan.IsZero() {
		if err := a.require(workPlan, KindWorkPlan); err != nil {
			return 0, err
		}
	}
	return a.add(KindWorkSchedule, attrs.Name, attrs, workPlan).Ref, nil
}

// AddTask records a task; Links are [schedule, parent].
func (a *RecordingAuthor) AddTask(schedule, parent domain.EntityRef) (domain.EntityRef, error) {
	if err := a.call("AddTask"); err != nil {
		return 0, err
	}
	if schedule.IsZero() == parent.IsZero() {
		return 0, errors.New("exactly one of schedule and parent must be set")
	}
	if !schedule.IsZero() {
		if err := a.require(schedule, KindWorkSchedule); err != nil {
			return 0, err
		}
	} else if err := a.require(parent, KindTask); err != nil {
		return 0, err
	}
	return a.add(KindTask, "", nil, schedule, parent).Ref, nil
}

// EditTask records task attributes.
func (a *RecordingAuthor) EditTask(task domain.EntityRef, attrs domain.TaskAttributes) error {
	if err := a.call("EditTask"); err != nil {
		return err
	}
	return a.edit(task, KindTask, attrs)
}

// AddTaskTime records a task time.
func (a *RecordingAuthor) AddTaskTime(task domain.EntityRef) (domain.EntityRef, error) {
	if err := a.call("AddTaskTime"); err != nil {
		return 0, err
	}
	if err := a.require(task, KindTask); err != nil {
		return 0, err
	}
	return a.add(KindTaskTime, "", nil, task).Ref, nil
}

// EditTaskTime records task time attributes.
func (a *RecordingAuthor) EditTaskTime(taskTime domain.EntityRef, attrs domain.TaskTimeAttributes) error {
	if err := a.call("EditTaskTime"); err != nil {
		return err
	}
	return a.edit(taskTime, KindTaskTime, attrs)
}

// AddWorkCalendar records a work calendar.
func (a *RecordingAuthor) AddWorkCalendar(name string) (domain.EntityRef, error) {
	if err := a.call("AddWorkCalendar"); err != nil {
		return 0, err
	}
	return a.add(KindWorkCalendar, name, nil).Ref, nil
}

// AddWorkTime records a work time.
func (a *RecordingAuthor) AddWorkTime(calendar domain.EntityRef, timeType domain.WorkTimeType) (domain.EntityRef, error) {
	if err := a.call("AddWorkTime"); err != nil {
		return 0, err
	}
	if err := a.require(calendar, KindWorkCalendar); err != nil {
		return 0, err
	}
	return a.add(KindWorkTime, string(timeType), nil, calendar).Ref, nil
}

// EditWorkTime records work time attributes.
func (a *RecordingAuthor) EditWorkTime(workTime domain.EntityRef, attrs domain.WorkTimeAttributes) error {
	if err := a.call("EditWorkTime"); err != nil {
		return err
	}
	return a.edit(workTime, KindWorkTime, attrs)
}

// AssignRecurrencePattern records a recurrence pattern.
func (a *RecordingAuthor) AssignRecurrencePattern(workTime domain.EntityRef, recurrence domain.RecurrenceType) (domain.EntityRef, error) {
	if err := a.call("AssignRecurrencePattern"); err != nil {
		return 0, err
	}
	if err := a.require(workTime, KindWorkTime); err != nil {
		return 0, err
	}
	return a.add(KindRecurrencePattern, string(recurrence), nil, workTime).Ref, nil
}

// EditRecurrencePattern records recurrence pattern attributes.
func (a *RecordingAuthor) EditRecurrencePattern(pattern domain.EntityRef, attrs domain.RecurrenceAttributes) error {
	if err := a.call("EditRecurrencePattern"); err != nil {
		return err
	}
	return a.edit(pattern, KindRecurrencePattern, attrs)
}

// AddTimePeriod records a time period.
func (a *RecordingAuthor) AddTimePeriod(pattern domain.EntityRef, start, end domain.TimeOfDay) (domain.EntityRef, error) {
	if err := a.call("AddTimePeriod"); err != nil {
		return 0, err
	}
	if err := a.require(pattern, KindRecurrencePattern); err != nil {
		return 0, err
	}
	o := a.add(KindTimePeriod, "", nil, pattern)
	o.Start, o.End = start, end
	return o.Ref, nil
}

// AssignSequence records a sequence; Links are [relating, related].
func (a *RecordingAuthor) AssignSequence(relating, related domain.EntityRef) (domain.EntityRef, error) {
	if err := a.call("AssignSequence"); err != nil {
		return 0, err
	}
	if err := a.require(relating, KindTask); err != nil {
		return 0, err
	}
	if err := a.require(related, KindTask); err != nil {
		return 0, err
	}
	return a.add(KindSequence, "", domain.SequenceAttributes{SequenceType: domain.DefaultSequenceType}, relating, related).Ref, nil
}

// EditSequence records sequence attributes.
func (a *RecordingAuthor) EditSequence(sequence domain.EntityRef, attrs domain.SequenceAttributes) error {
	if err := a.call("EditSequence"); err != nil {
		return err
	}
	return a.edit(sequence, KindSequence, attrs)
}

// AssignControl records a control assignment; Links are [control, object].
func (a *RecordingAuthor) AssignControl(control, object domain.EntityRef) (domain.EntityRef, error) {
	if err := a.call("AssignControl"); err != nil {
		return 0, err
	}
	if err := a.require(control, KindWorkCalendar, KindWorkSchedule, KindWorkPlan); err != nil {
		return 0, err
	}
	if err := a.require(object, KindTask); err != nil {
		return 0, err
	}
	return a.add(KindControl, "", nil, control, object).Ref, nil
}

// WriteTo writes one line per recorded call.
func (a *RecordingAuthor) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, strings.Join(a.Calls, "\n")+"\n")
	return int64(n), err
}

// Stats counts recorded objects by kind.
func (a *RecordingAuthor) Stats() domain.ModelStats {
	stats := make(domain.ModelStats)
	for _, o := range a.Objects {
		stats[o.Kind]++
	}
	return stats
}

// MockModelFactory is a test double for domain.ModelFactory.
type MockModelFactory struct {
	Headers []domain.ModelHeader
	Models  []*RecordingAuthor
}

// Ensure MockModelFactory implements domain.ModelFactory interface.
var _ domain.ModelFactory = (*MockModelFactory)(nil)

// NewModel records the header and returns a fresh RecordingAuthor.
func (f *MockModelFactory) NewModel(header domain.ModelHeader) domain.Model {
	m := NewRecordingAuthor()
	f.Headers = append(f.Headers, header)
	f.Models = append(f.Models, m)
	return m
}

// MockScheduleReader is a test double for domain.ScheduleReader.
// Each call returns a fresh copy of Schedule so emitted handles never leak between runs.
type MockScheduleReader struct {
	Schedule *domain.Schedule
	Err      error
	Paths    []string
}

// Ensure MockScheduleReader implements domain.ScheduleReader interface.
var _ domain.ScheduleReader = (*MockScheduleReader)(nil)

// Read returns the configured schedule or error.
func (m *MockScheduleReader) Read(_ io.Reader) (*domain.Schedule, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return CloneSchedule(m.Schedule), nil
}

// ReadFile records the path and returns the configured schedule or error.
func (m *MockScheduleReader) ReadFile(path string) (*domain.Schedule, error) {
	m.Paths = append(m.Paths, path)
	return m.Read(nil)
}

// CloneSchedule deep-copies a schedule, clearing nothing.
func CloneSchedule(s *domain.Schedule) *domain.Schedule {
	if s == nil {
		return nil
	}
	out := *s
	out.Tasks = make([]*domain.Task, len(s.Tasks))
	for i, t := range s.Tasks {
		tc := *t
		if t.Predecessor != nil {
			p := *t.Predecessor
			tc.Predecessor = &p
		}
		out.Tasks[i] = &tc
	}
	out.Calendars = make([]*domain.Calendar, len(s.Calendars))
	for i, c := range s.Calendars {
		cc := *c
		cc.WeekDays = make([]*domain.WeekDay, len(c.WeekDays))
		for j, d := range c.WeekDays {
			dc := *d
			cc.WeekDays[j] = &dc
		}
		cc.Exceptions = append([]domain.CalendarException(nil), c.Exceptions...)
		out.Calendars[i] = &cc
	}
	return &out
}

// MockModelWriter is a test double for domain.ModelWriter.
type MockModelWriter struct {
	Written map[string]string
	Err     error
}

// NewMockModelWriter creates a new MockModelWriter.
func NewMockModelWriter() *MockModelWriter {
	return &MockModelWriter{Written: make(map[string]string)}
}

// Ensure MockModelWriter implements domain.ModelWriter interface.
var _ domain.ModelWriter = (*MockModelWriter)(nil)

// Write serializes the model into Written[path].
func (m *MockModelWriter) Write(path string, model io.WriterTo) error {
	if m.Err != nil {
		return m.Err
	}
	var sb strings.Builder
	if _, err := model.WriteTo(&sb); err != nil {
		return err
	}
	m.Written[path] = sb.String()
	return nil
}

// MockFileWatcher is a test double for domain.FileWatcher.
// Watch fires onChange Changes times, then returns Err.
type MockFileWatcher struct {
	Err     error
	Paths   []string
	Changes int
}

// Ensure MockFileWatcher implements domain.FileWatcher interface.
var _ domain.FileWatcher = (*MockFileWatcher)(nil)

// Watch calls onChange Changes times unless ctx is done first.
func (m *MockFileWatcher) Watch(ctx context.Context, path string, onChange func()) error {
	m.Paths = append(m.Paths, path)
	for i := 0; i < m.Changes; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		onChange()
	}
	return m.Err
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config      *domain.Config
	LoadErr     error
	LastOptions domain.LoadConfigOptions
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	return m.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions records the options and returns the configured config or error.
func (m *MockConfigLoader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	m.LastOptions = opts
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr      error
	InitGlobalErr     error
	LocalConfigInfo   domain.ConfigInfo
	GlobalConfigInfo  domain.ConfigInfo
	InitLocalCalled   bool
	InitGlobalCalled  bool
	InitializedConfig *domain.Config
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path:   "/work/msp2ifc.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/msp2ifc/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(cfg *domain.Config) error {
	m.InitLocalCalled = true
	m.InitializedConfig = cfg
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) error {
	m.InitGlobalCalled = true
	m.InitializedConfig = cfg
	return m.InitGlobalErr
}
