package domain

import (
	"context"
	"io"
	"time"
)

// ScheduleReader parses schedule documents.
type ScheduleReader interface {
	// Read parses a schedule document from r.
	Read(r io.Reader) (*Schedule, error)

	// ReadFile parses the schedule document at path.
	ReadFile(path string) (*Schedule, error)
}

// ScheduleAuthor creates and edits schedule objects in one open model.
// Every method either succeeds or returns an error that aborts the import.
type ScheduleAuthor interface {
	// AddWorkPlan creates a work plan.
	AddWorkPlan(name string, created time.Time) (EntityRef, error)

	// AddWorkSchedule creates a work schedule, aggregated under workPlan if non-zero.
	AddWorkSchedule(attrs WorkScheduleAttributes, workPlan EntityRef) (EntityRef, error)

	// AddTask creates a task controlled by schedule, or nested under parent when schedule is zero.
	AddTask(schedule, parent EntityRef) (EntityRef, error)

	// EditTask sets task attributes.
	EditTask(task EntityRef, attrs TaskAttributes) error

	// AddTaskTime creates the time record of a task.
	AddTaskTime(task EntityRef) (EntityRef, error)

	// EditTaskTime sets task time attributes.
	EditTaskTime(taskTime EntityRef, attrs TaskTimeAttributes) error

	// AddWorkCalendar creates a work calendar.
	AddWorkCalendar(name string) (EntityRef, error)

	// AddWorkTime creates a work time in the calendar's working or exception set.
	AddWorkTime(calendar EntityRef, timeType WorkTimeType) (EntityRef, error)

	// EditWorkTime sets work time attributes.
	EditWorkTime(workTime EntityRef, attrs WorkTimeAttributes) error

	// AssignRecurrencePattern attaches a new recurrence pattern to a work time.
	AssignRecurrencePattern(workTime EntityRef, recurrence RecurrenceType) (EntityRef, error)

	// EditRecurrencePattern sets recurrence pattern attributes.
	EditRecurrencePattern(pattern EntityRef, attrs RecurrenceAttributes) error

	// AddTimePeriod adds a time period to a recurrence pattern.
	AddTimePeriod(pattern EntityRef, start, end TimeOfDay) (EntityRef, error)

	// AssignSequence relates two processes: relating precedes related.
	AssignSequence(relating, related EntityRef) (EntityRef, error)

	// EditSequence sets sequence attributes.
	EditSequence(sequence EntityRef, attrs SequenceAttributes) error

	// AssignControl places object under the control of control (e.g. a calendar).
	AssignControl(control, object EntityRef) (EntityRef, error)
}

// Model is an open in-memory document that can be authored and serialized.
type Model interface {
	ScheduleAuthor
	io.WriterTo

	// Stats returns entity counts by type.
	Stats() ModelStats
}

// ModelFactory creates empty models.
type ModelFactory interface {
	// NewModel returns a fresh model with the given header.
	NewModel(header ModelHeader) Model
}

// ModelWriter persists serialized models.
type ModelWriter interface {
	// Write serializes the model to path.
	Write(path string, model io.WriterTo) error
}

// FileWatcher reports changes to a file.
type FileWatcher interface {
	// Watch calls onChange after each write to path until ctx is done.
	Watch(ctx context.Context, path string, onChange func()) error
}

// Logger writes categorized log lines.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- local).
	Load() (*Config, error)

	// LoadWithOptions returns the merged configuration, ignoring the selected sources.
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// LoadConfigOptions selects configuration sources to ignore.
type LoadConfigOptions struct {
	IgnoreGlobal bool
	IgnoreLocal  bool
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// GetLocalConfigInfo returns information about the local config file.
	GetLocalConfigInfo() ConfigInfo

	// InitGlobalConfig writes the template to the global config file.
	InitGlobalConfig(cfg *Config) error

	// InitLocalConfig writes the template to the local config file.
	InitLocalConfig(cfg *Config) error
}

// ConfigInfo describes a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
