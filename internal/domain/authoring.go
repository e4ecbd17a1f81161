package domain

import (
	"time"
)

// WorkTimeType selects which calendar set a work time belongs to.
type WorkTimeType string

// Work time sets of a calendar.
const (
	WorkTimeWorking   WorkTimeType = "WorkingTimes"
	WorkTimeException WorkTimeType = "ExceptionTimes"
)

// RecurrenceType is the repeat rule of a recurrence pattern.
type RecurrenceType string

// Recurrence types used by the importer.
const (
	RecurrenceDaily  RecurrenceType = "DAILY"
	RecurrenceWeekly RecurrenceType = "WEEKLY"
)

// DurationType qualifies how a task duration is counted.
type DurationType string

// Duration types.
const (
	DurationWorkTime    DurationType = "WORKTIME"
	DurationElapsedTime DurationType = "ELAPSEDTIME"
	DurationNotDefined  DurationType = "NOTDEFINED"
)

// WorkScheduleAttributes holds the attributes set on a new work schedule.
type WorkScheduleAttributes struct {
	CreationDate time.Time
	StartTime    time.Time
	FinishTime   time.Time
	Name         string
	Purpose      string
}

// TaskAttributes holds the editable attributes of a task.
// Fields are ordered to minimize memory padding.
type TaskAttributes struct {
	Priority       *int // nil = leave unset
	Name           string
	Identification string
	IsMilestone    bool
}

// TaskTimeAttributes holds the editable attributes of a task time.
// A zero duration and empty duration type leave those attributes unset.
type TaskTimeAttributes struct {
	ScheduleStart    time.Time
	ScheduleFinish   time.Time
	DurationType     DurationType
	ScheduleDuration time.Duration
}

// WorkTimeAttributes holds the editable attributes of a work time.
// Zero dates leave Start/Finish unset.
type WorkTimeAttributes struct {
	Start  time.Time
	Finish time.Time
	Name   string
}

// RecurrenceAttributes holds the editable attributes of a recurrence pattern.
type RecurrenceAttributes struct {
	WeekdayComponent []int // ISO positions, Monday = 1
}

// SequenceAttributes holds the editable attributes of a sequence relationship.
// An empty SequenceType keeps the current kind.
type SequenceAttributes struct {
	SequenceType SequenceType
}

// ModelHeader describes the document a Model is created for.
// Fields are ordered to minimize memory padding.
type ModelHeader struct {
	Timestamp    time.Time // Written to the file header
	Name         string    // Output file name
	ProjectName  string    // Root project name
	Author       string
	Organization string
	Application  string
	Seed         string // Seed for deterministic identifiers (empty = random)
}

// ModelStats counts emitted entities by type.
type ModelStats map[string]int
