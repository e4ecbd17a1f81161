package ifc

import (
	"time"
)

// Entity is an IFC entity instance stored in a Document.
type Entity interface {
	// ID returns the STEP instance id (#n); zero before the entity is added.
	ID() int
	// Type returns the upper-case IFC entity name.
	Type() string

	setID(id int)
	args() []any
}

type node struct {
	id int
}

func (n *node) ID() int { return n.id }

func (n *node) setID(id int) { n.id = id }

// Root holds the attributes shared by all rooted entities.
// OwnerHistory is always omitted (optional in IFC4).
type Root struct {
	GlobalID    string
	Name        string
	Description string
}

func (r *Root) rootArgs() []any {
	return []any{r.GlobalID, nil, optString(r.Name), optString(r.Description)}
}

// Project is IfcProject.
type Project struct {
	node
	Root
	LongName string
	Phase    string
}

func (*Project) Type() string { return "IFCPROJECT" }

func (p *Project) args() []any {
	return append(p.rootArgs(), nil, optString(p.LongName), optString(p.Phase), nil, nil)
}

// WorkControl holds the attributes of IfcWorkPlan and IfcWorkSchedule.
type WorkControl struct {
	node
	Root
	CreationDate   time.Time
	StartTime      time.Time
	FinishTime     time.Time
	Identification string
	Purpose        string
	PredefinedType string
}

func (w *WorkControl) args() []any {
	return append(w.rootArgs(),
		nil,                           // ObjectType
		optString(w.Identification),   // Identification
		dateTimeValue(w.CreationDate), // CreationDate
		nil,                           // Creators
		optString(w.Purpose),          // Purpose
		nil,                           // Duration
		nil,                           // TotalFloat
		dateTimeValue(w.StartTime),    // StartTime
		optDateTime(w.FinishTime),     // FinishTime
		enum(w.PredefinedType),        // PredefinedType
	)
}

// WorkPlan is IfcWorkPlan.
type WorkPlan struct {
	WorkControl
}

func (*WorkPlan) Type() string { return "IFCWORKPLAN" }

// WorkSchedule is IfcWorkSchedule.
type WorkSchedule struct {
	WorkControl
}

func (*WorkSchedule) Type() string { return "IFCWORKSCHEDULE" }

// Task is IfcTask.
type Task struct {
	node
	Root
	TaskTime       *TaskTime
	Priority       *int
	Identification string
	PredefinedType string
	IsMilestone    bool
}

func (*Task) Type() string { return "IFCTASK" }

func (t *Task) args() []any {
	var taskTime, priority any
	if t.TaskTime != nil {
		taskTime = reference(t.TaskTime.ID())
	}
	if t.Priority != nil {
		priority = *t.Priority
	}
	return append(t.rootArgs(),
		nil,                         // ObjectType
		optString(t.Identification), // Identification
		nil,                         // LongDescription
		nil,                         // Status
		nil,                         // WorkMethod
		t.IsMilestone,               // IsMilestone
		priority,                    // Priority
		taskTime,                    // TaskTime
		enum(t.PredefinedType),      // PredefinedType
	)
}

// TaskTime is IfcTaskTime. Only the schedule attributes are authored.
type TaskTime struct {
	node
	ScheduleStart    time.Time
	ScheduleFinish   time.Time
	DurationType     string
	ScheduleDuration time.Duration
}

func (*TaskTime) Type() string { return "IFCTASKTIME" }

func (t *TaskTime) args() []any {
	var durationType, duration any
	if t.DurationType != "" {
		durationType = enum(t.DurationType)
	}
	if t.ScheduleDuration > 0 {
		duration = formatDuration(t.ScheduleDuration)
	}
	out := []any{
		nil,                           // Name
		nil,                           // DataOrigin
		nil,                           // UserDefinedDataOrigin
		durationType,                  // DurationType
		duration,                      // ScheduleDuration
		optDateTime(t.ScheduleStart),  // ScheduleStart
		optDateTime(t.ScheduleFinish), // ScheduleFinish
	}
	// EarlyStart .. Completion
	for i := 0; i < 13; i++ {
		out = append(out, nil)
	}
	return out
}

// WorkCalendar is IfcWorkCalendar.
type WorkCalendar struct {
	node
	Root
	WorkingTimes   []*WorkTime
	ExceptionTimes []*WorkTime
	PredefinedType string
}

func (*WorkCalendar) Type() string { return "IFCWORKCALENDAR" }

func (c *WorkCalendar) args() []any {
	return append(c.rootArgs(),
		nil, // ObjectType
		nil, // Identification
		workTimeRefs(c.WorkingTimes),
		workTimeRefs(c.ExceptionTimes),
		enum(c.PredefinedType),
	)
}

func workTimeRefs(times []*WorkTime) any {
	if len(times) == 0 {
		return nil
	}
	refs := make([]any, len(times))
	for i, wt := range times {
		refs[i] = reference(wt.ID())
	}
	return refs
}

// WorkTime is IfcWorkTime.
type WorkTime struct {
	node
	Start             time.Time
	Finish            time.Time
	RecurrencePattern *RecurrencePattern
	Name              string
}

func (*WorkTime) Type() string { return "IFCWORKTIME" }

func (w *WorkTime) args() []any {
	var pattern any
	if w.RecurrencePattern != nil {
		pattern = reference(w.RecurrencePattern.ID())
	}
	return []any{
		optString(w.Name),
		nil, // DataOrigin
		nil, // UserDefinedDataOrigin
		pattern,
		optDate(w.Start),
		optDate(w.Finish),
	}
}

// RecurrencePattern is IfcRecurrencePattern.
type RecurrencePattern struct {
	node
	RecurrenceType   string
	WeekdayComponent []int
	TimePeriods      []*TimePeriod
}

func (*RecurrencePattern) Type() string { return "IFCRECURRENCEPATTERN" }

func (r *RecurrencePattern) args() []any {
	var weekdays, periods any
	if len(r.WeekdayComponent) > 0 {
		list := make([]any, len(r.WeekdayComponent))
		for i, d := range r.WeekdayComponent {
			list[i] = d
		}
		weekdays = list
	}
	if len(r.TimePeriods) > 0 {
		list := make([]any, len(r.TimePeriods))
		for i, p := range r.TimePeriods {
			list[i] = reference(p.ID())
		}
		periods = list
	}
	return []any{
		enum(r.RecurrenceType),
		nil, // DayComponent
		weekdays,
		nil, // MonthComponent
		nil, // Position
		nil, // Interval
		nil, // Occurrences
		periods,
	}
}

// TimePeriod is IfcTimePeriod.
type TimePeriod struct {
	node
	StartTime string // IfcTime
	EndTime   string // IfcTime
}

func (*TimePeriod) Type() string { return "IFCTIMEPERIOD" }

func (p *TimePeriod) args() []any {
	return []any{p.StartTime, p.EndTime}
}

// RelSequence is IfcRelSequence.
type RelSequence struct {
	node
	Root
	RelatingProcess *Task
	RelatedProcess  *Task
	SequenceType    string
}

func (*RelSequence) Type() string { return "IFCRELSEQUENCE" }

func (r *RelSequence) args() []any {
	return append(r.rootArgs(),
		reference(r.RelatingProcess.ID()),
		reference(r.RelatedProcess.ID()),
		nil, // TimeLag
		enum(r.SequenceType),
		nil, // UserDefinedSequenceType
	)
}

// RelAssignsToControl is IfcRelAssignsToControl.
type RelAssignsToControl struct {
	node
	Root
	RelatingControl Entity
	RelatedObjects  []Entity
}

func (*RelAssignsToControl) Type() string { return "IFCRELASSIGNSTOCONTROL" }

func (r *RelAssignsToControl) args() []any {
	return append(r.rootArgs(), entityRefs(r.RelatedObjects), nil, reference(r.RelatingControl.ID()))
}

// RelNests is IfcRelNests.
type RelNests struct {
	node
	Root
	RelatingObject Entity
	RelatedObjects []Entity
}

func (*RelNests) Type() string { return "IFCRELNESTS" }

func (r *RelNests) args() []any {
	return append(r.rootArgs(), reference(r.RelatingObject.ID()), entityRefs(r.RelatedObjects))
}

// RelAggregates is IfcRelAggregates.
type RelAggregates struct {
	node
	Root
	RelatingObject Entity
	RelatedObjects []Entity
}

func (*RelAggregates) Type() string { return "IFCRELAGGREGATES" }

func (r *RelAggregates) args() []any {
	return append(r.rootArgs(), reference(r.RelatingObject.ID()), entityRefs(r.RelatedObjects))
}

// RelDeclares is IfcRelDeclares.
type RelDeclares struct {
	node
	Root
	RelatingContext    *Project
	RelatedDefinitions []Entity
}

func (*RelDeclares) Type() string { return "IFCRELDECLARES" }

func (r *RelDeclares) args() []any {
	return append(r.rootArgs(), reference(r.RelatingContext.ID()), entityRefs(r.RelatedDefinitions))
}

func entityRefs(entities []Entity) []any {
	refs := make([]any, len(entities))
	for i, e := range entities {
		refs[i] = reference(e.ID())
	}
	return refs
}
