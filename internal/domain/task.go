// Package domain contains core business entities and interfaces.
package domain

import (
	"time"
)

// EntityRef is an opaque handle to an object created by a ScheduleAuthor.
// The zero value means "not emitted yet".
type EntityRef int

// IsZero returns true if the reference has not been assigned.
func (r EntityRef) IsZero() bool {
	return r == 0
}

// Schedule is the parsed content of one project schedule document.
// Fields are ordered to minimize memory padding.
type Schedule struct {
	Created   time.Time   // Project creation date (zero if absent)
	Name      string      // Project name
	GUID      string      // Project GUID (empty if absent)
	Tasks     []*Task     // Tasks in document order
	Calendars []*Calendar // Calendars in document order
}

// Task represents a scheduled activity.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start        time.Time        // Scheduled start
	Finish       time.Time        // Scheduled finish
	Predecessor  *PredecessorLink // First predecessor link (nil = none)
	UID          string           // Task UID (unique within the document)
	Name         string           // Task name
	WBS          string           // Work breakdown structure code
	CalendarUID  string           // Calendar UID ("-1" = project default)
	Duration     time.Duration    // Planned duration
	OutlineLevel int              // Outline level (0 = project summary task)
	Priority     int              // Priority (0-1000)
	Ref          EntityRef        // Emitted task handle (zero until emitted)
}

// IsMilestone returns true if the task starts and finishes at the same instant.
func (t *Task) IsMilestone() bool {
	return t.Start.Equal(t.Finish)
}

// HasDuration returns true if the task has a strictly positive planned duration.
func (t *Task) HasDuration() bool {
	return t.Duration > 0
}

// HasPredecessor returns true if the task references a predecessor.
func (t *Task) HasPredecessor() bool {
	return t.Predecessor != nil && t.Predecessor.UID != ""
}

// PredecessorLink references the task that must precede another.
// Fields are ordered to minimize memory padding.
type PredecessorLink struct {
	UID  string   // Predecessor task UID
	Lag  int      // Link lag in tenths of a minute
	Type LinkType // Link type as stored in the document
}

// TaskIndex maps task UIDs to tasks.
type TaskIndex map[string]*Task

// IndexTasks builds a TaskIndex. Later duplicates replace earlier ones.
func IndexTasks(tasks []*Task) TaskIndex {
	idx := make(TaskIndex, len(tasks))
	for _, t := range tasks {
		idx[t.UID] = t
	}
	return idx
}

// OutlineParent returns the nearest preceding task with a lower outline level.
// Returns nil for top-level tasks.
func OutlineParent(tasks []*Task, i int) *Task {
	level := tasks[i].OutlineLevel
	for j := i - 1; j >= 0; j-- {
		if tasks[j].OutlineLevel < level {
			return tasks[j]
		}
	}
	return nil
}
