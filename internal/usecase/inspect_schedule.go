// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// InspectScheduleInput contains the input for the InspectSchedule use case.
type InspectScheduleInput struct {
	InputPath string // Schedule document to inspect
}

// InspectScheduleOutput contains the result of the InspectSchedule use case.
type InspectScheduleOutput struct {
	Schedule  *domain.Schedule // Parsed schedule
	Calendars []CalendarGroups // Work-week groups per calendar, in document order
}

// InspectSchedule parses a schedule document and groups its work weeks without emitting a model.
type InspectSchedule struct {
	reader domain.ScheduleReader
}

// NewInspectSchedule creates a new InspectSchedule use case.
func NewInspectSchedule(reader domain.ScheduleReader) *InspectSchedule {
	return &InspectSchedule{
		reader: reader,
	}
}

// Execute parses the document and computes the work-week groups of every calendar.
func (uc *InspectSchedule) Execute(_ context.Context, in InspectScheduleInput) (*InspectScheduleOutput, error) {
	if in.InputPath == "" {
		return nil, domain.ErrInputRequired
	}

	schedule, err := uc.reader.ReadFile(in.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}

	out := &InspectScheduleOutput{
		Schedule:  schedule,
		Calendars: make([]CalendarGroups, 0, len(schedule.Calendars)),
	}
	for _, cal := range schedule.Calendars {
		groups, err := domain.GroupWorkWeek(cal.WeekDays)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: %w", cal.UID, err)
		}
		out.Calendars = append(out.Calendars, CalendarGroups{Calendar: cal.Name, Groups: groups})
	}
	return out, nil
}
