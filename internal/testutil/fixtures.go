package testutil

import (
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// ProjectCreated is the creation date of the sample schedules.
var ProjectCreated = time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)

// Hours returns a working time between two whole hours.
func Hours(from, to int) domain.WorkingTime {
	return domain.WorkingTime{From: domain.TimeOfDay{Hour: from}, To: domain.TimeOfDay{Hour: to}}
}

// OfficeWeek returns a Sunday-first week with Mon-Fri 08-12 and 13-17 and an empty weekend.
func OfficeWeek() []*domain.WeekDay {
	office := func() []domain.WorkingTime { return []domain.WorkingTime{Hours(8, 12), Hours(13, 17)} }
	return []*domain.WeekDay{
		{DayType: "1"},
		{DayType: "2", WorkingTimes: office()},
		{DayType: "3", WorkingTimes: office()},
		{DayType: "4", WorkingTimes: office()},
		{DayType: "5", WorkingTimes: office()},
		{DayType: "6", WorkingTimes: office()},
		{DayType: "7"},
	}
}

// SampleSchedule returns a three-task schedule on one office calendar:
// 1 "Design" (8h), 2 "Build" (16h, after 1), 3 "Handover" (milestone, after 2).
func SampleSchedule() *domain.Schedule {
	day := func(d, h int) time.Time { return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC) }
	return &domain.Schedule{
		Name:    "Office Fit-Out",
		GUID:    "8E3D1C2A-7B4F-4E6A-9C1D-2F3A4B5C6D7E",
		Created: ProjectCreated,
		Tasks: []*domain.Task{
			{
				UID: "1", Name: "Design", WBS: "1", OutlineLevel: 1, Priority: 500,
				Start: day(8, 8), Finish: day(8, 17), Duration: 8 * time.Hour,
				CalendarUID: domain.DefaultCalendarUID,
			},
			{
				UID: "2", Name: "Build", WBS: "2", OutlineLevel: 1, Priority: 600,
				Start: day(9, 8), Finish: day(10, 17), Duration: 16 * time.Hour,
				CalendarUID: "1",
				Predecessor: &domain.PredecessorLink{UID: "1", Type: domain.LinkFinishStart},
			},
			{
				UID: "3", Name: "Handover", WBS: "3", OutlineLevel: 1, Priority: 500,
				Start: day(10, 17), Finish: day(10, 17),
				CalendarUID: "1",
				Predecessor: &domain.PredecessorLink{UID: "2", Type: domain.LinkStartStart},
			},
		},
		Calendars: []*domain.Calendar{
			{UID: "1", Name: "Standard", WeekDays: OfficeWeek()},
		},
	}
}
