package domain

import (
	"fmt"
	"time"
)

// DefaultCalendarUID is the calendar reference meaning "use the project calendar".
const DefaultCalendarUID = "-1"

// Calendar represents a working-time calendar.
// Fields are ordered to minimize memory padding.
type Calendar struct {
	UID        string              // Calendar UID
	Name       string              // Calendar name
	WeekDays   []*WeekDay          // Standard work week, in document order
	Exceptions []CalendarException // Dated exceptions to the work week
	Ref        EntityRef           // Emitted calendar handle (zero until emitted)
}

// WeekDay holds the working times of one day of the standard week.
// Fields are ordered to minimize memory padding.
type WeekDay struct {
	DayType      string        // Day code: "1" = Sunday ... "7" = Saturday
	WorkingTimes []WorkingTime // Working intervals, in document order
	WorkTime     EntityRef     // Shared work-time handle (zero until grouped)
}

// CalendarException is a dated override of the standard work week.
// Fields are ordered to minimize memory padding.
type CalendarException struct {
	From         time.Time     // First day covered
	To           time.Time     // Last day covered
	Name         string        // Exception name (may be empty)
	WorkingTimes []WorkingTime // Working intervals when Working is true
	Working      bool          // Whether the exception days are working days
}

// WorkingTime is a working interval within a day.
type WorkingTime struct {
	From TimeOfDay
	To   TimeOfDay
}

// TimeOfDay is a wall-clock time with second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses an "HH:MM:SS" or "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	// MS Project writes midnight at the end of a day as 24:00:00.
	if s == "24:00:00" || s == "24:00" {
		return TimeOfDay{Hour: 24}, nil
	}
	return TimeOfDay{}, fmt.Errorf("%w: time of day %q", ErrInvalidValue, s)
}

// String returns the time formatted as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// EqualWorkingTimes reports whether two interval lists are structurally identical:
// same length and the same From/To pairs in the same order.
func EqualWorkingTimes(a, b []WorkingTime) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
