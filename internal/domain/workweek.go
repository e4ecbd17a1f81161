package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// weekdayPositions maps document day codes to ISO week positions (Monday = 1 ... Sunday = 7).
var weekdayPositions = map[string]int{
	"2": 1,
	"3": 2,
	"4": 3,
	"5": 4,
	"6": 5,
	"7": 6,
	"1": 7,
}

// WeekdayPosition returns the ISO week position for a document day code.
func WeekdayPosition(dayType string) (int, error) {
	pos, ok := weekdayPositions[dayType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayType, dayType)
	}
	return pos, nil
}

// WorkWeekGroup is a set of week days sharing one working-time list.
// Fields are ordered to minimize memory padding.
type WorkWeekGroup struct {
	Label        string        // "Weekdays: a, b, c"
	Weekdays     []int         // ISO positions, ascending
	Members      []int         // Indexes into the input slice; Members[0] is the seed
	WorkingTimes []WorkingTime // Shared working intervals
}

// GroupWorkWeek groups week days with identical working-time lists.
//
// Days are visited in input order. A day that already carries a WorkTime handle, or
// that was claimed by an earlier group, is skipped. Every other day is compared with
// the seed regardless of position; equality is EqualWorkingTimes.
func GroupWorkWeek(days []*WeekDay) ([]WorkWeekGroup, error) {
	claimed := make([]bool, len(days))
	var groups []WorkWeekGroup

	for i, day := range days {
		if claimed[i] || !day.WorkTime.IsZero() {
			continue
		}
		claimed[i] = true

		seed, err := WeekdayPosition(day.DayType)
		if err != nil {
			return nil, err
		}
		group := WorkWeekGroup{
			Weekdays:     []int{seed},
			Members:      []int{i},
			WorkingTimes: day.WorkingTimes,
		}

		for j, other := range days {
			if j == i || other.DayType == day.DayType {
				continue
			}
			if !EqualWorkingTimes(day.WorkingTimes, other.WorkingTimes) {
				continue
			}
			pos, err := WeekdayPosition(other.DayType)
			if err != nil {
				return nil, err
			}
			group.Weekdays = append(group.Weekdays, pos)
			group.Members = append(group.Members, j)
			claimed[j] = true
		}

		sort.Ints(group.Weekdays)
		group.Label = WeekdaysLabel(group.Weekdays)
		groups = append(groups, group)
	}

	return groups, nil
}

// WeekdaysLabel renders sorted week positions as "Weekdays: 1, 2, 3".
func WeekdaysLabel(positions []int) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return "Weekdays: " + strings.Join(parts, ", ")
}

// AssignWorkTime sets the group's handle on every member that has none.
// Handles that are already set are kept.
func (g WorkWeekGroup) AssignWorkTime(days []*WeekDay, ref EntityRef) {
	for _, i := range g.Members {
		if days[i].WorkTime.IsZero() {
			days[i].WorkTime = ref
		}
	}
}
