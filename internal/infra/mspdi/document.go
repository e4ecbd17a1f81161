package mspdi

import "encoding/xml"

// Element names are matched by local name, so any project namespace is accepted.
// Pointer fields distinguish absent elements from empty ones.

type xmlProject struct {
	XMLName      xml.Name      `xml:"Project"`
	Name         *string       `xml:"Name"`
	GUID         *string       `xml:"GUID"`
	CreationDate *string       `xml:"CreationDate"`
	Calendars    *xmlCalendars `xml:"Calendars"`
	Tasks        *xmlTasks     `xml:"Tasks"`
}

type xmlCalendars struct {
	Calendar []xmlCalendar `xml:"Calendar"`
}

type xmlCalendar struct {
	UID        *string        `xml:"UID"`
	Name       *string        `xml:"Name"`
	WeekDays   *xmlWeekDays   `xml:"WeekDays"`
	Exceptions *xmlExceptions `xml:"Exceptions"`
}

type xmlWeekDays struct {
	WeekDay []xmlWeekDay `xml:"WeekDay"`
}

type xmlWeekDay struct {
	DayType      *string          `xml:"DayType"`
	DayWorking   *string          `xml:"DayWorking"`
	TimePeriod   *xmlTimePeriod   `xml:"TimePeriod"`
	WorkingTimes *xmlWorkingTimes `xml:"WorkingTimes"`
}

type xmlExceptions struct {
	Exception []xmlException `xml:"Exception"`
}

type xmlException struct {
	Name         *string          `xml:"Name"`
	DayWorking   *string          `xml:"DayWorking"`
	TimePeriod   *xmlTimePeriod   `xml:"TimePeriod"`
	WorkingTimes *xmlWorkingTimes `xml:"WorkingTimes"`
}

type xmlTimePeriod struct {
	FromDate *string `xml:"FromDate"`
	ToDate   *string `xml:"ToDate"`
}

type xmlWorkingTimes struct {
	WorkingTime []xmlWorkingTime `xml:"WorkingTime"`
}

type xmlWorkingTime struct {
	FromTime *string `xml:"FromTime"`
	ToTime   *string `xml:"ToTime"`
}

type xmlTasks struct {
	Task []xmlTask `xml:"Task"`
}

type xmlTask struct {
	UID             *string              `xml:"UID"`
	Name            *string              `xml:"Name"`
	OutlineLevel    *string              `xml:"OutlineLevel"`
	WBS             *string              `xml:"WBS"`
	Start           *string              `xml:"Start"`
	Finish          *string              `xml:"Finish"`
	Duration        *string              `xml:"Duration"`
	Priority        *string              `xml:"Priority"`
	CalendarUID     *string              `xml:"CalendarUID"`
	PredecessorLink []xmlPredecessorLink `xml:"PredecessorLink"`
}

type xmlPredecessorLink struct {
	PredecessorUID *string `xml:"PredecessorUID"`
	Type           *string `xml:"Type"`
	LinkLag        *string `xml:"LinkLag"`
}
