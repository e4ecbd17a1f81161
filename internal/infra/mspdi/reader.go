// Package mspdi reads Microsoft Project XML (MSPDI) schedule exports.
package mspdi

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/sosodev/duration"
	"github.com/spf13/afero"
)

// Ensure Reader implements domain.ScheduleReader.
var _ domain.ScheduleReader = (*Reader)(nil)

// Reader parses MSPDI documents into domain schedules.
type Reader struct {
	fs afero.Fs
}

// NewReader creates a Reader that opens files from fs.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// ReadFile parses the document at path.
func (r *Reader) ReadFile(path string) (*domain.Schedule, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer func() { _ = f.Close() }()

	schedule, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schedule, nil
}

// Read parses a document from rd.
func (r *Reader) Read(rd io.Reader) (*domain.Schedule, error) {
	var doc xmlProject
	if err := xml.NewDecoder(rd).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return convertProject(&doc)
}

func convertProject(doc *xmlProject) (*domain.Schedule, error) {
	name, err := required(doc.Name, "Project/Name")
	if err != nil {
		return nil, err
	}
	schedule := &domain.Schedule{
		Name: name,
		GUID: optional(doc.GUID),
	}
	if created := optional(doc.CreationDate); created != "" {
		if schedule.Created, err = parseDateTime(created); err != nil {
			return nil, fmt.Errorf("Project/CreationDate: %w", err)
		}
	}

	if doc.Tasks == nil {
		return nil, missing("Project/Tasks")
	}
	schedule.Tasks = make([]*domain.Task, 0, len(doc.Tasks.Task))
	for i := range doc.Tasks.Task {
		task, err := convertTask(&doc.Tasks.Task[i])
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		schedule.Tasks = append(schedule.Tasks, task)
	}

	if doc.Calendars == nil {
		return nil, missing("Project/Calendars")
	}
	schedule.Calendars = make([]*domain.Calendar, 0, len(doc.Calendars.Calendar))
	for i := range doc.Calendars.Calendar {
		cal, err := convertCalendar(&doc.Calendars.Calendar[i])
		if err != nil {
			return nil, fmt.Errorf("calendar %d: %w", i+1, err)
		}
		schedule.Calendars = append(schedule.Calendars, cal)
	}

	return schedule, nil
}

func convertTask(x *xmlTask) (*domain.Task, error) {
	var (
		t   domain.Task
		err error
		raw string
	)
	if t.UID, err = required(x.UID, "UID"); err != nil {
		return nil, err
	}
	if t.Name, err = required(x.Name, "Name"); err != nil {
		return nil, err
	}
	if t.WBS, err = required(x.WBS, "WBS"); err != nil {
		return nil, err
	}
	if t.CalendarUID, err = required(x.CalendarUID, "CalendarUID"); err != nil {
		return nil, err
	}
	if raw, err = required(x.OutlineLevel, "OutlineLevel"); err != nil {
		return nil, err
	}
	if t.OutlineLevel, err = parseInt(raw, "OutlineLevel"); err != nil {
		return nil, err
	}
	if raw, err = required(x.Priority, "Priority"); err != nil {
		return nil, err
	}
	if t.Priority, err = parseInt(raw, "Priority"); err != nil {
		return nil, err
	}
	if raw, err = required(x.Start, "Start"); err != nil {
		return nil, err
	}
	if t.Start, err = parseDateTime(raw); err != nil {
		return nil, fmt.Errorf("Start: %w", err)
	}
	if raw, err = required(x.Finish, "Finish"); err != nil {
		return nil, err
	}
	if t.Finish, err = parseDateTime(raw); err != nil {
		return nil, fmt.Errorf("Finish: %w", err)
	}
	if raw, err = required(x.Duration, "Duration"); err != nil {
		return nil, err
	}
	if t.Duration, err = parseDuration(raw); err != nil {
		return nil, fmt.Errorf("Duration: %w", err)
	}

	// Only the first link is kept.
	if len(x.PredecessorLink) > 0 {
		link := x.PredecessorLink[0]
		uid, err := required(link.PredecessorUID, "PredecessorLink/PredecessorUID")
		if err != nil {
			return nil, err
		}
		t.Predecessor = &domain.PredecessorLink{
			UID:  uid,
			Type: domain.LinkType(optional(link.Type)),
		}
		if lag := optional(link.LinkLag); lag != "" {
			if t.Predecessor.Lag, err = parseInt(lag, "PredecessorLink/LinkLag"); err != nil {
				return nil, err
			}
		}
	}

	return &t, nil
}

func convertCalendar(x *xmlCalendar) (*domain.Calendar, error) {
	var (
		cal domain.Calendar
		err error
	)
	if cal.UID, err = required(x.UID, "UID"); err != nil {
		return nil, err
	}
	if cal.Name, err = required(x.Name, "Name"); err != nil {
		return nil, err
	}
	if x.WeekDays == nil {
		return nil, missing("WeekDays")
	}

	for i := range x.WeekDays.WeekDay {
		wd := &x.WeekDays.WeekDay[i]
		dayType, err := required(wd.DayType, "WeekDay/DayType")
		if err != nil {
			return nil, fmt.Errorf("weekday %d: %w", i+1, err)
		}
		times, err := convertWorkingTimes(wd.WorkingTimes)
		if err != nil {
			return nil, fmt.Errorf("weekday %d: %w", i+1, err)
		}
		// Day type 0 is a dated exception in older exports.
		if dayType == "0" {
			exc, err := convertException(nil, wd.DayWorking, wd.TimePeriod, times)
			if err != nil {
				return nil, fmt.Errorf("weekday %d: %w", i+1, err)
			}
			cal.Exceptions = append(cal.Exceptions, exc)
			continue
		}
		if _, err := domain.WeekdayPosition(dayType); err != nil {
			return nil, fmt.Errorf("weekday %d: %w", i+1, err)
		}
		cal.WeekDays = append(cal.WeekDays, &domain.WeekDay{
			DayType:      dayType,
			WorkingTimes: times,
		})
	}

	if x.Exceptions != nil {
		for i := range x.Exceptions.Exception {
			e := &x.Exceptions.Exception[i]
			times, err := convertWorkingTimes(e.WorkingTimes)
			if err != nil {
				return nil, fmt.Errorf("exception %d: %w", i+1, err)
			}
			exc, err := convertException(e.Name, e.DayWorking, e.TimePeriod, times)
			if err != nil {
				return nil, fmt.Errorf("exception %d: %w", i+1, err)
			}
			cal.Exceptions = append(cal.Exceptions, exc)
		}
	}

	return &cal, nil
}

// convertWorkingTimes skips entries without FromTime; ToTime is then required.
func convertWorkingTimes(x *xmlWorkingTimes) ([]domain.WorkingTime, error) {
	if x == nil {
		return nil, nil
	}
	var times []domain.WorkingTime
	for _, w := range x.WorkingTime {
		if w.FromTime == nil {
			continue
		}
		to, err := required(w.ToTime, "WorkingTime/ToTime")
		if err != nil {
			return nil, err
		}
		from, err := domain.ParseTimeOfDay(strings.TrimSpace(*w.FromTime))
		if err != nil {
			return nil, fmt.Errorf("WorkingTime/FromTime: %w", err)
		}
		end, err := domain.ParseTimeOfDay(to)
		if err != nil {
			return nil, fmt.Errorf("WorkingTime/ToTime: %w", err)
		}
		times = append(times, domain.WorkingTime{From: from, To: end})
	}
	return times, nil
}

func convertException(name, dayWorking *string, period *xmlTimePeriod, times []domain.WorkingTime) (domain.CalendarException, error) {
	exc := domain.CalendarException{
		Name:    optional(name),
		Working: optional(dayWorking) == "1",
	}
	if period == nil {
		return exc, missing("TimePeriod")
	}
	from, err := required(period.FromDate, "TimePeriod/FromDate")
	if err != nil {
		return exc, err
	}
	to, err := required(period.ToDate, "TimePeriod/ToDate")
	if err != nil {
		return exc, err
	}
	if exc.From, err = parseDateTime(from); err != nil {
		return exc, fmt.Errorf("TimePeriod/FromDate: %w", err)
	}
	if exc.To, err = parseDateTime(to); err != nil {
		return exc, fmt.Errorf("TimePeriod/ToDate: %w", err)
	}
	exc.From = truncateToDate(exc.From)
	exc.To = truncateToDate(exc.To)
	if exc.Working {
		exc.WorkingTimes = times
	}
	return exc, nil
}

func missing(path string) error {
	return fmt.Errorf("%w: %s", domain.ErrMissingElement, path)
}

func required(v *string, path string) (string, error) {
	if v == nil {
		return "", missing(path)
	}
	return strings.TrimSpace(*v), nil
}

func optional(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func parseInt(s, path string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalidValue, path, s)
	}
	return n, nil
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDateTime accepts local date-times as written by MS Project; they are kept as UTC wall times.
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date-time %q", domain.ErrInvalidValue, s)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q", domain.ErrInvalidValue, s)
	}
	return d.ToTimeDuration(), nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
