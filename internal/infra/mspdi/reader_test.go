package mspdi

import (
	"strings"
	"testing"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Name>Office Fit-Out</Name>
  <GUID>8E3D1C2A-7B4F-4E6A-9C1D-2F3A4B5C6D7E</GUID>
  <CreationDate>2024-01-08T08:00:00</CreationDate>
  <Calendars>
    <Calendar>
      <UID>1</UID>
      <Name>Standard</Name>
      <WeekDays>
        <WeekDay><DayType>1</DayType><DayWorking>0</DayWorking></WeekDay>
        <WeekDay><DayType>2</DayType><DayWorking>1</DayWorking>
          <WorkingTimes>
            <WorkingTime><FromTime>08:00:00</FromTime><ToTime>12:00:00</ToTime></WorkingTime>
            <WorkingTime><FromTime>13:00:00</FromTime><ToTime>17:00:00</ToTime></WorkingTime>
          </WorkingTimes>
        </WeekDay>
        <WeekDay><DayType>3</DayType><DayWorking>1</DayWorking>
          <WorkingTimes>
            <WorkingTime><FromTime>08:00:00</FromTime><ToTime>12:00:00</ToTime></WorkingTime>
            <WorkingTime><FromTime>13:00:00</FromTime><ToTime>17:00:00</ToTime></WorkingTime>
          </WorkingTimes>
        </WeekDay>
        <WeekDay><DayType>7</DayType><DayWorking>0</DayWorking></WeekDay>
        <WeekDay><DayType>0</DayType><DayWorking>0</DayWorking>
          <TimePeriod><FromDate>2024-12-25T00:00:00</FromDate><ToDate>2024-12-26T23:59:00</ToDate></TimePeriod>
        </WeekDay>
      </WeekDays>
      <Exceptions>
        <Exception>
          <Name>Saturday shift</Name>
          <DayWorking>1</DayWorking>
          <TimePeriod><FromDate>2024-03-02T00:00:00</FromDate><ToDate>2024-03-02T23:59:00</ToDate></TimePeriod>
          <WorkingTimes>
            <WorkingTime><FromTime>09:00:00</FromTime><ToTime>13:00:00</ToTime></WorkingTime>
          </WorkingTimes>
        </Exception>
      </Exceptions>
    </Calendar>
  </Calendars>
  <Tasks>
    <Task>
      <UID>1</UID>
      <Name>Strip out</Name>
      <WBS>1</WBS>
      <OutlineLevel>1</OutlineLevel>
      <Priority>500</Priority>
      <Start>2024-01-08T08:00:00</Start>
      <Finish>2024-01-10T17:00:00</Finish>
      <Duration>PT24H0M0S</Duration>
      <CalendarUID>-1</CalendarUID>
    </Task>
    <Task>
      <UID>2</UID>
      <Name>Handover</Name>
      <WBS>2</WBS>
      <OutlineLevel>1</OutlineLevel>
      <Priority>700</Priority>
      <Start>2024-01-10T17:00:00</Start>
      <Finish>2024-01-10T17:00:00</Finish>
      <Duration>PT0H0M0S</Duration>
      <CalendarUID>1</CalendarUID>
      <PredecessorLink><PredecessorUID>1</PredecessorUID><Type>3</Type><LinkLag>4800</LinkLag></PredecessorLink>
      <PredecessorLink><PredecessorUID>9</PredecessorUID><Type>1</Type></PredecessorLink>
    </Task>
  </Tasks>
</Project>`

func TestReader_Read(t *testing.T) {
	// Setup
	r := NewReader(afero.NewMemMapFs())

	// Execute
	s, err := r.Read(strings.NewReader(sampleProject))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Office Fit-Out", s.Name)
	assert.Equal(t, "8E3D1C2A-7B4F-4E6A-9C1D-2F3A4B5C6D7E", s.GUID)
	assert.Equal(t, time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), s.Created)

	require.Len(t, s.Tasks, 2)
	first := s.Tasks[0]
	assert.Equal(t, "1", first.UID)
	assert.Equal(t, "Strip out", first.Name)
	assert.Equal(t, 500, first.Priority)
	assert.Equal(t, 24*time.Hour, first.Duration)
	assert.Equal(t, domain.DefaultCalendarUID, first.CalendarUID)
	assert.Nil(t, first.Predecessor)
	assert.False(t, first.IsMilestone())

	second := s.Tasks[1]
	assert.True(t, second.IsMilestone())
	assert.False(t, second.HasDuration())
	require.NotNil(t, second.Predecessor)
	assert.Equal(t, "1", second.Predecessor.UID)
	assert.Equal(t, domain.LinkStartStart, second.Predecessor.Type)
	assert.Equal(t, 4800, second.Predecessor.Lag)
}

func TestReader_Read_Calendars(t *testing.T) {
	r := NewReader(afero.NewMemMapFs())

	s, err := r.Read(strings.NewReader(sampleProject))
	require.NoError(t, err)

	require.Len(t, s.Calendars, 1)
	cal := s.Calendars[0]
	assert.Equal(t, "1", cal.UID)
	assert.Equal(t, "Standard", cal.Name)

	// The dated day type 0 entry is moved to the exceptions.
	require.Len(t, cal.WeekDays, 4)
	assert.Equal(t, "1", cal.WeekDays[0].DayType)
	assert.Empty(t, cal.WeekDays[0].WorkingTimes)
	assert.Equal(t, []domain.WorkingTime{
		{From: domain.TimeOfDay{Hour: 8}, To: domain.TimeOfDay{Hour: 12}},
		{From: domain.TimeOfDay{Hour: 13}, To: domain.TimeOfDay{Hour: 17}},
	}, cal.WeekDays[1].WorkingTimes)

	require.Len(t, cal.Exceptions, 2)
	holiday := cal.Exceptions[0]
	assert.False(t, holiday.Working)
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), holiday.From)
	assert.Equal(t, time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), holiday.To)

	shift := cal.Exceptions[1]
	assert.Equal(t, "Saturday shift", shift.Name)
	assert.True(t, shift.Working)
	assert.Equal(t, []domain.WorkingTime{
		{From: domain.TimeOfDay{Hour: 9}, To: domain.TimeOfDay{Hour: 13}},
	}, shift.WorkingTimes)
}

func TestReader_Read_WorkingTimeWithoutFromTimeSkipped(t *testing.T) {
	doc := `<Project><Name>P</Name><Tasks/><Calendars><Calendar><UID>1</UID><Name>C</Name><WeekDays>
<WeekDay><DayType>2</DayType><WorkingTimes>
  <WorkingTime/>
  <WorkingTime><FromTime>08:00</FromTime><ToTime>24:00:00</ToTime></WorkingTime>
</WorkingTimes></WeekDay></WeekDays></Calendar></Calendars></Project>`

	s, err := NewReader(afero.NewMemMapFs()).Read(strings.NewReader(doc))

	require.NoError(t, err)
	require.Len(t, s.Calendars[0].WeekDays, 1)
	assert.Equal(t, []domain.WorkingTime{
		{From: domain.TimeOfDay{Hour: 8}, To: domain.TimeOfDay{Hour: 24}},
	}, s.Calendars[0].WeekDays[0].WorkingTimes)
}

func TestReader_Read_Errors(t *testing.T) {
	task := func(fields string) string {
		return `<Project><Name>P</Name><Calendars/><Tasks><Task>` + fields + `</Task></Tasks></Project>`
	}
	full := `<UID>1</UID><Name>T</Name><WBS>1</WBS><OutlineLevel>1</OutlineLevel><Priority>500</Priority>` +
		`<Start>2024-01-08T08:00:00</Start><Finish>2024-01-08T17:00:00</Finish><Duration>PT8H0M0S</Duration>`

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"empty document", "", domain.ErrEmptyDocument},
		{"missing project name", `<Project><Tasks/><Calendars/></Project>`, domain.ErrMissingElement},
		{"missing tasks", `<Project><Name>P</Name><Calendars/></Project>`, domain.ErrMissingElement},
		{"missing calendars", `<Project><Name>P</Name><Tasks/></Project>`, domain.ErrMissingElement},
		{"missing calendar uid", task(full), domain.ErrMissingElement},
		{"bad priority", task(strings.Replace(full, "500", "high", 1) + `<CalendarUID>1</CalendarUID>`), domain.ErrInvalidValue},
		{"bad duration", task(strings.Replace(full, "PT8H0M0S", "eight hours", 1) + `<CalendarUID>1</CalendarUID>`), domain.ErrInvalidValue},
		{"bad start", task(strings.Replace(full, "2024-01-08T08:00:00", "Monday", 1) + `<CalendarUID>1</CalendarUID>`), domain.ErrInvalidValue},
		{
			"bad day type",
			`<Project><Name>P</Name><Tasks/><Calendars><Calendar><UID>1</UID><Name>C</Name><WeekDays><WeekDay><DayType>9</DayType></WeekDay></WeekDays></Calendar></Calendars></Project>`,
			domain.ErrInvalidDayType,
		},
		{
			"missing weekdays",
			`<Project><Name>P</Name><Tasks/><Calendars><Calendar><UID>1</UID><Name>C</Name></Calendar></Calendars></Project>`,
			domain.ErrMissingElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(afero.NewMemMapFs()).Read(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReader_ReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/plans/office.xml", []byte(sampleProject), 0o644))
	r := NewReader(fs)

	s, err := r.ReadFile("/plans/office.xml")
	require.NoError(t, err)
	assert.Len(t, s.Tasks, 2)

	_, err = r.ReadFile("/plans/missing.xml")
	assert.Error(t, err)
}
