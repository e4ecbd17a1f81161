package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ifcp6/msp2ifc/internal/app"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testWorkDir   = "/work"
	testGlobalDir = "/home/test/.config/msp2ifc"
	testLocalPath = "/work/msp2ifc.toml"
	testInput     = "/work/office.xml"
)

// sampleXML is a two-task schedule on a Monday-only office calendar with one holiday.
const sampleXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
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
          </WorkingTimes>
        </WeekDay>
      </WeekDays>
      <Exceptions>
        <Exception>
          <Name>Christmas</Name>
          <DayWorking>0</DayWorking>
          <TimePeriod><FromDate>2024-12-25T00:00:00</FromDate><ToDate>2024-12-25T23:59:00</ToDate></TimePeriod>
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
      <CalendarUID>1</CalendarUID>
    </Task>
    <Task>
      <UID>2</UID>
      <Name>Handover</Name>
      <WBS>2</WBS>
      <OutlineLevel>1</OutlineLevel>
      <Priority>500</Priority>
      <Start>2024-01-10T17:00:00</Start>
      <Finish>2024-01-10T17:00:00</Finish>
      <Duration>PT0H0M0S</Duration>
      <CalendarUID>1</CalendarUID>
      <PredecessorLink><PredecessorUID>1</PredecessorUID><Type>1</Type></PredecessorLink>
    </Task>
  </Tasks>
</Project>`

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestContainer creates a container over an in-memory filesystem holding the sample schedule.
func newTestContainer(t *testing.T) (*app.Container, afero.Fs, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testInput, []byte(sampleXML), 0o644))

	stderr := &bytes.Buffer{}
	c := app.NewWithDeps(app.Config{
		WorkDir:         testWorkDir,
		LocalConfigPath: testLocalPath,
		GlobalConfigDir: testGlobalDir,
	}, fs, fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}, stderr)
	t.Cleanup(func() { _ = c.Close() })

	return c, fs, stderr
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	if args == nil {
		args = []string{}
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// stripFileName drops the FILE_NAME header line, which carries the output file name.
func stripFileName(step string) string {
	lines := strings.Split(step, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(l, "FILE_NAME") {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
