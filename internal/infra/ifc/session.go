package ifc

import (
	"fmt"
	"io"
	"time"

	"github.com/ifcp6/msp2ifc/internal/domain"
)

// Ensure Session implements domain.Model.
var _ domain.Model = (*Session)(nil)

// Enumeration values accepted by the authoring operations.
var (
	durationTypes = map[string]bool{
		"WORKTIME": true, "ELAPSEDTIME": true, "NOTDEFINED": true,
	}
	recurrenceTypes = map[string]bool{
		"DAILY": true, "WEEKLY": true, "MONTHLY_BY_DAY_OF_MONTH": true, "MONTHLY_BY_POSITION": true,
		"BY_DAY_COUNT": true, "BY_WEEKDAY_COUNT": true, "YEARLY_BY_DAY_OF_MONTH": true, "YEARLY_BY_POSITION": true,
	}
	sequenceTypes = map[string]bool{
		"START_START": true, "START_FINISH": true, "FINISH_START": true, "FINISH_FINISH": true,
		"USERDEFINED": true, "NOTDEFINED": true,
	}
)

const notDefined = "NOTDEFINED"

// Session authors schedule entities into one Document.
// Assignment relationships are reused per relating object, so a schedule controls
// all of its tasks through a single IfcRelAssignsToControl.
type Session struct {
	doc        *Document
	project    *Project
	declares   *RelDeclares
	controls   map[int]*RelAssignsToControl
	nests      map[int]*RelNests
	aggregates map[int]*RelAggregates
}

// NewSession creates a document holding a single IfcProject and returns its session.
func NewSession(header domain.ModelHeader) *Session {
	doc := NewDocument(header)
	project := &Project{Root: Root{GlobalID: doc.NewGlobalID(), Name: header.ProjectName}}
	doc.Add(project)
	return &Session{
		doc:        doc,
		project:    project,
		controls:   make(map[int]*RelAssignsToControl),
		nests:      make(map[int]*RelNests),
		aggregates: make(map[int]*RelAggregates),
	}
}

// Factory creates sessions for fresh documents.
type Factory struct{}

// NewModel implements domain.ModelFactory.
func (Factory) NewModel(header domain.ModelHeader) domain.Model {
	return NewSession(header)
}

// Document returns the document being authored.
func (s *Session) Document() *Document {
	return s.doc
}

// WriteTo serializes the document.
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	return s.doc.WriteTo(w)
}

// Stats counts entities by type.
func (s *Session) Stats() domain.ModelStats {
	return s.doc.Stats()
}

func lookup[T Entity](s *Session, ref domain.EntityRef, what string) (T, error) {
	var zero T
	e, ok := s.doc.ByID(int(ref))
	if !ok {
		return zero, fmt.Errorf("%w: %s #%d", ErrEntityNotFound, what, ref)
	}
	t, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%w: #%d is %s, want %s", ErrWrongEntity, ref, e.Type(), what)
	}
	return t, nil
}

func refOf(e Entity) domain.EntityRef {
	return domain.EntityRef(e.ID())
}

// declare adds a definition to the project's IfcRelDeclares.
func (s *Session) declare(e Entity) {
	if s.declares == nil {
		s.declares = &RelDeclares{
			Root:            Root{GlobalID: s.doc.NewGlobalID()},
			RelatingContext: s.project,
		}
		s.doc.Add(s.declares)
	}
	s.declares.RelatedDefinitions = append(s.declares.RelatedDefinitions, e)
}

func (s *Session) assignToControl(control, object Entity) *RelAssignsToControl {
	rel, ok := s.controls[control.ID()]
	if !ok {
		rel = &RelAssignsToControl{
			Root:            Root{GlobalID: s.doc.NewGlobalID()},
			RelatingControl: control,
		}
		s.doc.Add(rel)
		s.controls[control.ID()] = rel
	}
	rel.RelatedObjects = append(rel.RelatedObjects, object)
	return rel
}

func (s *Session) nest(parent, child Entity) {
	rel, ok := s.nests[parent.ID()]
	if !ok {
		rel = &RelNests{
			Root:           Root{GlobalID: s.doc.NewGlobalID()},
			RelatingObject: parent,
		}
		s.doc.Add(rel)
		s.nests[parent.ID()] = rel
	}
	rel.RelatedObjects = append(rel.RelatedObjects, child)
}

func (s *Session) aggregate(whole, part Entity) {
	rel, ok := s.aggregates[whole.ID()]
	if !ok {
		rel = &RelAggregates{
			Root:           Root{GlobalID: s.doc.NewGlobalID()},
			RelatingObject: whole,
		}
		s.doc.Add(rel)
		s.aggregates[whole.ID()] = rel
	}
	rel.RelatedObjects = append(rel.RelatedObjects, part)
}

// AddWorkPlan creates an IfcWorkPlan declared in the project.
func (s *Session) AddWorkPlan(name string, created time.Time) (domain.EntityRef, error) {
	if created.IsZero() {
		return 0, invalidAttribute("IfcWorkPlan", "CreationDate", "unset")
	}
	plan := &WorkPlan{WorkControl{
		Root:           Root{GlobalID: s.doc.NewGlobalID(), Name: name},
		CreationDate:   created,
		StartTime:      created,
		PredefinedType: notDefined,
	}}
	s.doc.Add(plan)
	s.declare(plan)
	return refOf(plan), nil
}

// AddWorkSchedule creates an IfcWorkSchedule. With a work plan it is aggregated
// under the plan, otherwise it is declared in the project.
func (s *Session) AddWorkSchedule(attrs domain.WorkScheduleAttributes, workPlan domain.EntityRef) (domain.EntityRef, error) {
	if attrs.CreationDate.IsZero() {
		return 0, invalidAttribute("IfcWorkSchedule", "CreationDate", "unset")
	}
	if attrs.StartTime.IsZero() {
		return 0, invalidAttribute("IfcWorkSchedule", "StartTime", "unset")
	}
	var plan *WorkPlan
	if !workPlan.IsZero() {
		var err error
		if plan, err = lookup[*WorkPlan](s, workPlan, "IfcWorkPlan"); err != nil {
			return 0, err
		}
	}
	schedule := &WorkSchedule{WorkControl{
		Root:           Root{GlobalID: s.doc.NewGlobalID(), Name: attrs.Name},
		CreationDate:   attrs.CreationDate,
		StartTime:      attrs.StartTime,
		FinishTime:     attrs.FinishTime,
		Purpose:        attrs.Purpose,
		PredefinedType: notDefined,
	}}
	s.doc.Add(schedule)
	if plan != nil {
		s.aggregate(plan, schedule)
	} else {
		s.declare(schedule)
	}
	return refOf(schedule), nil
}

// AddTask creates an IfcTask controlled by schedule or nested under parent.
// Exactly one of schedule and parent must be set.
func (s *Session) AddTask(schedule, parent domain.EntityRef) (domain.EntityRef, error) {
	if schedule.IsZero() == parent.IsZero() {
		return 0, invalidAttribute("IfcTask", "container", "exactly one of work schedule and parent task")
	}
	task := &Task{
		Root:           Root{GlobalID: s.doc.NewGlobalID()},
		PredefinedType: notDefined,
	}
	if !schedule.IsZero() {
		ws, err := lookup[*WorkSchedule](s, schedule, "IfcWorkSchedule")
		if err != nil {
			return 0, err
		}
		s.doc.Add(task)
		s.assignToControl(ws, task)
		return refOf(task), nil
	}
	pt, err := lookup[*Task](s, parent, "IfcTask")
	if err != nil {
		return 0, err
	}
	s.doc.Add(task)
	s.nest(pt, task)
	return refOf(task), nil
}

// EditTask sets task attributes.
func (s *Session) EditTask(ref domain.EntityRef, attrs domain.TaskAttributes) error {
	task, err := lookup[*Task](s, ref, "IfcTask")
	if err != nil {
		return err
	}
	task.Name = attrs.Name
	task.Identification = attrs.Identification
	task.IsMilestone = attrs.IsMilestone
	if attrs.Priority != nil {
		p := *attrs.Priority
		task.Priority = &p
	}
	return nil
}

// AddTaskTime creates the IfcTaskTime of a task.
func (s *Session) AddTaskTime(ref domain.EntityRef) (domain.EntityRef, error) {
	task, err := lookup[*Task](s, ref, "IfcTask")
	if err != nil {
		return 0, err
	}
	if task.TaskTime != nil {
		return 0, fmt.Errorf("%w: IfcTask #%d already has a task time", ErrAlreadyAssigned, task.ID())
	}
	tt := &TaskTime{}
	s.doc.Add(tt)
	task.TaskTime = tt
	return refOf(tt), nil
}

// EditTaskTime sets task time attributes.
func (s *Session) EditTaskTime(ref domain.EntityRef, attrs domain.TaskTimeAttributes) error {
	tt, err := lookup[*TaskTime](s, ref, "IfcTaskTime")
	if err != nil {
		return err
	}
	if attrs.DurationType != "" && !durationTypes[string(attrs.DurationType)] {
		return invalidAttribute("IfcTaskTime", "DurationType", attrs.DurationType)
	}
	if attrs.ScheduleDuration < 0 {
		return invalidAttribute("IfcTaskTime", "ScheduleDuration", attrs.ScheduleDuration)
	}
	tt.ScheduleStart = attrs.ScheduleStart
	tt.ScheduleFinish = attrs.ScheduleFinish
	tt.DurationType = string(attrs.DurationType)
	tt.ScheduleDuration = attrs.ScheduleDuration
	return nil
}

// AddWorkCalendar creates an IfcWorkCalendar declared in the project.
func (s *Session) AddWorkCalendar(name string) (domain.EntityRef, error) {
	cal := &WorkCalendar{
		Root:           Root{GlobalID: s.doc.NewGlobalID(), Name: name},
		PredefinedType: notDefined,
	}
	s.doc.Add(cal)
	s.declare(cal)
	return refOf(cal), nil
}

// AddWorkTime creates an IfcWorkTime in the calendar's working or exception set.
func (s *Session) AddWorkTime(calendar domain.EntityRef, timeType domain.WorkTimeType) (domain.EntityRef, error) {
	cal, err := lookup[*WorkCalendar](s, calendar, "IfcWorkCalendar")
	if err != nil {
		return 0, err
	}
	wt := &WorkTime{}
	switch timeType {
	case domain.WorkTimeWorking:
		s.doc.Add(wt)
		cal.WorkingTimes = append(cal.WorkingTimes, wt)
	case domain.WorkTimeException:
		s.doc.Add(wt)
		cal.ExceptionTimes = append(cal.ExceptionTimes, wt)
	default:
		return 0, invalidAttribute("IfcWorkCalendar", "time_type", timeType)
	}
	return refOf(wt), nil
}

// EditWorkTime sets work time attributes.
func (s *Session) EditWorkTime(ref domain.EntityRef, attrs domain.WorkTimeAttributes) error {
	wt, err := lookup[*WorkTime](s, ref, "IfcWorkTime")
	if err != nil {
		return err
	}
	if !attrs.Start.IsZero() && !attrs.Finish.IsZero() && attrs.Finish.Before(attrs.Start) {
		return invalidAttribute("IfcWorkTime", "Finish", attrs.Finish.Format(dateLayout))
	}
	wt.Name = attrs.Name
	wt.Start = attrs.Start
	wt.Finish = attrs.Finish
	return nil
}

// AssignRecurrencePattern attaches a new IfcRecurrencePattern to a work time.
func (s *Session) AssignRecurrencePattern(workTime domain.EntityRef, recurrence domain.RecurrenceType) (domain.EntityRef, error) {
	wt, err := lookup[*WorkTime](s, workTime, "IfcWorkTime")
	if err != nil {
		return 0, err
	}
	if !recurrenceTypes[string(recurrence)] {
		return 0, invalidAttribute("IfcRecurrencePattern", "RecurrenceType", recurrence)
	}
	if wt.RecurrencePattern != nil {
		return 0, fmt.Errorf("%w: IfcWorkTime #%d already has a recurrence pattern", ErrAlreadyAssigned, wt.ID())
	}
	rp := &RecurrencePattern{RecurrenceType: string(recurrence)}
	s.doc.Add(rp)
	wt.RecurrencePattern = rp
	return refOf(rp), nil
}

// EditRecurrencePattern sets recurrence pattern attributes.
func (s *Session) EditRecurrencePattern(ref domain.EntityRef, attrs domain.RecurrenceAttributes) error {
	rp, err := lookup[*RecurrencePattern](s, ref, "IfcRecurrencePattern")
	if err != nil {
		return err
	}
	for _, d := range attrs.WeekdayComponent {
		if d < 1 || d > 7 {
			return invalidAttribute("IfcRecurrencePattern", "WeekdayComponent", d)
		}
	}
	rp.WeekdayComponent = append([]int(nil), attrs.WeekdayComponent...)
	return nil
}

// AddTimePeriod appends an IfcTimePeriod to a recurrence pattern.
func (s *Session) AddTimePeriod(pattern domain.EntityRef, start, end domain.TimeOfDay) (domain.EntityRef, error) {
	rp, err := lookup[*RecurrencePattern](s, pattern, "IfcRecurrencePattern")
	if err != nil {
		return 0, err
	}
	if !validTimeOfDay(start) {
		return 0, invalidAttribute("IfcTimePeriod", "StartTime", start)
	}
	if !validTimeOfDay(end) {
		return 0, invalidAttribute("IfcTimePeriod", "EndTime", end)
	}
	tp := &TimePeriod{StartTime: start.String(), EndTime: end.String()}
	s.doc.Add(tp)
	rp.TimePeriods = append(rp.TimePeriods, tp)
	return refOf(tp), nil
}

func validTimeOfDay(t domain.TimeOfDay) bool {
	if t.Hour == 24 {
		return t.Minute == 0 && t.Second == 0
	}
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60 && t.Second >= 0 && t.Second < 60
}

// AssignSequence creates an IfcRelSequence: relating precedes related.
// The sequence type defaults to FINISH_START.
func (s *Session) AssignSequence(relating, related domain.EntityRef) (domain.EntityRef, error) {
	if relating == related {
		return 0, invalidAttribute("IfcRelSequence", "RelatedProcess", "same as RelatingProcess")
	}
	from, err := lookup[*Task](s, relating, "IfcTask")
	if err != nil {
		return 0, err
	}
	to, err := lookup[*Task](s, related, "IfcTask")
	if err != nil {
		return 0, err
	}
	rel := &RelSequence{
		Root:            Root{GlobalID: s.doc.NewGlobalID()},
		RelatingProcess: from,
		RelatedProcess:  to,
		SequenceType:    string(domain.DefaultSequenceType),
	}
	s.doc.Add(rel)
	return refOf(rel), nil
}

// EditSequence sets sequence attributes.
func (s *Session) EditSequence(ref domain.EntityRef, attrs domain.SequenceAttributes) error {
	rel, err := lookup[*RelSequence](s, ref, "IfcRelSequence")
	if err != nil {
		return err
	}
	if attrs.SequenceType == "" {
		return nil
	}
	if !sequenceTypes[string(attrs.SequenceType)] {
		return invalidAttribute("IfcRelSequence", "SequenceType", attrs.SequenceType)
	}
	rel.SequenceType = string(attrs.SequenceType)
	return nil
}

// AssignControl assigns a task to a control (work calendar, schedule or plan).
func (s *Session) AssignControl(control, object domain.EntityRef) (domain.EntityRef, error) {
	c, ok := s.doc.ByID(int(control))
	if !ok {
		return 0, fmt.Errorf("%w: control #%d", ErrEntityNotFound, control)
	}
	switch c.(type) {
	case *WorkCalendar, *WorkSchedule, *WorkPlan:
	default:
		return 0, fmt.Errorf("%w: #%d is %s, want a control", ErrWrongEntity, control, c.Type())
	}
	task, err := lookup[*Task](s, object, "IfcTask")
	if err != nil {
		return 0, err
	}
	return refOf(s.assignToControl(c, task)), nil
}
