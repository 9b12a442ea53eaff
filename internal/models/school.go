package models

import "time"

// ScheduleRow is one row of the timetable grid layout (a time band).
type ScheduleRow struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleEntry places a subject/teacher into one grid cell.
type ScheduleEntry struct {
	RowID     string `json:"row_id"`
	Day       int    `json:"day"`
	Group     string `json:"group"`
	SubjectID string `json:"subject_id"`
	TeacherID string `json:"teacher_id"`
}

// Citation is a parent-citation record, transient per cycle.
type Citation struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Reason    string    `json:"reason"`
	Date      time.Time `json:"date"`
	IssuedBy  string    `json:"issued_by"`
}

// Minuta is a visit-log entry, transient per cycle.
type Minuta struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Notes      string    `json:"notes"`
	Date       time.Time `json:"date"`
	RecordedBy string    `json:"recorded_by"`
}

// SchoolState is the whole-school document. Every mutation produces a fresh
// snapshot; the persistence layer replaces the document wholesale, so there
// is deliberately no per-field isolation.
type SchoolState struct {
	Cycle        string          `json:"cycle"`
	Periods      PeriodStateMap  `json:"periods"`
	Students     []Student       `json:"students"`
	Users        []User          `json:"users"`
	Subjects     []Subject       `json:"subjects"`
	Workshops    []Workshop      `json:"workshops"`
	ScheduleRows []ScheduleRow   `json:"schedule_rows"`
	Schedule     []ScheduleEntry `json:"schedule"`
	Citations    []Citation      `json:"citations"`
	Minutas      []Minuta        `json:"minutas"`
	Revision     string          `json:"revision"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Clone deep-copies the document so functional updates cannot alias the
// snapshot handed out to readers.
func (s SchoolState) Clone() SchoolState {
	out := s
	out.Periods = s.Periods.Clone()
	out.Students = make([]Student, len(s.Students))
	for i, student := range s.Students {
		student.Grades = CloneGrades(student.Grades)
		out.Students[i] = student
	}
	out.Users = make([]User, len(s.Users))
	for i, user := range s.Users {
		user.Assignments = append([]Assignment(nil), user.Assignments...)
		out.Users[i] = user
	}
	out.Subjects = append([]Subject(nil), s.Subjects...)
	out.Workshops = append([]Workshop(nil), s.Workshops...)
	out.ScheduleRows = append([]ScheduleRow(nil), s.ScheduleRows...)
	out.Schedule = append([]ScheduleEntry(nil), s.Schedule...)
	out.Citations = append([]Citation(nil), s.Citations...)
	out.Minutas = append([]Minuta(nil), s.Minutas...)
	return out
}

// DefaultSchoolState seeds a brand-new document for the given cycle label:
// initial period configuration, default curriculum, empty collections.
func DefaultSchoolState(cycle string) SchoolState {
	return SchoolState{
		Cycle:    cycle,
		Periods:  InitialPeriodStates(),
		Subjects: DefaultSubjectCatalog(),
	}
}

// CyclePromotionResult is the outcome contract of the promotion engine. It is
// reported to the caller, never persisted.
type CyclePromotionResult struct {
	Advanced  int    `json:"advanced"`
	Graduated int    `json:"graduated"`
	Unchanged int    `json:"unchanged"`
	NextCycle string `json:"next_cycle"`
}

// PromotionPreview mirrors the fresh precondition check for the confirmation
// screen. Counts are indicative; Promote recomputes everything.
type PromotionPreview struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	WouldAdvance  int    `json:"would_advance"`
	WouldGraduate int    `json:"would_graduate"`
	Unchanged     int    `json:"unchanged"`
	NextCycle     string `json:"next_cycle"`
}
