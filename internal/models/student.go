package models

import "time"

// GradeLevel is the student's current grade within the school, or the
// terminal graduated marker set by promotion.
type GradeLevel string

const (
	GradeFirst     GradeLevel = "1"
	GradeSecond    GradeLevel = "2"
	GradeThird     GradeLevel = "3"
	GradeGraduated GradeLevel = "graduated"
)

// Next returns the grade level after one promotion. The boolean is false when
// the level is terminal (third grade graduates, graduated stays put).
func (g GradeLevel) Next() (GradeLevel, bool) {
	switch g {
	case GradeFirst:
		return GradeSecond, true
	case GradeSecond:
		return GradeThird, true
	default:
		return GradeGraduated, false
	}
}

// StudentStatus tracks roster membership. Students are never deleted.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusDropped   StudentStatus = "dropped"
	StudentStatusGraduated StudentStatus = "graduated"
)

// AdvanceMark is the qualitative tri-state value for advance periods.
// The empty string means unset.
type AdvanceMark string

const (
	AdvanceMarkRegular      AdvanceMark = "regular"
	AdvanceMarkNeedsSupport AdvanceMark = "needs_support"
)

// PeriodMarks holds one subject's stored values keyed by period. Advance
// periods store an AdvanceMark, term periods an integer score as text; for
// both kinds the empty string means no value captured.
type PeriodMarks map[PeriodID]string

// Student is a learner on the roster together with their full grade sheet.
type Student struct {
	ID        string                 `json:"id"`
	FullName  string                 `json:"full_name"`
	Grade     GradeLevel             `json:"grade"`
	Group     string                 `json:"group"`
	Status    StudentStatus          `json:"status"`
	Grades    map[string]PeriodMarks `json:"grades"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// CloneGrades deep-copies a grade sheet.
func CloneGrades(grades map[string]PeriodMarks) map[string]PeriodMarks {
	out := make(map[string]PeriodMarks, len(grades))
	for subject, marks := range grades {
		copied := make(PeriodMarks, len(marks))
		for period, value := range marks {
			copied[period] = value
		}
		out[subject] = copied
	}
	return out
}

// EmptyGradeSheet builds a fresh sheet scoped to the given subjects, with no
// values captured in any period.
func EmptyGradeSheet(subjects []Subject) map[string]PeriodMarks {
	out := make(map[string]PeriodMarks, len(subjects))
	for _, subject := range subjects {
		out[subject.ID] = make(PeriodMarks)
	}
	return out
}

// StudentFilter narrows roster listings.
type StudentFilter struct {
	Grade  GradeLevel
	Group  string
	Status StudentStatus
	Search string
}
