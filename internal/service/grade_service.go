package service

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

// CaptureGradeRequest is a single grade-cell write.
type CaptureGradeRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	SubjectID string          `json:"subject_id" validate:"required"`
	Period    models.PeriodID `json:"period" validate:"required"`
	Value     string          `json:"value"`
}

// CaptureResult reports whether the proposed value was applied and what the
// cell holds afterwards. A rejection is not an error: the caller simply
// leaves its input unchanged.
type CaptureResult struct {
	Applied bool   `json:"applied"`
	Stored  string `json:"stored"`
}

// GradeService enforces the period-type capture rules. Write eligibility is
// strictly period-state-driven and identical for every caller; role checks
// happen before the service is invoked.
type GradeService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewGradeService constructs GradeService.
func NewGradeService(st *store.Store, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: st, validator: validate, logger: logger, metrics: metrics}
}

// Capture validates and applies one grade-cell write. Contract violations
// (unknown period, unknown student, subject outside the student's curriculum,
// free text on an advance period) are errors; a closed period or an invalid
// term score is a silent rejection with Applied=false.
func (s *GradeService) Capture(req CaptureGradeRequest) (*CaptureResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid capture payload")
	}
	period, ok := models.FindPeriod(req.Period)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown period")
	}
	var (
		result  CaptureResult
		procErr error
	)
	s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		idx := -1
		for i := range state.Students {
			if state.Students[i].ID == req.StudentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			procErr = appErrors.Clone(appErrors.ErrNotFound, "student not found")
			return state, false
		}
		student := &state.Students[idx]
		if !subjectInGrade(state.Subjects, req.SubjectID, student.Grade) {
			procErr = appErrors.Clone(appErrors.ErrValidation, "subject not in student's grade curriculum")
			return state, false
		}

		// The period gate comes before any value rule, so a deadline
		// closure landing between validation and commit still rejects.
		if !state.Periods[req.Period].Open {
			result.Stored = storedValue(student, req.SubjectID, req.Period)
			return state, false
		}

		if period.Kind == models.PeriodKindAdvance && !validAdvanceValue(req.Value) {
			procErr = appErrors.Clone(appErrors.ErrValidation, "advance periods accept only regular, needs_support, or empty")
			return state, false
		}

		current := storedValue(student, req.SubjectID, req.Period)
		next, accepted := nextCellValue(period.Kind, current, req.Value)
		if !accepted {
			result.Stored = current
			return state, false
		}
		if student.Grades == nil {
			student.Grades = make(map[string]models.PeriodMarks)
		}
		if student.Grades[req.SubjectID] == nil {
			student.Grades[req.SubjectID] = make(models.PeriodMarks)
		}
		if next == "" {
			delete(student.Grades[req.SubjectID], req.Period)
		} else {
			student.Grades[req.SubjectID][req.Period] = next
		}
		student.UpdatedAt = time.Now().UTC()
		result = CaptureResult{Applied: true, Stored: next}
		return state, true
	})
	if procErr != nil {
		return nil, procErr
	}

	s.metrics.ObserveCapture(result.Applied)
	if !result.Applied {
		s.logger.Debug("capture rejected",
			zap.String("student", req.StudentID),
			zap.String("subject", req.SubjectID),
			zap.String("period", string(req.Period)))
	}
	return &result, nil
}

func storedValue(student *models.Student, subjectID string, period models.PeriodID) string {
	if marks, ok := student.Grades[subjectID]; ok {
		return marks[period]
	}
	return ""
}

func subjectInGrade(catalog []models.Subject, subjectID string, grade models.GradeLevel) bool {
	for _, subject := range catalog {
		if subject.ID == subjectID && subject.Grade == grade {
			return true
		}
	}
	return false
}

func validAdvanceValue(value string) bool {
	switch models.AdvanceMark(value) {
	case "", models.AdvanceMarkRegular, models.AdvanceMarkNeedsSupport:
		return true
	default:
		return false
	}
}

// nextCellValue decides the stored representation for an accepted write, or
// rejects. Advance marks toggle: re-submitting the stored mark clears it.
func nextCellValue(kind models.PeriodKind, current, submitted string) (string, bool) {
	if kind == models.PeriodKindAdvance {
		if submitted != "" && submitted == current {
			return "", true
		}
		return submitted, true
	}
	return validateTermScore(submitted)
}

// validateTermScore applies the term-period rules: empty erases, only digits
// are allowed, accepted scores are the integers 5..10 plus the lone "1" a
// user types on the way to "10". The accepted representation is canonical
// integer text.
func validateTermScore(raw string) (string, bool) {
	if raw == "" {
		return "", true
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", false
	}
	if n == 1 && len(raw) == 1 {
		return "1", true
	}
	if n >= 5 && n <= 10 {
		return strconv.Itoa(n), true
	}
	return "", false
}
