package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

// ReplaceScheduleRequest swaps the whole timetable grid at once; the grid is
// a per-cycle document section, replaced wholesale like everything else.
type ReplaceScheduleRequest struct {
	Rows    []models.ScheduleRow   `json:"rows" validate:"dive"`
	Entries []models.ScheduleEntry `json:"entries" validate:"dive"`
}

// CreateCitationRequest records a parent citation.
type CreateCitationRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
}

// CreateMinutaRequest records a supervision-visit log entry.
type CreateMinutaRequest struct {
	Title string    `json:"title" validate:"required"`
	Notes string    `json:"notes"`
	Date  time.Time `json:"date" validate:"required"`
}

// ScheduleView bundles the grid rows with their entries.
type ScheduleView struct {
	Rows    []models.ScheduleRow   `json:"rows"`
	Entries []models.ScheduleEntry `json:"entries"`
}

// SchoolService serves the roster reads and the per-cycle collections
// (schedule, citations, minutas) that promotion later purges.
type SchoolService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService creates a school service.
func NewSchoolService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{store: st, validator: validate, logger: logger}
}

// Cycle returns the current cycle label.
func (s *SchoolService) Cycle() string {
	return s.store.Snapshot().Cycle
}

// ListStudents returns the roster filtered by grade, group, status, and a
// case-insensitive name search.
func (s *SchoolService) ListStudents(filter models.StudentFilter) []models.Student {
	state := s.store.Snapshot()
	out := make([]models.Student, 0, len(state.Students))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, student := range state.Students {
		if filter.Grade != "" && student.Grade != filter.Grade {
			continue
		}
		if filter.Group != "" && student.Group != filter.Group {
			continue
		}
		if filter.Status != "" && student.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(student.FullName), search) {
			continue
		}
		out = append(out, student)
	}
	return out
}

// GetStudent returns one student with their full grade sheet.
func (s *SchoolService) GetStudent(id string) (*models.Student, error) {
	state := s.store.Snapshot()
	for i := range state.Students {
		if state.Students[i].ID == id {
			return &state.Students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// ListSubjects returns the curriculum catalog, optionally for one grade.
func (s *SchoolService) ListSubjects(grade models.GradeLevel) []models.Subject {
	state := s.store.Snapshot()
	if grade == "" {
		return state.Subjects
	}
	return models.SubjectsForGrade(state.Subjects, grade)
}

// Schedule returns the current timetable grid.
func (s *SchoolService) Schedule() *ScheduleView {
	state := s.store.Snapshot()
	return &ScheduleView{Rows: state.ScheduleRows, Entries: state.Schedule}
}

// ReplaceSchedule swaps the timetable grid.
func (s *SchoolService) ReplaceSchedule(req ReplaceScheduleRequest) (*ScheduleView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	rows := req.Rows
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
	}
	next, _ := s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		state.ScheduleRows = rows
		state.Schedule = req.Entries
		return state, true
	})
	return &ScheduleView{Rows: next.ScheduleRows, Entries: next.Schedule}, nil
}

// ListCitations returns all citation records of the current cycle.
func (s *SchoolService) ListCitations() []models.Citation {
	return s.store.Snapshot().Citations
}

// CreateCitation appends a citation record.
func (s *SchoolService) CreateCitation(req CreateCitationRequest, issuedBy string) (*models.Citation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid citation payload")
	}
	citation := models.Citation{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		Reason:    req.Reason,
		Date:      req.Date,
		IssuedBy:  issuedBy,
	}
	var found bool
	s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		for i := range state.Students {
			if state.Students[i].ID == req.StudentID {
				found = true
				break
			}
		}
		if !found {
			return state, false
		}
		state.Citations = append(state.Citations, citation)
		return state, true
	})
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &citation, nil
}

// ListMinutas returns all visit-log entries of the current cycle.
func (s *SchoolService) ListMinutas() []models.Minuta {
	return s.store.Snapshot().Minutas
}

// CreateMinuta appends a visit-log entry.
func (s *SchoolService) CreateMinuta(req CreateMinutaRequest, recordedBy string) (*models.Minuta, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid minuta payload")
	}
	minuta := models.Minuta{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Notes:      req.Notes,
		Date:       req.Date,
		RecordedBy: recordedBy,
	}
	s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		state.Minutas = append(state.Minutas, minuta)
		return state, true
	})
	return &minuta, nil
}
