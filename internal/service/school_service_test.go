package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-mx/secundaria-api/internal/models"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

func TestListStudentsFilters(t *testing.T) {
	svc := NewSchoolService(newTestStore(testState()), nil, nil)

	all := svc.ListStudents(models.StudentFilter{})
	assert.Len(t, all, 2)

	firstGraders := svc.ListStudents(models.StudentFilter{Grade: models.GradeFirst})
	require.Len(t, firstGraders, 1)
	assert.Equal(t, "st-1", firstGraders[0].ID)

	byGroup := svc.ListStudents(models.StudentFilter{Group: "3B"})
	require.Len(t, byGroup, 1)
	assert.Equal(t, "st-2", byGroup[0].ID)

	bySearch := svc.ListStudents(models.StudentFilter{Search: "bruno"})
	require.Len(t, bySearch, 1)
	assert.Equal(t, "st-2", bySearch[0].ID)

	assert.Empty(t, svc.ListStudents(models.StudentFilter{Search: "zzz"}))
}

func TestGetStudent(t *testing.T) {
	svc := NewSchoolService(newTestStore(testState()), nil, nil)

	student, err := svc.GetStudent("st-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Robles", student.FullName)

	_, err = svc.GetStudent("st-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListSubjectsByGrade(t *testing.T) {
	svc := NewSchoolService(newTestStore(testState()), nil, nil)

	all := svc.ListSubjects("")
	firsts := svc.ListSubjects(models.GradeFirst)
	assert.Greater(t, len(all), len(firsts))
	for _, subject := range firsts {
		assert.Equal(t, models.GradeFirst, subject.Grade)
	}
}

func TestReplaceSchedule(t *testing.T) {
	st := newTestStore(testState())
	svc := NewSchoolService(st, nil, nil)

	view, err := svc.ReplaceSchedule(ReplaceScheduleRequest{
		Rows:    []models.ScheduleRow{{Label: "1a hora", Start: "07:00", End: "07:50"}},
		Entries: []models.ScheduleEntry{{Day: 1, Group: "1A", SubjectID: "g1-s01", TeacherID: "u-1"}},
	})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.NotEmpty(t, view.Rows[0].ID)
	assert.Len(t, view.Entries, 1)

	snap := st.Snapshot()
	assert.Len(t, snap.ScheduleRows, 1)
}

func TestCreateCitation(t *testing.T) {
	st := newTestStore(testState())
	svc := NewSchoolService(st, nil, nil)

	citation, err := svc.CreateCitation(CreateCitationRequest{
		StudentID: "st-1",
		Reason:    "inasistencias",
		Date:      time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}, "u-2")
	require.NoError(t, err)
	assert.NotEmpty(t, citation.ID)
	assert.Equal(t, "u-2", citation.IssuedBy)

	require.Len(t, svc.ListCitations(), 1)
}

func TestCreateCitationUnknownStudent(t *testing.T) {
	st := newTestStore(testState())
	svc := NewSchoolService(st, nil, nil)
	before := st.Revision()

	_, err := svc.CreateCitation(CreateCitationRequest{
		StudentID: "st-404",
		Reason:    "inasistencias",
		Date:      time.Now(),
	}, "u-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, before, st.Revision())
}

func TestCreateMinuta(t *testing.T) {
	svc := NewSchoolService(newTestStore(testState()), nil, nil)

	minuta, err := svc.CreateMinuta(CreateMinutaRequest{
		Title: "Visita de supervisión de zona",
		Notes: "Revisión de expedientes",
		Date:  time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC),
	}, "u-2")
	require.NoError(t, err)
	assert.NotEmpty(t, minuta.ID)
	assert.Equal(t, "u-2", minuta.RecordedBy)

	require.Len(t, svc.ListMinutas(), 1)
}
