package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

// testState builds a small two-student document used across service tests.
func testState() models.SchoolState {
	state := models.DefaultSchoolState("2025-2026")
	state.Students = []models.Student{
		{ID: "st-1", FullName: "Ana Robles", Grade: models.GradeFirst, Group: "1A", Status: models.StudentStatusActive, Grades: models.EmptyGradeSheet(models.SubjectsForGrade(state.Subjects, models.GradeFirst))},
		{ID: "st-2", FullName: "Bruno Paz", Grade: models.GradeThird, Group: "3B", Status: models.StudentStatusActive, Grades: models.EmptyGradeSheet(models.SubjectsForGrade(state.Subjects, models.GradeThird))},
	}
	state.Users = []models.User{
		{ID: "u-1", Email: "maestra@example.com", FullName: "Prof. Díaz", Role: models.RoleTeacher, Active: true, Assignments: []models.Assignment{{SubjectID: "g1-s01", Group: "1A"}}},
		{ID: "u-2", Email: "admin@example.com", FullName: "Dirección", Role: models.RoleDirector, Active: true},
	}
	return state
}

func newTestStore(state models.SchoolState) *store.Store {
	return store.New(state, nil, nil)
}

func TestPeriodListFollowsRegistryOrder(t *testing.T) {
	svc := NewPeriodService(newTestStore(testState()), nil)

	views := svc.List()
	require.Len(t, views, 6)
	assert.Equal(t, models.PeriodAdvance1, views[0].Period.ID)
	assert.True(t, views[0].State.Open)
	for _, v := range views[1:] {
		assert.False(t, v.State.Open, "period %s", v.Period.ID)
	}
}

func TestPeriodOpenAndClose(t *testing.T) {
	st := newTestStore(testState())
	svc := NewPeriodService(st, nil)

	state, err := svc.Open(models.PeriodTerm1)
	require.NoError(t, err)
	assert.True(t, state.Open)

	state, err = svc.Close(models.PeriodTerm1)
	require.NoError(t, err)
	assert.False(t, state.Open)
}

func TestPeriodOpenIsIdempotent(t *testing.T) {
	st := newTestStore(testState())
	svc := NewPeriodService(st, nil)
	before := st.Revision()

	state, err := svc.Open(models.PeriodAdvance1)
	require.NoError(t, err)
	assert.True(t, state.Open)
	assert.Equal(t, before, st.Revision())
}

func TestPeriodCloseDropsDeadline(t *testing.T) {
	st := newTestStore(testState())
	svc := NewPeriodService(st, nil)

	_, err := svc.SetDeadline(models.PeriodAdvance1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	state, err := svc.Close(models.PeriodAdvance1)
	require.NoError(t, err)
	assert.False(t, state.Open)
	assert.Nil(t, state.Deadline)
}

func TestSetDeadlineRefusedOnClosedPeriod(t *testing.T) {
	svc := NewPeriodService(newTestStore(testState()), nil)

	_, err := svc.SetDeadline(models.PeriodTerm3, time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPeriodClosed.Code, appErrors.FromError(err).Code)
}

func TestClearDeadlineRefusedOnClosedPeriod(t *testing.T) {
	svc := NewPeriodService(newTestStore(testState()), nil)

	_, err := svc.ClearDeadline(models.PeriodTerm3)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPeriodClosed.Code, appErrors.FromError(err).Code)
}

func TestPeriodUnknownIDRejected(t *testing.T) {
	svc := NewPeriodService(newTestStore(testState()), nil)

	_, err := svc.Open("semester_1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
