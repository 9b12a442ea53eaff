package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-mx/secundaria-api/internal/models"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

func openPeriod(t *testing.T, svc *PeriodService, id models.PeriodID) {
	t.Helper()
	_, err := svc.Open(id)
	require.NoError(t, err)
}

func TestCaptureTermScoreAcceptance(t *testing.T) {
	cases := []struct {
		value   string
		applied bool
		stored  string
	}{
		{"", true, ""},
		{"1", true, "1"},
		{"5", true, "5"},
		{"8", true, "8"},
		{"10", true, "10"},
		{"05", true, "5"},
		{"0", false, ""},
		{"2", false, ""},
		{"4", false, ""},
		{"11", false, ""},
		{"100", false, ""},
		{"8.5", false, ""},
		{"-5", false, ""},
		{"ocho", false, ""},
		{" 8", false, ""},
	}

	for _, tc := range cases {
		t.Run("value "+tc.value, func(t *testing.T) {
			st := newTestStore(testState())
			openPeriod(t, NewPeriodService(st, nil), models.PeriodTerm1)
			svc := NewGradeService(st, nil, nil, nil)

			result, err := svc.Capture(CaptureGradeRequest{
				StudentID: "st-1",
				SubjectID: "g1-s01",
				Period:    models.PeriodTerm1,
				Value:     tc.value,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.applied, result.Applied)
			assert.Equal(t, tc.stored, result.Stored)
		})
	}
}

func TestCaptureRejectedOnClosedPeriod(t *testing.T) {
	st := newTestStore(testState())
	svc := NewGradeService(st, nil, nil, nil)

	result, err := svc.Capture(CaptureGradeRequest{
		StudentID: "st-1",
		SubjectID: "g1-s01",
		Period:    models.PeriodTerm1,
		Value:     "8",
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Empty(t, result.Stored)

	snap := st.Snapshot()
	assert.Empty(t, snap.Students[0].Grades["g1-s01"][models.PeriodTerm1])
}

func TestCaptureRejectionPreservesStoredValue(t *testing.T) {
	st := newTestStore(testState())
	openPeriod(t, NewPeriodService(st, nil), models.PeriodTerm1)
	svc := NewGradeService(st, nil, nil, nil)

	result, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: "9"})
	require.NoError(t, err)
	require.True(t, result.Applied)

	result, err = svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: "42"})
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, "9", result.Stored)
}

func TestCaptureLoneOneThenTen(t *testing.T) {
	st := newTestStore(testState())
	openPeriod(t, NewPeriodService(st, nil), models.PeriodTerm1)
	svc := NewGradeService(st, nil, nil, nil)

	result, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: "1"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, "1", result.Stored)

	result, err = svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: "10"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, "10", result.Stored)
}

func TestCaptureEmptyErasesScore(t *testing.T) {
	st := newTestStore(testState())
	openPeriod(t, NewPeriodService(st, nil), models.PeriodTerm1)
	svc := NewGradeService(st, nil, nil, nil)

	_, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: "7"})
	require.NoError(t, err)

	result, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodTerm1, Value: ""})
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Empty(t, result.Stored)

	snap := st.Snapshot()
	_, exists := snap.Students[0].Grades["g1-s01"][models.PeriodTerm1]
	assert.False(t, exists)
}

func TestCaptureAdvanceToggle(t *testing.T) {
	st := newTestStore(testState())
	svc := NewGradeService(st, nil, nil, nil)

	result, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "regular"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, "regular", result.Stored)

	// Re-submitting the stored mark clears the cell.
	result, err = svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "regular"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Empty(t, result.Stored)

	result, err = svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "needs_support"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, "needs_support", result.Stored)

	result, err = svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "regular"})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assert.Equal(t, "regular", result.Stored)
}

func TestCaptureAdvanceRejectsFreeText(t *testing.T) {
	svc := NewGradeService(newTestStore(testState()), nil, nil, nil)

	_, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "excelente"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCaptureClosedPeriodWinsOverValueRules(t *testing.T) {
	st := newTestStore(testState())
	_, err := NewPeriodService(st, nil).Close(models.PeriodAdvance1)
	require.NoError(t, err)
	svc := NewGradeService(st, nil, nil, nil)

	// The closed-period gate is checked first, so even free text is a
	// silent rejection here rather than an error.
	result, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "excelente"})
	require.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestCaptureUnknownPeriod(t *testing.T) {
	svc := NewGradeService(newTestStore(testState()), nil, nil, nil)

	_, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g1-s01", Period: "bimester_1", Value: "8"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCaptureUnknownStudent(t *testing.T) {
	svc := NewGradeService(newTestStore(testState()), nil, nil, nil)

	_, err := svc.Capture(CaptureGradeRequest{StudentID: "st-404", SubjectID: "g1-s01", Period: models.PeriodAdvance1, Value: "regular"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCaptureSubjectOutsideCurriculum(t *testing.T) {
	st := newTestStore(testState())
	openPeriod(t, NewPeriodService(st, nil), models.PeriodTerm1)
	svc := NewGradeService(st, nil, nil, nil)

	// g3-s01 belongs to third grade; st-1 is a first grader.
	_, err := svc.Capture(CaptureGradeRequest{StudentID: "st-1", SubjectID: "g3-s01", Period: models.PeriodTerm1, Value: "8"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
