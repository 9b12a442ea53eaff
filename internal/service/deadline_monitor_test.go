package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func mexicoCity(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return loc
}

func TestSweepClosesExpiredPeriods(t *testing.T) {
	loc := mexicoCity(t)
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, loc)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	state := testState()
	state.Periods[models.PeriodAdvance1] = models.PeriodState{Open: true, Deadline: &past}
	state.Periods[models.PeriodTerm1] = models.PeriodState{Open: true, Deadline: &future}
	st := store.New(state, nil, nil)

	monitor := NewDeadlineMonitor(st, &fakeClock{now: now}, time.Second, nil, nil)
	closed := monitor.Sweep()

	assert.Equal(t, 1, closed)
	snap := st.Snapshot()
	assert.False(t, snap.Periods[models.PeriodAdvance1].Open)
	assert.Nil(t, snap.Periods[models.PeriodAdvance1].Deadline)
	assert.True(t, snap.Periods[models.PeriodTerm1].Open)
	require.NotNil(t, snap.Periods[models.PeriodTerm1].Deadline)
}

func TestSweepClosesAtExactDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, mexicoCity(t))

	state := testState()
	state.Periods[models.PeriodAdvance1] = models.PeriodState{Open: true, Deadline: &now}
	st := store.New(state, nil, nil)

	monitor := NewDeadlineMonitor(st, &fakeClock{now: now}, time.Second, nil, nil)
	assert.Equal(t, 1, monitor.Sweep())
}

func TestIdleSweepWritesNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, mexicoCity(t))
	future := now.Add(time.Hour)

	state := testState()
	state.Periods[models.PeriodAdvance1] = models.PeriodState{Open: true, Deadline: &future}

	var commits int
	st := store.New(state, func(models.SchoolState) { commits++ }, nil)
	before := st.Revision()

	monitor := NewDeadlineMonitor(st, &fakeClock{now: now}, time.Second, nil, nil)
	assert.Zero(t, monitor.Sweep())
	assert.Equal(t, before, st.Revision())
	assert.Zero(t, commits)
}

func TestSweepIgnoresClosedPeriodsWithDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, mexicoCity(t))
	past := now.Add(-time.Hour)

	state := testState()
	state.Periods[models.PeriodTerm2] = models.PeriodState{Open: false, Deadline: &past}
	st := store.New(state, nil, nil)

	monitor := NewDeadlineMonitor(st, &fakeClock{now: now}, time.Second, nil, nil)
	assert.Zero(t, monitor.Sweep())
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, mexicoCity(t))
	past := now.Add(-time.Minute)

	state := testState()
	state.Periods[models.PeriodAdvance1] = models.PeriodState{Open: true, Deadline: &past}
	st := store.New(state, nil, nil)

	monitor := NewDeadlineMonitor(st, &fakeClock{now: now}, time.Second, nil, nil)
	assert.Equal(t, 1, monitor.Sweep())
	assert.Zero(t, monitor.Sweep())
}
