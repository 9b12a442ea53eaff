package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPeriodsOrder(t *testing.T) {
	all := AllPeriods()
	require.Len(t, all, 6)

	want := []PeriodID{PeriodAdvance1, PeriodTerm1, PeriodAdvance2, PeriodTerm2, PeriodAdvance3, PeriodTerm3}
	for i, p := range all {
		assert.Equal(t, want[i], p.ID)
		assert.Equal(t, i/2+1, p.Ordinal)
	}

	assert.Equal(t, PeriodKindAdvance, all[0].Kind)
	assert.Equal(t, PeriodKindTerm, all[1].Kind)
	assert.Equal(t, FinalTermPeriod, all[5].ID)
}

func TestFindPeriod(t *testing.T) {
	p, ok := FindPeriod(PeriodTerm2)
	require.True(t, ok)
	assert.Equal(t, PeriodKindTerm, p.Kind)

	_, ok = FindPeriod("term_9")
	assert.False(t, ok)
}

func TestInitialPeriodStates(t *testing.T) {
	states := InitialPeriodStates()
	require.Len(t, states, 6)

	for id, state := range states {
		assert.Equal(t, id == PeriodAdvance1, state.Open, "period %s", id)
		assert.Nil(t, state.Deadline)
	}
}

func TestPeriodStateMapCloneIsIndependent(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	original := PeriodStateMap{
		PeriodTerm1: {Open: true, Deadline: &deadline},
	}

	clone := original.Clone()
	*clone[PeriodTerm1].Deadline = deadline.Add(time.Hour)
	clone[PeriodTerm2] = PeriodState{Open: true}

	assert.Equal(t, deadline, *original[PeriodTerm1].Deadline)
	_, exists := original[PeriodTerm2]
	assert.False(t, exists)
}
