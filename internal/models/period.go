package models

import "time"

// PeriodKind distinguishes the two evaluation modes of the school year.
// Advance periods capture a qualitative progress mark, term periods a
// numeric score.
type PeriodKind string

const (
	PeriodKindAdvance PeriodKind = "advance"
	PeriodKindTerm    PeriodKind = "term"
)

// PeriodID identifies one of the six fixed evaluation periods.
type PeriodID string

const (
	PeriodAdvance1 PeriodID = "advance_1"
	PeriodTerm1    PeriodID = "term_1"
	PeriodAdvance2 PeriodID = "advance_2"
	PeriodTerm2    PeriodID = "term_2"
	PeriodAdvance3 PeriodID = "advance_3"
	PeriodTerm3    PeriodID = "term_3"
)

// FinalTermPeriod is the period whose scores gate cycle promotion.
const FinalTermPeriod = PeriodTerm3

// Period is a registry entry. The registry is compile-time fixed; only the
// per-period state (open flag, deadline) lives in the school document.
type Period struct {
	ID      PeriodID   `json:"id"`
	Kind    PeriodKind `json:"kind"`
	Name    string     `json:"name"`
	Ordinal int        `json:"ordinal"` // trimester the period belongs to, 1..3
}

// periods is the canonical school-year sequence: one (advance, term) pair
// per trimester. Order matters; listings follow it.
var periods = []Period{
	{ID: PeriodAdvance1, Kind: PeriodKindAdvance, Name: "Avance 1er trimestre", Ordinal: 1},
	{ID: PeriodTerm1, Kind: PeriodKindTerm, Name: "Calificaciones 1er trimestre", Ordinal: 1},
	{ID: PeriodAdvance2, Kind: PeriodKindAdvance, Name: "Avance 2do trimestre", Ordinal: 2},
	{ID: PeriodTerm2, Kind: PeriodKindTerm, Name: "Calificaciones 2do trimestre", Ordinal: 2},
	{ID: PeriodAdvance3, Kind: PeriodKindAdvance, Name: "Avance 3er trimestre", Ordinal: 3},
	{ID: PeriodTerm3, Kind: PeriodKindTerm, Name: "Calificaciones 3er trimestre", Ordinal: 3},
}

// AllPeriods returns the registry in school-year order.
func AllPeriods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}

// FindPeriod looks up a registry entry by ID.
func FindPeriod(id PeriodID) (Period, bool) {
	for _, p := range periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// PeriodState is the mutable per-period capture state. A nil Deadline means
// the period stays as it is until toggled by hand.
type PeriodState struct {
	Open     bool       `json:"open"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// PeriodStateMap holds the state of all six periods keyed by ID.
type PeriodStateMap map[PeriodID]PeriodState

// Clone deep-copies the map including deadline pointers.
func (m PeriodStateMap) Clone() PeriodStateMap {
	out := make(PeriodStateMap, len(m))
	for id, state := range m {
		if state.Deadline != nil {
			d := *state.Deadline
			state.Deadline = &d
		}
		out[id] = state
	}
	return out
}

// InitialPeriodStates is the start-of-cycle configuration: the first advance
// period open, everything else closed.
func InitialPeriodStates() PeriodStateMap {
	out := make(PeriodStateMap, len(periods))
	for _, p := range periods {
		out[p.ID] = PeriodState{Open: p.ID == PeriodAdvance1}
	}
	return out
}

// PeriodView joins a registry entry with its live state for listings.
type PeriodView struct {
	Period Period      `json:"period"`
	State  PeriodState `json:"state"`
}
