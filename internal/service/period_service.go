package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

// PeriodService drives the user-facing side of the period state machine:
// explicit open/close toggles and deadline assignment. Automatic closure
// belongs to the DeadlineMonitor.
type PeriodService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPeriodService creates a period service.
func NewPeriodService(st *store.Store, logger *zap.Logger) *PeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{store: st, logger: logger}
}

// List joins the compile-time registry with live state, in registry order.
func (s *PeriodService) List() []models.PeriodView {
	state := s.store.Snapshot()
	views := make([]models.PeriodView, 0, 6)
	for _, p := range models.AllPeriods() {
		views = append(views, models.PeriodView{Period: p, State: state.Periods[p.ID]})
	}
	return views
}

// Open transitions a period to open. Opening an open period is a no-op.
func (s *PeriodService) Open(id models.PeriodID) (models.PeriodState, error) {
	return s.setOpen(id, true)
}

// Close transitions a period to closed, dropping any pending deadline.
func (s *PeriodService) Close(id models.PeriodID) (models.PeriodState, error) {
	return s.setOpen(id, false)
}

func (s *PeriodService) setOpen(id models.PeriodID, open bool) (models.PeriodState, error) {
	if _, ok := models.FindPeriod(id); !ok {
		return models.PeriodState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown period")
	}

	next, applied := s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		current := state.Periods[id]
		if current.Open == open {
			return state, false
		}
		current.Open = open
		if !open {
			current.Deadline = nil
		}
		state.Periods[id] = current
		return state, true
	})
	if applied {
		s.logger.Info("period toggled", zap.String("period", string(id)), zap.Bool("open", open))
	}
	return next.Periods[id], nil
}

// SetDeadline assigns a closure deadline. Permitted only while the period is
// open; it does not itself change the open state.
func (s *PeriodService) SetDeadline(id models.PeriodID, deadline time.Time) (models.PeriodState, error) {
	if _, ok := models.FindPeriod(id); !ok {
		return models.PeriodState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown period")
	}

	var refused bool
	next, _ := s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		current := state.Periods[id]
		if !current.Open {
			refused = true
			return state, false
		}
		d := deadline
		current.Deadline = &d
		state.Periods[id] = current
		return state, true
	})
	if refused {
		return models.PeriodState{}, appErrors.Clone(appErrors.ErrPeriodClosed, "deadline can only be set on an open period")
	}
	return next.Periods[id], nil
}

// ClearDeadline removes a pending deadline from an open period.
func (s *PeriodService) ClearDeadline(id models.PeriodID) (models.PeriodState, error) {
	if _, ok := models.FindPeriod(id); !ok {
		return models.PeriodState{}, appErrors.Clone(appErrors.ErrNotFound, "unknown period")
	}

	var refused bool
	next, _ := s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		current := state.Periods[id]
		if !current.Open {
			refused = true
			return state, false
		}
		if current.Deadline == nil {
			return state, false
		}
		current.Deadline = nil
		state.Periods[id] = current
		return state, true
	})
	if refused {
		return models.PeriodState{}, appErrors.Clone(appErrors.ErrPeriodClosed, "deadline can only be cleared on an open period")
	}
	return next.Periods[id], nil
}
