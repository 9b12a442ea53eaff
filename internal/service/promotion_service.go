package service

import (
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
)

var cycleLabelPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// PromotionService performs the end-of-cycle transaction: advance or
// graduate every student, clear staff assignments, purge per-cycle
// collections, and reset the period configuration. The precondition is
// recomputed against the live document inside the same update that commits
// the mutation, so the confirmation screen can never act on stale data.
type PromotionService struct {
	store        *store.Store
	logger       *zap.Logger
	metrics      *MetricsService
	defaultCycle string
}

// NewPromotionService creates a promotion service. defaultCycle is the
// fallback label used when the current one does not parse.
func NewPromotionService(st *store.Store, logger *zap.Logger, metrics *MetricsService, defaultCycle string) *PromotionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionService{store: st, logger: logger, metrics: metrics, defaultCycle: defaultCycle}
}

// Preview reports whether promotion would currently be allowed and the
// counts it would produce. Purely informational; Promote re-checks.
func (s *PromotionService) Preview() *models.PromotionPreview {
	state := s.store.Snapshot()
	ok, reason := canPromote(state)
	advance, graduate, unchanged := promotionCounts(state)
	return &models.PromotionPreview{
		Allowed:       ok,
		Reason:        reason,
		WouldAdvance:  advance,
		WouldGraduate: graduate,
		Unchanged:     unchanged,
		NextCycle:     nextCycleLabel(state.Cycle, s.defaultCycle),
	}
}

// Promote runs the promotion transaction. On a failed precondition nothing
// is mutated and a descriptive refusal is returned.
func (s *PromotionService) Promote() (*models.CyclePromotionResult, error) {
	var (
		result  models.CyclePromotionResult
		refusal string
	)
	s.store.Update(func(state models.SchoolState) (models.SchoolState, bool) {
		if ok, reason := canPromote(state); !ok {
			refusal = reason
			return state, false
		}

		originCycle := state.Cycle
		for i := range state.Students {
			student := &state.Students[i]
			if student.Status == models.StudentStatusDropped || student.Status == models.StudentStatusGraduated {
				result.Unchanged++
				continue
			}
			if next, ok := student.Grade.Next(); ok {
				student.Grade = next
				student.Grades = models.EmptyGradeSheet(models.SubjectsForGrade(state.Subjects, next))
				result.Advanced++
			} else {
				student.Status = models.StudentStatusGraduated
				student.Grade = models.GradeGraduated
				student.Group = fmt.Sprintf("Gen. %s", originCycle)
				// Grade cells stay: the sheet becomes a permanent transcript.
				result.Graduated++
			}
		}

		for i := range state.Users {
			if state.Users[i].Role.CarriesAssignments() {
				state.Users[i].Assignments = nil
			}
		}

		state.Schedule = nil
		state.ScheduleRows = nil
		state.Citations = nil
		state.Minutas = nil

		state.Periods = models.InitialPeriodStates()
		state.Cycle = nextCycleLabel(originCycle, s.defaultCycle)
		result.NextCycle = state.Cycle
		return state, true
	})

	if refusal != "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, refusal)
	}

	s.metrics.ObservePromotion()
	s.logger.Info("cycle promoted",
		zap.Int("advanced", result.Advanced),
		zap.Int("graduated", result.Graduated),
		zap.Int("unchanged", result.Unchanged),
		zap.String("next_cycle", result.NextCycle))
	return &result, nil
}

// canPromote checks that every active student has a final-term score in
// every non-hidden subject of their grade level.
func canPromote(state models.SchoolState) (bool, string) {
	for _, student := range state.Students {
		if student.Status == models.StudentStatusDropped || student.Status == models.StudentStatusGraduated {
			continue
		}
		for _, subject := range models.SubjectsForGrade(state.Subjects, student.Grade) {
			if subject.Hidden {
				continue
			}
			if student.Grades[subject.ID][models.FinalTermPeriod] == "" {
				return false, fmt.Sprintf("%s is missing the final term score for %s", student.FullName, subject.Name)
			}
		}
	}
	return true, ""
}

func promotionCounts(state models.SchoolState) (advance, graduate, unchanged int) {
	for _, student := range state.Students {
		switch {
		case student.Status == models.StudentStatusDropped || student.Status == models.StudentStatusGraduated:
			unchanged++
		case student.Grade == models.GradeThird:
			graduate++
		default:
			advance++
		}
	}
	return advance, graduate, unchanged
}

// nextCycleLabel increments both years of a "YYYY-YYYY" label. A label that
// does not match the pattern falls back to the default rather than failing
// the surrounding transaction.
func nextCycleLabel(current, fallback string) string {
	m := cycleLabelPattern.FindStringSubmatch(current)
	if m == nil {
		return fallback
	}
	from, _ := strconv.Atoi(m[1])
	to, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%d-%d", from+1, to+1)
}
