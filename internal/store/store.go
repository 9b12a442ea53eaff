// Package store holds the single in-memory school document. Every mutation
// is a functional update producing a fresh immutable snapshot, making the
// absence of transactional isolation an explicit contract: readers always
// see a complete document, writers replace it wholesale, and the last write
// wins.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/escolar-mx/secundaria-api/internal/models"
)

// SaveErrorClass is the coarse classification surfaced when a persistence
// commit fails. The in-memory mutation is never rolled back.
type SaveErrorClass string

const (
	SaveErrorPermissionDenied SaveErrorClass = "permission-denied"
	SaveErrorConnection       SaveErrorClass = "connection-error"
)

// Committer receives every committed snapshot, fire-and-forget. It is
// invoked with the store lock held and must only enqueue, never block.
type Committer func(models.SchoolState)

// Store is the state container shared by every core component.
type Store struct {
	mu     sync.RWMutex
	state  models.SchoolState
	commit Committer
	logger *zap.Logger
}

// New wraps the initial snapshot. The committer may be nil (tests).
func New(initial models.SchoolState, commit Committer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initial.Revision == "" {
		initial.Revision = uuid.NewString()
	}
	return &Store{
		state:  initial,
		commit: commit,
		logger: logger,
	}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.SchoolState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Revision returns the current document revision without copying.
func (s *Store) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Revision
}

// Update applies a pure mutation to a copy of the current document. The
// mutation returns the next document and whether anything changed; when it
// reports false, nothing is committed and no persistence write occurs. The
// final snapshot and the applied flag are returned.
func (s *Store) Update(mutate func(models.SchoolState) (models.SchoolState, bool)) (models.SchoolState, bool) {
	s.mu.Lock()
	next, applied := mutate(s.state.Clone())
	if !applied {
		current := s.state.Clone()
		s.mu.Unlock()
		return current, false
	}
	next.Revision = uuid.NewString()
	next.UpdatedAt = time.Now().UTC()
	s.state = next
	committed := next.Clone()

	// Hand the snapshot to the committer before releasing the lock so
	// persistence sees snapshots in mutation order. The committer only
	// enqueues, it performs no I/O.
	if s.commit != nil {
		s.commit(committed)
	}
	s.mu.Unlock()
	return committed, true
}

// Replace adopts a snapshot that arrived from the shared remote store. It is
// not re-persisted; the remote copy is already authoritative.
func (s *Store) Replace(state models.SchoolState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.logger.Debug("snapshot replaced from remote", zap.String("revision", state.Revision))
}
