package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/store"
)

// SnapshotRepository persists the whole school document as a single JSONB
// row. Save replaces the document wholesale; there is no per-field merge.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type snapshotRow struct {
	SchoolID  string    `db:"school_id"`
	Revision  string    `db:"revision"`
	State     []byte    `db:"state"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Load reads the current document for the school. Returns sql.ErrNoRows
// semantics via the underlying driver when no document exists yet.
func (r *SnapshotRepository) Load(ctx context.Context, schoolID string) (*models.SchoolState, error) {
	const query = `SELECT school_id, revision, state, updated_at
        FROM school_snapshots WHERE school_id = $1`
	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, schoolID); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var state models.SchoolState
	if err := json.Unmarshal(row.State, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	state.Revision = row.Revision
	return &state, nil
}

// Save upserts the document, replacing whatever revision was stored before.
func (r *SnapshotRepository) Save(ctx context.Context, schoolID string, state models.SchoolState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	const query = `INSERT INTO school_snapshots (school_id, revision, state, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (school_id)
        DO UPDATE SET revision = EXCLUDED.revision, state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, schoolID, state.Revision, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// ClassifySaveError maps a persistence failure onto the coarse taxonomy the
// UI layer renders. Anything that is not clearly an authorization problem is
// reported as a connection error.
func ClassifySaveError(err error) store.SaveErrorClass {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		if code == "42501" || strings.HasPrefix(code, "28") {
			return store.SaveErrorPermissionDenied
		}
		return store.SaveErrorConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return store.SaveErrorConnection
	}
	return store.SaveErrorConnection
}
