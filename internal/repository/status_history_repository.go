package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// StatusHistoryRepo provides access to the append-only job_status_history
// ledger.  Entries are never updated or deleted; the sequence of
// from_status values read in creation order chains exactly onto the
// previous entry's to_status.  That invariant is enforced by the job-row
// lock the caller takes before appending, not by this repository.
type StatusHistoryRepo struct {
	db *sql.DB
}

// NewStatusHistoryRepo returns a new StatusHistoryRepo bound to the given
// database.
func NewStatusHistoryRepo(db *sql.DB) *StatusHistoryRepo { return &StatusHistoryRepo{db: db} }

// AppendTx writes one ledger entry within the caller's transaction.
// fromStatus is nil only for the creation entry.
func (r *StatusHistoryRepo) AppendTx(ctx context.Context, tx *sql.Tx, jobID string, fromStatus *string, toStatus string, note *string) error {
	const q = `INSERT INTO job_status_history (id, job_id, from_status, to_status, note)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, uuid.NewString(), jobID, fromStatus, toStatus, note)
	return err
}

// ListByJobTx returns the full ordered history for a job within the
// caller's transaction.  Transitions return this so the caller sees the
// ledger state that includes its own append.
func (r *StatusHistoryRepo) ListByJobTx(ctx context.Context, tx *sql.Tx, jobID string) ([]model.JobStatusHistory, error) {
	rows, err := tx.QueryContext(ctx, historyQuery, jobID)
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

// ListByJob returns the full ordered history for a job outside of any
// transaction, for the details view.
func (r *StatusHistoryRepo) ListByJob(ctx context.Context, jobID string) ([]model.JobStatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, historyQuery, jobID)
	if err != nil {
		return nil, err
	}
	return scanHistory(rows)
}

const historyQuery = `SELECT id, job_id, from_status, to_status, note, created_at
                      FROM job_status_history
                      WHERE job_id = ?
                      ORDER BY created_at ASC`

func scanHistory(rows *sql.Rows) ([]model.JobStatusHistory, error) {
	defer rows.Close()
	entries := make([]model.JobStatusHistory, 0)
	for rows.Next() {
		var e model.JobStatusHistory
		var fromStatus, note sql.NullString
		if err := rows.Scan(&e.ID, &e.JobID, &fromStatus, &e.ToStatus, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.FromStatus = nullableString(fromStatus)
		e.Note = nullableString(note)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
