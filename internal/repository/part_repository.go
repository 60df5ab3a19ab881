package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// PartRepo provides CRUD over the job_parts table.  Parts are independent
// of the status ledger's ordering; the only discipline here is that every
// mutation matches both the part id and the job id, and that multi-row
// adds happen atomically inside one transaction.
type PartRepo struct {
	db *sql.DB
}

// NewPartRepo returns a new PartRepo bound to the given database.
func NewPartRepo(db *sql.DB) *PartRepo { return &PartRepo{db: db} }

// PartInput is one part to insert.  Quantity defaults to 1 when nil.
type PartInput struct {
	Name       string
	Quantity   *int32
	UnitPrice  float64
	TaxPercent *float64
}

// AddMultipleTx inserts all parts for a job in a single statement within
// the provided transaction, so a failure inserts nothing.  Passing an
// empty slice has no effect and returns nil.
func (r *PartRepo) AddMultipleTx(ctx context.Context, tx *sql.Tx, jobID string, parts []PartInput) error {
	if len(parts) == 0 {
		return nil
	}
	query := `INSERT INTO job_parts (id, job_id, name, quantity, unit_price, tax_percent) VALUES `
	args := make([]interface{}, 0, len(parts)*6)
	for i, p := range parts {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		qty := int32(1)
		if p.Quantity != nil {
			qty = *p.Quantity
		}
		args = append(args, uuid.NewString(), jobID, p.Name, qty, p.UnitPrice, p.TaxPercent)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// PartPatch carries the optional fields of a part update.  Only non-nil
// fields change; the COALESCE runs in SQL so the read-modify-write is a
// single statement.
type PartPatch struct {
	Name       *string
	Quantity   *int32
	UnitPrice  *float64
	TaxPercent *float64
}

// Update patches a part addressed by (partID, jobID).  When the pair
// matches no row - the part does not exist, or it belongs to a different
// job - ErrPartNotFound is returned and nothing is written.
func (r *PartRepo) Update(ctx context.Context, jobID, partID string, patch PartPatch) (model.JobPart, error) {
	const q = `UPDATE job_parts
	           SET name = COALESCE(?, name),
	               quantity = COALESCE(?, quantity),
	               unit_price = COALESCE(?, unit_price),
	               tax_percent = COALESCE(?, tax_percent)
	           WHERE id = ? AND job_id = ?`
	if _, err := r.db.ExecContext(ctx, q, patch.Name, patch.Quantity, patch.UnitPrice, patch.TaxPercent, partID, jobID); err != nil {
		return model.JobPart{}, err
	}
	// Read back through the same (id, job_id) pair.  RowsAffected is not a
	// reliable existence signal here: MySQL reports zero when the update
	// was a no-op on an existing row.
	const sel = `SELECT id, job_id, name, quantity, unit_price, tax_percent, created_at
	             FROM job_parts WHERE id = ? AND job_id = ?`
	var p model.JobPart
	var tax sql.NullFloat64
	err := r.db.QueryRowContext(ctx, sel, partID, jobID).Scan(
		&p.ID, &p.JobID, &p.Name, &p.Quantity, &p.UnitPrice, &tax, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.JobPart{}, ErrPartNotFound
	}
	if err != nil {
		return model.JobPart{}, err
	}
	if tax.Valid {
		t := tax.Float64
		p.TaxPercent = &t
	}
	return p, nil
}

// Delete removes exactly the (partID, jobID) row.  Zero rows affected
// means the pair matched nothing and ErrPartNotFound is returned.
func (r *PartRepo) Delete(ctx context.Context, jobID, partID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM job_parts WHERE id = ? AND job_id = ?`, partID, jobID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPartNotFound
	}
	return nil
}

// ListByJob returns all parts for a job ordered by creation time.
func (r *PartRepo) ListByJob(ctx context.Context, jobID string) ([]model.JobPart, error) {
	rows, err := r.db.QueryContext(ctx, partsQuery, jobID)
	if err != nil {
		return nil, err
	}
	return scanParts(rows)
}

// ListByJobTx is ListByJob inside the caller's transaction, used by the
// bulk add so the returned list includes the rows just inserted.
func (r *PartRepo) ListByJobTx(ctx context.Context, tx *sql.Tx, jobID string) ([]model.JobPart, error) {
	rows, err := tx.QueryContext(ctx, partsQuery, jobID)
	if err != nil {
		return nil, err
	}
	return scanParts(rows)
}

const partsQuery = `SELECT id, job_id, name, quantity, unit_price, tax_percent, created_at
                    FROM job_parts
                    WHERE job_id = ?
                    ORDER BY created_at ASC`

func scanParts(rows *sql.Rows) ([]model.JobPart, error) {
	defer rows.Close()
	parts := make([]model.JobPart, 0)
	for rows.Next() {
		var p model.JobPart
		var tax sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.JobID, &p.Name, &p.Quantity, &p.UnitPrice, &tax, &p.CreatedAt); err != nil {
			return nil, err
		}
		if tax.Valid {
			t := tax.Float64
			p.TaxPercent = &t
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}
