package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// GarageRepo provides access to the garages directory managed by the
// admin surface.  Garages are soft-deleted; deleted rows are excluded
// from every read.  The metadata column is an opaque JSON object stored
// and returned without validation.
type GarageRepo struct {
	db *sql.DB
}

// NewGarageRepo returns a new GarageRepo bound to the given database.
func NewGarageRepo(db *sql.DB) *GarageRepo { return &GarageRepo{db: db} }

// DB exposes the underlying handle for transactional callers.
func (r *GarageRepo) DB() *sql.DB { return r.db }

const garageColumns = `id, name, address, phone, email, metadata, created_at, updated_at`

// List returns live garages newest first, optionally filtered by a
// substring match over name and address.
func (r *GarageRepo) List(ctx context.Context, q *string, limit int64) ([]model.Garage, error) {
	var rows *sql.Rows
	var err error
	if q != nil && *q != "" {
		like := "%" + *q + "%"
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+garageColumns+` FROM garages
			 WHERE (name LIKE ? OR address LIKE ?) AND deleted_at IS NULL
			 ORDER BY created_at DESC
			 LIMIT ?`, like, like, limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+garageColumns+` FROM garages
			 WHERE deleted_at IS NULL
			 ORDER BY created_at DESC
			 LIMIT ?`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	garages := make([]model.Garage, 0)
	for rows.Next() {
		g, err := scanGarage(rows.Scan)
		if err != nil {
			return nil, err
		}
		garages = append(garages, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return garages, nil
}

// GetByID returns a live garage or ErrGarageNotFound.
func (r *GarageRepo) GetByID(ctx context.Context, id string) (model.Garage, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+garageColumns+` FROM garages WHERE id = ? AND deleted_at IS NULL`, id)
	g, err := scanGarage(row.Scan)
	if err == sql.ErrNoRows {
		return model.Garage{}, ErrGarageNotFound
	}
	return g, err
}

// NewGarage carries the fields accepted when registering a garage.
type NewGarage struct {
	Name     string
	Address  *string
	Phone    *string
	Email    *string
	Metadata map[string]any
}

// CreateTx inserts a garage within the caller's transaction and returns
// the stored row.  The caller pairs this with GarageUserRepo.CreateTx so
// the garage and its placeholder admin appear atomically.
func (r *GarageRepo) CreateTx(ctx context.Context, tx *sql.Tx, in NewGarage) (model.Garage, error) {
	id := uuid.NewString()
	var metaJSON interface{}
	if in.Metadata != nil {
		bs, err := json.Marshal(in.Metadata)
		if err != nil {
			return model.Garage{}, err
		}
		metaJSON = bs
	}
	const ins = `INSERT INTO garages (id, name, address, phone, email, metadata)
	             VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, id, in.Name, in.Address, in.Phone, in.Email, metaJSON); err != nil {
		return model.Garage{}, err
	}
	row := tx.QueryRowContext(ctx,
		`SELECT `+garageColumns+` FROM garages WHERE id = ?`, id)
	return scanGarage(row.Scan)
}

// SoftDelete marks a live garage as deleted and returns the row as it was
// before deletion.  Already-deleted and unknown ids both resolve to
// ErrGarageNotFound.
func (r *GarageRepo) SoftDelete(ctx context.Context, id string) (model.Garage, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Garage{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE garages SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return model.Garage{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Garage{}, err
	}
	if n == 0 {
		// Lost a race with a concurrent delete.
		return model.Garage{}, ErrGarageNotFound
	}
	return g, nil
}

// scanGarage reads one garages row through the provided scan function so
// it works for both sql.Row and sql.Rows.
func scanGarage(scan func(dest ...any) error) (model.Garage, error) {
	var g model.Garage
	var address, phone, email sql.NullString
	var meta []byte
	var updatedAt sql.NullTime
	if err := scan(&g.ID, &g.Name, &address, &phone, &email, &meta, &g.CreatedAt, &updatedAt); err != nil {
		return model.Garage{}, err
	}
	g.Address = nullableString(address)
	g.Phone = nullableString(phone)
	g.Email = nullableString(email)
	if updatedAt.Valid {
		t := updatedAt.Time
		g.UpdatedAt = &t
	}
	if len(meta) > 0 {
		var m map[string]any
		if err := json.Unmarshal(meta, &m); err == nil {
			g.Metadata = m
		}
	}
	return g, nil
}
