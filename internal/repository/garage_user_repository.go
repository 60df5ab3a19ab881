package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/garagex/garagex/internal/model"
)

// GarageUserRepo provides access to the garage_users table.
type GarageUserRepo struct{ DB *sql.DB }

func NewGarageUserRepo(db *sql.DB) *GarageUserRepo { return &GarageUserRepo{DB: db} }

// FindByUsername fetches a garage user by username, excluding soft-deleted
// rows.  Callers are expected to check IsActive and verify the password.
func (r *GarageUserRepo) FindByUsername(ctx context.Context, username string) (model.GarageUser, error) {
	const q = `SELECT id, garage_id, username, password_hash, display_name, phone, email, role, is_active
	           FROM garage_users
	           WHERE username = ? AND deleted_at IS NULL`
	var u model.GarageUser
	var uname, hash, display, phone, email sql.NullString
	err := r.DB.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.GarageID, &uname, &hash, &display, &phone, &email, &u.Role, &u.IsActive,
	)
	if err == sql.ErrNoRows {
		return model.GarageUser{}, ErrGarageUserNotFound
	}
	if err != nil {
		return model.GarageUser{}, err
	}
	u.Username = nullableString(uname)
	u.PasswordHash = nullableString(hash)
	u.DisplayName = nullableString(display)
	u.Phone = nullableString(phone)
	u.Email = nullableString(email)
	return u, nil
}

// GarageIDTx resolves the garage a user belongs to, inside the caller's
// transaction.  Inactive and soft-deleted users resolve to
// ErrGarageUserNotFound.  Job creation calls this before any write so a
// bad caller never touches the customer or vehicle tables.
func (r *GarageUserRepo) GarageIDTx(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	const q = `SELECT garage_id FROM garage_users
	           WHERE id = ? AND is_active = 1 AND deleted_at IS NULL`
	var garageID string
	err := tx.QueryRowContext(ctx, q, userID).Scan(&garageID)
	if err == sql.ErrNoRows {
		return "", ErrGarageUserNotFound
	}
	if err != nil {
		return "", err
	}
	return garageID, nil
}

// CreateTx inserts a garage user within the caller's transaction and
// returns the generated id.  Used by the admin surface to seed a
// placeholder garage admin when a garage is registered.  A duplicate
// username maps to ErrConflict.
func (r *GarageUserRepo) CreateTx(ctx context.Context, tx *sql.Tx, garageID, username, passwordHash, role string) (string, error) {
	id := uuid.NewString()
	const q = `INSERT INTO garage_users (id, garage_id, username, password_hash, role, is_active)
	           VALUES (?, ?, ?, ?, ?, 1)`
	if _, err := tx.ExecContext(ctx, q, id, garageID, username, passwordHash, role); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return "", ErrConflict
		}
		return "", err
	}
	return id, nil
}

// nullableString converts a sql.NullString into a *string.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
